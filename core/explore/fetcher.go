package explore

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/institution"
)

// Statuses
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

type Status int

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Querier runs searches against the institution store.
type Querier interface {
	Search(ctx context.Context, fs institution.FilterState) ([]institution.Summary, error)
}

// State is a snapshot of a Fetcher. Results is only set in StatusSuccess and Message only in StatusError.
type State struct {
	Status  Status
	Filter  institution.FilterState
	Seq     uint64 // request the state belongs to
	Results []institution.Summary
	Message string
}

// Fetcher runs a search whenever its FilterState changes.
// Each search gets an increasing sequence number; a result is only accepted when its
// number is still the latest one issued, so the last request wins whatever the arrival order.
type Fetcher struct {
	querier  Querier
	onChange func(State)

	mu    sync.Mutex
	seq   uint64
	state State
	wg    sync.WaitGroup
}

// NewFetcher returns an idle Fetcher. onChange, when set, is called with every accepted
// state, in order, while the Fetcher is locked: it must not call back into the Fetcher.
func NewFetcher(q Querier, onChange func(State)) *Fetcher {
	return &Fetcher{querier: q, onChange: onChange}
}

// Update starts a search for fs unless fs equals the current filter (and a search already ran).
// It returns the sequence number of the search in effect.
func (f *Fetcher) Update(ctx context.Context, fs institution.FilterState) uint64 {
	fs = fs.Canonical()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Status != StatusIdle && f.state.Filter.Equal(fs) {
		return f.seq
	}
	return f.start(ctx, fs)
}

// Reload searches the current filter again.
func (f *Fetcher) Reload(ctx context.Context) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.start(ctx, f.state.Filter)
}

func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Wait blocks until every started search has resolved.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

// start must be called with f.mu held.
func (f *Fetcher) start(ctx context.Context, fs institution.FilterState) uint64 {
	f.seq++
	seq := f.seq
	f.set(State{Status: StatusLoading, Filter: fs, Seq: seq})

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		results, err := f.querier.Search(ctx, fs)
		f.resolve(seq, fs, results, err)
	}()
	return seq
}

// resolve records the outcome of search seq, unless a newer search has started since.
func (f *Fetcher) resolve(seq uint64, fs institution.FilterState, results []institution.Summary, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		return false
	}
	if err != nil {
		f.set(State{Status: StatusError, Filter: fs, Seq: seq, Message: errors.Cause(err).Error()})
		return true
	}
	if results == nil {
		results = []institution.Summary{}
	}
	f.set(State{Status: StatusSuccess, Filter: fs, Seq: seq, Results: results})
	return true
}

func (f *Fetcher) set(s State) {
	f.state = s
	if f.onChange != nil {
		f.onChange(s)
	}
}
