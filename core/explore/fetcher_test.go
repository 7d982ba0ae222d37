package explore

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core/institution"
)

// gatedQuerier answers a search for a city once its gate is released; other searches answer at once.
type gatedQuerier struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls []institution.FilterState
	err   error
}

func newGatedQuerier(cities ...string) *gatedQuerier {
	q := &gatedQuerier{gates: make(map[string]chan struct{})}
	for _, c := range cities {
		q.gates[c] = make(chan struct{})
	}
	return q
}

func (q *gatedQuerier) release(city string) { close(q.gates[city]) }

func (q *gatedQuerier) Search(ctx context.Context, fs institution.FilterState) ([]institution.Summary, error) {
	q.mu.Lock()
	q.calls = append(q.calls, fs)
	gate := q.gates[fs.City]
	err := q.err
	q.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []institution.Summary{{ID: fs.City, Name: "In " + fs.City}}, nil
}

func (q *gatedQuerier) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	sts := make([]Status, 0, len(r.states))
	for _, s := range r.states {
		sts = append(sts, s.Status)
	}
	return sts
}

func TestFetcher_Lifecycle(t *testing.T) {
	ctx := context.Background()
	q := newGatedQuerier("Pune")
	rec := &recorder{}
	f := NewFetcher(q, rec.record)

	assert.Equal(t, StatusIdle, f.State().Status)

	seq := f.Update(ctx, institution.FilterState{City: "Pune"})
	assert.Equal(t, uint64(1), seq)
	s := f.State()
	assert.Equal(t, StatusLoading, s.Status)
	assert.Nil(t, s.Results)

	q.release("Pune")
	f.Wait()
	s = f.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, uint64(1), s.Seq)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Pune", s.Results[0].ID)
	assert.Equal(t, []Status{StatusLoading, StatusSuccess}, rec.statuses())
}

func TestFetcher_LastRequestWins(t *testing.T) {
	ctx := context.Background()
	q := newGatedQuerier("Slow")
	rec := &recorder{}
	succeeded := make(chan struct{}, 2)
	f := NewFetcher(q, func(s State) {
		rec.record(s)
		if s.Status == StatusSuccess {
			succeeded <- struct{}{}
		}
	})

	f.Update(ctx, institution.FilterState{City: "Slow"})
	seq := f.Update(ctx, institution.FilterState{City: "Fast"})
	assert.Equal(t, uint64(2), seq)

	// Fast resolves first, then the superseded Slow response arrives
	<-succeeded
	q.release("Slow")
	f.Wait()

	s := f.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, "Fast", s.Filter.City)
	assert.Equal(t, seq, s.Seq)
	assert.Equal(t, "Fast", s.Results[0].ID)
	assert.Equal(t, []Status{StatusLoading, StatusLoading, StatusSuccess}, rec.statuses())
}

func TestFetcher_SupersededBeforeResolve(t *testing.T) {
	ctx := context.Background()
	q := newGatedQuerier("A", "B")
	f := NewFetcher(q, nil)

	f.Update(ctx, institution.FilterState{City: "A"})
	f.Update(ctx, institution.FilterState{City: "B"})
	q.release("B")
	q.release("A")
	f.Wait()

	s := f.State()
	assert.Equal(t, "B", s.Filter.City)
	assert.Equal(t, "B", s.Results[0].ID)
}

func TestFetcher_Error(t *testing.T) {
	ctx := context.Background()
	q := newGatedQuerier()
	q.err = errors.Wrap(errors.New("Internal Server Error (500)"), "searching institutions")
	f := NewFetcher(q, nil)

	f.Update(ctx, institution.FilterState{City: "Pune"})
	f.Wait()
	s := f.State()
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "Internal Server Error (500)", s.Message)
	assert.Nil(t, s.Results)

	// a retry clears the error
	q.mu.Lock()
	q.err = nil
	q.mu.Unlock()
	f.Reload(ctx)
	f.Wait()
	s = f.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Empty(t, s.Message)
}

func TestFetcher_UpdateSameFilter(t *testing.T) {
	ctx := context.Background()
	q := newGatedQuerier()
	f := NewFetcher(q, nil)

	seq := f.Update(ctx, institution.FilterState{City: "Pune", Boards: []string{"IB", "CBSE"}})
	f.Wait()
	same := f.Update(ctx, institution.FilterState{City: " Pune ", Boards: []string{"CBSE", "IB"}, Sort: institution.SortRelevance})
	f.Wait()
	assert.Equal(t, seq, same)
	assert.Equal(t, 1, q.callCount())

	reloaded := f.Reload(ctx)
	f.Wait()
	assert.Equal(t, seq+1, reloaded)
	assert.Equal(t, 2, q.callCount())
}

func TestFetcher_EmptyResults(t *testing.T) {
	f := NewFetcher(querierFunc(func(context.Context, institution.FilterState) ([]institution.Summary, error) {
		return nil, nil
	}), nil)

	f.Update(context.Background(), institution.FilterState{})
	f.Wait()
	s := f.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Results)
}

func TestFetcher_ResolveStale(t *testing.T) {
	q := newGatedQuerier("X")
	f := NewFetcher(q, nil)
	f.Update(context.Background(), institution.FilterState{City: "X"})
	f.mu.Lock()
	f.seq++ // a newer search started
	f.mu.Unlock()

	assert.False(t, f.resolve(1, institution.FilterState{City: "X"}, nil, nil))
	q.release("X")
	f.Wait()
	assert.Equal(t, StatusLoading, f.State().Status)
}

type querierFunc func(context.Context, institution.FilterState) ([]institution.Summary, error)

func (fn querierFunc) Search(ctx context.Context, fs institution.FilterState) ([]institution.Summary, error) {
	return fn(ctx, fs)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
