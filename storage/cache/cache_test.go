package cache

import (
	"context"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
	logsvc "github.com/trezcool/findgreatschool/services/logger"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	data, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return data, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func newTestCache(store Store) *QueryCache {
	return NewQueryCache(store, core.NewTestConfig(), logsvc.NewTestLogger())
}

var results = []institution.Summary{
	{ID: "1", Name: "Alpha Academy", Category: institution.CategorySchool, City: "Pune", Features: institution.Features{"library": true}},
}

func TestQueryCache_GetOrCompute(t *testing.T) {
	store := newMemStore()
	c := newTestCache(store)
	ctx := context.Background()

	var calls int32
	compute := func() ([]institution.Summary, error) {
		atomic.AddInt32(&calls, 1)
		return results, nil
	}

	got, hit, err := c.GetOrCompute(ctx, "city=Pune", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, results, got)

	got, hit, err = c.GetOrCompute(ctx, "city=Pune", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "1", got[0].ID)
	assert.True(t, got[0].Features["library"])
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	assert.Equal(t, time.Minute, store.ttls[buildKey("city=Pune")])

	hits, misses := c.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)
}

func TestQueryCache_computeError(t *testing.T) {
	c := newTestCache(newMemStore())
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute(context.Background(), "", func() ([]institution.Summary, error) { return nil, boom })
	assert.Equal(t, boom, err)

	// errors are not cached
	got, hit, err := c.GetOrCompute(context.Background(), "", func() ([]institution.Summary, error) { return results, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, got, 1)
}

func TestQueryCache_storeFailureFallsBackToCompute(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	c := newTestCache(store)

	got, hit, err := c.GetOrCompute(context.Background(), "category=school", func() ([]institution.Summary, error) { return results, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, results, got)
}

func TestQueryCache_Invalidate(t *testing.T) {
	store := newMemStore()
	c := newTestCache(store)
	ctx := context.Background()
	_ = store.Set(ctx, "other:key", []byte("x"), 0)

	for _, q := range []string{"", "city=Pune", "sort=name_desc"} {
		_, _, err := c.GetOrCompute(ctx, q, func() ([]institution.Summary, error) { return results, nil })
		require.NoError(t, err)
	}
	require.NoError(t, c.Invalidate(ctx))

	assert.Len(t, store.data, 1)
	assert.Contains(t, store.data, "other:key")
}

func TestQueryCache_concurrentMissesShareComputation(t *testing.T) {
	c := newTestCache(newMemStore())

	var calls int32
	release := make(chan struct{})
	compute := func() ([]institution.Summary, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return results, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.GetOrCompute(context.Background(), "city=Delhi", compute)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, buildKey("city=Pune"), buildKey("city=Pune"))
	assert.NotEqual(t, buildKey("city=Pune"), buildKey("city=Delhi"))
	assert.Regexp(t, `^search:[0-9a-f]{32}$`, buildKey(""))
}
