// Package cache caches institution search results in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

const keyPrefix = "search:"

// ErrMiss is returned by a Store when a key does not exist.
var ErrMiss = errors.New("cache miss")

// Store is the key-value store backing a QueryCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache caches search results by canonical query string.
// Concurrent misses on the same query share a single computation.
type QueryCache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger core.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

var _ institution.SearchCache = (*QueryCache)(nil) // interface compliance check

func NewQueryCache(store Store, conf *core.Config, logger core.Logger) *QueryCache {
	return &QueryCache{store: store, ttl: conf.Redis.CacheTTL, logger: logger}
}

func (c *QueryCache) get(ctx context.Context, key string) ([]institution.Summary, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if err != ErrMiss {
			c.logger.Error("cache get failed: "+key, err)
		}
		return nil, false
	}
	var results []institution.Summary
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Error("cache unmarshal failed: "+key, err)
		return nil, false
	}
	return results, true
}

func (c *QueryCache) set(ctx context.Context, key string, results []institution.Summary) {
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed: "+key, err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed: "+key, err)
	}
}

// GetOrCompute returns the cached results for query, computing and caching them on a miss.
// The boolean reports a cache hit. Cache failures degrade to computing.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	compute func() ([]institution.Summary, error),
) ([]institution.Summary, bool, error) {
	key := buildKey(query)
	if results, ok := c.get(ctx, key); ok {
		c.hits.Add(1)
		return results, true, nil
	}
	c.misses.Add(1)

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.get(ctx, key); ok {
			return results, nil
		}
		results, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]institution.Summary), false, nil
}

// Invalidate drops every cached search.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return errors.Wrap(err, "invalidating cache")
	}
	c.logger.Info(fmt.Sprintf("search cache invalidated, %d keys deleted", deleted))
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func buildKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
