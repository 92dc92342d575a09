// Package cache memoizes query results in a bounded least-recently-used map.
package cache

import (
	"fmt"
	"sync"

	"kdscan/internal/model"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
)

// DefaultSize is the number of distinct queries kept when no size is given.
const DefaultSize = 100

// Cache is safe for concurrent use. Entries never expire; they are only
// evicted, least recently used first, once the cache is full.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	group singleflight.Group
}

func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{lru: lru.New(size)}
}

// Get returns the cached result for q and marks it as recently used.
func (c *Cache) Get(q model.Query) (model.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(q)
	if !ok {
		return model.Result{}, false
	}
	return v.(model.Result), true
}

func (c *Cache) add(q model.Query, r model.Result) {
	c.mu.Lock()
	c.lru.Add(q, r)
	c.mu.Unlock()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// GetOrCompute returns the cached result for q, or runs compute and caches
// what it returns. Concurrent misses on the same query share one compute
// call. Results that come with an error are returned but not cached.
// Every hit returns the stored Result itself, so callers must not modify it.
func (c *Cache) GetOrCompute(q model.Query, compute func() (model.Result, error)) (model.Result, error) {
	if r, ok := c.Get(q); ok {
		return r, nil
	}
	v, err := c.group.Do(flightKey(q), func() (interface{}, error) {
		// a flight that finished since the check above has already stored it
		if r, ok := c.Get(q); ok {
			return r, nil
		}
		r, err := compute()
		if err != nil {
			return r, err
		}
		c.add(q, r)
		return r, nil
	})
	r, _ := v.(model.Result)
	return r, err
}

func flightKey(q model.Query) string {
	return fmt.Sprintf("%q\x00%q\x00%t", q.URL, q.Subreddit, q.LessSimilar)
}
