// Package cache provides the bounded, concurrency-safe key-value cache that
// fronts single-entity lookups.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a least-recently-used cache with get, put and evict by key.
// It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	entries *lru.Cache[K, V]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// Stats is a point-in-time snapshot of cache usage.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// New creates a cache holding at most size entries.
func New[K comparable, V any](size int) (*Cache[K, V], error) {
	entries, err := lru.New[K, V](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Cache[K, V]{entries: entries}, nil
}

// Get returns the value for key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.entries.Add(key, value)
}

// Evict removes key. Evicting an absent key is a no-op.
func (c *Cache[K, V]) Evict(key K) {
	c.entries.Remove(key)
}

// Purge removes every entry.
func (c *Cache[K, V]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

// Stats returns current usage counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Entries: c.entries.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
