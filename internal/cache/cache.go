// Package cache holds completed translations in a bounded LRU.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 1000

// Key builds the cache key for a translation of normalized text from baseLang.
func Key(baseLang, normalized string) string {
	return baseLang + ":" + normalized
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Size     int   `json:"size"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// TranslationCache evicts the least recently read or written entry once full.
// It is safe for concurrent use.
type TranslationCache struct {
	entries  *lru.Cache[string, string]
	capacity int
	hits     atomic.Int64
	misses   atomic.Int64
}

// New returns an empty cache holding at most capacity entries.
func New(capacity int) (*TranslationCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &TranslationCache{entries: entries, capacity: capacity}, nil
}

// Get returns the cached value and marks it recently used.
func (c *TranslationCache) Get(key string) (string, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, evicting the least recently used entry if needed.
func (c *TranslationCache) Put(key, value string) {
	c.entries.Add(key, value)
}

// Size returns the number of cached entries.
func (c *TranslationCache) Size() int {
	return c.entries.Len()
}

// Capacity returns the maximum number of entries.
func (c *TranslationCache) Capacity() int {
	return c.capacity
}

// Clear drops every entry and resets counters.
func (c *TranslationCache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns current usage.
func (c *TranslationCache) Stats() Stats {
	return Stats{
		Size:     c.Size(),
		Capacity: c.capacity,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}
