package cache

import (
	"sync"
	"time"
)

type memoryItem struct {
	value   string
	written time.Time
	expires time.Time // Zero when the cache has no TTL
}

func (it memoryItem) live(now time.Time) bool {
	return it.expires.IsZero() || !now.After(it.expires)
}

// InMemoryCache keeps responses in process memory. It is safe for
// concurrent use and forgets everything on exit.
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	limit int
	now   func() time.Time
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithMaxEntries bounds the cache. Adding a new key to a full cache drops
// the least recently written one.
func WithMaxEntries(n int) MemoryOption {
	return func(c *InMemoryCache) { c.limit = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *InMemoryCache) { c.now = now }
}

// NewInMemoryCache returns an empty cache whose entries live ttlSeconds
// (forever when ttlSeconds <= 0).
func NewInMemoryCache(ttlSeconds int, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		items: make(map[string]memoryItem),
		ttl:   time.Duration(max(ttlSeconds, 0)) * time.Second,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a live value. Expired values are dropped on the way out.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if it.live(c.now()) {
		return it.value, true
	}

	c.mu.Lock()
	if cur, ok := c.items[key]; ok && cur == it {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return "", false
}

func (c *InMemoryCache) Set(key, value string) error {
	now := c.now()
	it := memoryItem{value: value, written: now}
	if c.ttl > 0 {
		it.expires = now.Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists && c.limit > 0 && len(c.items) >= c.limit {
		c.dropOldest()
	}
	c.items[key] = it
	return nil
}

// dropOldest removes the least recently written key, breaking ties by key.
// Callers hold mu.
func (c *InMemoryCache) dropOldest() {
	victim, found := "", false
	var at time.Time
	for k, it := range c.items {
		if !found || it.written.Before(at) || (it.written.Equal(at) && k < victim) {
			victim, at, found = k, it.written, true
		}
	}
	if found {
		delete(c.items, victim)
	}
}

// Len counts stored entries, expired or not.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
}

// Entries returns a copy of the live entries.
func (c *InMemoryCache) Entries() map[string]string {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.items))
	for k, it := range c.items {
		if it.live(now) {
			out[k] = it.value
		}
	}
	return out
}

var _ EnumerableCache = (*InMemoryCache)(nil)
