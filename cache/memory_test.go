package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(3600)

	if err := c.Set("key1", `{"translated_text": "Olá"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok || val != `{"translated_text": "Olá"}` {
		t.Errorf("Get returned %q, %v", val, ok)
	}

	val, ok = c.Get("nonexistent")
	if ok || val != "" {
		t.Errorf("Get(nonexistent) = %q, %v; want miss", val, ok)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(60, WithClock(clock.Now))

	c.Set("key1", "value1")
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Error("value should still be live before the TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Error("value should be expired after the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on Get, Len() = %d", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(0, WithClock(clock.Now))

	c.Set("key1", "value1")
	clock.Advance(24 * 365 * time.Hour)

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("value should never expire with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache(3600)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	if val, _ := c.Get("key1"); val != "value2" {
		t.Errorf("value should be overwritten, got %q", val)
	}
}

func TestInMemoryCache_MaxEntries(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(0, WithMaxEntries(2), WithClock(clock.Now))

	c.Set("a", "1")
	clock.Advance(time.Second)
	c.Set("b", "2")
	clock.Advance(time.Second)
	c.Set("a", "1b") // overwrite does not evict
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	clock.Advance(time.Second)
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("oldest entry b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a was refreshed and should be kept")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestInMemoryCache_EntriesSkipExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(10, WithClock(clock.Now))

	c.Set("old", "1")
	clock.Advance(11 * time.Second)
	c.Set("new", "2")

	entries := c.Entries()
	if len(entries) != 1 || entries["new"] != "2" {
		t.Errorf("Entries() = %v, want only new", entries)
	}
}

func TestInMemoryCache_Clear(t *testing.T) {
	c := NewInMemoryCache(3600)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("cleared cache should have length 0, got %d", c.Len())
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	c := NewInMemoryCache(3600, WithMaxEntries(10))
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(string(rune('a'+i%26)), "value")
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(string(rune('a' + i%26)))
		}(i)
	}

	wg.Wait()
	if c.Len() > 10 {
		t.Errorf("Len() = %d, want <= 10", c.Len())
	}
}

func TestOpen(t *testing.T) {
	c, closeFn, err := Open(Config{Type: "memory", TTL: 60})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := c.(*InMemoryCache); !ok {
		t.Errorf("Open(memory) returned %T", c)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}

	c, _, err = Open(Config{Type: "none"})
	if err != nil || c != nil {
		t.Errorf("Open(none) = %v, %v; want nil, nil", c, err)
	}

	sqlitePath := t.TempDir() + "/cache.db"
	c, closeFn, err = Open(Config{Type: "sqlite", SQLitePath: sqlitePath})
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	defer closeFn()
	if _, ok := c.(*SQLiteCache); !ok {
		t.Errorf("Open(sqlite) returned %T", c)
	}

	if _, _, err := Open(Config{Type: "memcached"}); err == nil {
		t.Error("expected error for unknown cache type")
	}
}
