// Package cache provides response caches for glossa translators.
package cache

import (
	"strings"

	"github.com/ZaguanLabs/glossa"
)

// DefaultKeyPrefix namespaces keys in shared stores.
const DefaultKeyPrefix = "glossa:"

// TranslationCache is the interface for response caching.
// This is an alias to the main package interface for convenience.
type TranslationCache = glossa.TranslationCache

// EnumerableCache is a cache whose live entries can be listed for export.
type EnumerableCache interface {
	TranslationCache
	Entries() map[string]string
}

// Config selects and configures a cache.
type Config struct {
	Type       string // "memory", "redis", "sqlite" or "none"
	TTL        int    // TTL in seconds (0 = no expiration)
	RedisURL   string // Used when Type is "redis"
	SQLitePath string // Used when Type is "sqlite"
}

// Open creates the cache described by cfg. A nil cache and nil error are
// returned for type "none" or "". The returned close function is never nil.
func Open(cfg Config) (TranslationCache, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return NewInMemoryCache(cfg.TTL), noop, nil
	case "redis":
		c, err := NewRedisCache(RedisConfig{URL: cfg.RedisURL, TTL: cfg.TTL})
		if err != nil {
			return nil, noop, &glossa.CacheError{Message: "redis cache unavailable", Cause: err}
		}
		return c, c.Close, nil
	case "sqlite":
		c, err := NewSQLiteCache(SQLiteConfig{Path: cfg.SQLitePath, TTL: cfg.TTL})
		if err != nil {
			return nil, noop, &glossa.CacheError{Message: "sqlite cache unavailable", Cause: err}
		}
		return c, c.Close, nil
	default:
		return nil, noop, &glossa.CacheError{Message: "unknown cache type: " + cfg.Type}
	}
}
