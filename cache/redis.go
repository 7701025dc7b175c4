package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisDialTimeout = 5 * time.Second
	redisOpTimeout   = 2 * time.Second
	redisScanCount   = 100
)

// RedisConfig configures NewRedisCache.
type RedisConfig struct {
	URL       string // e.g. redis://localhost:6379/0
	TTL       int    // Seconds, 0 for no expiration
	KeyPrefix string // DefaultKeyPrefix when empty
}

// RedisCache stores responses in Redis under a key prefix, so several
// tools can share one database.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to cfg.URL and checks the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisCache{
		client: client,
		ttl:    time.Duration(max(ttlSeconds, 0)) * time.Second,
		prefix: keyPrefix,
	}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// Get reports Redis errors as misses; the translator then asks the backend.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := opContext()
	defer cancel()

	val, err := c.client.Get(ctx, c.prefix+key).Result()
	return val, err == nil
}

func (c *RedisCache) Set(key, value string) error {
	ctx, cancel := opContext()
	defer cancel()

	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// Entries scans the prefix and fetches each page with one MGET. Keys that
// expire between the two calls are left out.
func (c *RedisCache) Entries() map[string]string {
	ctx := context.Background()
	out := make(map[string]string)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", redisScanCount).Result()
		if err != nil {
			return out
		}
		if len(keys) > 0 {
			vals, err := c.client.MGet(ctx, keys...).Result()
			if err != nil {
				return out
			}
			for i, v := range vals {
				if s, ok := v.(string); ok {
					out[strings.TrimPrefix(keys[i], c.prefix)] = s
				}
			}
		}
		if next == 0 {
			return out
		}
		cursor = next
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks the connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := opContext()
	defer cancel()
	return c.client.Ping(ctx).Err()
}

var _ EnumerableCache = (*RedisCache)(nil)
