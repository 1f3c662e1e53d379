package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a thin JSON cache over Redis. A nil *Cache is valid and behaves
// as a cache that never hits, so the service runs fine without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCache connects to Redis and returns nil when the server is unreachable,
// degrading to cacheless operation.
func NewCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, running without cache", zap.String("addr", addr), zap.Error(err))
		client.Close()
		return nil
	}

	log.Info("connected to redis", zap.String("addr", addr))
	return &Cache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("service", "cache")),
	}
}

// Get loads a cached value into out. Returns false on miss or decode failure.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// Set stores a value under key for the configured TTL. Failures are logged
// and swallowed; caching is best effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
