package stats

import (
	"context"
	"time"

	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCache adapts a Redis client to the Cache interface. Failures are
// logged and treated as misses; stats never fail because the cache is down.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("stats cache read failed")
		}
		return "", false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("stats cache write failed")
	}
}
