package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache stores raw forecast samples per location.
type Cache interface {
	Get(ctx context.Context, key string) ([]Sample, bool)
	Set(ctx context.Context, key string, samples []Sample)
}

// RedisCache keeps forecasts in Redis for a fixed TTL. Redis errors are
// logged and treated as cache misses.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Sample, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("forecast cache read failed")
		}
		return nil, false
	}
	var samples []Sample
	if err := json.Unmarshal(raw, &samples); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("forecast cache entry undecodable")
		return nil, false
	}
	return samples, true
}

func (c *RedisCache) Set(ctx context.Context, key string, samples []Sample) {
	raw, err := json.Marshal(samples)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("forecast cache write failed")
	}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("forecast:%.4f:%.4f", lat, lon)
}
