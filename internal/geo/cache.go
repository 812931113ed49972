package geo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "geo:country:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, ip string) (string, bool, error) {
	country, err := c.client.Get(ctx, cacheKeyPrefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return country, true, nil
}

func (c *RedisCache) Set(ctx context.Context, ip, country string) error {
	return c.client.Set(ctx, cacheKeyPrefix+ip, country, c.ttl).Err()
}
