package core

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

var _ types.Cache = (*RedisCache)(nil)

// RedisCache backs the Cache interface with a single redis instance. Keys are
// namespaced with the configured prefix so environments can share a server.
type RedisCache struct {
	cli    *redis.Client
	prefix string
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "aaq"
	}
	return &RedisCache{
		cli: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	res, err := c.cli.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return res, err
}

func (c *RedisCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.cli.SetEx(ctx, c.key(key), value, expiresAt).Err()
}

func (c *RedisCache) SetNX(ctx context.Context, key, value string, expiresAt time.Duration) (bool, error) {
	return c.cli.SetNX(ctx, c.key(key), value, expiresAt).Result()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.cli.Incr(ctx, c.key(key)).Result()
}

func (c *RedisCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.cli.Expire(ctx, c.key(key), expiration).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.cli.Del(ctx, c.key(key)).Err()
}
