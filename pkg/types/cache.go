package types

import (
	"context"
	"time"
)

// Cache is the minimal cache surface the admin service needs. The production
// implementation is redis, tests swap in an in-memory map.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	SetNX(ctx context.Context, key, value string, expiresAt time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Del(ctx context.Context, key string) error
}
