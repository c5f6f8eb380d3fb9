package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const countKey = "imagehost:image-count"

// CountCache holds the total number of image records so listing requests
// do not need a COUNT(*) per page. A cache failure is never fatal, callers
// fall back to the database.
type CountCache interface {
	GetCount(ctx context.Context) (count int64, ok bool)
	SetCount(ctx context.Context, count int64)
	Invalidate(ctx context.Context)
	Close() error
}

type RedisCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCountCache(address, password string, db int, ttl time.Duration) (*RedisCountCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCountCache{client: client, ttl: ttl}, nil
}

func (c *RedisCountCache) GetCount(ctx context.Context) (int64, bool) {
	count, err := c.client.Get(ctx, countKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		slog.Warn("count cache read failed, falling back to database", "error", err)
		return 0, false
	}
	return count, true
}

func (c *RedisCountCache) SetCount(ctx context.Context, count int64) {
	if err := c.client.Set(ctx, countKey, count, c.ttl).Err(); err != nil {
		slog.Warn("count cache write failed", "error", err)
	}
}

func (c *RedisCountCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, countKey).Err(); err != nil {
		slog.Warn("count cache invalidation failed", "error", err)
	}
}

func (c *RedisCountCache) Close() error {
	return c.client.Close()
}

// NoopCountCache is used when no Redis address is configured.
type NoopCountCache struct{}

func (NoopCountCache) GetCount(context.Context) (int64, bool) { return 0, false }
func (NoopCountCache) SetCount(context.Context, int64)        {}
func (NoopCountCache) Invalidate(context.Context)             {}
func (NoopCountCache) Close() error                           { return nil }
