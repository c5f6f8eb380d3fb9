package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCountCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	c, err := NewRedisCountCache(server.Addr(), "", 0, ttl)
	if err != nil {
		t.Fatalf("NewRedisCountCache error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, server
}

func TestRedisCountCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := c.GetCount(ctx); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.SetCount(ctx, 7)
	count, ok := c.GetCount(ctx)
	if !ok {
		t.Fatalf("expected hit after SetCount")
	}
	if count != 7 {
		t.Fatalf("expected count 7, got %d", count)
	}
}

func TestRedisCountCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.SetCount(ctx, 3)
	c.Invalidate(ctx)

	if _, ok := c.GetCount(ctx); ok {
		t.Fatalf("expected miss after invalidation")
	}
}

func TestRedisCountCache_Expiry(t *testing.T) {
	c, server := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	c.SetCount(ctx, 5)
	server.FastForward(31 * time.Second)

	if _, ok := c.GetCount(ctx); ok {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestRedisCountCache_UnreachableServer(t *testing.T) {
	if _, err := NewRedisCountCache("127.0.0.1:1", "", 0, time.Minute); err == nil {
		t.Fatalf("expected connection error for unreachable redis")
	}
}

func TestNoopCountCache(t *testing.T) {
	var c CountCache = NoopCountCache{}
	ctx := context.Background()

	c.SetCount(ctx, 9)
	if _, ok := c.GetCount(ctx); ok {
		t.Fatalf("noop cache must never report a hit")
	}
	c.Invalidate(ctx)
	if err := c.Close(); err != nil {
		t.Fatalf("noop cache Close error: %v", err)
	}
}
