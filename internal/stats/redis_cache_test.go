package stats

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func setupRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, time.Minute)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache := setupRedisCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx); err != nil || ok {
		t.Fatalf("expected empty cache, got ok=%v err=%v", ok, err)
	}

	summary := Summary{
		PendingCount: 3,
		CompletedVolume: map[string]decimal.Decimal{
			"BTC":  decimal.RequireFromString("1.75"),
			"USDT": decimal.RequireFromString("250.50"),
		},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := cache.Set(ctx, summary); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.PendingCount != 3 {
		t.Fatalf("expected pending count 3, got %d", got.PendingCount)
	}
	if !got.CompletedVolume["BTC"].Equal(decimal.RequireFromString("1.75")) {
		t.Fatalf("expected BTC volume 1.75, got %s", got.CompletedVolume["BTC"])
	}
}

func TestRedisCacheInvalidate(t *testing.T) {
	cache := setupRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, Summary{PendingCount: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, err := cache.Get(ctx); err != nil || ok {
		t.Fatalf("expected miss after invalidation, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, Summary{PendingCount: 2}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := cache.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.PendingCount != 2 {
		t.Fatalf("expected pending count 2, got %d", got.PendingCount)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx); ok {
		t.Fatal("expected miss after invalidation")
	}
}
