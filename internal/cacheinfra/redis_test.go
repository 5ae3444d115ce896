package cacheinfra

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// redisTestService connects to the Redis instance named by REDIS_ADDR, or
// skips the test when none is configured.
func redisTestService(t *testing.T) *redisService {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis integration tests")
	}

	cfg := DefaultRedisConfig()
	cfg.Addr = addr
	cfg.KeyPrefix = "pagecache-test"
	cfg.TTL = time.Minute

	service, err := NewRedisService(cfg)
	if err != nil {
		t.Fatalf("failed to create redis service: %v", err)
	}
	if err := service.Ping(context.Background()); err != nil {
		t.Fatalf("redis not reachable at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		service.DeleteByPrefix(context.Background(), "")
		service.Close()
	})
	return service
}

func TestRedisConfig_Validate(t *testing.T) {
	cfg := DefaultRedisConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Addr = ""
	var cfgErr *ConfigError
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "Addr" {
		t.Errorf("expected Addr config error, got %v", err)
	}

	cfg = DefaultRedisConfig()
	cfg.TTL = 0
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "TTL" {
		t.Errorf("expected TTL config error, got %v", err)
	}
}

func TestRedisService_SetGetOrFetch(t *testing.T) {
	service := redisTestService(t)
	ctx := context.Background()

	type page struct {
		Records []string `msgpack:"records"`
		Total   int      `msgpack:"total"`
	}

	calls := 0
	fetch := func(ctx context.Context) (page, error) {
		calls++
		return page{Records: []string{"a", "b"}, Total: 2}, nil
	}

	first, err := service.GetOrFetch(ctx, "orders::p0", fetch)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := service.GetOrFetch(ctx, "orders::p0", fetch)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 backend call, got %d", calls)
	}
	got, ok := second.(page)
	if !ok {
		t.Fatalf("expected decoded page, got %T", second)
	}
	if got.Total != 2 || len(got.Records) != 2 {
		t.Errorf("decoded entry mismatch: %+v vs %+v", got, first)
	}
}

func TestRedisService_PeekReturnsRawBytes(t *testing.T) {
	service := redisTestService(t)
	ctx := context.Background()

	if err := service.Set(ctx, "k", map[string]int{"n": 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	raw, ok := service.Peek(ctx, "k")
	if !ok {
		t.Fatal("expected entry present")
	}
	if _, isBytes := raw.([]byte); !isBytes {
		t.Errorf("peek should return the raw encoding, got %T", raw)
	}
}

func TestRedisService_DeleteByPrefixAndKeys(t *testing.T) {
	service := redisTestService(t)
	ctx := context.Background()

	service.Set(ctx, "orders::p0", "a")
	service.Set(ctx, "orders::p1", "b")
	service.Set(ctx, "products::p0", "c")

	keys, err := service.Keys(ctx, "orders")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 order keys, got %v", keys)
	}

	if err := service.DeleteByPrefix(ctx, "orders"); err != nil {
		t.Fatalf("delete by prefix failed: %v", err)
	}
	if _, ok := service.Peek(ctx, "orders::p0"); ok {
		t.Error("orders::p0 should be gone")
	}
	if _, ok := service.Peek(ctx, "products::p0"); !ok {
		t.Error("products::p0 should survive")
	}
}
