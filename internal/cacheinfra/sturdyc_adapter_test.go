package cacheinfra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

func TestNewSturdycService_InvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, "Capacity"},
		{"zero shards", func(c *Config) { c.NumShards = 0 }, "NumShards"},
		{"zero ttl", func(c *Config) { c.TTL = 0 }, "TTL"},
		{"eviction too high", func(c *Config) { c.EvictionPercentage = 101 }, "EvictionPercentage"},
		{"eviction too low", func(c *Config) { c.EvictionPercentage = 0 }, "EvictionPercentage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)

			_, err := NewSturdycService(cfg)
			if err == nil {
				t.Fatal("expected config error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestSturdycService_GetOrFetchCaches(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.Background()
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	first, err := service.GetOrFetch(ctx, "k", fetch)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := service.GetOrFetch(ctx, "k", fetch)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if first != "value" || second != "value" {
		t.Errorf("expected cached value, got %v / %v", first, second)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 backend call, got %d", calls.Load())
	}
}

func TestSturdycService_GetOrFetchRejectsBadFn(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	if _, err := service.GetOrFetch(ctx, "k", nil); err == nil {
		t.Error("expected error for nil fetchFn")
	}
	if _, err := service.GetOrFetch(ctx, "k", "not-a-func"); err == nil {
		t.Error("expected error for non-function fetchFn")
	}
	if _, err := service.GetOrFetch(ctx, "k", func() (string, error) { return "", nil }); err == nil {
		t.Error("expected error for wrong arity")
	}
}

func TestSturdycService_SetPeekDelete(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	if err := service.Set(ctx, "k", 42); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if value, ok := service.Peek(ctx, "k"); !ok || value != 42 {
		t.Errorf("expected (42, true), got (%v, %v)", value, ok)
	}

	if err := service.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := service.Peek(ctx, "k"); ok {
		t.Error("expected entry gone after delete")
	}
}

func TestSturdycService_DeleteByPrefix(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	service.Set(ctx, "orders::p0", "a")
	service.Set(ctx, "orders::p1", "b")
	service.Set(ctx, "products::p0", "c")

	if err := service.DeleteByPrefix(ctx, "orders"); err != nil {
		t.Fatalf("delete by prefix failed: %v", err)
	}

	if _, ok := service.Peek(ctx, "orders::p0"); ok {
		t.Error("orders::p0 should be gone")
	}
	if _, ok := service.Peek(ctx, "orders::p1"); ok {
		t.Error("orders::p1 should be gone")
	}
	if _, ok := service.Peek(ctx, "products::p0"); !ok {
		t.Error("products::p0 should survive")
	}
}

func TestSturdycService_Keys(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	service.Set(ctx, "orders::p0", "a")
	service.Set(ctx, "orders::p1", "b")
	service.Set(ctx, "products::p0", "c")

	keys, err := service.Keys(ctx, "orders")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %d: %v", len(keys), keys)
	}
	for _, k := range keys {
		if k != "orders::p0" && k != "orders::p1" {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestCallFetchFn_TypedFunction(t *testing.T) {
	type page struct {
		Total int
	}

	fetch := func(ctx context.Context) (page, error) {
		return page{Total: 7}, nil
	}
	if err := validateFetchFn(fetch); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	result, err := callFetchFn(context.Background(), fetch)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got, ok := result.(page); !ok || got.Total != 7 {
		t.Errorf("expected page{7}, got %v", result)
	}

	if rt := fetchFnResultType(fetch); rt.Name() != "page" {
		t.Errorf("expected result type page, got %v", rt)
	}
}

func TestCallFetchFn_PropagatesError(t *testing.T) {
	wantErr := errors.New("backend down")
	fetch := func(ctx context.Context) (int, error) {
		return 0, wantErr
	}

	_, err := callFetchFn(context.Background(), fetch)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
