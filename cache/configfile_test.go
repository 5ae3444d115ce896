package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoadFileConfig_Memory(t *testing.T) {
	path := writeTempConfig(t, `
backend: memory
memory:
  capacity: 500
  num_shards: 4
  ttl: 90s
  eviction_percentage: 20
`)

	cfg, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Backend)
	}
	if cfg.Memory.Capacity != 500 {
		t.Errorf("expected capacity 500, got %d", cfg.Memory.Capacity)
	}
	if cfg.Memory.TTL != 90*time.Second {
		t.Errorf("expected ttl 90s, got %v", cfg.Memory.TTL)
	}

	service, err := cfg.BuildService()
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	ctx := context.Background()
	if err := service.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if value, ok := service.Peek(ctx, "k"); !ok || value != "v" {
		t.Errorf("expected (v, true), got (%v, %v)", value, ok)
	}
}

func TestLoadFileConfig_Redis(t *testing.T) {
	path := writeTempConfig(t, `
backend: redis
redis:
  addr: localhost:6379
  db: 3
  ttl: 2m
  key_prefix: testprefix
`)

	cfg, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend != "redis" {
		t.Errorf("expected redis backend, got %q", cfg.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected addr localhost:6379, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Redis.KeyPrefix != "testprefix" {
		t.Errorf("expected key_prefix testprefix, got %q", cfg.Redis.KeyPrefix)
	}
}

func TestLoadFileConfigOrDefault_MissingFile(t *testing.T) {
	cfg := LoadFileConfigOrDefault("does/not/exist.yml")
	if cfg.Backend != "memory" {
		t.Errorf("expected memory fallback, got %q", cfg.Backend)
	}

	service, err := cfg.BuildService()
	if err != nil {
		t.Fatalf("fallback config should build: %v", err)
	}
	if service == nil {
		t.Fatal("expected a service")
	}
}

func TestBuildService_UnknownBackend(t *testing.T) {
	cfg := &FileConfig{Backend: "memcached"}
	if _, err := cfg.BuildService(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "cache-*.yml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close temp config: %v", err)
	}
	return f.Name()
}
