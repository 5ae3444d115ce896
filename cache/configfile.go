package cache

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape for cache configuration files. Durations use
// Go's duration syntax ("5m", "30s").
type FileConfig struct {
	Backend string `yaml:"backend"` // "memory" (default) or "redis"

	Memory struct {
		Capacity           int           `yaml:"capacity"`
		NumShards          int           `yaml:"num_shards"`
		TTL                time.Duration `yaml:"ttl"`
		EvictionPercentage int           `yaml:"eviction_percentage"`
	} `yaml:"memory"`

	Redis struct {
		Addr      string        `yaml:"addr"`
		Password  string        `yaml:"password"`
		DB        int           `yaml:"db"`
		TTL       time.Duration `yaml:"ttl"`
		KeyPrefix string        `yaml:"key_prefix"`
	} `yaml:"redis"`
}

// LoadFileConfig loads cache configuration from a YAML file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cache config: %w", err)
	}
	return &cfg, nil
}

// LoadFileConfigOrDefault loads the file config or returns an in-memory
// default when the file is missing or unreadable.
func LoadFileConfigOrDefault(path string) *FileConfig {
	cfg, err := LoadFileConfig(path)
	if err != nil {
		return &FileConfig{Backend: "memory"}
	}
	return cfg
}

// BuildService constructs the cache service the file config describes.
func (f *FileConfig) BuildService() (CacheService, error) {
	switch f.Backend {
	case "", "memory":
		cfg := DefaultConfig()
		if f.Memory.Capacity > 0 {
			cfg.Capacity = f.Memory.Capacity
		}
		if f.Memory.NumShards > 0 {
			cfg.NumShards = f.Memory.NumShards
		}
		if f.Memory.TTL > 0 {
			cfg.TTL = f.Memory.TTL
		}
		if f.Memory.EvictionPercentage > 0 {
			cfg.EvictionPercentage = f.Memory.EvictionPercentage
		}
		return NewCacheService(cfg)

	case "redis":
		cfg := DefaultRedisConfig()
		if f.Redis.Addr != "" {
			cfg.Addr = f.Redis.Addr
		}
		cfg.Password = f.Redis.Password
		cfg.DB = f.Redis.DB
		if f.Redis.TTL > 0 {
			cfg.TTL = f.Redis.TTL
		}
		if f.Redis.KeyPrefix != "" {
			cfg.KeyPrefix = f.Redis.KeyPrefix
		}
		return NewRedisCacheService(cfg)

	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.Backend)
	}
}
