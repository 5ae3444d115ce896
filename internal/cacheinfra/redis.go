package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors for the Redis backend.
var (
	// ErrKeyNotFound indicates the key is absent from Redis.
	ErrKeyNotFound = errors.New("cache key not found")

	// ErrClientNotInitialized indicates the Redis client was never set up.
	ErrClientNotInitialized = errors.New("redis client not initialized")

	// ErrConnectionFailed indicates the Redis server is unreachable.
	ErrConnectionFailed = errors.New("redis connection failed")
)

// RedisConfig holds connection and behavior settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL applied to every entry written by Set or a fetch fill.
	TTL time.Duration

	// KeyPrefix namespaces every key this service touches, so one Redis
	// database can serve several deployments.
	KeyPrefix string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		TTL:          5 * time.Minute,
		KeyPrefix:    "pagecache",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Validate checks the Redis configuration values.
func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return &ConfigError{Field: "Addr", Message: "cannot be empty"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	return nil
}

// redisService implements the cache service contract over Redis. Values are
// msgpack-encoded; Peek returns the raw encoding and leaves decoding to the
// caller, while GetOrFetch decodes into the fetchFn's declared result type.
//
// Redis SET/GET offer no single-flight guarantee; concurrent fetch
// deduplication holds per process only, which is acceptable for this
// backend's intended use as a shared fallback store.
type redisService struct {
	cfg    RedisConfig
	client *redis.Client
}

// NewRedisService creates the Redis cache service adapter. The connection is
// lazy; call Ping to verify reachability.
func NewRedisService(cfg RedisConfig) (*redisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &redisService{cfg: cfg, client: client}, nil
}

// Ping tests the Redis connection.
func (s *redisService) Ping(ctx context.Context) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (s *redisService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *redisService) namespaced(key string) string {
	if s.cfg.KeyPrefix == "" {
		return key
	}
	return s.cfg.KeyPrefix + ":" + key
}

// GetOrFetch returns the decoded cached value for key, or runs fetchFn,
// stores its result, and returns it.
func (s *redisService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.namespaced(key)).Bytes()
	if err == nil {
		return decodeInto(data, fetchFnResultType(fetchFn))
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	value, err := callFetchFn(ctx, fetchFn)
	if err != nil {
		return nil, err
	}

	if err := s.Set(ctx, key, value); err != nil {
		// A failed fill write leaves the entry uncached; the fetched value
		// is still good.
		return value, nil
	}
	return value, nil
}

// Set msgpack-encodes value (unless it is already a byte slice) and writes it
// with the configured TTL.
func (s *redisService) Set(ctx context.Context, key string, value any) error {
	data, ok := value.([]byte)
	if !ok {
		var err error
		data, err = msgpack.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode cache value: %w", err)
		}
	}
	return s.client.Set(ctx, s.namespaced(key), data, s.cfg.TTL).Err()
}

// Peek returns the raw msgpack encoding for key without fetching.
func (s *redisService) Peek(ctx context.Context, key string) (any, bool) {
	data, err := s.client.Get(ctx, s.namespaced(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Delete removes a single key.
func (s *redisService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.namespaced(key)).Err()
}

// DeleteByPrefix removes every key that starts with prefix using SCAN.
func (s *redisService) DeleteByPrefix(ctx context.Context, prefix string) error {
	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Keys returns the keys that start with prefix, with the service namespace
// stripped back off.
func (s *redisService) Keys(ctx context.Context, prefix string) ([]string, error) {
	raw, err := s.scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	strip := ""
	if s.cfg.KeyPrefix != "" {
		strip = s.cfg.KeyPrefix + ":"
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k[len(strip):])
	}
	return keys, nil
}

func (s *redisService) scan(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	match := s.namespaced(prefix) + "*"
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan error: %w", err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// decodeInto unmarshals msgpack data into a fresh value of the given type.
func decodeInto(data []byte, t reflect.Type) (any, error) {
	ptr := reflect.New(t)
	if err := msgpack.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode cache value: %w", err)
	}
	return ptr.Elem().Interface(), nil
}
