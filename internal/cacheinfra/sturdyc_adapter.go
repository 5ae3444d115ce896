package cacheinfra

import (
	"context"
	"strings"

	"github.com/viccon/sturdyc"
)

// sturdycService wraps a sturdyc client providing the in-memory cache
// backend. sturdyc coalesces concurrent fetches for the same key, which is
// the request-deduplication guarantee the pagination core relies on.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService creates the in-memory cache service adapter. It validates
// the configuration and initializes a sturdyc client with the provided
// settings.
//
// Version compatibility note: this implementation assumes sturdyc v1.x API.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch attempts to retrieve a value from the cache using the provided
// key. If the key is not found or expired, it executes the fetchFn to get a
// fresh value, stores it, and returns it.
//
// The fetchFn parameter must be of type cache.FetchFn[T]; the reflective
// bridge in fetchfn.go adapts it to sturdyc's any-typed client.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// Set writes a value directly into the cache, replacing any live entry.
// This is the primitive the optimistic cache patcher uses.
func (s *sturdycService) Set(ctx context.Context, key string, value any) error {
	s.client.Set(key, value)
	return nil
}

// Peek returns the live entry for key without triggering a fetch.
func (s *sturdycService) Peek(ctx context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

// Delete removes a single entry so subsequent GetOrFetch calls fetch fresh
// data from the source.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes all entries whose keys start with the given prefix.
// Used to invalidate a whole query namespace after mutations.
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// Keys returns the live keys that start with the given prefix.
func (s *sturdycService) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
