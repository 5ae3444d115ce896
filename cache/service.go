package cache

import "context"

// KeySerializer builds a cache key from a namespace plus arbitrary segments.
// Implementations must produce stable keys across calls, and the returned key
// must start with the namespace so prefix-based invalidation stays possible.
type KeySerializer interface {
	SerializeKey(namespace string, segments ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from
// the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the asynchronous key-addressed store the pagination core
// runs on. Backends are expected to coalesce concurrent fetches for the same
// key into a single in-flight request; the core relies on that guarantee
// rather than locking around fetches itself.
//
// Peek returns the live entry without triggering a fetch; backends that store
// encoded bytes (e.g. Redis) may return the raw encoding and leave decoding
// to the caller.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Set(ctx context.Context, key string, value any) error
	Peek(ctx context.Context, key string) (any, bool)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// GetOrFetch is a type-safe wrapper around CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		// nil interface results and decode mismatches degrade to the zero
		// value instead of panicking on the assertion.
		var zero T
		return zero, nil
	}
	return typed, nil
}

// Peek is a type-safe wrapper around CacheService.Peek for backends that hold
// live Go values. Returns false when the entry is absent or holds a different
// type.
func Peek[T any](ctx context.Context, service CacheService, key string) (T, bool) {
	raw, ok := service.Peek(ctx, key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := raw.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}
