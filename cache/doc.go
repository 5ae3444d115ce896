// Package cache provides the caching contract and key serialization for the
// pagination core.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: a generic asynchronous key-addressed store with
//     read-through fetching, direct writes, and prefix invalidation
//   - KeySerializer: builds stable cache keys from a namespace and
//     arbitrary segments
//
// Two CacheService backends ship with the module: an in-memory sturdyc
// adapter (the default) and a Redis adapter with msgpack-encoded values.
// Both coalesce concurrent fetches for the same key; the pagination core
// treats that deduplication as an external guarantee.
//
// # Basic Usage
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("orders", "brand-1", "user-9", "status=paid", 0, 25)
//
//	page, err := cache.GetOrFetch(ctx, service, key, func(ctx context.Context) (OrderPage, error) {
//		return fetchOrderPage(ctx)
//	})
//
// # Key Serialization Strategy
//
// The default serializer uses reflection to handle segment types
// deterministically:
//
//   - Basic types: direct string representation
//   - Slices/arrays: recursive serialization of elements
//   - Maps: key=value pairs sorted by key
//   - Structs: exported fields with name:value pairs
//   - Complex types: JSON fallback
//
// Segments longer than 64 bytes (large filter maps, long search terms) are
// replaced by an xxhash digest. The namespace always survives as the leading
// key component, which is what DeleteByPrefix relies on.
//
// # Configuration
//
// Config/RedisConfig configure the two backends programmatically;
// LoadFileConfig reads the same settings from a YAML file with an in-memory
// fallback when the file is absent.
//
// # See Also
//
// The paginationcache package builds query identities on top of this
// contract; internal/cacheinfra holds the backend adapters.
package cache
