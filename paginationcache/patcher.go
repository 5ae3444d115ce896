package paginationcache

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-pagination-cache/cache"
	"github.com/vmihailenco/msgpack/v5"
)

// Transform inspects one cached page and either returns its replacement or
// nil to leave the entry untouched. When membership cannot be determined
// locally, returning nil is the correct answer: the page stays temporarily
// stale and the post-mutation reconciliation converges it.
type Transform[T any] func(entry PageEntry[T], meta PageMeta) *PageEntry[T]

// MatchFunc decides whether a record satisfies a filter set. ok reports
// whether the decision could be made locally at all; a free-text search or a
// server-evaluated filter returns ok=false and the page is left to the
// reconciliation pass.
type MatchFunc[T any] func(record T, filters Filters) (match bool, ok bool)

// Patcher applies optimistic, in-memory patches to the cached pages of one
// query namespace after a mutation, so list views update without a full
// refetch. It performs no network I/O and cannot fail; store write errors
// are logged and the entry skipped.
type Patcher[T any] struct {
	store    cache.CacheService
	registry *registry
	prefix   string
	logger   *slog.Logger
}

// UpdateCaches visits every registered page in the namespace, applies the
// transform, and writes back replacements. It returns the keys that were
// patched; reconciliation uses that set to invalidate only what the patch
// could not reach.
func (p *Patcher[T]) UpdateCaches(ctx context.Context, transform Transform[T]) []string {
	var patched []string
	p.registry.rangePrefix(p.prefix, func(key string, meta PageMeta) bool {
		entry, ok := p.peekEntry(ctx, key)
		if !ok {
			return true
		}
		next := transform(entry, meta)
		if next == nil {
			return true
		}
		if err := p.store.Set(ctx, key, *next); err != nil {
			p.logger.Warn("cache patch write failed", "key", key, "error", err)
			return true
		}
		patched = append(patched, key)
		return true
	})
	return patched
}

// peekEntry reads a live page entry, decoding byte-encoded values from
// backends that store encodings (Redis/msgpack).
func (p *Patcher[T]) peekEntry(ctx context.Context, key string) (PageEntry[T], bool) {
	raw, ok := p.store.Peek(ctx, key)
	if !ok {
		return PageEntry[T]{}, false
	}
	switch v := raw.(type) {
	case PageEntry[T]:
		return v, true
	case []byte:
		var entry PageEntry[T]
		if err := msgpack.Unmarshal(v, &entry); err != nil {
			return PageEntry[T]{}, false
		}
		return entry, true
	default:
		return PageEntry[T]{}, false
	}
}

// InsertOnCreate is the patch for a freshly created record: prepend it to
// page-zero entries whose view the record would appear on, trim the page
// back to its size, and bump the total. Pages with an active search term or
// filters the predicate cannot evaluate are skipped.
func InsertOnCreate[T any](record T, accepts MatchFunc[T]) Transform[T] {
	return func(entry PageEntry[T], meta PageMeta) *PageEntry[T] {
		if meta.Page != 0 || meta.Search != "" {
			return nil
		}
		if accepts != nil {
			match, ok := accepts(record, meta.Filters)
			if !ok || !match {
				return nil
			}
		} else if len(meta.Filters) > 0 {
			return nil
		}

		records := make([]T, 0, len(entry.Records)+1)
		records = append(records, record)
		records = append(records, entry.Records...)
		if meta.PageSize > 0 && len(records) > meta.PageSize {
			// The overflowing record still exists server-side; it reappears
			// on refetch or on the next page.
			records = records[:meta.PageSize]
		}
		return &PageEntry[T]{Records: records, Total: entry.Total + 1}
	}
}

// UpdateInPlace replaces the record with the given id wherever it appears.
// Pages not containing the id are untouched.
func UpdateInPlace[T any](id string, record T, idOf func(T) string) Transform[T] {
	return func(entry PageEntry[T], meta PageMeta) *PageEntry[T] {
		idx := indexOf(entry.Records, id, idOf)
		if idx < 0 {
			return nil
		}
		records := append([]T(nil), entry.Records...)
		records[idx] = record
		return &PageEntry[T]{Records: records, Total: entry.Total}
	}
}

// RemoveOnDelete drops the record with the given id from pages containing it
// and decrements the total, floored at zero.
func RemoveOnDelete[T any](id string, idOf func(T) string) Transform[T] {
	return func(entry PageEntry[T], meta PageMeta) *PageEntry[T] {
		idx := indexOf(entry.Records, id, idOf)
		if idx < 0 {
			return nil
		}
		records := append([]T(nil), entry.Records[:idx]...)
		records = append(records, entry.Records[idx+1:]...)
		total := entry.Total - 1
		if total < 0 {
			total = 0
		}
		return &PageEntry[T]{Records: records, Total: total}
	}
}

func indexOf[T any](records []T, id string, idOf func(T) string) int {
	if id == "" || idOf == nil {
		return -1
	}
	for i, r := range records {
		if idOf(r) == id {
			return i
		}
	}
	return -1
}
