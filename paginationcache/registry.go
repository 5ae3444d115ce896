package paginationcache

import (
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// PageMeta describes the list-view coordinates a cached page was fetched
// under. The patcher consults it to decide whether a mutation can be applied
// to that page locally.
type PageMeta struct {
	Page     int
	PageSize int
	Filters  Filters
	Search   string
}

// PageEntry is the cached value for one query identity: one page of records
// plus the server-side total for the whole result set.
type PageEntry[T any] struct {
	Records []T `json:"records" msgpack:"records"`
	Total   int `json:"total" msgpack:"total"`
}

// registry tracks the live cache keys a coordinator has populated, together
// with the page meta each was fetched under. The patcher walks it instead of
// scanning the backing store, and reconciliation deletes through it.
type registry struct {
	entries *xsync.MapOf[string, PageMeta]
}

func newRegistry() *registry {
	return &registry{entries: xsync.NewMapOf[string, PageMeta]()}
}

func (r *registry) register(key string, meta PageMeta) {
	r.entries.Store(key, meta)
}

func (r *registry) remove(key string) {
	r.entries.Delete(key)
}

// rangePrefix visits every registered key starting with prefix. Returning
// false from fn stops the walk.
func (r *registry) rangePrefix(prefix string, fn func(key string, meta PageMeta) bool) {
	r.entries.Range(func(key string, meta PageMeta) bool {
		if !strings.HasPrefix(key, prefix) {
			return true
		}
		return fn(key, meta)
	})
}
