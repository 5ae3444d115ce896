package paginationcache

import (
	"sort"
	"strings"

	"github.com/goliatone/go-pagination-cache/cache"
)

// Filters holds the active filter fields of one list view, keyed by field
// name. Values are the raw filter values as the UI produced them.
type Filters map[string]string

// Canonical serializes the filters deterministically: non-empty entries
// sorted by key, joined as k=v pairs. Empty and all-empty filters collapse to
// "-" so an absent filter object and an empty one produce the same identity.
func (f Filters) Canonical() string {
	if len(f) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		if v == "" {
			continue
		}
		pairs = append(pairs, k+"="+v)
	}
	if len(pairs) == 0 {
		return "-"
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// Clone returns an independent copy, dropping empty values.
func (f Filters) Clone() Filters {
	if len(f) == 0 {
		return nil
	}
	out := make(Filters, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Equal compares two filter sets by their canonical form.
func (f Filters) Equal(other Filters) bool {
	return f.Canonical() == other.Canonical()
}

// Scope identifies the tenant a query is restricted to. Every identity
// embeds it so two brands (or two users within a brand) never share cache
// slots.
type Scope struct {
	BrandID string
	UserID  string
}

// Identity is the composite cache key for one (entity, scope, filters,
// search, page) combination.
type Identity struct {
	Prefix   string
	Scope    Scope
	Filters  Filters
	Search   string
	Page     int
	PageSize int
}

// Normalize returns the identity with its components in canonical form:
// search trimmed (whitespace-only treated as absent) and empty filter values
// dropped. Key must only ever be called on a normalized identity.
func (id Identity) Normalize() Identity {
	id.Search = strings.TrimSpace(id.Search)
	id.Filters = id.Filters.Clone()
	return id
}

// Key renders the identity through the serializer. The key always starts
// with the prefix segment, which is what namespace invalidation matches on.
func (id Identity) Key(s cache.KeySerializer) string {
	search := id.Search
	if search == "" {
		search = "-"
	}
	return s.SerializeKey(id.Prefix,
		id.Scope.BrandID,
		id.Scope.UserID,
		id.Filters.Canonical(),
		search,
		id.Page,
		id.PageSize,
	)
}
