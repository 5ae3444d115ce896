package paginationcache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagination-cache/cache"
)

// Configuration defaults. Both are overridable per coordinator; they are
// conventions, not protocol requirements.
const (
	DefaultPageSize         = 25
	DefaultDebounceInterval = 300 * time.Millisecond
)

// ListQuery carries everything a fetcher needs to produce one page.
type ListQuery struct {
	Page     int
	PageSize int
	Filters  Filters
	Search   string
	Scope    Scope
}

// Fetcher produces one page of records plus the total count for the whole
// result set. It must be idempotent and side-effect-free.
type Fetcher[T any] func(ctx context.Context, q ListQuery) ([]T, int, error)

// Options configures a Coordinator or Resource.
type Options struct {
	// Prefix is the query namespace, typically the entity name. Required.
	Prefix string

	// PageSize is the initial page size. Defaults to DefaultPageSize.
	PageSize int

	// DebounceInterval is how long SetSearch waits for the term to settle
	// before committing. Zero means DefaultDebounceInterval; negative
	// commits synchronously (useful in tests).
	DebounceInterval time.Duration

	// Store is the backing cache service. Required.
	Store cache.CacheService

	// Serializer builds cache keys. Defaults to the reflection serializer.
	Serializer cache.KeySerializer

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (o *Options) applyDefaults() error {
	if o.Prefix == "" {
		return &Error{Kind: ErrValidationRejected, Message: "options: Prefix is required"}
	}
	if o.Store == nil {
		return &Error{Kind: ErrValidationRejected, Message: "options: Store is required"}
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.DebounceInterval == 0 {
		o.DebounceInterval = DefaultDebounceInterval
	}
	if o.Serializer == nil {
		o.Serializer = cache.NewDefaultKeySerializer()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// Coordinator owns the pagination state of one list view: current page and
// page size, committed filters and search term, and the tenant scope. It
// recomputes the query identity from those inputs on every Resolve, fetches
// through the cache store, and keeps the last successful page as a
// stale-while-revalidate snapshot.
//
// All methods are safe for concurrent use.
type Coordinator[T any] struct {
	mu   sync.Mutex
	opts Options

	fetch    Fetcher[T]
	registry *registry

	scope   Scope
	filters Filters
	search  string

	page     int
	pageSize int

	// debounce state for SetSearch
	debounce      *time.Timer
	pendingSearch string

	// last successful resolve
	snapshot []T
	total    int
	hasData  bool
	lastErr  error

	onRefresh func()
}

// NewCoordinator builds a coordinator for one list view.
func NewCoordinator[T any](opts Options, fetch Fetcher[T]) (*Coordinator[T], error) {
	if fetch == nil {
		return nil, &Error{Kind: ErrValidationRejected, Message: "fetcher is required"}
	}
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}
	return &Coordinator[T]{
		opts:     opts,
		fetch:    fetch,
		registry: newRegistry(),
		pageSize: opts.PageSize,
	}, nil
}

// Prefix returns the coordinator's query namespace.
func (c *Coordinator[T]) Prefix() string { return c.opts.Prefix }

// Page returns the current zero-based page index.
func (c *Coordinator[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageSize returns the current page size.
func (c *Coordinator[T]) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// TotalCount returns the server-side total from the last successful resolve.
func (c *Coordinator[T]) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// PageCount derives the number of pages from the last known total. Zero when
// no records exist.
func (c *Coordinator[T]) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pageCount(c.total, c.pageSize)
}

func pageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Snapshot returns the records from the last successful resolve. While a new
// identity is in flight this is the previous page's data, which is what lets
// list views avoid flicker.
func (c *Coordinator[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// HasData reports whether at least one resolve has succeeded, i.e. whether
// Snapshot holds real data. UI layers use it to distinguish "loading" from
// "stale but showable".
func (c *Coordinator[T]) HasData() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasData
}

// Err returns the failure of the most recent resolve, nil after a success.
func (c *Coordinator[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetPage moves to page n, clamped at zero. It deliberately does not clamp
// against PageCount: a page past the end resolves to an empty page, which
// avoids ordering the call against a total that may not have arrived yet.
func (c *Coordinator[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.page = n
}

// SetPageSize sets the page size and resets the page to zero in the same
// step: a new size reshuffles which records fall on which page, so the old
// index has no meaning.
func (c *Coordinator[T]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = n
	c.page = 0
}

// SetFilters replaces the filter set and resets the page to zero when the
// canonical form actually changed.
func (c *Coordinator[T]) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := f.Clone()
	if c.filters.Equal(next) {
		return
	}
	c.filters = next
	c.page = 0
}

// SetScope switches the tenant identity and resets the page to zero.
func (c *Coordinator[T]) SetScope(s Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == s {
		return
	}
	c.scope = s
	c.page = 0
}

// Scope returns the current tenant scope.
func (c *Coordinator[T]) Scope() Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// SetSearch records the term and starts (or restarts) the debounce timer.
// When the timer fires the latest term is committed, the page resets to
// zero, and the refresh listener runs once. Terms superseded within the
// interval never commit.
func (c *Coordinator[T]) SetSearch(term string) {
	c.mu.Lock()
	c.pendingSearch = term
	if c.opts.DebounceInterval < 0 {
		c.mu.Unlock()
		c.FlushSearch()
		return
	}
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.opts.DebounceInterval, c.FlushSearch)
	c.mu.Unlock()
}

// FlushSearch commits the pending search term immediately. SetSearch calls
// it from the debounce timer; tests and programmatic callers may call it
// directly.
func (c *Coordinator[T]) FlushSearch() {
	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	committed := normalizeSearch(c.pendingSearch)
	changed := committed != c.search
	if changed {
		c.search = committed
		c.page = 0
	}
	refresh := c.onRefresh
	c.mu.Unlock()

	if changed && refresh != nil {
		refresh()
	}
}

// OnRefresh registers a listener invoked after a debounced search commit.
// UI layers typically resolve again from it.
func (c *Coordinator[T]) OnRefresh(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

// identity computes the current query identity. Callers must hold c.mu.
func (c *Coordinator[T]) identityLocked() Identity {
	return Identity{
		Prefix:   c.opts.Prefix,
		Scope:    c.scope,
		Filters:  c.filters,
		Search:   c.search,
		Page:     c.page,
		PageSize: c.pageSize,
	}.Normalize()
}

// Query returns the list query for the current state.
func (c *Coordinator[T]) Query() ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryLocked()
}

func (c *Coordinator[T]) queryLocked() ListQuery {
	return ListQuery{
		Page:     c.page,
		PageSize: c.pageSize,
		Filters:  c.filters.Clone(),
		Search:   normalizeSearch(c.search),
		Scope:    c.scope,
	}
}

// Resolve fetches the page for the current identity through the cache store
// and returns its records and total. A fetch that resolves after the
// identity has moved on still fills its own cache slot but is not promoted
// to the snapshot.
func (c *Coordinator[T]) Resolve(ctx context.Context) ([]T, int, error) {
	c.mu.Lock()
	identity := c.identityLocked()
	query := c.queryLocked()
	key := identity.Key(c.opts.Serializer)
	c.mu.Unlock()

	entry, err := cache.GetOrFetch(ctx, c.opts.Store, key, func(ctx context.Context) (PageEntry[T], error) {
		records, total, err := c.fetch(ctx, query)
		if err != nil {
			return PageEntry[T]{}, err
		}
		return PageEntry[T]{Records: records, Total: total}, nil
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = ensureKind(ErrFetchFailed, err)
		c.opts.Logger.Warn("list fetch failed",
			"prefix", c.opts.Prefix,
			"page", query.Page,
			"error", err,
		)
		return c.snapshot, c.total, c.lastErr
	}

	c.registry.register(key, PageMeta{
		Page:     identity.Page,
		PageSize: identity.PageSize,
		Filters:  identity.Filters,
		Search:   identity.Search,
	})

	// Discard resolutions for identities we have navigated away from; the
	// entry stays cached under its own key for when the view returns.
	if current := c.identityLocked().Key(c.opts.Serializer); current != key {
		return entry.Records, entry.Total, nil
	}

	c.snapshot = entry.Records
	c.total = entry.Total
	c.hasData = true
	c.lastErr = nil
	return entry.Records, entry.Total, nil
}

// normalizeSearch mirrors Identity.Normalize: whitespace-only is absent.
func normalizeSearch(s string) string {
	return strings.TrimSpace(s)
}
