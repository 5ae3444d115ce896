// Package paginationcache implements a tenant-scoped, paginated list cache
// with optimistic mutation patching.
//
// # Overview
//
// Three cooperating pieces make up the package:
//
//   - Coordinator: owns the pagination state of one list view (page, page
//     size, filters, debounced search term, tenant scope), derives a query
//     identity from that state, and fetches pages through a cache store
//   - Patcher: applies in-memory patches to cached pages after mutations,
//     so list views update without a full refetch
//   - Resource: the per-entity façade combining both with injected remote
//     create/update/delete calls and a notification sink
//
// # Query Identity
//
// A cache key is derived from (entity prefix, tenant scope, canonical
// filters, normalized search, page, page size). Changing any component
// changes the key, so a stale identity can never serve another view's data;
// the previous page's records remain available through Snapshot while the
// new identity's fetch is in flight.
//
// # Pagination Rules
//
//   - SetPage clamps at zero but not against PageCount; pages past the end
//     resolve empty rather than forcing an ordering on the total
//   - SetPageSize resets the page to zero in the same step
//   - Filter, scope, and committed search changes reset the page to zero;
//     SetPage itself never does
//   - SetSearch debounces; only the final term of a burst commits
//
// # Optimistic Patching
//
// After a successful mutation the Resource patches the namespace's cached
// pages:
//
//   - Create: prepend to page-zero entries whose filter predicate accepts
//     the record (searchless pages only), trim to page size, total+1
//   - Update: replace the record in-place wherever its id appears
//   - Delete: drop the record, total-1 floored at zero
//
// Pages the patch cannot reach — an active search term, a filter the
// predicate cannot evaluate locally — are invalidated instead and converge
// on their next fetch. The server is always authoritative: a refetch fully
// replaces any optimistic entry.
//
// # Error Handling
//
// All failures carry one of the package's kind sentinels
// (ErrUnauthenticated, ErrValidationRejected, ErrNetworkFailure,
// ErrFetchFailed) and match via errors.Is. The core never retries and never
// panics past its boundary; a failed list fetch leaves the previous snapshot
// in place.
//
// # See Also
//
// The cache package defines the store contract and key serialization; the
// adminresources package wires the concrete admin-console entities.
package paginationcache
