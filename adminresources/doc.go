// Package adminresources wires the admin console's business entities —
// orders, products, users, purchase orders — into pagination cache
// resources.
//
// Each entity contributes a record type with its validation rules, a filter
// predicate declaring which filter fields can be evaluated locally for
// optimistic inserts, and a constructor that binds the REST endpoints and
// dependent cache namespaces. Filter fields a predicate cannot evaluate
// (free-text search, date ranges, price ranges) make the predicate report
// "unknown", which leaves the page to the post-mutation reconciliation
// instead of guessing.
package adminresources
