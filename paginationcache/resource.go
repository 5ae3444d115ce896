package paginationcache

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

// Mutations holds the remote write operations of one entity. Update may
// return nil when the remote responds without a body; the façade then skips
// the in-place patch and relies on reconciliation alone.
type Mutations[T any] struct {
	Create func(ctx context.Context, record T) (T, error)
	Update func(ctx context.Context, id string, patch map[string]any) (*T, error)
	Delete func(ctx context.Context, id string) error
}

// Notifier receives fire-and-forget success/error toasts. Implementations
// must not block; the façade does not await or inspect the outcome.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to a slog logger. It is the default sink
// when no UI-facing notifier is wired.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(msg string) { n.logger().Info("notify", "status", "success", "msg", msg) }
func (n LogNotifier) Error(msg string)   { n.logger().Warn("notify", "status", "error", "msg", msg) }

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// ResourceConfig wires one entity's list fetcher, mutations, and patch
// predicate into a Resource.
type ResourceConfig[T any] struct {
	Options

	Fetch     Fetcher[T]
	Mutations Mutations[T]

	// Accepts decides whether a created record belongs on a page with the
	// given filters. Nil means only unfiltered pages receive optimistic
	// inserts.
	Accepts MatchFunc[T]

	// Dependents are additional query namespaces invalidated wholesale
	// after any mutation (e.g. a product mutation invalidating inventory).
	Dependents []string

	// Notifier defaults to LogNotifier.
	Notifier Notifier

	// RecordID overrides reflection-based id extraction.
	RecordID func(T) string

	// Label is the human-readable entity name used in notifications.
	// Defaults to Prefix.
	Label string
}

// Resource is the per-entity façade: the coordinator's pagination surface
// plus create/update/delete, each of which patches the cached pages
// optimistically and then reconciles whatever the patch could not reach.
type Resource[T any] struct {
	*Coordinator[T]

	patcher    *Patcher[T]
	mutations  Mutations[T]
	accepts    MatchFunc[T]
	dependents []string
	notifier   Notifier
	recordID   func(T) string
	label      string
}

// NewResource builds the façade for one entity.
func NewResource[T any](cfg ResourceConfig[T]) (*Resource[T], error) {
	coord, err := NewCoordinator(cfg.Options, cfg.Fetch)
	if err != nil {
		return nil, err
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: coord.opts.Logger}
	}
	idOf := cfg.RecordID
	if idOf == nil {
		idOf = func(record T) string {
			id, _ := extractRecordID(record)
			return id
		}
	}
	label := cfg.Label
	if label == "" {
		label = coord.opts.Prefix
	}

	return &Resource[T]{
		Coordinator: coord,
		patcher: &Patcher[T]{
			store:    coord.opts.Store,
			registry: coord.registry,
			prefix:   coord.opts.Prefix,
			logger:   coord.opts.Logger,
		},
		mutations:  cfg.Mutations,
		accepts:    cfg.Accepts,
		dependents: cfg.Dependents,
		notifier:   notifier,
		recordID:   idOf,
		label:      label,
	}, nil
}

// Patcher exposes the resource's cache patcher for callers that need custom
// transforms beyond the built-in mutation policies.
func (r *Resource[T]) Patcher() *Patcher[T] { return r.patcher }

// Create validates the record locally when it knows how, performs the remote
// create, prepends the result to matching page-zero caches, and reconciles
// the rest of the namespace.
func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	if v, ok := any(record).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			var zero T
			err = &Error{Kind: ErrValidationRejected, Message: err.Error(), Err: err}
			r.notifier.Error(fmt.Sprintf("failed to create %s: %v", r.label, err))
			return zero, err
		}
	}

	if r.mutations.Create == nil {
		var zero T
		return zero, &Error{Kind: ErrValidationRejected, Message: "create is not supported for " + r.label}
	}

	created, err := r.mutations.Create(ctx, record)
	if err != nil {
		err = ensureKind(ErrNetworkFailure, err)
		r.notifier.Error(fmt.Sprintf("failed to create %s: %v", r.label, err))
		var zero T
		return zero, err
	}

	patched := r.patcher.UpdateCaches(ctx, InsertOnCreate(created, r.accepts))
	r.reconcile(ctx, patched)
	r.notifier.Success(r.label + " created")
	return created, nil
}

// Update performs the remote update and, when the remote returns the fresh
// record, replaces it in-place in every cached page that holds it.
func (r *Resource[T]) Update(ctx context.Context, id string, patch map[string]any) error {
	if r.mutations.Update == nil {
		return &Error{Kind: ErrValidationRejected, Message: "update is not supported for " + r.label}
	}

	updated, err := r.mutations.Update(ctx, id, patch)
	if err != nil {
		err = ensureKind(ErrNetworkFailure, err)
		r.notifier.Error(fmt.Sprintf("failed to update %s: %v", r.label, err))
		return err
	}

	var patched []string
	if updated != nil {
		patched = r.patcher.UpdateCaches(ctx, UpdateInPlace(id, *updated, r.recordID))
	}
	r.reconcile(ctx, patched)
	r.notifier.Success(r.label + " updated")
	return nil
}

// Delete performs the remote delete and removes the record from every cached
// page that holds it, decrementing totals.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if r.mutations.Delete == nil {
		return &Error{Kind: ErrValidationRejected, Message: "delete is not supported for " + r.label}
	}

	if err := r.mutations.Delete(ctx, id); err != nil {
		err = ensureKind(ErrNetworkFailure, err)
		r.notifier.Error(fmt.Sprintf("failed to delete %s: %v", r.label, err))
		return err
	}

	patched := r.patcher.UpdateCaches(ctx, RemoveOnDelete(id, r.recordID))
	r.reconcile(ctx, patched)
	r.notifier.Success(r.label + " deleted")
	return nil
}

// reconcile invalidates every registered page the patch did not rewrite,
// plus all dependent namespaces, so pages the patcher had to skip converge
// on the next fetch. Deleting the optimistically patched entries here would
// throw the patch away, hence the exclusion set.
func (r *Resource[T]) reconcile(ctx context.Context, patched []string) {
	keep := make(map[string]struct{}, len(patched))
	for _, key := range patched {
		keep[key] = struct{}{}
	}

	var stale []string
	r.Coordinator.registry.rangePrefix(r.opts.Prefix, func(key string, _ PageMeta) bool {
		if _, ok := keep[key]; !ok {
			stale = append(stale, key)
		}
		return true
	})

	for _, key := range stale {
		if err := r.opts.Store.Delete(ctx, key); err != nil {
			r.opts.Logger.Warn("cache invalidation failed", "key", key, "error", err)
		}
		r.Coordinator.registry.remove(key)
	}

	for _, dep := range r.dependents {
		if err := r.opts.Store.DeleteByPrefix(ctx, dep); err != nil {
			r.opts.Logger.Warn("dependent invalidation failed", "prefix", dep, "error", err)
		}
	}
}

// extractRecordID pulls an id out of a record using reflection, checking the
// common field spellings.
func extractRecordID(record any) (string, error) {
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", fmt.Errorf("nil record")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", fmt.Errorf("record is not a struct")
	}

	for _, fieldName := range []string{"ID", "Id", "id"} {
		field := v.FieldByName(fieldName)
		if field.IsValid() && field.CanInterface() {
			return fmt.Sprintf("%v", field.Interface()), nil
		}
	}
	return "", fmt.Errorf("no ID field found in record")
}
