package paginationcache

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
)

// CriteriaBuilder translates a list query into the select criteria of a
// go-repository-bun repository: limit/offset for the page, plus whatever
// where clauses the filters, search term, and tenant scope require. The
// builder owns the translation because criteria bodies are storage-specific.
type CriteriaBuilder func(q ListQuery) []repository.SelectCriteria

// RepositoryFetcher adapts a go-repository-bun repository into a Fetcher, so
// database-backed lists run through the same coordinator as REST-backed
// ones. The repository's List already returns records plus the total count,
// which is exactly the page entry shape.
func RepositoryFetcher[T any](repo repository.Repository[T], build CriteriaBuilder) Fetcher[T] {
	return func(ctx context.Context, q ListQuery) ([]T, int, error) {
		var criteria []repository.SelectCriteria
		if build != nil {
			criteria = build(q)
		}
		records, total, err := repo.List(ctx, criteria...)
		if err != nil {
			return nil, 0, ensureKind(ErrFetchFailed, err)
		}
		return records, total, nil
	}
}
