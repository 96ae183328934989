package memory

import (
	"context"

	"github.com/nimburion/querykit/pkg/spec"
)

// Backend executes specification queries against an in-memory snapshot.
// It implements the paginate.Backend contract, so a paginator backed by it
// and one backed by a translating store return identical pages for the same
// specification and data.
type Backend[T any] struct {
	items []T
}

// NewBackend creates a backend over a snapshot of items. The slice is copied
// so later caller mutations do not shift page boundaries between the count
// and fetch sub-operations.
func NewBackend[T any](items []T) *Backend[T] {
	snapshot := make([]T, len(items))
	copy(snapshot, items)
	return &Backend[T]{items: snapshot}
}

// Count returns the number of snapshot entities satisfying the specification.
func (b *Backend[T]) Count(ctx context.Context, s spec.Specification[T]) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return Count(s, b.items)
}

// FetchPage filters, sorts, and windows the snapshot. An empty sort chain
// keeps the snapshot's original order, which is this backend's deterministic
// default.
func (b *Backend[T]) FetchPage(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], offset, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched, err := Evaluate(s, b.items)
	if err != nil {
		return nil, err
	}

	sortChain.Apply(matched)

	if offset >= len(matched) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}
