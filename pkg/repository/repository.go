// Package repository provides specification-driven read access to entity
// stores. It composes a translating backend with the paginator so callers
// work with specifications, sort chains, and page requests only.
package repository

import (
	"context"

	"github.com/nimburion/querykit/pkg/paginate"
	"github.com/nimburion/querykit/pkg/spec"
)

// Reader provides specification-driven read operations for entities.
type Reader[T any] interface {
	// FindOne returns the first entity satisfying the specification in the
	// store's default order, or ErrNotFound when nothing matches.
	FindOne(ctx context.Context, s spec.Specification[T]) (*T, error)

	// FindAll returns one page of entities satisfying the specification.
	FindAll(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], req paginate.PageRequest) (paginate.PageResult[T], error)

	// Count returns the number of entities satisfying the specification.
	Count(ctx context.Context, s spec.Specification[T]) (int64, error)
}
