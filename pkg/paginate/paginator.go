package paginate

import (
	"context"
	"errors"

	"github.com/nimburion/querykit/pkg/observability/logger"
	"github.com/nimburion/querykit/pkg/spec"
)

// Backend executes a specification against one storage strategy. The
// in-memory backend tests entities directly; translating backends map the
// predicate tree to a native filter. Every backend must select the same
// entity set, count, and ordering for the same specification and data.
//
// When the sort chain is empty a backend must still apply one deterministic
// default order (insertion order, primary key, ...); page boundaries are
// never left to storage whim.
type Backend[T any] interface {
	// Count returns the total number of entities satisfying the
	// specification, independent of any window.
	Count(ctx context.Context, s spec.Specification[T]) (int64, error)

	// FetchPage returns the window [offset, offset+limit) of the filtered,
	// sorted entity set.
	FetchPage(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], offset, limit int) ([]T, error)
}

// Paginator composes filtering, counting, sorting, and windowing over a
// backend into page results. It is stateless and safe for concurrent use.
type Paginator[T any] struct {
	backend Backend[T]
	logger  logger.Logger
}

// NewPaginator creates a paginator over the given backend. A nil logger
// falls back to a nop logger.
func NewPaginator[T any](backend Backend[T], log logger.Logger) *Paginator[T] {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Paginator[T]{backend: backend, logger: log}
}

// Paginate validates the request, counts the full filtered set, fetches the
// requested window, and assembles the result envelope. A nil specification
// matches everything.
//
// The count always runs before and independently of the window fetch. A page
// number beyond the last page yields an empty item slice with full metadata;
// it is not an error. The two storage sub-operations observe whatever
// isolation the backend's storage provides: callers needing a strictly
// consistent count and window must scope the call inside the storage layer's
// transaction.
func (p *Paginator[T]) Paginate(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], req PageRequest) (PageResult[T], error) {
	if err := req.Validate(); err != nil {
		return PageResult[T]{}, err
	}

	total, err := p.backend.Count(ctx, s)
	if err != nil {
		return PageResult[T]{}, classify("count", err)
	}

	items := []T{}
	if total > 0 && int64(req.Offset()) < total {
		items, err = p.backend.FetchPage(ctx, s, sortChain, req.Offset(), req.Limit())
		if err != nil {
			return PageResult[T]{}, classify("fetch page", err)
		}
	}

	result := PageResult[T]{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		Size:       req.Size,
	}

	p.logger.Debug("paginated specification query",
		"page", req.Page,
		"size", req.Size,
		"total_count", total,
		"returned", len(items),
	)

	return result, nil
}

// classify keeps the engine's own error taxonomy intact and wraps everything
// else as a storage failure.
func classify(op string, err error) error {
	var unsupported *spec.UnsupportedPredicateError
	if errors.As(err, &unsupported) {
		return err
	}
	var evaluation *spec.PredicateEvaluationError
	if errors.As(err, &evaluation) {
		return err
	}
	return NewDataAccessError(op, err)
}
