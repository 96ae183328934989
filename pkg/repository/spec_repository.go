package repository

import (
	"context"
	"errors"

	"github.com/nimburion/querykit/pkg/observability/logger"
	"github.com/nimburion/querykit/pkg/paginate"
	"github.com/nimburion/querykit/pkg/spec"
	"github.com/nimburion/querykit/pkg/spec/sqlspec"
)

// ErrNotFound is returned when no entity satisfies the specification.
var ErrNotFound = errors.New("entity not found")

// SpecRepository is a SQL-backed Reader. It owns no connection: the executor
// is passed in at construction and may be a pooled *sql.DB or a *sql.Tx when
// the caller needs the count and page fetch of one call inside a single
// consistent snapshot.
type SpecRepository[T any] struct {
	backend   *sqlspec.Backend[T]
	paginator *paginate.Paginator[T]
	logger    logger.Logger
}

// NewSpecRepository creates a repository for one table. idColumn doubles as
// the deterministic default sort column when a caller supplies no sort chain.
func NewSpecRepository[T any](
	executor sqlspec.Executor,
	dialect sqlspec.Dialect,
	tableName string,
	idColumn string,
	mapper sqlspec.RowMapper[T],
	log logger.Logger,
) *SpecRepository[T] {
	if log == nil {
		log = logger.NewNopLogger()
	}
	backend := sqlspec.NewBackend[T](executor, sqlspec.NewTranslator(dialect), tableName, idColumn, mapper, log)
	return &SpecRepository[T]{
		backend:   backend,
		paginator: paginate.NewPaginator[T](backend, log),
		logger:    log,
	}
}

// FindOne returns the first entity satisfying the specification in default
// order, or ErrNotFound.
func (r *SpecRepository[T]) FindOne(ctx context.Context, s spec.Specification[T]) (*T, error) {
	items, err := r.backend.FetchPage(ctx, s, nil, 0, 1)
	if err != nil {
		return nil, classify("find one", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// FindAll returns one page of entities satisfying the specification.
func (r *SpecRepository[T]) FindAll(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], req paginate.PageRequest) (paginate.PageResult[T], error) {
	return r.paginator.Paginate(ctx, s, sortChain, req)
}

// Count returns the number of entities satisfying the specification.
func (r *SpecRepository[T]) Count(ctx context.Context, s spec.Specification[T]) (int64, error) {
	count, err := r.backend.Count(ctx, s)
	if err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}

// classify keeps the engine's error taxonomy intact and wraps everything
// else as a storage failure.
func classify(op string, err error) error {
	var unsupported *spec.UnsupportedPredicateError
	if errors.As(err, &unsupported) {
		return err
	}
	return paginate.NewDataAccessError(op, err)
}
