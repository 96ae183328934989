package sqlspec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nimburion/querykit/pkg/observability/logger"
	"github.com/nimburion/querykit/pkg/spec"
)

// Executor defines the interface for executing SQL queries.
// This can be a *sql.DB, *sql.Tx, or any adapter that provides these methods.
// Running both the count and fetch of one pagination call on a *sql.Tx is how
// callers get a consistent snapshot across the two sub-operations.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// RowMapper scans a database row into an entity.
type RowMapper[T any] interface {
	FromRow(rows *sql.Rows) (*T, error)
}

// Backend executes specification queries against a relational table.
// It implements the paginate.Backend contract.
type Backend[T any] struct {
	executor     Executor
	translator   *Translator
	tableName    string
	defaultOrder string
	mapper       RowMapper[T]
	logger       logger.Logger
}

// NewBackend creates a SQL backend for one table. defaultOrder is the column
// (typically the primary key) used to order results when the caller supplies
// no sort chain.
func NewBackend[T any](
	executor Executor,
	translator *Translator,
	tableName string,
	defaultOrder string,
	mapper RowMapper[T],
	log logger.Logger,
) *Backend[T] {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Backend[T]{
		executor:     executor,
		translator:   translator,
		tableName:    tableName,
		defaultOrder: defaultOrder,
		mapper:       mapper,
		logger:       log,
	}
}

// Count performs a server-side count of entities satisfying the
// specification; matched rows are never transferred.
func (b *Backend[T]) Count(ctx context.Context, s spec.Specification[T]) (int64, error) {
	filter, err := b.translate(s)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", b.tableName)
	if filter.Where != "" {
		query += " WHERE " + filter.Where
	}

	var count int64
	if err := b.executor.QueryRowContext(ctx, query, filter.Args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

// FetchPage returns the window [offset, offset+limit) of the filtered,
// sorted entity set.
func (b *Backend[T]) FetchPage(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], offset, limit int) ([]T, error) {
	filter, err := b.translate(s)
	if err != nil {
		return nil, err
	}
	orderBy, err := OrderBy(sortChain, b.defaultOrder)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", b.tableName)
	args := filter.Args
	if filter.Where != "" {
		query += " WHERE " + filter.Where
	}
	query += " " + orderBy

	switch b.translator.Dialect() {
	case DialectMySQL:
		query += " LIMIT ? OFFSET ?"
	default:
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	}
	args = append(args, limit, offset)

	b.logger.Debug("executing specification query", "table", b.tableName, "query", query)

	rows, err := b.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	entities := []T{}
	for rows.Next() {
		entity, err := b.mapper.FromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entities, nil
}

func (b *Backend[T]) translate(s spec.Specification[T]) (*Filter, error) {
	if s == nil {
		return &Filter{}, nil
	}
	return b.translator.Translate(s.Node())
}
