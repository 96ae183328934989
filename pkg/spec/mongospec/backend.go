package mongospec

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimburion/querykit/pkg/observability/logger"
	"github.com/nimburion/querykit/pkg/spec"
)

// Collection is the slice of the mongo collection API this backend uses.
// Satisfied by *mongo.Collection.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Backend executes specification queries against a MongoDB collection.
// It implements the paginate.Backend contract.
type Backend[T any] struct {
	collection   Collection
	defaultOrder string
	logger       logger.Logger
}

// NewBackend creates a MongoDB backend over a collection. defaultOrder is
// the field (typically "_id") used to order results when the caller supplies
// no sort chain.
func NewBackend[T any](collection Collection, defaultOrder string, log logger.Logger) *Backend[T] {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Backend[T]{collection: collection, defaultOrder: defaultOrder, logger: log}
}

// Count performs a server-side count of documents satisfying the
// specification; matched documents are never transferred.
func (b *Backend[T]) Count(ctx context.Context, s spec.Specification[T]) (int64, error) {
	filter, err := translate(s)
	if err != nil {
		return 0, err
	}
	count, err := b.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// FetchPage returns the window [offset, offset+limit) of the filtered,
// sorted document set.
func (b *Backend[T]) FetchPage(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], offset, limit int) ([]T, error) {
	filter, err := translate(s)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(SortDocument(sortChain, b.defaultOrder)).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	b.logger.Debug("executing specification query", "filter", filter, "skip", offset, "limit", limit)

	cursor, err := b.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	entities := []T{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return entities, nil
}

func translate[T any](s spec.Specification[T]) (interface{}, error) {
	if s == nil {
		return Translate(nil)
	}
	return Translate(s.Node())
}
