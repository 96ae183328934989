package searchspec

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nimburion/querykit/pkg/observability/logger"
	"github.com/nimburion/querykit/pkg/spec"
)

// SearchExecutor is the slice of the search store adapter this backend uses.
// Satisfied by the opensearch store adapter.
type SearchExecutor interface {
	Search(ctx context.Context, index string, query interface{}) (json.RawMessage, error)
}

// Backend executes specification queries against one search index.
// It implements the paginate.Backend contract. Entities are decoded from
// document sources with encoding/json.
type Backend[T any] struct {
	executor     SearchExecutor
	index        string
	defaultOrder string
	logger       logger.Logger
}

// NewBackend creates a search backend over an index. defaultOrder is the
// field used to order results when the caller supplies no sort chain.
func NewBackend[T any](executor SearchExecutor, index, defaultOrder string, log logger.Logger) *Backend[T] {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Backend[T]{executor: executor, index: index, defaultOrder: defaultOrder, logger: log}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Count performs a server-side count of documents satisfying the
// specification by running a zero-size search with exact hit tracking.
func (b *Backend[T]) Count(ctx context.Context, s spec.Specification[T]) (int64, error) {
	query, err := translate(s)
	if err != nil {
		return 0, err
	}

	body := map[string]interface{}{
		"size":             0,
		"query":            query,
		"track_total_hits": true,
	}
	raw, err := b.executor.Search(ctx, b.index, body)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return resp.Hits.Total.Value, nil
}

// FetchPage returns the window [offset, offset+limit) of the filtered,
// sorted document set.
func (b *Backend[T]) FetchPage(ctx context.Context, s spec.Specification[T], sortChain spec.SortChain[T], offset, limit int) ([]T, error) {
	query, err := translate(s)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"query": query,
		"from":  offset,
		"size":  limit,
		"sort":  SortClauses(sortChain, b.defaultOrder),
	}

	b.logger.Debug("executing specification query", "index", b.index, "from", offset, "size", limit)

	raw, err := b.executor.Search(ctx, b.index, body)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	entities := make([]T, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var entity T
		if err := json.Unmarshal(hit.Source, &entity); err != nil {
			return nil, fmt.Errorf("failed to decode document source: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func translate[T any](s spec.Specification[T]) (Query, error) {
	if s == nil {
		return Translate(nil)
	}
	return Translate(s.Node())
}
