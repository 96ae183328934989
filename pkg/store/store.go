// Package store holds connection adapters for the storage backends the
// query engine translates specifications to. Adapters own connections and
// transaction scope; the engine itself holds no resource state.
package store

import "context"

// Adapter is the minimal lifecycle and health contract for storage adapters.
type Adapter interface {
	HealthCheck(ctx context.Context) error
	Close() error
}
