package index

import "context"

// Hit is one raw nearest-neighbor result as returned by the index.
type Hit struct {
	// ID is the neighbor's embedding identifier.
	ID string

	// Score is the index's similarity in [0,1], higher is more similar.
	Score float64
}

// VectorIndex is the external nearest-neighbor index.
// Implementations must be thread-safe for concurrent use.
type VectorIndex interface {
	// Query returns up to topK nearest neighbors of the vector stored
	// under id, ordered by descending similarity. The ordering is the
	// index's own ranking and is trusted as-is. The result may include
	// the query id itself; callers must not assume self-exclusion.
	// Returns ErrUnknownKey when no embedding exists for id.
	Query(ctx context.Context, id string, topK int) ([]Hit, error)

	// Ping verifies the index is reachable. Used as the startup
	// connectivity check before a run attempts any writes.
	Ping(ctx context.Context) error
}
