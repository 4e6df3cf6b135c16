// Package memory provides an exact, in-process vector index.
//
// It exists for tests, seeding and small local catalogs: queries are a
// brute-force cosine scan over every stored vector. Like the external
// service, a query's result may include the query id itself.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/gavelworks/lotmatch/index"
)

// Index is an exact in-memory vector index.
// Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	dim     int
	vectors map[string][]float32
}

var _ index.VectorIndex = (*Index)(nil)

// New creates an empty index. The dimension is fixed by the first
// upserted vector.
func New() *Index {
	return &Index{vectors: make(map[string][]float32)}
}

// Upsert stores or replaces the vector for id.
func (ix *Index) Upsert(id string, vector []float32) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for %s", id)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.dim == 0 {
		ix.dim = len(vector)
	} else if len(vector) != ix.dim {
		return fmt.Errorf("vector for %s has dimension %d, index has %d", id, len(vector), ix.dim)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)
	ix.vectors[id] = stored
	return nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Query returns up to topK nearest neighbors of the vector stored
// under id by cosine similarity, descending. Equal similarities are
// ordered by id so results are deterministic. The query id itself is
// included when it ranks, matching the external index contract.
func (ix *Index) Query(ctx context.Context, id string, topK int) ([]index.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	query, ok := ix.vectors[id]
	if !ok {
		return nil, index.ErrUnknownKey
	}

	hits := make([]index.Hit, 0, len(ix.vectors))
	for otherID, vector := range ix.vectors {
		hits = append(hits, index.Hit{ID: otherID, Score: cosine(query, vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Ping always succeeds: the index is in-process.
func (ix *Index) Ping(ctx context.Context) error {
	return ctx.Err()
}

// cosine computes the cosine similarity of two vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
