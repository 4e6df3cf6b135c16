// Package index defines the boundary to the external nearest-neighbor
// vector index and the adapter that normalizes its results.
//
// The raw VectorIndex contract mirrors the index service: neighbors for
// a known id, ordered by descending similarity, possibly including the
// query id itself. NeighborSource layers the run's per-query policy on
// top: bounded timeouts, key normalization, self-match filtering and
// score scaling to the 0-100 range the snapshot schema persists.
package index
