// Package regen regenerates the persisted match snapshots of an
// auction catalog.
//
// A regeneration run loads every embedded item, builds in-memory
// lookups for the batch, queries the vector index for each item's
// nearest neighbors, categorizes them into the overall, same-day and
// prior-sale slots, and writes the resulting snapshots back in one
// bulk pass. Individual items failing along the way are logged and
// skipped; only losing the store or the index aborts a run.
package regen
