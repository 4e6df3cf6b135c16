package storage

import (
	"context"

	"github.com/gavelworks/lotmatch/core"
)

// MatchUpdate pairs a subject item with its freshly categorized match
// snapshot. Applying one replaces the subject's entire persisted
// snapshot: slots the new set leaves empty are written as null.
type MatchUpdate struct {
	Key     core.ItemKey
	Matches *core.MatchSet
}

// FailedUpdate names one update the store rejected and why.
type FailedUpdate struct {
	Key core.ItemKey
	Err error
}

// BulkWriteResult reports the outcome of a bulk snapshot write.
type BulkWriteResult struct {
	// Matched counts updates whose subject existed in the store.
	Matched int
	// Modified counts updates that actually changed the persisted
	// snapshot. Re-applying an identical snapshot matches but does
	// not modify.
	Modified int
	// Failed lists the updates that could not be applied.
	Failed []FailedUpdate
}

// FailedKeys returns the keys of all rejected updates.
func (r *BulkWriteResult) FailedKeys() []core.ItemKey {
	keys := make([]core.ItemKey, len(r.Failed))
	for i, f := range r.Failed {
		keys[i] = f.Key
	}
	return keys
}

// ItemRepository provides operations for managing catalog items.
// Implementations must be thread-safe and support concurrent access.
type ItemRepository interface {
	// PutItems upserts one or more items keyed by their ItemKey.
	// Sets InsertedAt on first write and UpdatedAt on every write.
	// An existing item's match snapshot is preserved when the incoming
	// item carries none (re-ingesting a feed never drops snapshots).
	// Items failing validation are rejected with an error.
	PutItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error)

	// GetItem retrieves a single item by key.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, key core.ItemKey) (*core.Item, error)

	// GetItems retrieves multiple items by key.
	// Returns only the items that exist (no error for missing keys).
	GetItems(ctx context.Context, keys ...core.ItemKey) ([]*core.Item, error)

	// ListEmbedded retrieves every item carrying a non-empty embedding
	// key, projected with all fields. This is the candidate set for a
	// regeneration run.
	ListEmbedded(ctx context.Context) ([]*core.Item, error)

	// ApplyMatchUpdates persists match snapshots in bulk. The write is
	// unordered: a failure on one key is recorded in the result and
	// never blocks the others. Updates never insert items; an unknown
	// key fails that update with ErrNotFound.
	// The returned error is reserved for store-level failures that
	// prevent the batch from being attempted at all.
	ApplyMatchUpdates(ctx context.Context, updates ...MatchUpdate) (*BulkWriteResult, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
