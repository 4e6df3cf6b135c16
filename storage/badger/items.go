package badger

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/gavelworks/lotmatch/core"
	"github.com/gavelworks/lotmatch/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	return &ItemRepository{
		backend: backend,
		logger:  slog.Default(),
	}, nil
}

// Close releases resources. ItemRepository has no resources to release.
func (r *ItemRepository) Close() error {
	return nil
}

// PutItems upserts one or more items keyed by their ItemKey.
func (r *ItemRepository) PutItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if err := core.ValidateItem(item); err != nil {
				return err
			}

			key := makeItemKey(item.Key)
			old, err := readItem(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old != nil {
				item.InsertedAt = old.InsertedAt
				// Re-ingesting a feed must never drop a snapshot.
				if item.Matches == nil {
					item.Matches = old.Matches
				}
			} else if item.InsertedAt.IsZero() {
				item.InsertedAt = now
			}
			item.UpdatedAt = now

			value, err := storage.MarshalItem(item)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// GetItem retrieves a single item by key.
func (r *ItemRepository) GetItem(ctx context.Context, key core.ItemKey) (*core.Item, error) {
	var result *core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readItem(tx, makeItemKey(key))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple items by key.
func (r *ItemRepository) GetItems(ctx context.Context, keys ...core.ItemKey) ([]*core.Item, error) {
	var result []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			item, err := readItem(tx, makeItemKey(key))
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListEmbedded retrieves every item carrying a non-empty embedding key.
func (r *ItemRepository) ListEmbedded(ctx context.Context) ([]*core.Item, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(itemRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var item *core.Item
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item != nil && item.Key != "" {
				results = append(results, item)
			}
		}
		return nil
	}, false)

	return results, err
}

// ApplyMatchUpdates persists match snapshots in bulk. Each update runs
// in its own transaction so one rejected key never blocks the others.
func (r *ItemRepository) ApplyMatchUpdates(ctx context.Context, updates ...storage.MatchUpdate) (*storage.BulkWriteResult, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	result := &storage.BulkWriteResult{}
	for _, update := range updates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		modified, err := r.applyMatchUpdate(update)
		if err != nil {
			r.logger.Warn("match snapshot update failed", "key", update.Key, "err", err)
			result.Failed = append(result.Failed, storage.FailedUpdate{Key: update.Key, Err: err})
			continue
		}
		result.Matched++
		if modified {
			result.Modified++
		}
	}

	return result, nil
}

// applyMatchUpdate applies a single snapshot update in its own
// transaction. Returns storage.ErrNotFound for unknown keys; updates
// never insert. The bool reports whether the persisted snapshot
// actually changed.
func (r *ItemRepository) applyMatchUpdate(update storage.MatchUpdate) (bool, error) {
	if err := core.ValidateMatchSet(update.Key, update.Matches); err != nil {
		return false, err
	}

	modified := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeItemKey(update.Key)
		item, err := readItem(tx, key)
		if err != nil {
			return err
		}
		if item == nil {
			return storage.ErrNotFound
		}

		matches := update.Matches
		if matches == nil {
			matches = &core.MatchSet{}
		}

		// Identical snapshots are left untouched.
		if item.Matches != nil && reflect.DeepEqual(item.Matches.Fields(), matches.Fields()) {
			return nil
		}

		item.Matches = matches
		item.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalItem(item)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		modified = true
		return nil
	}, true)
	return modified, err
}

// readItem reads an item from the transaction.
// Returns nil (not an error) when the key is absent.
func readItem(tx *badger.Txn, key []byte) (*core.Item, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var result *core.Item
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalItem(val)
		return err
	})
	return result, err
}
