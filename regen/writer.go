package regen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gavelworks/lotmatch/storage"
)

// SnapshotWriter persists categorized match snapshots in bulk.
type SnapshotWriter struct {
	repo   storage.ItemRepository
	logger *slog.Logger
}

// NewSnapshotWriter creates a snapshot writer over a repository.
func NewSnapshotWriter(repo storage.ItemRepository, logger *slog.Logger) (*SnapshotWriter, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{repo: repo, logger: logger}, nil
}

// Write applies the updates as one unordered bulk write. Every update
// replaces its subject's whole snapshot, nulling the slots the new
// set leaves empty. Per-key failures are logged and reported in the
// result, never returned as an error; the error is reserved for
// store-level failures that prevented the batch entirely.
func (w *SnapshotWriter) Write(ctx context.Context, updates []storage.MatchUpdate) (*storage.BulkWriteResult, error) {
	if len(updates) == 0 {
		return &storage.BulkWriteResult{}, nil
	}

	result, err := w.repo.ApplyMatchUpdates(ctx, updates...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply match updates: %w", err)
	}

	for _, failed := range result.Failed {
		w.logger.Warn("snapshot update rejected", "key", failed.Key, "err", failed.Err)
	}

	w.logger.Info("snapshot write complete",
		"updates", len(updates),
		"matched", result.Matched,
		"modified", result.Modified,
		"failed", len(result.Failed))

	return result, nil
}
