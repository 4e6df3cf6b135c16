// Copyright 2026 Gavelworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package regen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gavelworks/lotmatch/core"
	"github.com/gavelworks/lotmatch/storage"
)

// NeighborQuerier supplies categorizer-ready neighbor candidates.
// index.NeighborSource is the production implementation.
type NeighborQuerier interface {
	// Neighbors returns the subject's nearest neighbors in descending
	// similarity order, already normalized and self-filtered. A subject
	// without an embedding yields an empty result and no error.
	Neighbors(ctx context.Context, subject core.ItemKey) ([]core.NeighborCandidate, error)

	// Ping verifies the underlying index is reachable.
	Ping(ctx context.Context) error
}

// Config holds configuration for a regeneration run.
type Config struct {
	// PoolSize is the number of concurrent neighbor queries.
	// Defaults to half the CPUs, minimum 1.
	PoolSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for the startup
	// connectivity checks
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	return &Config{
		PoolSize:       poolSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary reports the outcome of one regeneration run.
type Summary struct {
	// Total is the number of embedded items considered.
	Total int

	// Categorized counts items whose neighbor query succeeded and
	// whose snapshot was submitted for writing.
	Categorized int

	// QueryFailures counts items skipped because their neighbor query
	// failed. Their persisted snapshots were left untouched.
	QueryFailures int

	// Matched, Modified and Failed carry the bulk write outcome.
	Matched  int
	Modified int
	Failed   []storage.FailedUpdate

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Regenerator orchestrates a full match-snapshot regeneration run
// over every embedded item in the catalog.
type Regenerator struct {
	repo     storage.ItemRepository
	source   NeighborQuerier
	config   *Config
	progress io.Writer
	logger   *slog.Logger
	writer   *SnapshotWriter
}

// NewRegenerator creates a new regenerator.
// progress: where to write progress output (typically os.Stderr)
func NewRegenerator(repo storage.ItemRepository, source NeighborQuerier, config *Config, progress io.Writer, logger *slog.Logger) (*Regenerator, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if source == nil {
		return nil, ErrNeighborSourceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer, err := NewSnapshotWriter(repo, logger)
	if err != nil {
		return nil, err
	}

	return &Regenerator{
		repo:     repo,
		source:   source,
		config:   config,
		progress: progress,
		logger:   logger,
		writer:   writer,
	}, nil
}

// Run executes one regeneration pass.
//
// The run is fatal only when the index cannot be reached or the
// candidate items cannot be listed; in both cases it returns before
// any write. Per-item neighbor query failures are logged, counted in
// the summary and leave that item's persisted snapshot untouched. A
// successful query with no usable neighbors still writes an all-empty
// snapshot so stale slots from earlier runs are cleared. A cancelled
// run stops scheduling work, waits for in-flight queries and returns
// without writing.
func (r *Regenerator) Run(ctx context.Context) (*Summary, error) {
	err := RetryWithBackoff(ctx, func() error {
		return r.source.Ping(ctx)
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("index is unreachable: %w", err)
	}

	var items []*core.Item
	err = RetryWithBackoff(ctx, func() error {
		var listErr error
		items, listErr = r.repo.ListEmbedded(ctx)
		return listErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded items: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintf(r.progress, "No embedded items found (0 items)\n")
		return &Summary{}, nil
	}

	fmt.Fprintf(r.progress, "Starting match regeneration for %d items (pool size: %d)\n",
		len(items), r.config.PoolSize)

	lookups := BuildLookups(items, r.logger)

	tracker := NewProgressTracker(r.progress, len(items), r.config.ReportInterval)
	tracker.Start()

	pool, err := ants.NewPool(r.config.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu            sync.Mutex
		wg            sync.WaitGroup
		updates       []storage.MatchUpdate
		queryFailures int
	)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer tracker.Increment(1)

			neighbors, err := r.source.Neighbors(ctx, item.Key)
			if err != nil {
				r.logger.Warn("neighbor query failed, keeping existing snapshot",
					"key", item.Key, "err", err)
				mu.Lock()
				queryFailures++
				mu.Unlock()
				return
			}

			set := Categorize(item.Key, neighbors, lookups)

			mu.Lock()
			updates = append(updates, storage.MatchUpdate{Key: item.Key, Matches: set})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			r.logger.Warn("failed to submit item to pool", "key", item.Key, "err", submitErr)
			mu.Lock()
			queryFailures++
			mu.Unlock()
		}
	}

	wg.Wait()
	tracker.Finish()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result, err := r.writer.Write(ctx, updates)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:         len(items),
		Categorized:   len(updates),
		QueryFailures: queryFailures,
		Matched:       result.Matched,
		Modified:      result.Modified,
		Failed:        result.Failed,
		Elapsed:       tracker.Elapsed(),
	}

	fmt.Fprintf(r.progress, "Regeneration complete. %d items, %d categorized, %d query failures, %d modified, %d write failures in %v\n",
		summary.Total, summary.Categorized, summary.QueryFailures, summary.Modified,
		len(summary.Failed), summary.Elapsed.Round(time.Second))

	return summary, nil
}
