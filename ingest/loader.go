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


// Package ingest loads scraped lot records into the catalog store.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gavelworks/lotmatch/core"
	"github.com/gavelworks/lotmatch/storage"
)

// ErrRepositoryRequired is returned when constructing a loader without a repository
var ErrRepositoryRequired = errors.New("item repository is required")

// DefaultBatchSize is how many records are upserted per store call.
const DefaultBatchSize = 500

// maxLineBytes bounds a single feed line. Scraped descriptions run
// long but never near this.
const maxLineBytes = 1 << 20

// Record is one scraped lot as it appears in the JSON-lines feed.
type Record struct {
	ItemKey      string   `json:"item_key"`
	Title        string   `json:"title"`
	WinningBid   *float64 `json:"winning_bid"`
	SaleDate     string   `json:"sale_date"`
	AuctionHouse string   `json:"auction_house"`
}

// LoadReport summarizes one load.
type LoadReport struct {
	// Loaded counts records upserted into the store.
	Loaded int
	// Skipped counts lines dropped for being malformed or keyless.
	Skipped int
}

// Loader reads a JSON-lines feed and upserts its records in batches.
// Re-loading a feed never drops existing match snapshots; the store
// preserves them on upsert.
type Loader struct {
	repo      storage.ItemRepository
	batchSize int
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithBatchSize sets how many records are upserted per store call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(l *Loader) error {
		if size > 0 {
			l.batchSize = size
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader over a repository.
func NewLoader(repo storage.ItemRepository, opts ...Option) (*Loader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	l := &Loader{
		repo:      repo,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load reads JSON-lines records from r and upserts them. Malformed
// lines and records without an item_key are skipped with a warning
// and counted in the report; only store failures abort the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*LoadReport, error) {
	report := &LoadReport{}
	batch := make([]*core.Item, 0, l.batchSize)
	lineNo := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := l.repo.PutItems(ctx, batch...); err != nil {
			return fmt.Errorf("failed to upsert batch: %w", err)
		}
		report.Loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			l.logger.Warn("skipping malformed feed line", "line", lineNo, "err", err)
			report.Skipped++
			continue
		}
		if record.ItemKey == "" {
			l.logger.Warn("skipping record without item_key", "line", lineNo)
			report.Skipped++
			continue
		}

		batch = append(batch, &core.Item{
			Key:          core.NormalizeKey(record.ItemKey),
			Title:        record.Title,
			WinningBid:   record.WinningBid,
			SaleDate:     record.SaleDate,
			AuctionHouse: record.AuctionHouse,
		})

		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}

	if report.Skipped > 0 {
		l.logger.Info("feed load finished with skips", "loaded", report.Loaded, "skipped", report.Skipped)
	}

	return report, nil
}
