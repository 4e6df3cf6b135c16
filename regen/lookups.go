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
	"log/slog"

	"github.com/gavelworks/lotmatch/core"
)

// Lookups are the per-run attribute maps the categorizer consults.
// Built once per batch from the items as loaded, then shared
// read-only across all workers. An absent entry means the attribute
// is unknown for that key; the categorizer treats unknown as
// ineligible for the date- and house-gated categories.
type Lookups struct {
	prices map[core.ItemKey]float64
	dates  map[core.ItemKey]core.Date
	houses map[core.ItemKey]string
}

// BuildLookups derives the attribute maps from a batch of items.
// Malformed input never aborts the build: items without a key are
// skipped with a warning, unparseable or missing sale dates simply
// leave the key out of the date map, and the counts are logged so a
// dirty feed is visible in the run output.
func BuildLookups(items []*core.Item, logger *slog.Logger) *Lookups {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Lookups{
		prices: make(map[core.ItemKey]float64, len(items)),
		dates:  make(map[core.ItemKey]core.Date, len(items)),
		houses: make(map[core.ItemKey]string, len(items)),
	}

	skippedKeys := 0
	skippedDates := 0

	for _, item := range items {
		if item == nil || item.Key == "" {
			skippedKeys++
			logger.Warn("skipping item without key while building lookups")
			continue
		}

		if item.WinningBid != nil {
			l.prices[item.Key] = *item.WinningBid
		}
		if item.AuctionHouse != "" {
			l.houses[item.Key] = item.AuctionHouse
		}
		if date, err := core.ParseDate(item.SaleDate); err == nil {
			l.dates[item.Key] = date
		} else {
			skippedDates++
		}
	}

	if skippedKeys > 0 || skippedDates > 0 {
		logger.Info("built lookups with gaps",
			"items", len(items),
			"skippedKeys", skippedKeys,
			"skippedDates", skippedDates)
	}

	return l
}

// Price returns the hammer price for key, or nil when unknown.
// The returned pointer is a copy; callers may store it in a Match.
func (l *Lookups) Price(key core.ItemKey) *float64 {
	price, ok := l.prices[key]
	if !ok {
		return nil
	}
	return &price
}

// Date returns the sale day for key.
func (l *Lookups) Date(key core.ItemKey) (core.Date, bool) {
	date, ok := l.dates[key]
	return date, ok
}

// House returns the auction house for key.
func (l *Lookups) House(key core.ItemKey) (string, bool) {
	house, ok := l.houses[key]
	return house, ok
}
