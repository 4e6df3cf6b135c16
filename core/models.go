package core

import (
	"strings"
	"time"
)

// ItemKey is the stable external identifier of a catalog item.
// It doubles as the item's identity in the perceptual-embedding index,
// so every key here corresponds to (at most) one vector in the index.
type ItemKey string

// NormalizeKey canonicalizes an item key. Keys originate as file paths
// in the scraping pipeline and may arrive with Windows separators.
func NormalizeKey(key string) ItemKey {
	return ItemKey(strings.ReplaceAll(key, `\`, "/"))
}

// Item is a single auction lot in the catalog.
// Created by the upstream ingest pipeline; this subsystem only ever
// updates its match snapshot, never inserts or deletes items.
type Item struct {
	Key          ItemKey
	Title        string
	WinningBid   *float64 // hammer price; nil when unknown or unsold
	SaleDate     string   // raw date string as scraped; parsed by the lookup builder
	AuctionHouse string
	Matches      *MatchSet // last regenerated snapshot; nil before first run
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// NeighborCandidate is one nearest-neighbor hit after adapter
// normalization. Transient: produced per query, never persisted.
type NeighborCandidate struct {
	Key      ItemKey
	Score    float64 // RawScore * 100, rounded to 2 decimals
	RawScore float64
}

// Match is one filled slot in a category: the matched item, its
// hammer price (nil when unknown) and the normalized similarity score.
type Match struct {
	Key   ItemKey
	Price *float64
	Score float64
}

// Category identifies one of the three ranked match categories.
type Category int

const (
	// CategoryOverall holds the top neighbors regardless of sale date.
	CategoryOverall Category = iota
	// CategorySameDay holds neighbors sold the same calendar day at the
	// same auction house.
	CategorySameDay
	// CategoryBefore holds neighbors sold strictly before the subject.
	CategoryBefore
)

// Categories lists all categories in wire order.
var Categories = []Category{CategoryOverall, CategorySameDay, CategoryBefore}

// String returns the category's wire name.
func (c Category) String() string {
	switch c {
	case CategoryOverall:
		return "overall"
	case CategorySameDay:
		return "same_day"
	case CategoryBefore:
		return "before"
	default:
		return "unknown"
	}
}

// SlotsPerCategory is the maximum number of matches per category.
const SlotsPerCategory = 5

// MatchSet is one subject's categorized matches. Each slice is ordered
// by rank, holds at most SlotsPerCategory entries and is filled
// contiguously from slot 1.
type MatchSet struct {
	Overall []Match
	SameDay []Match
	Before  []Match
}

// Matches returns the matches for a category.
func (s *MatchSet) Matches(c Category) []Match {
	switch c {
	case CategoryOverall:
		return s.Overall
	case CategorySameDay:
		return s.SameDay
	case CategoryBefore:
		return s.Before
	default:
		return nil
	}
}

// Full reports whether every category holds SlotsPerCategory entries.
func (s *MatchSet) Full() bool {
	return len(s.Overall) >= SlotsPerCategory &&
		len(s.SameDay) >= SlotsPerCategory &&
		len(s.Before) >= SlotsPerCategory
}
