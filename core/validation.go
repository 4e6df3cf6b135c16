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


package core

import "fmt"

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//
// NOT validated (optional per the data model):
//   - WinningBid (nil is a legitimate unknown price)
//   - SaleDate (unparseable dates only disable date categories)
//   - AuctionHouse (may be absent)
//   - Matches (nil before the first regeneration run)
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyItemKey)
	}

	return nil
}

// ValidateMatchSet validates a MatchSet against the snapshot invariants:
// no category exceeds SlotsPerCategory entries and the subject never
// appears among its own matches. Slice-backed categories are contiguous
// by construction, so only the cap and self-exclusion need checking.
func ValidateMatchSet(subject ItemKey, set *MatchSet) error {
	if set == nil {
		return nil
	}

	for _, c := range Categories {
		matches := set.Matches(c)
		if len(matches) > SlotsPerCategory {
			return fmt.Errorf("%w: %s has %d", ErrTooManyMatches, c, len(matches))
		}
		for _, m := range matches {
			if m.Key == subject {
				return fmt.Errorf("%w: %s in %s", ErrSelfMatch, subject, c)
			}
		}
	}

	return nil
}
