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
	"github.com/gavelworks/lotmatch/core"
)

// Categorize distributes a subject's neighbor candidates into the
// three match categories, at most core.SlotsPerCategory each, in a
// single pass over the candidates in their incoming rank order.
//
// A candidate lands in overall unconditionally, in same_day when both
// lots sold on the same calendar day at the same auction house, and
// in before when its sale day strictly precedes the subject's. The
// two dated categories are evaluated independently, so one candidate
// can occupy slots in more than one category. Candidates with an
// unknown sale date remain eligible for overall only. The pass stops
// as soon as all three categories are full.
//
// The result is never nil: with no eligible candidates every category
// is empty, which downstream writes as an all-null snapshot.
func Categorize(subject core.ItemKey, neighbors []core.NeighborCandidate, lookups *Lookups) *core.MatchSet {
	set := &core.MatchSet{}

	subjectDate, subjectDateKnown := lookups.Date(subject)
	subjectHouse, subjectHouseKnown := lookups.House(subject)

	for _, neighbor := range neighbors {
		if neighbor.Key == subject {
			continue
		}

		match := core.Match{
			Key:   neighbor.Key,
			Price: lookups.Price(neighbor.Key),
			Score: neighbor.Score,
		}

		if len(set.Overall) < core.SlotsPerCategory {
			set.Overall = append(set.Overall, match)
		}

		neighborDate, neighborDateKnown := lookups.Date(neighbor.Key)

		if len(set.SameDay) < core.SlotsPerCategory &&
			subjectDateKnown && neighborDateKnown && subjectDate.Equal(neighborDate) {
			neighborHouse, neighborHouseKnown := lookups.House(neighbor.Key)
			if subjectHouseKnown && neighborHouseKnown && subjectHouse == neighborHouse {
				set.SameDay = append(set.SameDay, match)
			}
		}

		if len(set.Before) < core.SlotsPerCategory &&
			subjectDateKnown && neighborDateKnown && neighborDate.Before(subjectDate) {
			set.Before = append(set.Before, match)
		}

		if set.Full() {
			break
		}
	}

	return set
}
