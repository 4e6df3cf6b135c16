package core

import "fmt"

// Field columns within one slot.
const (
	FieldID    = "id"
	FieldPrice = "price"
	FieldScore = "score"
)

// NumFields is the number of scalar fields in a persisted snapshot:
// 3 categories x SlotsPerCategory slots x 3 columns.
const NumFields = 3 * SlotsPerCategory * 3

// FieldName builds the persisted field name for one slot column,
// e.g. "overall_match_1_id" or "same_day_match_5_score".
// This naming is the wire contract consumed by reporting and the UI;
// it must not change between regeneration runs.
func FieldName(c Category, slot int, column string) string {
	return fmt.Sprintf("%s_match_%d_%s", c, slot, column)
}

// FieldNames returns all 45 snapshot field names in wire order.
func FieldNames() []string {
	names := make([]string, 0, NumFields)
	for _, c := range Categories {
		for slot := 1; slot <= SlotsPerCategory; slot++ {
			names = append(names,
				FieldName(c, slot, FieldID),
				FieldName(c, slot, FieldPrice),
				FieldName(c, slot, FieldScore))
		}
	}
	return names
}

// Fields flattens the set into the persisted wire schema: exactly 45
// entries, one per field name, with nil for every empty slot column.
// Writing all 45 keys is what clears slots left over from prior runs.
func (s *MatchSet) Fields() map[string]any {
	fields := make(map[string]any, NumFields)
	for _, c := range Categories {
		matches := s.Matches(c)
		for slot := 1; slot <= SlotsPerCategory; slot++ {
			var id, price, score any
			if slot <= len(matches) {
				m := matches[slot-1]
				id = string(m.Key)
				if m.Price != nil {
					price = *m.Price
				}
				score = m.Score
			}
			fields[FieldName(c, slot, FieldID)] = id
			fields[FieldName(c, slot, FieldPrice)] = price
			fields[FieldName(c, slot, FieldScore)] = score
		}
	}
	return fields
}

// MatchSetFromFields rebuilds a MatchSet from the flat wire form.
// Slots are read contiguously from 1; the first empty id ends the
// category. Unknown keys are ignored.
func MatchSetFromFields(fields map[string]any) *MatchSet {
	set := &MatchSet{}
	for _, c := range Categories {
		var matches []Match
		for slot := 1; slot <= SlotsPerCategory; slot++ {
			id, ok := fields[FieldName(c, slot, FieldID)].(string)
			if !ok || id == "" {
				break
			}
			m := Match{Key: ItemKey(id)}
			if price, ok := toFloat(fields[FieldName(c, slot, FieldPrice)]); ok {
				m.Price = &price
			}
			if score, ok := toFloat(fields[FieldName(c, slot, FieldScore)]); ok {
				m.Score = score
			}
			matches = append(matches, m)
		}
		switch c {
		case CategoryOverall:
			set.Overall = matches
		case CategorySameDay:
			set.SameDay = matches
		case CategoryBefore:
			set.Before = matches
		}
	}
	return set
}

// toFloat coerces the numeric types a msgpack round-trip can produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
