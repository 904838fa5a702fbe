package projection

import (
	"sort"
	"strings"

	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// ExtractCategories returns the distinct non-empty values of field in
// first-seen order. Missing, null and empty values are skipped.
func ExtractCategories(records []model.Record, field types.FieldPath) []string {
	categories := []string{}
	seen := make(map[string]bool)
	for _, rec := range records {
		label := rec.Label(field)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		categories = append(categories, label)
	}
	return categories
}

// ExtractAxis returns the categories of records according to the axis order
func ExtractAxis(records []model.Record, axis model.Axis) []string {
	switch axis.Order {
	case types.AxisOrderFixed:
		return append([]string{}, axis.Labels...)

	case types.AxisOrderOrdinal:
		present := ExtractCategories(records, axis.Field)
		type ranked struct {
			label string
			rank  int
		}
		var items []ranked
		for _, label := range present {
			if rank := ordinalRank(label, axis.Labels); rank >= 0 {
				items = append(items, ranked{label: label, rank: rank})
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].rank < items[j].rank
		})

		categories := make([]string, len(items))
		for i, item := range items {
			categories[i] = item.label
		}
		return categories

	default:
		return ExtractCategories(records, axis.Field)
	}
}

// ordinalRank returns the index of label in the canonical sequence, or -1.
// The first whitespace token is compared case-insensitively and a three
// letter prefix is accepted, so "Jan 2024" ranks as "January".
func ordinalRank(label string, canonical []string) int {
	token := strings.ToLower(firstToken(label))
	if token == "" {
		return -1
	}
	for i, c := range canonical {
		name := strings.ToLower(c)
		if token == name {
			return i
		}
		if len(token) >= 3 && strings.HasPrefix(name, token) {
			return i
		}
	}
	return -1
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// axisMatcher maps a record label to its category index. Fixed axes
// resolve labels the same way ordinal axes do.
type axisMatcher struct {
	index   map[string]int
	axis    model.Axis
	fuzzy   bool
}

func newAxisMatcher(axis model.Axis, categories []string) *axisMatcher {
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	return &axisMatcher{
		index:   index,
		axis:    axis,
		fuzzy:   axis.Order == types.AxisOrderFixed,
	}
}

func (m *axisMatcher) position(rec model.Record) (int, bool) {
	label := rec.Label(m.axis.Field)
	if label == "" {
		return 0, false
	}
	if i, ok := m.index[label]; ok {
		return i, true
	}
	if m.fuzzy {
		if rank := ordinalRank(label, m.axis.Labels); rank >= 0 {
			return rank, true
		}
	}
	return 0, false
}
