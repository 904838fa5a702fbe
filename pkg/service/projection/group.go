package projection

import (
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// Grouping configures the Series Grouper for long-form records
type Grouping struct {
	Axis       model.Axis
	Partition  types.FieldPath
	Value      types.FieldPath
	Partitions []model.Partition
}

// GroupSeries builds one series per partition, aligned with categories.
// For every (partition, category) pair the first matching record in input
// order supplies the value; pairs without a record are 0. Records whose
// partition is not configured are ignored. When no partitions are
// configured they are derived from the records in first-seen order.
func GroupSeries(records []model.Record, categories []string, g Grouping) []model.Series {
	partitions := g.Partitions
	if len(partitions) == 0 {
		for _, key := range ExtractCategories(records, g.Partition) {
			partitions = append(partitions, model.Partition{Key: key})
		}
	}

	series := make([]model.Series, len(partitions))
	partIndex := make(map[string]int, len(partitions))
	for i, p := range partitions {
		series[i] = model.Series{
			Name:  p.DisplayName(),
			Data:  make([]float64, len(categories)),
			Color: p.Color,
		}
		partIndex[p.Key] = i
	}

	filled := make([][]bool, len(partitions))
	for i := range filled {
		filled[i] = make([]bool, len(categories))
	}

	axis := newAxisMatcher(g.Axis, categories)
	for _, rec := range records {
		col, ok := axis.position(rec)
		if !ok {
			continue
		}
		row, ok := partIndex[rec.Label(g.Partition)]
		if !ok || filled[row][col] {
			continue
		}
		series[row].Data[col] = rec.Number(g.Value)
		filled[row][col] = true
	}

	return series
}

// GroupColumns builds one series per value column for wide records, where
// each record carries several measures of the same category. The first
// record of a category supplies its values.
func GroupColumns(records []model.Record, categories []string, axis model.Axis, columns []model.Column) []model.Series {
	series := make([]model.Series, len(columns))
	for i, c := range columns {
		series[i] = model.Series{
			Name:  c.DisplayName(),
			Data:  make([]float64, len(categories)),
			Color: c.Color,
		}
	}

	filled := make([]bool, len(categories))
	matcher := newAxisMatcher(axis, categories)
	for _, rec := range records {
		col, ok := matcher.position(rec)
		if !ok || filled[col] {
			continue
		}
		for i, c := range columns {
			series[i].Data[col] = rec.Number(c.Field)
		}
		filled[col] = true
	}

	return series
}

// ProjectColumns turns the columns of a single object into categories of
// one series.
func ProjectColumns(rec model.Record, columns []model.Column, name string) model.SeriesSet {
	set := model.SeriesSet{
		Categories: make([]string, len(columns)),
		Series: []model.Series{{
			Name: name,
			Data: make([]float64, len(columns)),
		}},
	}
	for i, c := range columns {
		set.Categories[i] = c.DisplayName()
		set.Series[0].Data[i] = rec.Number(c.Field)
	}
	return set
}
