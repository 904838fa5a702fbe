// Package projection turns flat analytics records into chart-ready series
// and their aggregates. Every function is pure: the same records and
// configuration always give the same result.
package projection

import (
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

const defaultSeriesName = "Value"

// Project runs the configured projection over records. Empty input gives
// a set with no categories and no series.
func Project(records []model.Record, p model.Projection) model.SeriesSet {
	if len(records) == 0 {
		return model.EmptySeriesSet()
	}

	var set model.SeriesSet
	switch p.Mode {
	case types.ProjectionWide:
		set.Categories = ExtractAxis(records, p.Axis)
		set.Series = GroupColumns(records, set.Categories, p.Axis, p.Columns)

	case types.ProjectionColumns:
		name := p.SeriesName
		if name == "" {
			name = defaultSeriesName
		}
		set = ProjectColumns(records[0], p.Columns, name)

	default:
		set.Categories = ExtractAxis(records, p.Axis)
		set.Series = GroupSeries(records, set.Categories, Grouping{
			Axis:       p.Axis,
			Partition:  p.Partition,
			Value:      p.Value,
			Partitions: p.Partitions,
		})
	}

	return SortByTotal(set, p.Sort)
}

// Result is a projected set together with its summary
type Result struct {
	Series  model.SeriesSet
	Summary model.Summary
}

// Run projects records and summarizes the result. When the projection
// names a total field, the summary total is the sum of that field over
// the raw records.
func Run(records []model.Record, p model.Projection) Result {
	set := Project(records, p)
	summary := Summarize(set)
	if !p.Total.IsEmpty() {
		summary.Total = SumField(records, p.Total)
	}
	return Result{Series: set, Summary: summary}
}
