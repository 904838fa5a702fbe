package projection

import (
	"sort"

	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// Summarize computes totals, percentage shares and extremes of a set.
// Shares of a category whose total is 0 are 0. Ties of Max and Min go to
// the first cell in series order, then category order.
func Summarize(set model.SeriesSet) model.Summary {
	totals := CategoryTotals(set)
	summary := model.Summary{
		CategoryTotals: totals,
		Shares:         make([][]float64, len(set.Series)),
	}

	for s, series := range set.Series {
		shares := make([]float64, len(set.Categories))
		for c := range set.Categories {
			v := valueAt(series, c)
			if totals[c] != 0 {
				shares[c] = v / totals[c] * 100
			}

			cell := model.Cell{Series: series.Name, Category: set.Categories[c], Value: v}
			if summary.Max == nil || v > summary.Max.Value {
				maxCell := cell
				summary.Max = &maxCell
			}
			if summary.Min == nil || v < summary.Min.Value {
				minCell := cell
				summary.Min = &minCell
			}
		}
		summary.Shares[s] = shares
	}

	top := -1
	for c, total := range totals {
		summary.Total += total
		if top < 0 || total > totals[top] {
			top = c
		}
	}
	if top >= 0 {
		summary.TopCategory = set.Categories[top]
	}
	if len(set.Categories) > 0 {
		summary.Mean = summary.Total / float64(len(set.Categories))
	}

	return summary
}

// CategoryTotals sums every series at each category
func CategoryTotals(set model.SeriesSet) []float64 {
	totals := make([]float64, len(set.Categories))
	for _, series := range set.Series {
		for c := range totals {
			totals[c] += valueAt(series, c)
		}
	}
	return totals
}

// SumField sums a numeric field over raw records
func SumField(records []model.Record, field types.FieldPath) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Number(field)
	}
	return total
}

// SortByTotal reorders categories, and every series with them, by category
// total. Equal totals keep their original order.
func SortByTotal(set model.SeriesSet, order types.SortOrder) model.SeriesSet {
	if order == types.SortNone || len(set.Categories) < 2 {
		return set
	}

	totals := CategoryTotals(set)
	idx := make([]int, len(set.Categories))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if order == types.SortValueAsc {
			return totals[idx[a]] < totals[idx[b]]
		}
		return totals[idx[a]] > totals[idx[b]]
	})

	sorted := model.SeriesSet{
		Categories: make([]string, len(idx)),
		Series:     make([]model.Series, len(set.Series)),
	}
	for to, from := range idx {
		sorted.Categories[to] = set.Categories[from]
	}
	for s, series := range set.Series {
		data := make([]float64, len(idx))
		for to, from := range idx {
			data[to] = valueAt(series, from)
		}
		sorted.Series[s] = model.Series{Name: series.Name, Data: data, Color: series.Color}
	}
	return sorted
}

func valueAt(series model.Series, i int) float64 {
	if i < len(series.Data) {
		return series.Data[i]
	}
	return 0
}
