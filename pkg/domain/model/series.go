package model

import "github.com/m-mizutani/goerr/v2"

// Partition is a configured sub-series of a chart. Key is matched against
// the partition field of records; Name is what the legend shows.
type Partition struct {
	Key   string `yaml:"key" json:"key" validate:"required"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// DisplayName returns Name, or Key when no name is configured
func (p Partition) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}

// Series is one named, colored row of values aligned with categories
type Series struct {
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
	Color string    `json:"color,omitempty"`
}

// SeriesSet is the chart-ready projection of a record list
type SeriesSet struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// EmptySeriesSet returns a set with no categories and no series
func EmptySeriesSet() SeriesSet {
	return SeriesSet{
		Categories: []string{},
		Series:     []Series{},
	}
}

// IsEmpty reports whether the set has nothing to draw
func (s SeriesSet) IsEmpty() bool {
	return len(s.Categories) == 0 || len(s.Series) == 0
}

// Validate checks that every series is aligned with the categories
func (s SeriesSet) Validate() error {
	seen := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		if seen[c] {
			return goerr.New("duplicate category", goerr.V("category", c))
		}
		seen[c] = true
	}

	for _, series := range s.Series {
		if len(series.Data) != len(s.Categories) {
			return goerr.New("series length does not match categories",
				goerr.V("series", series.Name),
				goerr.V("length", len(series.Data)),
				goerr.V("categories", len(s.Categories)))
		}
	}
	return nil
}

// Cell is one (series, category) value of a SeriesSet
type Cell struct {
	Series   string  `json:"series"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Summary holds aggregates shown in chart footers and KPI tiles
type Summary struct {
	CategoryTotals []float64   `json:"category_totals"`
	Shares         [][]float64 `json:"shares"`
	Total          float64     `json:"total"`
	Mean           float64     `json:"mean"`
	Max            *Cell       `json:"max,omitempty"`
	Min            *Cell       `json:"min,omitempty"`
	TopCategory    string      `json:"top_category,omitempty"`
}
