package model

import (
	"time"

	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// KPI is a resolved headline value
type KPI struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Value   any             `json:"value"`
	Display string          `json:"display"`
	Format  types.KPIFormat `json:"format,omitempty"`
}

// Table is one page of table rows
type Table struct {
	Columns   []TableColumn `json:"columns"`
	Rows      []Record      `json:"rows"`
	Page      int           `json:"page"`
	PageSize  int           `json:"page_size"`
	TotalRows int           `json:"total_rows"`
}

// PanelView is what the browser receives for one panel
type PanelView struct {
	PanelID   types.PanelID     `json:"panel_id"`
	Title     string            `json:"title"`
	Kind      types.PanelKind   `json:"kind"`
	Chart     types.ChartKind   `json:"chart,omitempty"`
	Status    types.FetchStatus `json:"status"`
	Source    types.Source      `json:"source,omitempty"`
	Error     types.ErrorCode   `json:"error,omitempty"`
	Series    *SeriesSet        `json:"series,omitempty"`
	Summary   *Summary          `json:"summary,omitempty"`
	KPIs      []KPI             `json:"kpis,omitempty"`
	Table     *Table            `json:"table,omitempty"`
	Seq       types.Sequence    `json:"seq"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StatesOverview lists every stored panel state. Pending counts panels
// whose latest load has not finished.
type StatesOverview struct {
	States  []*PanelState `json:"states"`
	Pending int           `json:"pending"`
}

// PageView is a page with all of its panel views
type PageView struct {
	ID     types.PageID `json:"id"`
	Title  string       `json:"title"`
	Panels []PanelView  `json:"panels"`
}

// PanelState is the stored view state of one panel. Latest is the newest
// sequence issued for the panel; only a result carrying it may commit.
type PanelState struct {
	PanelID   types.PanelID     `json:"panel_id"`
	Status    types.FetchStatus `json:"status"`
	Latest    types.Sequence    `json:"latest"`
	View      *PanelView        `json:"view,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
