package types

import (
	"fmt"

	"github.com/google/uuid"
)

// PageID identifies a dashboard page
type PageID string

// String returns the string representation
func (id PageID) String() string {
	return string(id)
}

// PanelID identifies a panel (chart, KPI group or table) in the catalog
type PanelID string

// String returns the string representation
func (id PanelID) String() string {
	return string(id)
}

// ScopeID identifies a cancellation scope owned by one component lifetime
type ScopeID string

// String returns the string representation
func (id ScopeID) String() string {
	return string(id)
}

// NewScopeID creates a new ScopeID
func NewScopeID() ScopeID {
	return ScopeID(uuid.New().String())
}

// Sequence is a per-panel monotonically increasing request number
type Sequence uint64

// String returns the string representation
func (s Sequence) String() string {
	return fmt.Sprintf("%d", s)
}

// PanelKind is the kind of content a panel shows
type PanelKind string

const (
	PanelKindChart PanelKind = "chart"
	PanelKindKPI   PanelKind = "kpi"
	PanelKindTable PanelKind = "table"
)

// IsValid checks if the panel kind is supported
func (k PanelKind) IsValid() bool {
	switch k {
	case PanelKindChart, PanelKindKPI, PanelKindTable:
		return true
	default:
		return false
	}
}

// ChartKind is the visual form of a chart panel
type ChartKind string

const (
	ChartKindBar        ChartKind = "bar"
	ChartKindStackedBar ChartKind = "stacked_bar"
	ChartKindLine       ChartKind = "line"
	ChartKindPie        ChartKind = "pie"
	ChartKindDonut      ChartKind = "donut"
)

// IsValid checks if the chart kind is supported
func (k ChartKind) IsValid() bool {
	switch k {
	case ChartKindBar, ChartKindStackedBar, ChartKindLine, ChartKindPie, ChartKindDonut:
		return true
	default:
		return false
	}
}

// KPIFormat controls how a KPI value is displayed
type KPIFormat string

const (
	KPIFormatNumber   KPIFormat = "number"
	KPIFormatPercent  KPIFormat = "percent"
	KPIFormatText     KPIFormat = "text"
	KPIFormatDuration KPIFormat = "duration"
)

// IsValid checks if the format is supported. Empty means number.
func (f KPIFormat) IsValid() bool {
	switch f {
	case "", KPIFormatNumber, KPIFormatPercent, KPIFormatText, KPIFormatDuration:
		return true
	default:
		return false
	}
}
