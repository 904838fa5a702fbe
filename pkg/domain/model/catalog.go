package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// Axis configures the Category Extractor
type Axis struct {
	Field  types.FieldPath `yaml:"field" json:"field"`
	Order  types.AxisOrder `yaml:"order,omitempty" json:"order,omitempty" validate:"valid"`
	Labels []string        `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Column is one value column read by wide and columns projections
type Column struct {
	Field types.FieldPath `yaml:"field" json:"field" validate:"required,min=1"`
	Name  string          `yaml:"name,omitempty" json:"name,omitempty"`
	Color string          `yaml:"color,omitempty" json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// DisplayName returns Name, or the first field alias
func (c Column) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Field) > 0 {
		return c.Field[0]
	}
	return ""
}

// Projection describes how a panel's records become a SeriesSet
type Projection struct {
	Mode       types.ProjectionMode `yaml:"mode" json:"mode" validate:"valid"`
	Axis       Axis                 `yaml:"axis" json:"axis"`
	Partition  types.FieldPath      `yaml:"partition,omitempty" json:"partition,omitempty"`
	Value      types.FieldPath      `yaml:"value,omitempty" json:"value,omitempty"`
	Partitions []Partition          `yaml:"partitions,omitempty" json:"partitions,omitempty" validate:"dive"`
	Columns    []Column             `yaml:"columns,omitempty" json:"columns,omitempty" validate:"dive"`
	SeriesName string               `yaml:"series_name,omitempty" json:"series_name,omitempty"`
	Sort       types.SortOrder      `yaml:"sort,omitempty" json:"sort,omitempty" validate:"valid"`
	// Total, when set, is summed over raw records for the footer total
	Total types.FieldPath `yaml:"total,omitempty" json:"total,omitempty"`
}

// Validate checks mode-specific requirements
func (p *Projection) Validate() error {
	if !p.Mode.IsValid() {
		return goerr.New("invalid projection mode", goerr.V("mode", p.Mode))
	}

	switch p.Mode {
	case types.ProjectionLong:
		if p.Axis.Field.IsEmpty() {
			return goerr.New("long projection requires axis field")
		}
		if p.Partition.IsEmpty() {
			return goerr.New("long projection requires partition field")
		}
		if p.Value.IsEmpty() {
			return goerr.New("long projection requires value field")
		}
	case types.ProjectionWide:
		if p.Axis.Field.IsEmpty() {
			return goerr.New("wide projection requires axis field")
		}
		if len(p.Columns) == 0 {
			return goerr.New("wide projection requires at least one column")
		}
	case types.ProjectionColumns:
		if len(p.Columns) == 0 {
			return goerr.New("columns projection requires at least one column")
		}
	}

	if (p.Axis.Order == types.AxisOrderFixed || p.Axis.Order == types.AxisOrderOrdinal) && len(p.Axis.Labels) == 0 {
		return goerr.New("axis order requires labels", goerr.V("order", p.Axis.Order))
	}

	labels := make(map[string]bool, len(p.Axis.Labels))
	for _, label := range p.Axis.Labels {
		if strings.TrimSpace(label) == "" {
			return goerr.New("blank axis label")
		}
		if labels[label] {
			return goerr.New("duplicate axis label", goerr.V("label", label))
		}
		labels[label] = true
	}

	keys := make(map[string]bool)
	for _, part := range p.Partitions {
		if keys[part.Key] {
			return goerr.New("duplicate partition key", goerr.V("key", part.Key))
		}
		keys[part.Key] = true
	}

	names := make(map[string]bool)
	for _, c := range p.Columns {
		if names[c.DisplayName()] {
			return goerr.New("duplicate column name", goerr.V("name", c.DisplayName()))
		}
		names[c.DisplayName()] = true
	}

	return nil
}

// KPISpec is one headline number read from a KPI endpoint
type KPISpec struct {
	ID       string          `yaml:"id" json:"id" validate:"required"`
	Label    string          `yaml:"label" json:"label" validate:"required"`
	Field    types.FieldPath `yaml:"field" json:"field" validate:"required,min=1"`
	Format   types.KPIFormat `yaml:"format,omitempty" json:"format,omitempty" validate:"valid"`
	Unit     string          `yaml:"unit,omitempty" json:"unit,omitempty"`
	Decimals int             `yaml:"decimals,omitempty" json:"decimals,omitempty" validate:"min=0,max=6"`
	Default  any             `yaml:"default,omitempty" json:"default,omitempty"`
}

// RatioSpec is a derived percentage of two KPI fields, 0 when the
// denominator is 0
type RatioSpec struct {
	ID          string          `yaml:"id" json:"id" validate:"required"`
	Label       string          `yaml:"label" json:"label" validate:"required"`
	Numerator   types.FieldPath `yaml:"numerator" json:"numerator" validate:"required,min=1"`
	Denominator types.FieldPath `yaml:"denominator" json:"denominator" validate:"required,min=1"`
}

// TableColumn is one displayed column of a table panel
type TableColumn struct {
	Field types.FieldPath `yaml:"field" json:"field" validate:"required,min=1"`
	Label string          `yaml:"label" json:"label" validate:"required"`
}

// TableSpec configures a table panel
type TableSpec struct {
	Columns   []TableColumn `yaml:"columns" json:"columns" validate:"required,min=1,dive"`
	Paginated bool          `yaml:"paginated,omitempty" json:"paginated,omitempty"`
	PageSize  int           `yaml:"page_size,omitempty" json:"page_size,omitempty" validate:"omitempty,min=1,max=1000"`
}

// PanelSpec defines one panel of a dashboard page
type PanelSpec struct {
	ID          types.PanelID      `yaml:"id" json:"id" validate:"required"`
	Title       string             `yaml:"title" json:"title" validate:"required"`
	Kind        types.PanelKind    `yaml:"kind" json:"kind" validate:"valid"`
	Endpoint    string             `yaml:"endpoint" json:"endpoint" validate:"required,startswith=/"`
	Query       map[string]string  `yaml:"query,omitempty" json:"query,omitempty"`
	Chart       types.ChartKind    `yaml:"chart,omitempty" json:"chart,omitempty" validate:"omitempty,valid"`
	Fallback    types.FallbackMode `yaml:"fallback,omitempty" json:"fallback,omitempty" validate:"omitempty,valid"`
	Projection  *Projection        `yaml:"projection,omitempty" json:"projection,omitempty"`
	KPIs        []KPISpec          `yaml:"kpis,omitempty" json:"kpis,omitempty" validate:"dive"`
	Ratios      []RatioSpec        `yaml:"ratios,omitempty" json:"ratios,omitempty" validate:"dive"`
	Table       *TableSpec         `yaml:"table,omitempty" json:"table,omitempty"`
	Placeholder []Record           `yaml:"placeholder,omitempty" json:"-"`
}

// FallbackOr returns the panel's own fallback mode or the given default
func (p *PanelSpec) FallbackOr(def types.FallbackMode) types.FallbackMode {
	if p.Fallback != "" {
		return p.Fallback
	}
	return def
}

// Validate checks kind-specific requirements of the panel
func (p *PanelSpec) Validate() error {
	switch p.Kind {
	case types.PanelKindChart:
		if !p.Chart.IsValid() {
			return goerr.New("chart panel requires a valid chart kind", goerr.V("chart", p.Chart))
		}
		if p.Projection == nil {
			return goerr.New("chart panel requires a projection")
		}
		if err := p.Projection.Validate(); err != nil {
			return goerr.Wrap(err, "invalid projection")
		}

	case types.PanelKindKPI:
		if len(p.KPIs) == 0 && len(p.Ratios) == 0 {
			return goerr.New("kpi panel requires kpis or ratios")
		}
		ids := make(map[string]bool)
		for _, k := range p.KPIs {
			if ids[k.ID] {
				return goerr.New("duplicate KPI ID", goerr.V("id", k.ID))
			}
			ids[k.ID] = true
		}
		for _, r := range p.Ratios {
			if ids[r.ID] {
				return goerr.New("duplicate KPI ID", goerr.V("id", r.ID))
			}
			ids[r.ID] = true
		}

	case types.PanelKindTable:
		if p.Table == nil {
			return goerr.New("table panel requires table definition")
		}

	default:
		return goerr.New("invalid panel kind", goerr.V("kind", p.Kind))
	}

	return nil
}

// PageSpec is one dashboard page
type PageSpec struct {
	ID     types.PageID `yaml:"id" json:"id" validate:"required"`
	Title  string       `yaml:"title" json:"title" validate:"required"`
	Panels []PanelSpec  `yaml:"panels" json:"panels" validate:"required,min=1,dive"`
}

// Catalog is the full set of pages and panels the dashboard serves
type Catalog struct {
	Pages []PageSpec `yaml:"pages" json:"pages" validate:"required,min=1,dive"`
}

// Validate validates the catalog structure and cross references
func (c *Catalog) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	pageIDs := make(map[types.PageID]bool)
	panelIDs := make(map[types.PanelID]bool)
	for i, page := range c.Pages {
		if pageIDs[page.ID] {
			return goerr.New("duplicate page ID", goerr.V("id", page.ID))
		}
		pageIDs[page.ID] = true

		for j := range page.Panels {
			panel := &c.Pages[i].Panels[j]
			if panelIDs[panel.ID] {
				return goerr.New("duplicate panel ID", goerr.V("id", panel.ID))
			}
			panelIDs[panel.ID] = true

			if err := panel.Validate(); err != nil {
				return goerr.Wrap(err, "invalid panel",
					goerr.V("page", page.ID),
					goerr.V("panel", panel.ID))
			}
		}
	}

	return nil
}

// FindPage finds a page by its ID
func (c *Catalog) FindPage(id types.PageID) *PageSpec {
	for i := range c.Pages {
		if c.Pages[i].ID == id {
			return &c.Pages[i]
		}
	}
	return nil
}

// FindPanel finds a panel by its ID across all pages
func (c *Catalog) FindPanel(id types.PanelID) *PanelSpec {
	for i := range c.Pages {
		for j := range c.Pages[i].Panels {
			if c.Pages[i].Panels[j].ID == id {
				return &c.Pages[i].Panels[j]
			}
		}
	}
	return nil
}
