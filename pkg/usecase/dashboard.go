package usecase

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/service/analytics"
	"github.com/secmon-lab/trialdash/pkg/service/projection"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize    = 50
	maxPageSize        = 1000
	defaultConcurrency = 4
)

// DashboardConfig holds configuration for the Dashboard use case
type DashboardConfig struct {
	fallback    types.FallbackMode
	concurrency int
	now         func() time.Time
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*DashboardConfig)

// WithFallback sets the global fallback mode used by panels without their own
func WithFallback(mode types.FallbackMode) DashboardOption {
	return func(c *DashboardConfig) {
		c.fallback = mode
	}
}

// WithConcurrency limits how many panels of a page are loaded at once
func WithConcurrency(n int) DashboardOption {
	return func(c *DashboardConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithClock replaces the clock stamping panel views
func WithClock(now func() time.Time) DashboardOption {
	return func(c *DashboardConfig) {
		c.now = now
	}
}

// NewDashboardConfig creates a DashboardConfig with default values and optional settings
func NewDashboardConfig(opts ...DashboardOption) *DashboardConfig {
	config := &DashboardConfig{
		fallback:    types.FallbackError,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Dashboard implements interfaces.Dashboard
type Dashboard struct {
	catalog  *model.Catalog
	client   interfaces.AnalyticsClient
	coord    *Coordinator
	store    interfaces.StateStore
	renderer interfaces.Renderer
	config   *DashboardConfig
}

var _ interfaces.Dashboard = (*Dashboard)(nil)

// NewDashboard creates a new Dashboard instance with configuration
func NewDashboard(catalog *model.Catalog, client interfaces.AnalyticsClient, store interfaces.StateStore, renderer interfaces.Renderer, config *DashboardConfig) *Dashboard {
	if config == nil {
		config = NewDashboardConfig()
	}
	return &Dashboard{
		catalog:  catalog,
		client:   client,
		coord:    NewCoordinator(client, store),
		store:    store,
		renderer: renderer,
		config:   config,
	}
}

// Catalog returns the catalog the dashboard serves
func (d *Dashboard) Catalog() *model.Catalog {
	return d.catalog
}

// LoadPanel fetches and builds one panel. Table panels load their first page.
func (d *Dashboard) LoadPanel(ctx context.Context, id types.PanelID) (*model.PanelView, error) {
	panel := d.catalog.FindPanel(id)
	if panel == nil {
		return nil, goerr.Wrap(model.ErrPanelNotFound, "failed to load panel", goerr.V("panel", id))
	}

	scope := d.coord.Open(ctx)
	defer scope.Close()

	return d.load(scope, panel, newTableRequest(panel, 1, 0))
}

// LoadPage loads every panel of a page concurrently. Views keep the
// catalog's panel order.
func (d *Dashboard) LoadPage(ctx context.Context, id types.PageID) (*model.PageView, error) {
	page := d.catalog.FindPage(id)
	if page == nil {
		return nil, goerr.Wrap(model.ErrPageNotFound, "failed to load page", goerr.V("page", id))
	}

	scope := d.coord.Open(ctx)
	defer scope.Close()

	panels := make([]*model.PanelSpec, len(page.Panels))
	for i := range page.Panels {
		panels[i] = &page.Panels[i]
	}

	views, err := d.loadAll(scope, panels)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load page", goerr.V("page", id))
	}

	return &model.PageView{
		ID:     page.ID,
		Title:  page.Title,
		Panels: views,
	}, nil
}

// LoadTable loads one page of a table panel. page starts at 1; pageSize
// defaults to the panel's page size and is capped at 1000.
func (d *Dashboard) LoadTable(ctx context.Context, id types.PanelID, page, pageSize int) (*model.PanelView, error) {
	panel := d.catalog.FindPanel(id)
	if panel == nil {
		return nil, goerr.Wrap(model.ErrPanelNotFound, "failed to load table", goerr.V("panel", id))
	}
	if panel.Kind != types.PanelKindTable {
		return nil, goerr.Wrap(model.ErrNotTable, "failed to load table", goerr.V("panel", id), goerr.V("kind", panel.Kind))
	}

	scope := d.coord.Open(ctx)
	defer scope.Close()

	return d.load(scope, panel, newTableRequest(panel, page, pageSize))
}

// RenderPanel loads a panel and draws it with the configured renderer
func (d *Dashboard) RenderPanel(ctx context.Context, id types.PanelID, w io.Writer) error {
	if d.renderer == nil {
		return goerr.New("no renderer configured")
	}

	view, err := d.LoadPanel(ctx, id)
	if err != nil {
		return err
	}

	if err := d.renderer.Render(w, view); err != nil {
		return goerr.Wrap(err, "failed to render panel", goerr.V("panel", id))
	}
	return nil
}

// PanelState returns the last stored state of a panel
func (d *Dashboard) PanelState(ctx context.Context, id types.PanelID) (*model.PanelState, error) {
	if d.catalog.FindPanel(id) == nil {
		return nil, goerr.Wrap(model.ErrPanelNotFound, "failed to get panel state", goerr.V("panel", id))
	}

	state, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get panel state", goerr.V("panel", id))
	}
	return state, nil
}

// PanelStates returns every stored panel state with the number of panels
// still loading
func (d *Dashboard) PanelStates(ctx context.Context) (*model.StatesOverview, error) {
	states, err := d.store.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list panel states")
	}

	overview := &model.StatesOverview{States: states}
	for _, state := range states {
		if !state.Status.IsTerminal() && state.Status != types.FetchStatusIdle {
			overview.Pending++
		}
	}
	return overview, nil
}

// Prefetch loads every panel of every page in one scope bound to ctx
func (d *Dashboard) Prefetch(ctx context.Context) error {
	scope := d.coord.Open(ctx)
	defer scope.Close()

	var panels []*model.PanelSpec
	for i := range d.catalog.Pages {
		for j := range d.catalog.Pages[i].Panels {
			panels = append(panels, &d.catalog.Pages[i].Panels[j])
		}
	}

	views, err := d.loadAll(scope, panels)
	if err != nil {
		return goerr.Wrap(err, "failed to prefetch panels")
	}

	failed := 0
	for _, v := range views {
		if v.Status == types.FetchStatusError {
			failed++
		}
	}
	ctxlog.From(ctx).Info("prefetched dashboard panels",
		slog.Int("panels", len(views)),
		slog.Int("failed", failed),
	)
	return nil
}

func (d *Dashboard) loadAll(scope *Scope, panels []*model.PanelSpec) ([]model.PanelView, error) {
	views := make([]model.PanelView, len(panels))

	var eg errgroup.Group
	eg.SetLimit(d.config.concurrency)
	for i, panel := range panels {
		eg.Go(func() error {
			view, err := d.load(scope, panel, newTableRequest(panel, 1, 0))
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (d *Dashboard) load(scope *Scope, panel *model.PanelSpec, req tableRequest) (*model.PanelView, error) {
	result, err := d.coord.Load(scope, panel.ID, panel.Endpoint, panelQuery(panel, req), d.builder(panel, req))
	if err != nil {
		return nil, err
	}
	return result.View, nil
}

// tableRequest is the requested window of a table panel
type tableRequest struct {
	page     int
	pageSize int
}

func newTableRequest(panel *model.PanelSpec, page, pageSize int) tableRequest {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
		if panel.Table != nil && panel.Table.PageSize > 0 {
			pageSize = panel.Table.PageSize
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return tableRequest{page: page, pageSize: pageSize}
}

func panelQuery(panel *model.PanelSpec, req tableRequest) url.Values {
	query := url.Values{}
	for k, v := range panel.Query {
		query.Set(k, v)
	}
	if panel.Kind == types.PanelKindTable && panel.Table != nil && panel.Table.Paginated {
		query.Set("page", strconv.Itoa(req.page))
		query.Set("page_size", strconv.Itoa(req.pageSize))
	}
	return query
}

func (d *Dashboard) builder(panel *model.PanelSpec, req tableRequest) BuildFunc {
	return func(ctx context.Context, body []byte, fetchErr error) *model.PanelView {
		view := &model.PanelView{
			PanelID:   panel.ID,
			Title:     panel.Title,
			Kind:      panel.Kind,
			Chart:     panel.Chart,
			Status:    types.FetchStatusSuccess,
			Source:    types.SourceLive,
			UpdatedAt: d.config.now(),
		}

		err := fetchErr
		if err == nil {
			err = d.fill(view, panel, body, req)
		}
		if err != nil {
			d.fallback(ctx, view, panel, req, err)
		}
		return view
	}
}

// fill decodes a live response into view
func (d *Dashboard) fill(view *model.PanelView, panel *model.PanelSpec, body []byte, req tableRequest) error {
	switch panel.Kind {
	case types.PanelKindChart:
		// columns charts read one flat object such as {completed, missed, rescheduled}
		if panel.Projection.Mode == types.ProjectionColumns {
			rec, err := analytics.DecodeObject(body)
			if err != nil {
				return err
			}
			applyRecords(view, panel, []model.Record{rec}, req)
			return nil
		}
		decoded, err := analytics.DecodeRecords(body)
		if err != nil {
			return err
		}
		applyRecords(view, panel, decoded.Records, req)

	case types.PanelKindKPI:
		rec, err := analytics.DecodeObject(body)
		if err != nil {
			return err
		}
		applyRecords(view, panel, []model.Record{rec}, req)

	case types.PanelKindTable:
		table, err := analytics.DecodePage(body)
		if err != nil {
			return err
		}
		if panel.Table.Paginated {
			if table.Page == 0 {
				table.Page = req.page
			}
			if table.PageSize == 0 {
				table.PageSize = req.pageSize
			}
			view.Table = shapeTable(panel.Table, table)
		} else {
			applyRecords(view, panel, table.Rows, req)
		}
	}
	return nil
}

// fallback replaces a failed view according to the panel's fallback mode.
// The raw error is logged and never placed in the view.
func (d *Dashboard) fallback(ctx context.Context, view *model.PanelView, panel *model.PanelSpec, req tableRequest, err error) {
	mode := panel.FallbackOr(d.config.fallback)
	ctxlog.From(ctx).Warn("panel load failed",
		slog.String("panel", panel.ID.String()),
		slog.String("fallback", mode.String()),
		slog.String("api", d.client.BaseURL()),
		slog.Any("error", err),
	)

	switch mode {
	case types.FallbackPlaceholder:
		if len(panel.Placeholder) > 0 {
			applyRecords(view, panel, model.CloneRecords(panel.Placeholder), req)
			view.Source = types.SourcePlaceholder
			return
		}
		fallthrough

	case types.FallbackEmpty:
		applyRecords(view, panel, nil, req)
		view.Source = types.SourceEmpty

	default:
		view.Status = types.FetchStatusError
		view.Source = ""
		view.Error = errorCode(err)
	}
}

// applyRecords fills view from decoded or placeholder records
func applyRecords(view *model.PanelView, panel *model.PanelSpec, records []model.Record, req tableRequest) {
	switch panel.Kind {
	case types.PanelKindChart:
		result := projection.Run(records, *panel.Projection)
		view.Series = &result.Series
		view.Summary = &result.Summary

	case types.PanelKindKPI:
		rec := model.Record{}
		if len(records) > 0 {
			rec = records[0]
		}
		view.KPIs = resolveKPIs(panel, rec)

	case types.PanelKindTable:
		view.Table = shapeTable(panel.Table, sliceTable(records, req))
	}
}

// sliceTable pages through rows held in memory
func sliceTable(rows []model.Record, req tableRequest) *model.Table {
	start := min((req.page-1)*req.pageSize, len(rows))
	end := min(start+req.pageSize, len(rows))
	return &model.Table{
		Rows:      rows[start:end],
		Page:      req.page,
		PageSize:  req.pageSize,
		TotalRows: len(rows),
	}
}

// shapeTable keeps only the configured columns, keyed by their first alias
func shapeTable(spec *model.TableSpec, table *model.Table) *model.Table {
	rows := make([]model.Record, 0, len(table.Rows))
	for _, rec := range table.Rows {
		row := make(model.Record, len(spec.Columns))
		for _, col := range spec.Columns {
			v, _ := rec.Lookup(col.Field)
			row[col.Field[0]] = v
		}
		rows = append(rows, row)
	}

	return &model.Table{
		Columns:   spec.Columns,
		Rows:      rows,
		Page:      table.Page,
		PageSize:  table.PageSize,
		TotalRows: table.TotalRows,
	}
}

func errorCode(err error) types.ErrorCode {
	switch {
	case goerr.HasTag(err, analytics.ErrTagUnexpectedShape), goerr.HasTag(err, analytics.ErrTagUpstream):
		return types.ErrorCodeUnexpectedResponse
	default:
		return types.ErrorCodeUpstreamUnavailable
	}
}
