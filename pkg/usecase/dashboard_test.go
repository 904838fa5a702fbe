package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/repository"
	"github.com/secmon-lab/trialdash/pkg/usecase"
)

var fixedNow = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

func testCatalog() *model.Catalog {
	return &model.Catalog{Pages: []model.PageSpec{
		{
			ID:    "site-analysis",
			Title: "Site Analysis",
			Panels: []model.PanelSpec{
				{
					ID:       "gender-distribution",
					Title:    "Gender Distribution",
					Kind:     types.PanelKindChart,
					Chart:    types.ChartKindStackedBar,
					Endpoint: "/siteanalysis/gender_distribution",
					Projection: &model.Projection{
						Mode:      types.ProjectionLong,
						Axis:      model.Axis{Field: types.FieldPath{"site", "s_sitename"}},
						Partition: types.FieldPath{"gender", "p_sex", "sex"},
						Value:     types.FieldPath{"count", "patient_count", "value"},
						Partitions: []model.Partition{
							{Key: "M", Name: "Male", Color: "#065f46"},
							{Key: "F", Name: "Female", Color: "#8b5cf6"},
						},
					},
					Placeholder: []model.Record{
						{"site": "AIIMS Delhi", "gender": "M", "count": 461},
						{"site": "AIIMS Delhi", "gender": "F", "count": 389},
					},
				},
				{
					ID:       "site-kpis",
					Title:    "Site KPIs",
					Kind:     types.PanelKindKPI,
					Endpoint: "/siteanalysis/kpis",
					KPIs: []model.KPISpec{
						{ID: "active_sites", Label: "Total Active Sites", Field: types.FieldPath{"total_active_sites.total_active_sites"}},
						{ID: "avg_patients", Label: "Avg Patients per Site", Field: types.FieldPath{"avg_patients_per_site.avg_patients_per_site"}},
						{ID: "top_performer", Label: "Top Performer", Field: types.FieldPath{"top_performer.s_sitename"}, Format: types.KPIFormatText},
						{ID: "least_performer", Label: "Least Performer", Field: types.FieldPath{"least_performer.s_sitename"}, Format: types.KPIFormatText},
					},
				},
			},
		},
		{
			ID:    "executive",
			Title: "Executive Overview",
			Panels: []model.PanelSpec{
				{
					ID:       "enrollment-gauge",
					Title:    "Enrollment Progress",
					Kind:     types.PanelKindKPI,
					Endpoint: "/exec/enrollment-gauge",
					KPIs: []model.KPISpec{
						{ID: "enrolled", Label: "Enrolled", Field: types.FieldPath{"total_enrolled"}},
						{ID: "completion", Label: "Visit Completion", Field: types.FieldPath{"visit_completion_pct"}, Format: types.KPIFormatPercent, Decimals: 2, Default: 0},
						{ID: "resolution", Label: "Avg Resolution Time", Field: types.FieldPath{"avg_resolution_time"}, Format: types.KPIFormatDuration},
						{ID: "missed", Label: "Missed Visits", Field: types.FieldPath{"visit_missed"}, Default: 707},
					},
					Ratios: []model.RatioSpec{
						{ID: "progress", Label: "Progress", Numerator: types.FieldPath{"total_enrolled"}, Denominator: types.FieldPath{"total_target"}},
					},
				},
			},
		},
		{
			ID:    "adherence",
			Title: "Adherence",
			Panels: []model.PanelSpec{
				{
					ID:       "patient-details",
					Title:    "Patient Details",
					Kind:     types.PanelKindTable,
					Endpoint: "/adherence/patient-details",
					Table: &model.TableSpec{
						Paginated: true,
						Columns: []model.TableColumn{
							{Field: types.FieldPath{"patientpk", "patient_id"}, Label: "Patient"},
							{Field: types.FieldPath{"status"}, Label: "Status"},
						},
					},
				},
				{
					ID:       "comprehensive-table",
					Title:    "Site Operations",
					Kind:     types.PanelKindTable,
					Endpoint: "/operationalmetrics/comprehensive_table",
					Table: &model.TableSpec{
						Columns: []model.TableColumn{
							{Field: types.FieldPath{"s_sitename"}, Label: "Site"},
						},
					},
				},
			},
		},
	}}
}

func newDashboard(t *testing.T, client interfaces.AnalyticsClient, opts ...usecase.DashboardOption) (*usecase.Dashboard, interfaces.StateStore) {
	t.Helper()
	catalog := testCatalog()
	gt.NoError(t, catalog.Validate())

	store := repository.NewMemory()
	opts = append([]usecase.DashboardOption{usecase.WithClock(func() time.Time { return fixedNow })}, opts...)
	return usecase.NewDashboard(catalog, client, store, nil, usecase.NewDashboardConfig(opts...)), store
}

func staticClient(bodies map[string]string) *mocks.AnalyticsClientMock {
	return &mocks.AnalyticsClientMock{
		FetchFunc: func(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
			body, ok := bodies[endpoint]
			if !ok {
				return nil, errors.New("connection refused")
			}
			return []byte(body), nil
		},
		BaseURLFunc: func() string { return "http://analytics.test/api" },
	}
}

func TestDashboardLoadChartPanel(t *testing.T) {
	client := staticClient(map[string]string{
		"/siteanalysis/gender_distribution": `[
			{"site":"AIIMS Delhi","gender":"M","count":5},
			{"site":"AIIMS Delhi","gender":"F","count":3},
			{"site":"AIIMS Patna","gender":"M","count":2},
			{"site":"AIIMS Patna","gender":"Other","count":9}
		]`,
	})
	dash, store := newDashboard(t, client)

	view, err := dash.LoadPanel(context.Background(), "gender-distribution")
	gt.NoError(t, err)
	gt.Equal(t, view.Status, types.FetchStatusSuccess)
	gt.Equal(t, view.Source, types.SourceLive)
	gt.Equal(t, view.Chart, types.ChartKindStackedBar)
	gt.Equal(t, view.UpdatedAt, fixedNow)
	gt.Equal(t, view.Series.Categories, []string{"AIIMS Delhi", "AIIMS Patna"})
	gt.A(t, view.Series.Series).Length(2)
	gt.Equal(t, view.Series.Series[0].Name, "Male")
	gt.Equal(t, view.Series.Series[0].Data, []float64{5, 2})
	gt.Equal(t, view.Series.Series[1].Data, []float64{3, 0})
	gt.Equal(t, view.Summary.Total, 10.0)

	state, err := dash.PanelState(context.Background(), "gender-distribution")
	gt.NoError(t, err)
	gt.Equal(t, state.Status, types.FetchStatusSuccess)
	gt.Equal(t, state.View.Seq, types.Sequence(1))

	states, err := store.List(context.Background())
	gt.NoError(t, err)
	gt.A(t, states).Length(1)
}

func TestDashboardFallbackModes(t *testing.T) {
	type testCase struct {
		mode   types.FallbackMode
		body   *string
		verify func(t *testing.T, view *model.PanelView)
	}

	badShape := `{"unexpected": 1}`
	upstream := `{"error": "database unavailable"}`

	runTest := func(tc testCase) func(t *testing.T) {
		return func(t *testing.T) {
			bodies := map[string]string{}
			if tc.body != nil {
				bodies["/siteanalysis/gender_distribution"] = *tc.body
			}
			dash, _ := newDashboard(t, staticClient(bodies), usecase.WithFallback(tc.mode))

			view, err := dash.LoadPanel(context.Background(), "gender-distribution")
			gt.NoError(t, err)
			tc.verify(t, view)
		}
	}

	t.Run("error mode on network failure", runTest(testCase{
		mode: types.FallbackError,
		verify: func(t *testing.T, view *model.PanelView) {
			gt.Equal(t, view.Status, types.FetchStatusError)
			gt.Equal(t, view.Error, types.ErrorCodeUpstreamUnavailable)
			gt.Nil(t, view.Series)
		},
	}))

	t.Run("error mode on unexpected shape", runTest(testCase{
		mode: types.FallbackError,
		body: &badShape,
		verify: func(t *testing.T, view *model.PanelView) {
			gt.Equal(t, view.Status, types.FetchStatusError)
			gt.Equal(t, view.Error, types.ErrorCodeUnexpectedResponse)
		},
	}))

	t.Run("error mode on upstream error object", runTest(testCase{
		mode: types.FallbackError,
		body: &upstream,
		verify: func(t *testing.T, view *model.PanelView) {
			gt.Equal(t, view.Error, types.ErrorCodeUnexpectedResponse)
		},
	}))

	t.Run("placeholder mode substitutes placeholder records", runTest(testCase{
		mode: types.FallbackPlaceholder,
		verify: func(t *testing.T, view *model.PanelView) {
			gt.Equal(t, view.Status, types.FetchStatusSuccess)
			gt.Equal(t, view.Source, types.SourcePlaceholder)
			gt.Equal(t, view.Error, types.ErrorCode(""))
			gt.Equal(t, view.Series.Categories, []string{"AIIMS Delhi"})
			gt.Equal(t, view.Series.Series[0].Data, []float64{461})
			gt.Equal(t, view.Series.Series[1].Data, []float64{389})
		},
	}))

	t.Run("empty mode shows no data", runTest(testCase{
		mode: types.FallbackEmpty,
		body: &badShape,
		verify: func(t *testing.T, view *model.PanelView) {
			gt.Equal(t, view.Status, types.FetchStatusSuccess)
			gt.Equal(t, view.Source, types.SourceEmpty)
			gt.True(t, view.Series.IsEmpty())
			gt.Equal(t, view.Summary.Total, 0.0)
		},
	}))
}

func TestDashboardPanelFallbackOverride(t *testing.T) {
	catalog := testCatalog()
	catalog.FindPanel("gender-distribution").Fallback = types.FallbackPlaceholder

	dash := usecase.NewDashboard(catalog, staticClient(nil), repository.NewMemory(), nil,
		usecase.NewDashboardConfig(usecase.WithFallback(types.FallbackError)))

	view, err := dash.LoadPanel(context.Background(), "gender-distribution")
	gt.NoError(t, err)
	gt.Equal(t, view.Source, types.SourcePlaceholder)

	kpis, err := dash.LoadPanel(context.Background(), "site-kpis")
	gt.NoError(t, err)
	gt.Equal(t, kpis.Status, types.FetchStatusError)
}

func TestDashboardPlaceholderWithoutDataIsEmpty(t *testing.T) {
	dash, _ := newDashboard(t, staticClient(nil), usecase.WithFallback(types.FallbackPlaceholder))

	view, err := dash.LoadPanel(context.Background(), "site-kpis")
	gt.NoError(t, err)
	gt.Equal(t, view.Source, types.SourceEmpty)
	gt.A(t, view.KPIs).Length(4)
	gt.Equal(t, view.KPIs[0].Display, "0")
	gt.Equal(t, view.KPIs[2].Display, "-")
}

func TestDashboardKPIs(t *testing.T) {
	client := staticClient(map[string]string{
		"/siteanalysis/kpis": `{
			"total_active_sites": {"total_active_sites": 4},
			"avg_patients_per_site": {"avg_patients_per_site": 1250.4},
			"top_performer": {"s_sitename": "AIIMS Delhi"},
			"least_performer": {"s_sitename": null}
		}`,
		"/exec/enrollment-gauge": `[{"total_enrolled": 3000, "total_target": 4000, "visit_completion_pct": 92.5, "avg_resolution_time": 6.5}]`,
	})
	dash, _ := newDashboard(t, client)

	t.Run("nested fields", func(t *testing.T) {
		view, err := dash.LoadPanel(context.Background(), "site-kpis")
		gt.NoError(t, err)
		gt.Equal(t, view.Status, types.FetchStatusSuccess)
		gt.A(t, view.KPIs).Length(4)
		gt.Equal(t, view.KPIs[0].Value, any(4.0))
		gt.Equal(t, view.KPIs[0].Display, "4")
		gt.Equal(t, view.KPIs[1].Display, "1,250")
		gt.Equal(t, view.KPIs[2].Display, "AIIMS Delhi")
		gt.Equal(t, view.KPIs[3].Display, "-")
	})

	t.Run("formats, defaults and ratios", func(t *testing.T) {
		view, err := dash.LoadPanel(context.Background(), "enrollment-gauge")
		gt.NoError(t, err)
		gt.A(t, view.KPIs).Length(5)
		gt.Equal(t, view.KPIs[0].Display, "3,000")
		gt.Equal(t, view.KPIs[1].Display, "92.5%")
		gt.Equal(t, view.KPIs[2].Display, "6.5 days")
		gt.Equal(t, view.KPIs[3].Display, "707")
		gt.Equal(t, view.KPIs[4].ID, "progress")
		gt.Equal(t, view.KPIs[4].Value, any(75.0))
		gt.Equal(t, view.KPIs[4].Display, "75%")
	})

	t.Run("zero denominator ratio", func(t *testing.T) {
		dash, _ := newDashboard(t, staticClient(map[string]string{
			"/exec/enrollment-gauge": `{"total_enrolled": 10, "total_target": 0}`,
		}))
		view, err := dash.LoadPanel(context.Background(), "enrollment-gauge")
		gt.NoError(t, err)
		gt.Equal(t, view.KPIs[4].Value, any(0.0))
	})
}

func TestDashboardLoadTable(t *testing.T) {
	t.Run("paginated table forwards page parameters", func(t *testing.T) {
		client := &mocks.AnalyticsClientMock{
			FetchFunc: func(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
				gt.Equal(t, endpoint, "/adherence/patient-details")
				gt.Equal(t, query.Get("page"), "2")
				gt.Equal(t, query.Get("page_size"), "10")
				return []byte(`{"page":2,"page_size":10,"total_rows":25,"data":[
					{"patient_id":"P-11","status":"Active","site":"AIIMS Delhi"}
				]}`), nil
			},
			BaseURLFunc: func() string { return "http://analytics.test/api" },
		}
		dash, _ := newDashboard(t, client)

		view, err := dash.LoadTable(context.Background(), "patient-details", 2, 10)
		gt.NoError(t, err)
		gt.Equal(t, view.Table.Page, 2)
		gt.Equal(t, view.Table.PageSize, 10)
		gt.Equal(t, view.Table.TotalRows, 25)
		gt.A(t, view.Table.Rows).Length(1)
		gt.Equal(t, view.Table.Rows[0], model.Record{"patientpk": "P-11", "status": "Active"})
		gt.A(t, view.Table.Columns).Length(2)
	})

	t.Run("page size is clamped", func(t *testing.T) {
		client := &mocks.AnalyticsClientMock{
			FetchFunc: func(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
				gt.Equal(t, query.Get("page"), "1")
				gt.Equal(t, query.Get("page_size"), "1000")
				return []byte(`{"page":1,"page_size":1000,"total_rows":0,"data":[]}`), nil
			},
			BaseURLFunc: func() string { return "http://analytics.test/api" },
		}
		dash, _ := newDashboard(t, client)

		view, err := dash.LoadTable(context.Background(), "patient-details", 0, 5000)
		gt.NoError(t, err)
		gt.Equal(t, view.Table.PageSize, 1000)
		gt.A(t, view.Table.Rows).Length(0)
	})

	t.Run("unpaginated table is sliced locally", func(t *testing.T) {
		dash, _ := newDashboard(t, staticClient(map[string]string{
			"/operationalmetrics/comprehensive_table": `[
				{"s_sitename":"A"},{"s_sitename":"B"},{"s_sitename":"C"},{"s_sitename":"D"},{"s_sitename":"E"}
			]`,
		}))

		view, err := dash.LoadTable(context.Background(), "comprehensive-table", 2, 2)
		gt.NoError(t, err)
		gt.Equal(t, view.Table.TotalRows, 5)
		gt.Equal(t, view.Table.Rows, []model.Record{{"s_sitename": "C"}, {"s_sitename": "D"}})

		view, err = dash.LoadTable(context.Background(), "comprehensive-table", 9, 2)
		gt.NoError(t, err)
		gt.A(t, view.Table.Rows).Length(0)
	})

	t.Run("non-table panel is rejected", func(t *testing.T) {
		dash, _ := newDashboard(t, staticClient(nil))
		_, err := dash.LoadTable(context.Background(), "gender-distribution", 1, 10)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrNotTable))
	})
}

func TestDashboardNotFound(t *testing.T) {
	dash, _ := newDashboard(t, staticClient(nil))

	_, err := dash.LoadPanel(context.Background(), "missing")
	gt.True(t, errors.Is(err, model.ErrPanelNotFound))

	_, err = dash.LoadPage(context.Background(), "missing")
	gt.True(t, errors.Is(err, model.ErrPageNotFound))

	_, err = dash.PanelState(context.Background(), "missing")
	gt.True(t, errors.Is(err, model.ErrPanelNotFound))
}

func TestDashboardLoadPage(t *testing.T) {
	var inFlight, peak atomic.Int32
	client := &mocks.AnalyticsClientMock{
		FetchFunc: func(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			if endpoint == "/siteanalysis/kpis" {
				return []byte(`{"total_active_sites":{"total_active_sites":4}}`), nil
			}
			return []byte(`[]`), nil
		},
		BaseURLFunc: func() string { return "http://analytics.test/api" },
	}
	dash, _ := newDashboard(t, client, usecase.WithConcurrency(1))

	page, err := dash.LoadPage(context.Background(), "site-analysis")
	gt.NoError(t, err)
	gt.Equal(t, page.Title, "Site Analysis")
	gt.A(t, page.Panels).Length(2)
	gt.Equal(t, page.Panels[0].PanelID, types.PanelID("gender-distribution"))
	gt.Equal(t, page.Panels[1].PanelID, types.PanelID("site-kpis"))
	gt.True(t, page.Panels[0].Series.IsEmpty())
	gt.Equal(t, page.Panels[1].KPIs[0].Display, "4")
	gt.Equal(t, peak.Load(), int32(1))
}

func TestDashboardRenderPanel(t *testing.T) {
	renderer := &mocks.RendererMock{
		RenderFunc: func(w io.Writer, view *model.PanelView) error {
			_, err := w.Write([]byte("<svg>" + view.Title + "</svg>"))
			return err
		},
		ContentTypeFunc: func() string { return "image/svg+xml" },
	}
	dash := usecase.NewDashboard(testCatalog(), staticClient(map[string]string{
		"/siteanalysis/gender_distribution": `[]`,
	}), repository.NewMemory(), renderer, nil)

	var buf bytes.Buffer
	gt.NoError(t, dash.RenderPanel(context.Background(), "gender-distribution", &buf))
	gt.Equal(t, buf.String(), "<svg>Gender Distribution</svg>")
	gt.A(t, renderer.RenderCalls()).Length(1)
}

func TestDashboardPrefetch(t *testing.T) {
	client := staticClient(map[string]string{
		"/siteanalysis/gender_distribution": `[]`,
	})
	dash, store := newDashboard(t, client)

	gt.NoError(t, dash.Prefetch(context.Background()))

	states, err := store.List(context.Background())
	gt.NoError(t, err)
	gt.A(t, states).Length(5)
	for _, state := range states {
		gt.True(t, state.Status.IsTerminal())
	}

	state, err := store.Get(context.Background(), "gender-distribution")
	gt.NoError(t, err)
	gt.Equal(t, state.Status, types.FetchStatusSuccess)
}

func TestDashboardPanelStates(t *testing.T) {
	gated := make(chan struct{})
	client := &mocks.AnalyticsClientMock{
		FetchFunc: func(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
			if endpoint == "/siteanalysis/kpis" {
				<-gated
			}
			return []byte(`[]`), nil
		},
		BaseURLFunc: func() string { return "http://analytics.test/api" },
	}
	dash, _ := newDashboard(t, client)

	overview, err := dash.PanelStates(context.Background())
	gt.NoError(t, err)
	gt.A(t, overview.States).Length(0)
	gt.Equal(t, overview.Pending, 0)

	_, err = dash.LoadPanel(context.Background(), "gender-distribution")
	gt.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := dash.LoadPanel(context.Background(), "site-kpis")
		gt.NoError(t, err)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		overview, err = dash.PanelStates(context.Background())
		gt.NoError(t, err)
		if overview.Pending == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	gt.A(t, overview.States).Length(2)
	gt.Equal(t, overview.Pending, 1)

	close(gated)
	<-done

	overview, err = dash.PanelStates(context.Background())
	gt.NoError(t, err)
	gt.A(t, overview.States).Length(2)
	gt.Equal(t, overview.Pending, 0)
}

func TestDashboardColumnsChartReadsFlatObject(t *testing.T) {
	catalog := &model.Catalog{Pages: []model.PageSpec{{
		ID:    "executive",
		Title: "Executive Overview",
		Panels: []model.PanelSpec{{
			ID:       "visit-status",
			Title:    "Visit Status",
			Kind:     types.PanelKindChart,
			Chart:    types.ChartKindDonut,
			Endpoint: "/exec/visit-status",
			Projection: &model.Projection{
				Mode:       types.ProjectionColumns,
				SeriesName: "Visits",
				Columns: []model.Column{
					{Field: types.FieldPath{"completed"}, Name: "Completed"},
					{Field: types.FieldPath{"missed"}, Name: "Missed"},
					{Field: types.FieldPath{"rescheduled"}, Name: "Rescheduled"},
				},
			},
		}},
	}}}
	gt.NoError(t, catalog.Validate())

	client := staticClient(map[string]string{
		"/exec/visit-status": `{"completed":120,"missed":null,"rescheduled":"7"}`,
	})
	dash := usecase.NewDashboard(catalog, client, repository.NewMemory(), nil, usecase.NewDashboardConfig())

	view, err := dash.LoadPanel(context.Background(), "visit-status")
	gt.NoError(t, err)
	gt.Equal(t, view.Status, types.FetchStatusSuccess)
	gt.Equal(t, view.Series.Categories, []string{"Completed", "Missed", "Rescheduled"})
	gt.A(t, view.Series.Series).Length(1)
	gt.Equal(t, view.Series.Series[0].Name, "Visits")
	gt.Equal(t, view.Series.Series[0].Data, []float64{120, 0, 7})
	gt.Equal(t, view.Summary.Total, 127.0)
}
