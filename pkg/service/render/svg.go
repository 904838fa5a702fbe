// Package render draws projected panel data as SVG charts.
package render

import (
	"bytes"
	"io"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/service/projection"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 640
	defaultHeight = 400

	msgNoData      = "No data available"
	msgUnavailable = "Data unavailable"
)

// Option configures the SVG renderer
type Option func(*SVG)

// WithSize sets the image size in pixels
func WithSize(width, height int) Option {
	return func(s *SVG) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// SVG renders chart panel views with go-chart
type SVG struct {
	width  int
	height int
}

var _ interfaces.Renderer = (*SVG)(nil)

// New creates a new SVG renderer
func New(opts ...Option) *SVG {
	s := &SVG{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContentType returns the MIME type of rendered images
func (s *SVG) ContentType() string {
	return "image/svg+xml"
}

// Render draws view. Non-chart panels, failed loads and empty sets are
// drawn as a placeholder image with a short message.
func (s *SVG) Render(w io.Writer, view *model.PanelView) error {
	if view == nil {
		return goerr.New("panel view is nil")
	}

	switch {
	case view.Status == types.FetchStatusError:
		return s.message(w, view.Title, msgUnavailable)
	case view.Kind != types.PanelKindChart, view.Series == nil, view.Series.IsEmpty():
		return s.message(w, view.Title, msgNoData)
	}

	var buf bytes.Buffer
	if err := s.draw(&buf, view.Chart, view.Title, *view.Series); err != nil {
		return s.message(w, view.Title, msgNoData)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return goerr.Wrap(err, "failed to write chart")
	}
	return nil
}

func (s *SVG) draw(w io.Writer, kind types.ChartKind, title string, set model.SeriesSet) error {
	if allZero(set) {
		return goerr.New("series set has no non-zero value")
	}

	switch kind {
	case types.ChartKindBar:
		return s.bar(w, title, set)
	case types.ChartKindStackedBar:
		return s.stackedBar(w, title, set)
	case types.ChartKindLine:
		return s.line(w, title, set)
	case types.ChartKindPie:
		return s.pie(w, title, set, false)
	case types.ChartKindDonut:
		return s.pie(w, title, set, true)
	default:
		return goerr.New("unsupported chart kind", goerr.V("kind", kind))
	}
}

func (s *SVG) background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// bar draws the first series, one bar per category
func (s *SVG) bar(w io.Writer, title string, set model.SeriesSet) error {
	series := set.Series[0]
	bars := make([]chart.Value, len(set.Categories))
	for i, category := range set.Categories {
		bars[i] = chart.Value{
			Label: category,
			Value: series.Data[i],
			Style: fill(series.Color),
		}
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      s.width,
		Height:     s.height,
		Background: s.background(),
		BarWidth:   barWidth(s.width, len(bars)),
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: niceMax(maxValue(set))}},
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}

// stackedBar draws one stack per category, one segment per series
func (s *SVG) stackedBar(w io.Writer, title string, set model.SeriesSet) error {
	bars := make([]chart.StackedBar, len(set.Categories))
	for i, category := range set.Categories {
		values := make([]chart.Value, 0, len(set.Series))
		for _, series := range set.Series {
			values = append(values, chart.Value{
				Label: series.Name,
				Value: series.Data[i],
				Style: fill(series.Color),
			})
		}
		bars[i] = chart.StackedBar{
			Name:   category,
			Width:  barWidth(s.width, len(set.Categories)),
			Values: values,
		}
	}

	sbc := chart.StackedBarChart{
		Title:      title,
		Width:      s.width,
		Height:     s.height,
		Background: s.background(),
		Bars:       bars,
	}
	return sbc.Render(chart.SVG, w)
}

// line draws every series against category ticks
func (s *SVG) line(w io.Writer, title string, set model.SeriesSet) error {
	xs := make([]float64, len(set.Categories))
	ticks := make([]chart.Tick, len(set.Categories))
	for i, category := range set.Categories {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: category}
	}

	series := make([]chart.Series, 0, len(set.Series))
	for _, ss := range set.Series {
		style := chart.Style{StrokeWidth: 2, DotWidth: 3}
		if ss.Color != "" {
			c := drawing.ColorFromHex(ss.Color)
			style.StrokeColor = c
			style.DotColor = c
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ss.Name,
			XValues: xs,
			YValues: ss.Data,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      s.width,
		Height:     s.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 28}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
		},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: niceMax(maxValue(set))}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// pie draws category shares. A single series is drawn as is; several
// series are drawn as their category totals.
func (s *SVG) pie(w io.Writer, title string, set model.SeriesSet, donut bool) error {
	data := set.Series[0].Data
	if len(set.Series) > 1 {
		data = projection.CategoryTotals(set)
	}

	values := make([]chart.Value, 0, len(set.Categories))
	for i, category := range set.Categories {
		if data[i] <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: category, Value: data[i]})
	}

	if donut {
		dc := chart.DonutChart{
			Title:      title,
			Width:      s.width,
			Height:     s.height,
			Background: s.background(),
			Values:     values,
		}
		return dc.Render(chart.SVG, w)
	}

	pc := chart.PieChart{
		Title:      title,
		Width:      s.width,
		Height:     s.height,
		Background: s.background(),
		Values:     values,
	}
	return pc.Render(chart.SVG, w)
}

// message draws a blank frame with centered text
func (s *SVG) message(w io.Writer, title, text string) error {
	r, err := chart.SVG(s.width, s.height)
	if err != nil {
		return goerr.Wrap(err, "failed to create SVG renderer")
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return goerr.Wrap(err, "failed to load default font")
	}

	frame := chart.Box{Top: 0, Left: 0, Right: s.width, Bottom: s.height}
	chart.Draw.Box(r, frame, chart.Style{
		FillColor:   chart.ColorWhite,
		StrokeColor: chart.ColorLightGray,
		StrokeWidth: 1,
	})

	textStyle := chart.Style{
		Font:                font,
		FontColor:           chart.ColorBlack,
		TextHorizontalAlign: chart.TextHorizontalAlignCenter,
		TextVerticalAlign:   chart.TextVerticalAlignMiddle,
	}
	if title != "" {
		textStyle.FontSize = 14
		chart.Draw.TextWithin(r, title, chart.Box{Top: 8, Left: 8, Right: s.width - 8, Bottom: 40}, textStyle)
	}
	textStyle.FontSize = 12
	chart.Draw.TextWithin(r, text, frame, textStyle)

	if err := r.Save(w); err != nil {
		return goerr.Wrap(err, "failed to write SVG")
	}
	return nil
}

func fill(hex string) chart.Style {
	if hex == "" {
		return chart.Style{}
	}
	c := drawing.ColorFromHex(hex)
	return chart.Style{FillColor: c, StrokeColor: c}
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	return max(8, min(60, width/(2*n)))
}

func maxValue(set model.SeriesSet) float64 {
	m := 0.0
	for _, s := range set.Series {
		for _, v := range s.Data {
			m = math.Max(m, v)
		}
	}
	return m
}

// niceMax rounds v up to one significant step so axes end on round values
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	step := math.Pow(10, math.Floor(math.Log10(v)))
	return math.Ceil(v/step) * step
}

func allZero(set model.SeriesSet) bool {
	for _, s := range set.Series {
		for _, v := range s.Data {
			if v != 0 {
				return false
			}
		}
	}
	return true
}
