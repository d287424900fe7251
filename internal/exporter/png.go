package exporter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bikepulse/pkg/contracts/domain"
)

var (
	// ErrUnsupportedChart is returned for chart kinds with no image rendering
	ErrUnsupportedChart = errors.New("chart kind cannot be rendered as an image")
	// ErrNotEnoughData is returned when a chart has no points to draw
	ErrNotEnoughData = errors.New("chart has no data points")
)

var seriesColors = []drawing.Color{chart.ColorBlue, chart.ColorOrange, chart.ColorGreen}

// PNGRenderer draws chart specs with go-chart
type PNGRenderer struct {
	width  int
	height int
}

// NewPNGRenderer creates a renderer producing images of the given size
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 480
	}
	return &PNGRenderer{width: width, height: height}
}

// Render writes spec as a PNG image
func (p *PNGRenderer) Render(w io.Writer, spec domain.ChartSpec) error {
	if spec.Empty() {
		return ErrNotEnoughData
	}

	switch spec.Kind {
	case domain.ChartKindBar:
		return p.renderBar(w, spec)
	case domain.ChartKindLine:
		return p.renderLine(w, spec)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedChart, spec.Kind)
	}
}

func (p *PNGRenderer) renderBar(w io.Writer, spec domain.ChartSpec) error {
	var bars []chart.Value
	maxY := 0.0
	for _, s := range spec.Series {
		for i, pt := range s.Points {
			bars = append(bars, chart.Value{
				Label: fmt.Sprint(pt.X),
				Value: pt.Y,
				Style: chart.Style{FillColor: seriesColors[i%len(seriesColors)], StrokeColor: seriesColors[i%len(seriesColors)]},
			})
			maxY = math.Max(maxY, pt.Y)
		}
	}

	barWidth := p.width / (2*len(bars) + 1)
	bc := chart.BarChart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      p.width,
		Height:     p.height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		YAxis: chart.YAxis{
			Name:  spec.YAxis.Title,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	return nil
}

func (p *PNGRenderer) renderLine(w io.Writer, spec domain.ChartSpec) error {
	var series []chart.Series
	maxY := 0.0
	for i, s := range spec.Series {
		s.Points = presentPoints(s.Points)
		if len(s.Points) == 0 {
			continue
		}
		style := chart.Style{
			StrokeColor: seriesColors[i%len(seriesColors)],
			StrokeWidth: 2,
		}
		for _, pt := range s.Points {
			maxY = math.Max(maxY, pt.Y)
		}

		built, err := lineSeries(s, style)
		if err != nil {
			return fmt.Errorf("render %s: %w", spec.ID, err)
		}
		series = append(series, built)
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      p.width,
		Height:     p.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XAxis.Title},
		YAxis:      chart.YAxis{Name: spec.YAxis.Title, Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	return nil
}

// presentPoints drops Missing points
func presentPoints(points []domain.Point) []domain.Point {
	out := make([]domain.Point, 0, len(points))
	for _, pt := range points {
		if !pt.Missing {
			out = append(out, pt)
		}
	}
	return out
}

// lineSeries converts points to a time or continuous series.
// A single point is padded to two so go-chart has a non-zero x range.
func lineSeries(s domain.Series, style chart.Style) (chart.Series, error) {
	ys := make([]float64, 0, len(s.Points)+1)
	for _, pt := range s.Points {
		ys = append(ys, pt.Y)
	}

	switch s.Points[0].X.(type) {
	case string:
		times := make([]time.Time, 0, len(s.Points)+1)
		for _, pt := range s.Points {
			label, _ := pt.X.(string)
			t, err := time.Parse(domain.DateLayout, label)
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", s.Name, err)
			}
			times = append(times, t)
		}
		if len(times) == 1 {
			times = append(times, times[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}
		return chart.TimeSeries{Name: s.Name, XValues: times, YValues: ys, Style: style}, nil
	default:
		xs := make([]float64, 0, len(s.Points)+1)
		for _, pt := range s.Points {
			x, ok := toFloat(pt.X)
			if !ok {
				return nil, fmt.Errorf("series %s: unsupported x value %v", s.Name, pt.X)
			}
			xs = append(xs, x)
		}
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		return chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style}, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// upperBound leaves headroom above the tallest value
func upperBound(maxY float64) float64 {
	if maxY <= 0 {
		return 1
	}
	return maxY * 1.1
}
