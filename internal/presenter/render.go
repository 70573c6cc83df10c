package presenter

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/snikulin87-hue/pres-entation/internal/format"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// Renderer draws scenario charts with go-chart: tick callbacks, histogram bars,
// a secondary axis and lines that break at absent points.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer(width, height int) Renderer {
	return Renderer{Width: width, Height: height}
}

func (r Renderer) Key() string { return fmt.Sprintf("go-chart:%dx%d", r.Width, r.Height) }

// Render encodes d as PNG or SVG.
func (r Renderer) Render(d Description, f Format) ([]byte, error) {
	if len(d.Series) == 0 {
		return nil, fmt.Errorf("chart %q has no series", d.Title)
	}
	n := len(d.Labels)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	tick := d.Tick
	if tick == nil {
		tick = format.CompactTick
	}

	c := chart.Chart{
		Title:  d.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks:     monthTicks(d.Labels),
			TickStyle: chart.Style{FontColor: hexColor("#475569")},
		},
		YAxis: chart.YAxis{
			ValueFormatter: axisFormatter(tick),
			Range:          axisRange(d, AxisPrimary),
			GridMajorStyle: chart.Style{StrokeColor: hexColor("#E2E8F0"), StrokeWidth: 1},
			TickStyle:      chart.Style{FontColor: hexColor("#64748B")},
		},
	}
	if d.AxisMode == AxisDual {
		c.YAxisSecondary = chart.YAxis{
			ValueFormatter: axisFormatter(format.CountTick),
			Range:          axisRange(d, AxisSecondary),
			TickStyle:      chart.Style{FontColor: hexColor(ColorClients)},
		}
	}

	// higher Order first so lower Order ends up on top
	specs := make([]SeriesSpec, len(d.Series))
	copy(specs, d.Series)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Order > specs[j].Order })

	for _, s := range specs {
		c.Series = append(c.Series, toSeries(s, xs))
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	provider := chart.PNG
	if f == FormatSVG {
		provider = chart.SVG
	}
	var buf bytes.Buffer
	if err := c.Render(provider, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toSeries(s SeriesSpec, xs []float64) chart.Series {
	color := hexColor(s.Color)
	yAxis := chart.YAxisPrimary
	if s.Axis == AxisSecondary {
		yAxis = chart.YAxisSecondary
	}

	switch s.Kind {
	case KindBar:
		ys := make([]float64, len(xs))
		for i := range ys {
			if i < len(s.Values) && s.Values[i].Present {
				ys[i] = s.Values[i].V
			}
		}
		return chart.HistogramSeries{
			Name:  s.Name,
			YAxis: yAxis,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
			InnerSeries: chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		}
	case KindArea:
		fill := color
		fill.A = 100
		return gapSeries{
			name:  s.Name,
			yAxis: yAxis,
			style: chart.Style{StrokeColor: color, StrokeWidth: 2, FillColor: fill},
			spec:  s,
			xs:    xs,
		}
	default:
		return gapSeries{
			name:  s.Name,
			yAxis: yAxis,
			style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 3,
				DotColor:    drawing.ColorWhite,
				DotWidth:    4,
			},
			spec: s,
			xs:   xs,
		}
	}
}

// drawLineSeries strokes one continuous run.
var drawLineSeries = chart.Draw.LineSeries

// gapSeries is a line that is only drawn between consecutive present points.
type gapSeries struct {
	name  string
	yAxis chart.YAxisType
	style chart.Style
	spec  SeriesSpec
	xs    []float64
}

func (g gapSeries) GetName() string           { return g.name }
func (g gapSeries) GetStyle() chart.Style     { return g.style }
func (g gapSeries) GetYAxis() chart.YAxisType { return g.yAxis }

func (g gapSeries) Validate() error {
	if len(g.spec.Values) > len(g.xs) {
		return fmt.Errorf("series %q has %d points for %d labels", g.name, len(g.spec.Values), len(g.xs))
	}
	return nil
}

// Len and GetValues expose present points only, so axis ranges ignore gaps.
func (g gapSeries) Len() int {
	n := 0
	for _, v := range g.spec.Values {
		if v.Present {
			n++
		}
	}
	return n
}

func (g gapSeries) GetValues(index int) (float64, float64) {
	for i, v := range g.spec.Values {
		if !v.Present {
			continue
		}
		if index == 0 {
			return g.xs[i], v.V
		}
		index--
	}
	return math.NaN(), math.NaN()
}

func (g gapSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := g.style.InheritFrom(defaults)
	for _, run := range Segments(g.spec.Values, g.spec.SpanGaps) {
		seg := chart.ContinuousSeries{
			XValues: make([]float64, len(run)),
			YValues: make([]float64, len(run)),
		}
		for i, idx := range run {
			seg.XValues[i] = g.xs[idx]
			seg.YValues[i] = g.spec.Values[idx].V
		}
		drawLineSeries(r, canvasBox, xrange, yrange, style, seg)
	}
}

// Segments splits a series into runs of consecutive present points. With
// spanGaps every present point lands in one run.
func Segments(values []Value, spanGaps bool) [][]int {
	var out [][]int
	var run []int
	for i, v := range values {
		if !v.Present {
			if !spanGaps && len(run) > 0 {
				out = append(out, run)
				run = nil
			}
			continue
		}
		run = append(run, i)
	}
	if len(run) > 0 {
		out = append(out, run)
	}
	return out
}

// monthTicks labels each month and pads half a month on both sides so edge bars
// are not clipped.
func monthTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	return append(ticks, chart.Tick{Value: float64(len(labels)) - 0.5})
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func axisFormatter(tick format.TickFormatter) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return tick(f)
		}
		return fmt.Sprintf("%v", v)
	}
}

// axisRange starts the axis at zero and leaves 10% headroom above the highest
// point; negative data extends the axis below zero.
func axisRange(d Description, axis Axis) chart.Range {
	lo, hi := 0.0, 0.0
	for _, s := range d.Series {
		if s.Axis != axis {
			continue
		}
		for _, v := range s.Values {
			if !v.Present {
				continue
			}
			lo = math.Min(lo, v.V)
			hi = math.Max(hi, v.V)
		}
	}
	if hi == 0 && lo == 0 {
		return nil
	}
	if lo < 0 {
		lo *= 1.1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}
