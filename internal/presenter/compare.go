package presenter

import (
	"fmt"
	"math"

	"github.com/vicanso/go-charts/v2"
)

// ComparisonRenderer draws one field of every scenario as plain lines with
// go-charts. Values are divided by Description.Scale since go-charts has no
// tick callback.
type ComparisonRenderer struct {
	Width  int
	Height int
}

func NewComparisonRenderer(width, height int) ComparisonRenderer {
	return ComparisonRenderer{Width: width, Height: height}
}

func (r ComparisonRenderer) Key() string { return fmt.Sprintf("go-charts:%dx%d", r.Width, r.Height) }

func (r ComparisonRenderer) Render(d Description, f Format) ([]byte, error) {
	if len(d.Series) == 0 {
		return nil, fmt.Errorf("chart %q has no series", d.Title)
	}
	scale := d.Scale
	if scale == 0 {
		scale = 1
	}

	values := make([][]float64, 0, len(d.Series))
	names := make([]string, 0, len(d.Series))
	var yMin, yMax *float64
	for _, s := range d.Series {
		vs := make([]float64, len(d.Labels))
		for i := range vs {
			if i >= len(s.Values) || !s.Values[i].Present {
				return nil, fmt.Errorf("series %q has a gap at %d", s.Name, i)
			}
			v := s.Values[i].V / scale
			vs[i] = v
			if yMin == nil || v < *yMin {
				vv := v
				yMin = &vv
			}
			if yMax == nil || v > *yMax {
				vv := v
				yMax = &vv
			}
		}
		values = append(values, vs)
		names = append(names, s.Name)
	}
	if yMin != nil && yMax != nil {
		pad := (*yMax - *yMin) * 0.05
		lo := math.Min(0, *yMin-pad)
		hi := *yMax + pad
		yMin, yMax = &lo, &hi
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	typeOpt := charts.PNGTypeOption()
	if f == FormatSVG {
		typeOpt = charts.SVGTypeOption()
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(d.Title, d.Subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: d.Labels, BoundaryGap: charts.FalseFlag()}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: yMin, Max: yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.Width),
		charts.HeightOptionFunc(r.Height),
		typeOpt,
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
