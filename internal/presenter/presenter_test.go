package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/stretchr/testify/require"

	"github.com/snikulin87-hue/pres-entation/internal/format"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func catalog(t *testing.T) *projection.Catalog {
	t.Helper()
	c, err := projection.NewCatalog(nil)
	require.NoError(t, err)
	return c
}

func scenario(t *testing.T, variant string, sc projection.Scenario) projection.Series {
	t.Helper()
	v, err := catalog(t).Variant(variant)
	require.NoError(t, err)
	s, err := v.Scenario(sc)
	require.NoError(t, err)
	return s
}

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(d Description, _ Format) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("img:" + d.Title), nil
}

type sizedRenderer struct {
	width, height int
	calls         int
}

func (s *sizedRenderer) Key() string { return fmt.Sprintf("sized:%dx%d", s.width, s.height) }

func (s *sizedRenderer) Render(d Description, _ Format) ([]byte, error) {
	s.calls++
	return []byte(fmt.Sprintf("%dx%d:%s", s.width, s.height, d.TickName)), nil
}

type memStore struct {
	images map[string][]byte
	saves  int
}

func (m *memStore) LoadSnapshot(key string) ([]byte, error) {
	img, ok := m.images[key]
	if !ok {
		return nil, ErrSnapshotMissing
	}
	return img, nil
}

func (m *memStore) SaveSnapshot(key string, _ Format, img []byte) error {
	m.saves++
	m.images[key] = img
	return nil
}

func TestDescribeTranches(t *testing.T) {
	s := scenario(t, projection.VariantTranches, projection.Average)
	d := Describe(s, Options{Title: "Средний"})

	require.Len(t, d.Series, 3)
	assert.Equal(t, AxisSingle, d.AxisMode)
	assert.Equal(t, []string{"М1", "М2", "М3", "М4", "М5", "М6", "М7", "М8", "М9"}, d.Labels)

	revenue, tranches, profit := d.Series[0], d.Series[1], d.Series[2]
	assert.Equal(t, KindArea, revenue.Kind)
	assert.Equal(t, "Выручка", revenue.Name)
	assert.Equal(t, ColorRevenue, revenue.Color)
	assert.Equal(t, KindBar, tranches.Kind)
	assert.Equal(t, "Инвестиции (Транши)", tranches.Name)
	assert.Equal(t, 1000000.0, tranches.Values[0].V)
	assert.Equal(t, KindLine, profit.Kind)
	assert.False(t, profit.SpanGaps)
	assert.Less(t, profit.Order, tranches.Order)
	assert.Less(t, tranches.Order, revenue.Order)

	for i := 0; i < 3; i++ {
		assert.False(t, profit.Values[i].Present, "month %d should be suppressed", i+1)
	}
	assert.True(t, profit.Values[3].Present)
	assert.Equal(t, 140000.0, profit.Values[3].V)
}

func TestDescribeDualAxis(t *testing.T) {
	s := scenario(t, projection.VariantClients, projection.Average)
	d := Describe(s, Options{AxisMode: AxisDual})

	assert.Equal(t, AxisDual, d.AxisMode)
	last := d.Series[len(d.Series)-1]
	assert.Equal(t, AxisSecondary, last.Axis)
	assert.Equal(t, "Платящие клиенты", last.Name)
	assert.Equal(t, 404.0, last.Values[5].V)
	assert.Equal(t, KindBar, d.Series[1].Kind)
	assert.Equal(t, "Расходы", d.Series[1].Name)
}

func TestDescribeDualFallsBackWithoutClients(t *testing.T) {
	s := scenario(t, projection.VariantTranches, projection.Positive)
	d := Describe(s, Options{AxisMode: AxisDual})

	assert.Equal(t, AxisSingle, d.AxisMode)
	for _, series := range d.Series {
		assert.Equal(t, AxisPrimary, series.Axis)
	}
}

func TestDescribeHorizon(t *testing.T) {
	s := scenario(t, projection.VariantClients, projection.Positive)
	d := Describe(s, Options{Horizon: 6})

	assert.Len(t, d.Labels, 6)
	for _, series := range d.Series {
		assert.Len(t, series.Values, 6)
	}
}

func TestDescribeIsRepeatable(t *testing.T) {
	s := scenario(t, projection.VariantTranches, projection.Pessimistic)
	a, err := Describe(s, Options{Title: "x"}).Fingerprint()
	require.NoError(t, err)
	b, err := Describe(s, Options{Title: "x"}).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompareCashFlow(t *testing.T) {
	v, err := catalog(t).Variant(projection.VariantCashFlow)
	require.NoError(t, err)

	d, err := Compare(v, projection.FieldCashFlow, Options{Names: EnglishNames(), Scale: 1e6})
	require.NoError(t, err)
	assert.True(t, d.Comparison)
	require.Len(t, d.Series, 3)
	assert.Equal(t, "Cumulative Cash Flow (Pessimistic)", d.Series[0].Name)
	assert.Equal(t, "#FF4D4D", d.Series[0].Color)
	assert.Equal(t, 2420000.0, d.Series[2].Values[5].V)
	assert.Equal(t, []string{"M1", "M2", "M3", "M4", "M5", "M6"}, d.Labels)
}

func TestCompareRejectsUntrackedAndGappyFields(t *testing.T) {
	v, err := catalog(t).Variant(projection.VariantCashFlow)
	require.NoError(t, err)
	_, err = Compare(v, projection.FieldRevenue, Options{})
	assert.Error(t, err)

	tr, err := catalog(t).Variant(projection.VariantTranches)
	require.NoError(t, err)
	_, err = Compare(tr, projection.FieldNetProfit, Options{})
	assert.Error(t, err)
}

func TestTooltip(t *testing.T) {
	s := scenario(t, projection.VariantClients, projection.Average)
	d := Describe(s, Options{AxisMode: AxisDual})

	nbsp := func(s string) string { return strings.ReplaceAll(s, " ", "\u00a0") }
	assert.Equal(t, "Выручка: "+nbsp("2 022 000 ₽"), d.Tooltip(0, 5))
	assert.Equal(t, "Чистая Прибыль: ", d.Tooltip(2, 0))
	assert.Equal(t, "Платящие клиенты: 404", d.Tooltip(3, 5))
	assert.Equal(t, "", d.Tooltip(9, 0))
}

func TestValueJSON(t *testing.T) {
	d := Description{Series: []SeriesSpec{{Values: []Value{{}, {V: 1.5, Present: true}}}}}
	fp, err := d.Fingerprint()
	require.NoError(t, err)
	assert.Contains(t, string(fp), `"values":[null,1.5]`)
}

func TestSegments(t *testing.T) {
	vals := []Value{{}, {V: 1, Present: true}, {V: 2, Present: true}, {}, {V: 3, Present: true}}

	assert.Equal(t, [][]int{{1, 2}, {4}}, Segments(vals, false))
	assert.Equal(t, [][]int{{1, 2, 4}}, Segments(vals, true))
	assert.Nil(t, Segments([]Value{{}, {}}, false))
}

func TestGapSeriesDrawsOneLinePerRun(t *testing.T) {
	var runs [][]float64
	orig := drawLineSeries
	drawLineSeries = func(_ chart.Renderer, _ chart.Box, _, _ chart.Range, _ chart.Style, vs chart.ValuesProvider) {
		var xs []float64
		for i := 0; i < vs.Len(); i++ {
			x, _ := vs.GetValues(i)
			xs = append(xs, x)
		}
		runs = append(runs, xs)
	}
	defer func() { drawLineSeries = orig }()

	spec := SeriesSpec{Name: "Чистая Прибыль", Kind: KindLine, Color: ColorProfit,
		Values: []Value{{}, {V: -1, Present: true}, {V: 2, Present: true}, {}, {V: 3, Present: true}}}
	g, ok := toSeries(spec, []float64{0, 1, 2, 3, 4}).(gapSeries)
	require.True(t, ok)

	g.Render(nil, chart.Box{}, nil, nil, chart.Style{})
	assert.Equal(t, [][]float64{{1, 2}, {4}}, runs)

	require.Equal(t, 3, g.Len())
	x, y := g.GetValues(2)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 3.0, y)
}

func TestPresentSkipsAbsentMount(t *testing.T) {
	r := &fakeRenderer{}
	p := New(quietLogger(), WithScenarioRenderer(r))
	page := NewPage("landing", FormatPNG, "financeChart")

	assert.NotPanics(t, func() {
		require.NoError(t, p.Present(page, "chart-average", Description{Title: "x"}))
		require.NoError(t, p.Present(nil, "chart-average", Description{Title: "x"}))
	})
	assert.Zero(t, r.calls)
	assert.Empty(t, page.Charts())
}

func TestPresentMountsAndCaches(t *testing.T) {
	scen, cmp := &fakeRenderer{}, &fakeRenderer{}
	p := New(quietLogger(), WithScenarioRenderer(scen), WithComparisonRenderer(cmp))
	page := NewPage("deck", FormatSVG, "financeChart", "chart-average")

	require.NoError(t, p.Present(page, "chart-average", Description{Title: "avg"}))
	require.NoError(t, p.Present(page, "financeChart", Description{Title: "cmp", Comparison: true}))
	require.NoError(t, p.Present(page, "chart-average", Description{Title: "avg"}))

	assert.Equal(t, 1, scen.calls)
	assert.Equal(t, 1, cmp.calls)
	charts := page.Charts()
	require.Len(t, charts, 2)
	assert.Equal(t, "financeChart", charts[0].Mount)
	assert.Equal(t, []byte("img:avg"), charts[1].Image)
	assert.Equal(t, FormatSVG, charts[1].Format)
}

func TestPresentUsesStore(t *testing.T) {
	r := &fakeRenderer{}
	store := &memStore{images: map[string][]byte{}}
	first := New(quietLogger(), WithScenarioRenderer(r), WithStore(store))
	require.NoError(t, first.Present(NewPage("deck", FormatPNG, "m"), "m", Description{Title: "a"}))
	assert.Equal(t, 1, store.saves)

	second := New(quietLogger(), WithScenarioRenderer(r), WithStore(store))
	page := NewPage("deck", FormatPNG, "m")
	require.NoError(t, second.Present(page, "m", Description{Title: "a"}))
	assert.Equal(t, 1, r.calls)
	c, ok := page.Chart("m")
	require.True(t, ok)
	assert.Equal(t, []byte("img:a"), c.Image)
}

func TestPresentKeysImagesByRendererAndTick(t *testing.T) {
	store := &memStore{images: map[string][]byte{}}
	small, big := &sizedRenderer{width: 400, height: 200}, &sizedRenderer{width: 1600, height: 800}
	d := Description{Title: "avg", TickName: format.TickCompact}

	first := New(quietLogger(), WithScenarioRenderer(small), WithStore(store))
	require.NoError(t, first.Present(NewPage("deck", FormatPNG, "m"), "m", d))

	second := New(quietLogger(), WithScenarioRenderer(big), WithStore(store))
	page := NewPage("deck", FormatPNG, "m")
	require.NoError(t, second.Present(page, "m", d))
	c, ok := page.Chart("m")
	require.True(t, ok)
	assert.Equal(t, "1600x800:compact", string(c.Image))
	assert.Equal(t, 1, big.calls)

	d.TickName = format.TickMillions
	page = NewPage("deck", FormatPNG, "m")
	require.NoError(t, second.Present(page, "m", d))
	c, _ = page.Chart("m")
	assert.Equal(t, "1600x800:millions", string(c.Image))
	assert.Equal(t, 2, big.calls)
	assert.Len(t, store.images, 3)
}

func TestDescribeRecordsTickName(t *testing.T) {
	s := scenario(t, projection.VariantTranches, projection.Average)

	d := Describe(s, Options{})
	assert.Equal(t, format.TickCompact, d.TickName)
	assert.Equal(t, "15k", d.Tick(15000))

	d = Describe(s, Options{Tick: format.TickMillions})
	assert.Equal(t, format.TickMillions, d.TickName)
	assert.Equal(t, "1.5", d.Tick(1500000))

	fp1, err := Describe(s, Options{}).Fingerprint()
	require.NoError(t, err)
	fp2, err := d.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)

	assert.Equal(t, format.TickCompact, Describe(s, Options{Tick: "percent"}).TickName)
}

func TestPresentReturnsRenderError(t *testing.T) {
	boom := errors.New("boom")
	p := New(quietLogger(), WithScenarioRenderer(&fakeRenderer{err: boom}))
	page := NewPage("deck", FormatPNG, "m")

	assert.ErrorIs(t, p.Present(page, "m", Description{}), boom)
	_, ok := page.Chart("m")
	assert.False(t, ok)
}

func TestCacheTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", []byte("v"))
	img, ok := c.Get("k")
	require.True(t, ok)
	img[0] = 'x'
	again, _ := c.Get("k")
	assert.Equal(t, []byte("v"), again)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestNewPageDedupesMounts(t *testing.T) {
	p := NewPage("deck", FormatPNG, "a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, p.Mounts())
	assert.True(t, p.HasMount("b"))
	assert.False(t, p.HasMount("c"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestRendererProducesImages(t *testing.T) {
	s := scenario(t, projection.VariantClients, projection.Average)
	d := Describe(s, Options{Title: "Средний", AxisMode: AxisDual, Tick: format.TickCompact})

	png, err := NewRenderer(640, 320).Render(d, FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	svg, err := NewRenderer(640, 320).Render(d, FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = NewRenderer(640, 320).Render(Description{Title: "empty"}, FormatPNG)
	assert.Error(t, err)
}

func TestComparisonRendererRejectsGaps(t *testing.T) {
	d := Description{
		Labels:     []string{"M1", "M2"},
		Comparison: true,
		Series:     []SeriesSpec{{Name: "x", Values: []Value{{V: 1, Present: true}, {}}}},
	}
	_, err := NewComparisonRenderer(640, 320).Render(d, FormatPNG)
	assert.Error(t, err)
}
