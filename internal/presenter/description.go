package presenter

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/snikulin87-hue/pres-entation/internal/format"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

// Kind is how a series is drawn.
type Kind string

const (
	KindArea Kind = "area"
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// AxisMode selects one currency axis or currency plus a client-count axis.
type AxisMode string

const (
	AxisSingle AxisMode = "single"
	AxisDual   AxisMode = "dual"
)

// Axis is the y-axis a series is plotted against.
type Axis int

const (
	AxisPrimary Axis = iota
	AxisSecondary
)

// Value is one point; Present=false marks a suppressed month.
type Value struct {
	V       float64
	Present bool
}

// MarshalJSON encodes absent points as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.V, 'f', -1, 64)), nil
}

// SeriesSpec describes one drawn series.
type SeriesSpec struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Axis   Axis    `json:"axis"`
	Color  string  `json:"color"`
	Values []Value `json:"values"`
	// SpanGaps=false keeps absent points as breaks in the line.
	SpanGaps bool `json:"spanGaps"`
	// Order is the stacking order; lower values are drawn on top.
	Order int `json:"order"`
}

// Description is the declarative chart a renderer turns into an image.
type Description struct {
	Title      string       `json:"title"`
	Subtitle   string       `json:"subtitle,omitempty"`
	Labels     []string     `json:"labels"`
	Series     []SeriesSpec `json:"series"`
	AxisMode   AxisMode     `json:"axisMode"`
	Comparison bool         `json:"comparison"`
	// Scale divides values for renderers without tick callbacks (1e6 = millions).
	Scale float64 `json:"scale,omitempty"`
	// TickName names Tick so it is part of the fingerprint.
	TickName string `json:"tick"`

	Tick format.TickFormatter `json:"-"`
}

// Names are the legend labels of each field.
type Names struct {
	Revenue    string
	Expenses   string
	Investment string
	NetProfit  string
	Clients    string
	CashFlow   string
}

// RussianNames are the labels printed on the deck slides.
func RussianNames() Names {
	return Names{
		Revenue:    "Выручка",
		Expenses:   "Расходы",
		Investment: "Инвестиции (Транши)",
		NetProfit:  "Чистая Прибыль",
		Clients:    "Платящие клиенты",
		CashFlow:   "Денежный поток (накопленный)",
	}
}

// EnglishNames label the comparison charts of the title slide.
func EnglishNames() Names {
	return Names{
		Revenue:    "Revenue",
		Expenses:   "Expenses",
		Investment: "Investment (Tranches)",
		NetProfit:  "Net Profit",
		Clients:    "Paying Clients",
		CashFlow:   "Cumulative Cash Flow",
	}
}

// Options parameterize the one chart component every slide uses.
type Options struct {
	Title    string
	Subtitle string
	AxisMode AxisMode
	// Horizon limits the months shown; zero shows the whole series.
	Horizon int
	// Tick is a format.Tick name; unknown names fall back to format.TickCompact.
	Tick  string
	Scale float64
	Names Names

	tick format.TickFormatter
}

func (o Options) withDefaults() Options {
	t, err := format.Tick(o.Tick)
	if err != nil || o.Tick == "" {
		t, o.Tick = format.CompactTick, format.TickCompact
	}
	o.tick = t
	if o.AxisMode == "" {
		o.AxisMode = AxisSingle
	}
	if o.Names == (Names{}) {
		o.Names = RussianNames()
	}
	return o
}

const (
	ColorRevenue    = "#10B981"
	ColorInvestment = "#F59E0B"
	ColorExpenses   = "#F43F5E"
	ColorProfit     = "#0F172A"
	ColorClients    = "#6366F1"
)

var scenarioColors = map[projection.Scenario]string{
	projection.Pessimistic: "#FF4D4D",
	projection.Average:     "#64748B",
	projection.Positive:    "#00F3FF",
}

// Describe maps one scenario to its chart: revenue area, tranche or expense bars,
// net profit line with gaps, cash flow when tracked and, in dual mode, clients on
// the secondary axis. Dual mode falls back to single when there are no clients.
func Describe(s projection.Series, opts Options) Description {
	opts = opts.withDefaults()
	s = s.Truncate(opts.Horizon)

	d := Description{
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		Labels:   s.Labels,
		AxisMode: AxisSingle,
		Scale:    opts.Scale,
		TickName: opts.Tick,
		Tick:     opts.tick,
	}
	if s.Revenue != nil {
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.Revenue, Kind: KindArea, Color: ColorRevenue,
			Values: present(s.Revenue), Order: 3,
		})
	}
	if s.Investment != nil {
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.Investment, Kind: KindBar, Color: ColorInvestment,
			Values: present(s.Investment), Order: 2,
		})
	} else if s.Expenses != nil {
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.Expenses, Kind: KindBar, Color: ColorExpenses,
			Values: present(s.Expenses), Order: 2,
		})
	}
	if s.NetProfit != nil {
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.NetProfit, Kind: KindLine, Color: ColorProfit,
			Values: nullable(s.NetProfit), Order: 1,
		})
	}
	if s.CashFlow != nil {
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.CashFlow, Kind: KindLine, Color: scenarioColors[s.Scenario],
			Values: present(s.CashFlow), Order: 1,
		})
	}
	if opts.AxisMode == AxisDual && s.HasClients() {
		d.AxisMode = AxisDual
		vals := make([]Value, len(s.Clients))
		for i, c := range s.Clients {
			vals[i] = Value{V: float64(c), Present: true}
		}
		d.Series = append(d.Series, SeriesSpec{
			Name: opts.Names.Clients, Kind: KindLine, Axis: AxisSecondary, Color: ColorClients,
			Values: vals, Order: 0,
		})
	}
	return d
}

// Compare draws one field of every scenario as lines on one chart.
func Compare(v projection.Variant, field projection.Field, opts Options) (Description, error) {
	opts = opts.withDefaults()
	if !v.Has(field) {
		return Description{}, fmt.Errorf("variant %s does not track %s", v.Name, field)
	}
	d := Description{
		Title:      opts.Title,
		Subtitle:   opts.Subtitle,
		AxisMode:   AxisSingle,
		Comparison: true,
		Scale:      opts.Scale,
		TickName:   opts.Tick,
		Tick:       opts.tick,
	}
	for _, sc := range v.Scenarios() {
		s, err := v.Scenario(sc)
		if err != nil {
			return Description{}, err
		}
		s = s.Truncate(opts.Horizon)
		d.Labels = s.Labels

		var vals []Value
		name := opts.Names.CashFlow
		switch field {
		case projection.FieldCashFlow:
			vals = present(s.CashFlow)
		case projection.FieldRevenue:
			vals, name = present(s.Revenue), opts.Names.Revenue
		case projection.FieldExpenses:
			vals, name = present(s.Expenses), opts.Names.Expenses
		case projection.FieldClients:
			vals, name = make([]Value, len(s.Clients)), opts.Names.Clients
			for i, c := range s.Clients {
				vals[i] = Value{V: float64(c), Present: true}
			}
		default:
			return Description{}, fmt.Errorf("field %s cannot be compared across scenarios", field)
		}
		d.Series = append(d.Series, SeriesSpec{
			Name:   fmt.Sprintf("%s (%s)", name, sc.Title()),
			Kind:   KindLine,
			Color:  scenarioColors[sc],
			Values: vals,
		})
	}
	return d, nil
}

// Tooltip is the hover text of one point: "Выручка: 2 022 000 ₽". Secondary-axis
// series are counts, not currency.
func (d Description) Tooltip(series, point int) string {
	if series < 0 || series >= len(d.Series) {
		return ""
	}
	s := d.Series[series]
	label := s.Name
	if label != "" {
		label += ": "
	}
	if point < 0 || point >= len(s.Values) || !s.Values[point].Present {
		return label
	}
	if s.Axis == AxisSecondary {
		return label + format.Grouped(s.Values[point].V)
	}
	return label + format.Rubles(s.Values[point].V)
}

// Fingerprint identifies the description's content for cache keys.
func (d Description) Fingerprint() ([]byte, error) {
	return json.Marshal(d)
}

func present(values []decimal.Decimal) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Value{V: v.InexactFloat64(), Present: true}
	}
	return out
}

func nullable(values []decimal.NullDecimal) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		if v.Valid {
			out[i] = Value{V: v.Decimal.InexactFloat64(), Present: true}
		}
	}
	return out
}
