package projection

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	VariantCashFlow = "cashflow"
	VariantTranches = "tranches"
	VariantClients  = "clients"
)

// gap marks a suppressed profit point in the literal tables below.
const gap = math.MinInt64

func rub(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func nullable(values ...int64) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		if v == gap {
			continue
		}
		out[i] = decimal.NewNullDecimal(decimal.NewFromInt(v))
	}
	return out
}

// mln converts amounts given in millions of rubles to rubles.
func mln(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v).Shift(6)
	}
	return out
}

// cashFlowVariant is the six-month cumulative cash flow shown on the title slide.
func cashFlowVariant() (Variant, error) {
	labels := MonthLabels("M", 6)
	return NewVariant(VariantCashFlow, "Cumulative Cash Flow",
		Series{Scenario: Pessimistic, Labels: labels, CashFlow: mln(-0.5, -0.58, -0.98, -1.13, -1.17, -1.1)},
		Series{Scenario: Average, Labels: labels, CashFlow: mln(-0.5, -0.58, -0.89, -0.75, -0.28, 0.43)},
		Series{Scenario: Positive, Labels: labels, CashFlow: mln(-0.5, -0.58, -0.81, -0.4, 0.66, 2.42)},
	)
}

// tranchesVariant is the nine-month plan: tranches M1 1.0M, M2 0.6M, M3 0.6M
// (2.2M total ask) and profit hidden until it turns positive.
func tranchesVariant() (Variant, error) {
	labels := MonthLabels("М", 9) // Cyrillic Em, as printed on the slides
	tranches := rub(1000000, 600000, 600000, 0, 0, 0, 0, 0, 0)
	return NewVariant(VariantTranches, "Инвестиции и выручка",
		Series{
			Scenario:   Pessimistic,
			Labels:     labels,
			Revenue:    rub(0, 0, 150000, 405000, 621000, 809700, 1100000, 1450000, 1900000),
			Investment: tranches,
			NetProfit:  nullable(gap, gap, gap, gap, gap, 70820, 250000, 470000, 750000),
		},
		Series{
			Scenario:   Average,
			Labels:     labels,
			Revenue:    rub(0, 0, 375000, 1050000, 1590000, 2022000, 2800000, 3800000, 5200000),
			Investment: tranches,
			NetProfit:  nullable(gap, gap, gap, 140000, 464000, 723200, 1250000, 1900000, 2800000),
		},
		Series{
			Scenario:   Positive,
			Labels:     labels,
			Revenue:    rub(0, 0, 562500, 1631250, 2780625, 4002625, 6000000, 8500000, 12000000),
			Investment: tranches,
			NetProfit:  nullable(gap, gap, gap, 413750, 1065000, 1761000, 3100000, 4700000, 7000000),
		},
	)
}

// clientsBaseline is the explicit six-month plan the clients variant grows from.
func clientsBaseline() []Series {
	labels := MonthLabels("M", 6)
	return []Series{
		{
			Scenario:  Pessimistic,
			Labels:    labels,
			Revenue:   rub(0, 0, 150000, 405000, 621000, 809700),
			Expenses:  rub(500000, 80000, 530000, 620000, 711000, 738880),
			NetProfit: nullable(-500000, -80000, -380000, -215000, -90000, 70820),
			Clients:   []int64{0, 0, 30, 81, 124, 162},
		},
		{
			Scenario:  Average,
			Labels:    labels,
			Revenue:   rub(0, 0, 375000, 1050000, 1590000, 2022000),
			Expenses:  rub(500000, 80000, 685000, 910000, 1126000, 1298800),
			NetProfit: nullable(-500000, -80000, -310000, 140000, 464000, 723200),
			Clients:   []int64{0, 0, 75, 210, 318, 404},
		},
		{
			Scenario:  Positive,
			Labels:    labels,
			Revenue:   rub(0, 0, 562500, 1631250, 2780625, 4002625),
			Expenses:  rub(500000, 80000, 807500, 1217500, 1715625, 2241625),
			NetProfit: nullable(-500000, -80000, -245000, 413750, 1065000, 1761000),
			Clients:   []int64{0, 0, 112, 326, 556, 800},
		},
	}
}

// DefaultGrowth is the extrapolation used for months 7..12 of the clients variant:
// 5000 revenue and 2000 cost per client, 340k fixed costs.
func DefaultGrowth() map[Scenario]Growth {
	base := Growth{
		RevenuePerClient:      decimal.NewFromInt(5000),
		VariableCostPerClient: decimal.NewFromInt(2000),
		FixedCosts:            decimal.NewFromInt(340000),
	}
	pess, avg, pos := base, base, base
	pess.ClientsPerMonth = 45
	avg.ClientsPerMonth = 95
	pos.ClientsPerMonth = 150
	pos.ClientGrowthRate = decimal.RequireFromString("0.05")
	return map[Scenario]Growth{Pessimistic: pess, Average: avg, Positive: pos}
}

func clientsVariant(growth map[Scenario]Growth) (Variant, error) {
	var series []Series
	for _, base := range clientsBaseline() {
		g := growth[base.Scenario]
		s, err := Extrapolate(base, 12, "M", g)
		if err != nil {
			return Variant{}, err
		}
		s.NetProfit = Suppress(s.NetProfit, g.BreakevenMonth)
		series = append(series, s)
	}
	return NewVariant(VariantClients, "Клиенты и прибыль", series...)
}
