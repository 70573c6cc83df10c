package projection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrMisaligned = errors.New("series misaligned with month labels")
	ErrNegative   = errors.New("negative amount")
)

// Series is one scenario's monthly time series. Nil columns are attributes the
// variant does not track; every non-nil column has one entry per label.
type Series struct {
	Scenario Scenario
	Labels   []string

	Revenue    []decimal.Decimal
	Expenses   []decimal.Decimal
	Investment []decimal.Decimal
	// NetProfit entries with Valid=false are suppressed (not drawn, not interpolated).
	NetProfit []decimal.NullDecimal
	CashFlow  []decimal.Decimal
	Clients   []int64
}

// Record is one month of a Series. Pointer fields are nil when the variant does
// not track that attribute.
type Record struct {
	Month      string
	Revenue    *decimal.Decimal
	Expenses   *decimal.Decimal
	Investment *decimal.Decimal
	NetProfit  *decimal.NullDecimal
	CashFlow   *decimal.Decimal
	Clients    *int64
}

// Len is the horizon in months.
func (s Series) Len() int { return len(s.Labels) }

// HasClients reports whether the series tracks paying clients.
func (s Series) HasClients() bool { return s.Clients != nil }

// Records returns the series row by row.
func (s Series) Records() []Record {
	out := make([]Record, s.Len())
	for i, label := range s.Labels {
		r := Record{Month: label}
		if i < len(s.Revenue) {
			v := s.Revenue[i]
			r.Revenue = &v
		}
		if i < len(s.Expenses) {
			v := s.Expenses[i]
			r.Expenses = &v
		}
		if i < len(s.Investment) {
			v := s.Investment[i]
			r.Investment = &v
		}
		if i < len(s.NetProfit) {
			v := s.NetProfit[i]
			r.NetProfit = &v
		}
		if i < len(s.CashFlow) {
			v := s.CashFlow[i]
			r.CashFlow = &v
		}
		if i < len(s.Clients) {
			v := s.Clients[i]
			r.Clients = &v
		}
		out[i] = r
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate catalog data.
func (s Series) Clone() Series {
	return Series{
		Scenario:   s.Scenario,
		Labels:     cloneSlice(s.Labels),
		Revenue:    cloneSlice(s.Revenue),
		Expenses:   cloneSlice(s.Expenses),
		Investment: cloneSlice(s.Investment),
		NetProfit:  cloneSlice(s.NetProfit),
		CashFlow:   cloneSlice(s.CashFlow),
		Clients:    cloneSlice(s.Clients),
	}
}

// Truncate keeps the first n months. n <= 0 or n >= Len returns a clone.
func (s Series) Truncate(n int) Series {
	out := s.Clone()
	if n <= 0 || n >= s.Len() {
		return out
	}
	out.Labels = out.Labels[:n]
	out.Revenue = head(out.Revenue, n)
	out.Expenses = head(out.Expenses, n)
	out.Investment = head(out.Investment, n)
	out.NetProfit = head(out.NetProfit, n)
	out.CashFlow = head(out.CashFlow, n)
	out.Clients = head(out.Clients, n)
	return out
}

// Validate checks column alignment and the sign constraints of the data model.
func (s Series) Validate() error {
	n := s.Len()
	cols := map[string]int{}
	if s.Revenue != nil {
		cols["revenue"] = len(s.Revenue)
	}
	if s.Expenses != nil {
		cols["expenses"] = len(s.Expenses)
	}
	if s.Investment != nil {
		cols["investment"] = len(s.Investment)
	}
	if s.NetProfit != nil {
		cols["net profit"] = len(s.NetProfit)
	}
	if s.CashFlow != nil {
		cols["cash flow"] = len(s.CashFlow)
	}
	if s.Clients != nil {
		cols["clients"] = len(s.Clients)
	}
	for name, l := range cols {
		if l != n {
			return fmt.Errorf("%s %s: %d points for %d months: %w", s.Scenario, name, l, n, ErrMisaligned)
		}
	}
	for name, col := range map[string][]decimal.Decimal{"revenue": s.Revenue, "expenses": s.Expenses, "investment": s.Investment} {
		for i, v := range col {
			if v.IsNegative() {
				return fmt.Errorf("%s %s at %s: %s: %w", s.Scenario, name, s.Labels[i], v, ErrNegative)
			}
		}
	}
	for i, c := range s.Clients {
		if c < 0 {
			return fmt.Errorf("%s clients at %s: %d: %w", s.Scenario, s.Labels[i], c, ErrNegative)
		}
	}
	return nil
}

// MonthLabels builds prefix1..prefixN.
func MonthLabels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func head[T any](in []T, n int) []T {
	if in == nil || len(in) <= n {
		return in
	}
	return in[:n]
}
