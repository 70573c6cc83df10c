package projection

import (
	"fmt"
	"sort"
)

// Field identifies one column of a Series.
type Field string

const (
	FieldRevenue    Field = "revenue"
	FieldExpenses   Field = "expenses"
	FieldInvestment Field = "investment"
	FieldNetProfit  Field = "net_profit"
	FieldCashFlow   Field = "cash_flow"
	FieldClients    Field = "clients"
)

// Variant is one complete dataset: every scenario over the same month labels.
type Variant struct {
	Name    string
	Title   string
	Horizon int

	series map[Scenario]Series
}

// NewVariant validates the scenarios against each other and the horizon.
func NewVariant(name, title string, series ...Series) (Variant, error) {
	v := Variant{Name: name, Title: title, series: make(map[Scenario]Series, len(series))}
	for i, s := range series {
		if i == 0 {
			v.Horizon = s.Len()
		}
		if _, dup := v.series[s.Scenario]; dup {
			return Variant{}, fmt.Errorf("variant %s: duplicate scenario %s", name, s.Scenario)
		}
		v.series[s.Scenario] = s.Clone()
	}
	if err := v.Validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

// Validate checks every scenario series and that they share one horizon.
func (v Variant) Validate() error {
	for _, sc := range v.Scenarios() {
		s := v.series[sc]
		if s.Len() != v.Horizon {
			return fmt.Errorf("variant %s: %s has %d months, want %d: %w", v.Name, sc, s.Len(), v.Horizon, ErrMisaligned)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
	}
	return nil
}

// Scenario returns a copy of one scenario's series.
func (v Variant) Scenario(sc Scenario) (Series, error) {
	s, ok := v.series[sc]
	if !ok {
		return Series{}, fmt.Errorf("variant %s: %w: %q", v.Name, ErrUnknownScenario, sc)
	}
	return s.Clone(), nil
}

// Scenarios lists the scenarios the variant carries in canonical order.
func (v Variant) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(v.series))
	for _, sc := range Scenarios {
		if _, ok := v.series[sc]; ok {
			out = append(out, sc)
		}
	}
	return out
}

// Labels returns the shared month labels.
func (v Variant) Labels() []string {
	for _, sc := range v.Scenarios() {
		return cloneSlice(v.series[sc].Labels)
	}
	return nil
}

// Has reports whether the variant tracks a field.
func (v Variant) Has(f Field) bool {
	for _, sc := range v.Scenarios() {
		s := v.series[sc]
		switch f {
		case FieldRevenue:
			return s.Revenue != nil
		case FieldExpenses:
			return s.Expenses != nil
		case FieldInvestment:
			return s.Investment != nil
		case FieldNetProfit:
			return s.NetProfit != nil
		case FieldCashFlow:
			return s.CashFlow != nil
		case FieldClients:
			return s.Clients != nil
		}
	}
	return false
}

// Catalog holds the built-in variants by name.
type Catalog struct {
	variants map[string]Variant
}

// NewCatalog builds the built-in variants. growth overrides the extrapolation
// parameters of the clients variant per scenario; missing scenarios keep defaults.
func NewCatalog(growth map[Scenario]Growth) (*Catalog, error) {
	params := DefaultGrowth()
	for sc, g := range growth {
		params[sc] = g
	}
	builders := []func() (Variant, error){
		cashFlowVariant,
		tranchesVariant,
		func() (Variant, error) { return clientsVariant(params) },
	}
	c := &Catalog{variants: map[string]Variant{}}
	for _, build := range builders {
		v, err := build()
		if err != nil {
			return nil, err
		}
		c.variants[v.Name] = v
	}
	return c, nil
}

// Variant looks a variant up by name.
func (c *Catalog) Variant(name string) (Variant, error) {
	v, ok := c.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Names lists variant names sorted by horizon, then name.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.variants))
	for n := range c.variants {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.variants[names[i]], c.variants[names[j]]
		if a.Horizon != b.Horizon {
			return a.Horizon < b.Horizon
		}
		return a.Name < b.Name
	})
	return names
}
