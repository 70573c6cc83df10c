package projection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Growth drives month-over-month extrapolation past an explicit baseline.
// Clients compound by ClientGrowthRate and then gain ClientsPerMonth.
type Growth struct {
	ClientsPerMonth       int64
	ClientGrowthRate      decimal.Decimal
	RevenuePerClient      decimal.Decimal
	VariableCostPerClient decimal.Decimal
	FixedCosts            decimal.Decimal
	// BreakevenMonth (1-based) pins profit suppression; zero derives it from the data.
	BreakevenMonth int
}

// Validate rejects parameters that would produce negative amounts.
func (g Growth) Validate() error {
	switch {
	case g.ClientsPerMonth < 0:
		return fmt.Errorf("clients per month %d: %w", g.ClientsPerMonth, ErrNegative)
	case g.ClientGrowthRate.LessThan(decimal.NewFromInt(-1)):
		return fmt.Errorf("client growth rate %s below -100%%: %w", g.ClientGrowthRate, ErrNegative)
	case g.RevenuePerClient.IsNegative():
		return fmt.Errorf("revenue per client %s: %w", g.RevenuePerClient, ErrNegative)
	case g.VariableCostPerClient.IsNegative():
		return fmt.Errorf("variable cost per client %s: %w", g.VariableCostPerClient, ErrNegative)
	case g.FixedCosts.IsNegative():
		return fmt.Errorf("fixed costs %s: %w", g.FixedCosts, ErrNegative)
	}
	return nil
}

// Extrapolate extends base to horizon months. Baseline months are kept as given;
// each later month derives clients from the previous month and revenue, expenses
// and profit from clients. Labels continue the baseline's prefix.
func Extrapolate(base Series, horizon int, prefix string, g Growth) (Series, error) {
	if err := base.Validate(); err != nil {
		return Series{}, err
	}
	if err := g.Validate(); err != nil {
		return Series{}, err
	}
	n := base.Len()
	if !base.HasClients() || n == 0 {
		return Series{}, errors.New("extrapolation needs a baseline with paying clients")
	}
	if horizon < n {
		return Series{}, fmt.Errorf("horizon %d shorter than baseline %d", horizon, n)
	}
	if base.Revenue == nil || base.Expenses == nil || base.NetProfit == nil {
		return Series{}, errors.New("extrapolation needs revenue, expenses and net profit in the baseline")
	}

	out := base.Clone()
	out.Labels = MonthLabels(prefix, horizon)
	copy(out.Labels, base.Labels)
	out.Investment = nil
	out.CashFlow = nil

	clients := base.Clients[n-1]
	for m := n; m < horizon; m++ {
		compounded := decimal.NewFromInt(clients).Mul(g.ClientGrowthRate).Round(0).IntPart()
		clients = clients + compounded + g.ClientsPerMonth
		if clients < 0 {
			clients = 0
		}
		c := decimal.NewFromInt(clients)
		revenue := c.Mul(g.RevenuePerClient)
		expenses := c.Mul(g.VariableCostPerClient).Add(g.FixedCosts)

		out.Clients = append(out.Clients, clients)
		out.Revenue = append(out.Revenue, revenue)
		out.Expenses = append(out.Expenses, expenses)
		out.NetProfit = append(out.NetProfit, decimal.NewNullDecimal(revenue.Sub(expenses)))
	}
	return out, nil
}
