package deck

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/snikulin87-hue/pres-entation/internal/format"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

var (
	colorBorder = lipgloss.Color("#64748B")
	colorHeader = lipgloss.Color("#10B981")
	colorMuted  = lipgloss.Color("#94A3B8")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	monthStyle  = cellStyle.Foreground(colorMuted)
)

// Placeholder printed for suppressed profit.
const absent = "—"

// TableRows lays one scenario out month by month. Only tracked columns appear.
func TableRows(s projection.Series) (headers []string, rows [][]string) {
	names := presenter.RussianNames()
	headers = []string{"Месяц"}
	if s.Revenue != nil {
		headers = append(headers, names.Revenue)
	}
	if s.Expenses != nil {
		headers = append(headers, names.Expenses)
	}
	if s.Investment != nil {
		headers = append(headers, names.Investment)
	}
	if s.NetProfit != nil {
		headers = append(headers, names.NetProfit)
	}
	if s.CashFlow != nil {
		headers = append(headers, names.CashFlow)
	}
	if s.Clients != nil {
		headers = append(headers, names.Clients)
	}

	for _, r := range s.Records() {
		row := []string{r.Month}
		for _, v := range []*decimal.Decimal{r.Revenue, r.Expenses, r.Investment} {
			if v != nil {
				row = append(row, format.Rubles(v.InexactFloat64()))
			}
		}
		if r.NetProfit != nil {
			if r.NetProfit.Valid {
				row = append(row, format.Rubles(r.NetProfit.Decimal.InexactFloat64()))
			} else {
				row = append(row, absent)
			}
		}
		if r.CashFlow != nil {
			row = append(row, format.Rubles(r.CashFlow.InexactFloat64()))
		}
		if r.Clients != nil {
			row = append(row, format.Grouped(float64(*r.Clients)))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// RenderTable draws a scenario as a bordered terminal table.
func RenderTable(title string, s projection.Series) string {
	headers, rows := TableRows(s)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return monthStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})

	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// RenderVariant prints every scenario of a variant, or only sc when given.
func RenderVariant(v projection.Variant, sc projection.Scenario) (string, error) {
	scenarios := v.Scenarios()
	if sc != "" {
		scenarios = []projection.Scenario{sc}
	}
	var b strings.Builder
	for _, s := range scenarios {
		series, err := v.Scenario(s)
		if err != nil {
			return "", err
		}
		b.WriteString(RenderTable(v.Title+" • "+s.Title(), series))
	}
	return b.String(), nil
}
