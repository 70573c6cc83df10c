// Package format renders amounts for chart axes, tooltips and terminal tables.
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// TickFormatter turns an axis value into its tick label.
type TickFormatter func(v float64) string

const (
	nbsp = "\u00a0"
	// rubleFormat groups thousands with a no-break space and drops fractions.
	rubleFormat = "#\u00a0###,"
)

// CompactTick abbreviates large currency ticks:
// 2500000 -> "2.5M", 15000 -> "15k", 500 -> "500". Halves round up:
// 2500 -> "3k", 1250000 -> "1.3M".
func CompactTick(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", math.Round(v/100_000)/10)
	case v >= 1_000:
		return fmt.Sprintf("%.0fk", math.Round(v/1_000))
	default:
		return Raw(v)
	}
}

// MillionsTick shows rubles as signed millions: -580000 -> "-0.58".
func MillionsTick(v float64) string {
	return Raw(math.Round(v/1_000) / 1_000)
}

// CountTick prints whole counts.
func CountTick(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
}

// Raw prints the shortest exact representation, like a plain number-to-string.
func Raw(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tick formatter names.
const (
	TickCompact  = "compact"
	TickMillions = "millions"
	TickCount    = "count"
)

// Tick resolves a formatter by name; "" is TickCompact.
func Tick(name string) (TickFormatter, error) {
	switch name {
	case "", TickCompact:
		return CompactTick, nil
	case TickMillions:
		return MillionsTick, nil
	case TickCount:
		return CountTick, nil
	}
	return nil, fmt.Errorf("unknown tick formatter %q", name)
}

// Rubles formats an amount the way ru-RU currency formatting does with no
// fraction digits: "15 000 ₽", "5000 ₽", "-1 250 000 ₽". Four-digit amounts are
// not grouped.
func Rubles(v float64) string {
	return Grouped(v) + nbsp + "₽"
}

// Grouped is Rubles without the currency sign.
func Grouped(v float64) string {
	if math.Abs(v) < 9_999.5 {
		return strconv.FormatFloat(math.Round(v)+0, 'f', 0, 64)
	}
	return humanize.FormatFloat(rubleFormat, v)
}
