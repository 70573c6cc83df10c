package projection

import "github.com/shopspring/decimal"

// Breakeven returns the index of the first present, non-negative profit point.
func Breakeven(profit []decimal.NullDecimal) (int, bool) {
	for i, p := range profit {
		if p.Valid && !p.Decimal.IsNegative() {
			return i, true
		}
	}
	return 0, false
}

// Suppress hides profit points before the breakeven month. breakevenMonth is
// 1-based; zero means use the computed Breakeven. A series that never breaks
// even is hidden entirely. The input is not modified.
func Suppress(profit []decimal.NullDecimal, breakevenMonth int) []decimal.NullDecimal {
	out := cloneSlice(profit)
	cut := breakevenMonth - 1
	if breakevenMonth <= 0 {
		idx, ok := Breakeven(profit)
		if !ok {
			idx = len(out)
		}
		cut = idx
	}
	for i := 0; i < cut && i < len(out); i++ {
		out[i] = decimal.NullDecimal{}
	}
	return out
}

// Present converts plain amounts to always-present nullable ones.
func Present(values []decimal.Decimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewNullDecimal(v)
	}
	return out
}
