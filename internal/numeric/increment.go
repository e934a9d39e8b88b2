package numeric

import "strings"

// PriceIncrement is a symbol's tick size as published by the exchange, e.g. "0.0001".
// Only its textual precision matters: computed price levels are rounded to it.
type PriceIncrement string

// DecimalPlaces is the number of digits after the decimal point, 0 if there is none.
func (p PriceIncrement) DecimalPlaces() int {
	s := strings.TrimSpace(string(p))
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	return len(s) - idx - 1
}

// Round rounds a price to the increment's precision.
func (p PriceIncrement) Round(price float64) float64 {
	return RoundToDecimal(price, p.DecimalPlaces())
}
