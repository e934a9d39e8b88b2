// Package numeric converts the textual decimals stored upstream into numbers
// exactly once, at the boundary of the pure computations.
package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BizKey/webaggregator/internal/domain"
)

// Parse errors. All classify as domain.ErrInvalidInput.
var (
	ErrEmptySeries     = fmt.Errorf("%w: empty series", domain.ErrInvalidInput)
	ErrMalformedNumber = fmt.Errorf("%w: malformed number", domain.ErrInvalidInput)
	ErrNonPositive     = fmt.Errorf("%w: value must be positive", domain.ErrInvalidInput)
	ErrInvertedRange   = fmt.Errorf("%w: low above high", domain.ErrInvalidInput)
)

// ParseDecimal parses a decimal string. Empty and malformed strings fail.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrMalformedNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return d, nil
}

// ParseFloat parses a decimal string into a float64.
func ParseFloat(s string) (float64, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// RoundToDecimal rounds x half away from zero to the given number of decimal places.
// Rounding an already rounded value is a no-op.
func RoundToDecimal(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(int32(places)).InexactFloat64()
}

// FormatFixed formats x with exactly places fractional digits.
func FormatFixed(x float64, places int) string {
	return strconv.FormatFloat(x, 'f', places, 64)
}

// FormatShortest formats x with the fewest digits that round-trip.
func FormatShortest(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// CommissionRate derives a per-leg commission fraction from a symbol's fee
// category and taker fee coefficient: category * coefficient.
func CommissionRate(feeCategory int16, takerFeeCoefficient string) (float64, error) {
	coef, err := ParseDecimal(takerFeeCoefficient)
	if err != nil {
		return 0, fmt.Errorf("taker_fee_coefficient: %w", err)
	}
	return decimal.NewFromInt(int64(feeCategory)).Mul(coef).InexactFloat64(), nil
}
