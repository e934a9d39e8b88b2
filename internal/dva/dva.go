// Package dva simulates value averaging: each period the holding is topped up
// or trimmed so that its market value tracks a linearly growing target.
package dva

import (
	"fmt"
	"math"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// Simulation errors.
var (
	ErrNonPositiveIncrement = fmt.Errorf("%w: target increment must be positive", domain.ErrDegenerateParameter)
	ErrNegativeCommission   = fmt.Errorf("%w: commission rate must not be negative", domain.ErrDegenerateParameter)
)

// Simulate runs value averaging over prices with full precision.
//   - buy when under target: spend delta, receive delta/(1+c) worth of units
//   - sell when over target: sell delta worth of units, receive delta*(1-c)
//   - holdings never go below zero
func Simulate(prices []float64, targetIncrement, commissionRate float64) (domain.DvaResult, error) {
	if len(prices) == 0 {
		return domain.DvaResult{}, numeric.ErrEmptySeries
	}
	if !(targetIncrement > 0) || math.IsInf(targetIncrement, 0) {
		return domain.DvaResult{}, fmt.Errorf("%w: got %v", ErrNonPositiveIncrement, targetIncrement)
	}
	if !(commissionRate >= 0) {
		return domain.DvaResult{}, fmt.Errorf("%w: got %v", ErrNegativeCommission, commissionRate)
	}
	for i, p := range prices {
		if !(p > 0) {
			return domain.DvaResult{}, fmt.Errorf("price %d: %w", i, numeric.ErrNonPositive)
		}
	}

	var (
		targetValue   float64
		assetAmount   float64
		grossSpent    float64
		grossReceived float64
	)

	for _, price := range prices {
		targetValue += targetIncrement
		delta := targetValue - assetAmount*price

		switch {
		case delta > 0:
			net := delta / (1 + commissionRate)
			assetAmount += net / price
			grossSpent += delta
		case delta < 0:
			var received float64
			assetAmount, received = sell(assetAmount, -delta, price, commissionRate)
			grossReceived += received
		}
	}

	finalPrice := prices[len(prices)-1]
	finalValue := assetAmount * finalPrice
	netInvested := grossSpent - grossReceived
	profit := finalValue - netInvested

	var roi float64
	if netInvested != 0 {
		roi = profit / netInvested
	}

	return domain.DvaResult{
		CommissionRate:     commissionRate,
		Periods:            len(prices),
		TotalGrossSpent:    grossSpent,
		TotalGrossReceived: grossReceived,
		NetInvested:        netInvested,
		FinalAssetAmount:   assetAmount,
		FinalPrice:         finalPrice,
		FinalValue:         finalValue,
		Profit:             profit,
		ROI:                roi,
	}, nil
}

// sell removes gross worth of units at price and returns the remaining
// holding and the amount received net of commission. The holding is clamped
// at zero.
func sell(assetAmount, gross, price, commissionRate float64) (float64, float64) {
	assetAmount -= gross / price
	if assetAmount < 0 {
		assetAmount = 0
	}
	return assetAmount, gross * (1 - commissionRate)
}

// Format renders a result for display: currency amounts and roi with 2
// decimals, asset amount with 4, final price and value unrounded.
func Format(r domain.DvaResult) domain.DvaView {
	return domain.DvaView{
		CommissionRate:     r.CommissionRate,
		Periods:            r.Periods,
		TotalGrossSpent:    numeric.FormatFixed(r.TotalGrossSpent, 2),
		TotalGrossReceived: numeric.FormatFixed(r.TotalGrossReceived, 2),
		NetInvested:        numeric.FormatFixed(r.NetInvested, 2),
		FinalAssetAmount:   numeric.FormatFixed(r.FinalAssetAmount, 4),
		FinalPrice:         numeric.FormatShortest(r.FinalPrice),
		FinalValue:         numeric.FormatShortest(r.FinalValue),
		Profit:             numeric.FormatFixed(r.Profit, 2),
		ROI:                numeric.FormatFixed(r.ROI, 2),
	}
}
