package strategy

import (
	"fmt"
	"math"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/indicator"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// SMA crossover errors.
var (
	ErrNegativeCommission = fmt.Errorf("%w: commission rate must not be negative", domain.ErrDegenerateParameter)
	ErrNotEnoughPrices    = fmt.Errorf("%w: best SMA period needs at least %d prices", domain.ErrInsufficientData, domain.SMAMinPrices)
)

// SimulateSMA backtests the long-only price/SMA crossover rule for one period.
//   - open at price[i] when flat and price[i] > sma[i]
//   - close when long and price[i] < sma[i]
//   - trade profit % = 100 * ((exit/entry) * (1-commission)^2 - 1)
//
// Bars without an SMA value are skipped. A position still open at the end is not counted.
func SimulateSMA(prices []float64, period int, commissionRate float64) (domain.SMAResult, error) {
	if commissionRate < 0 || math.IsNaN(commissionRate) {
		return domain.SMAResult{}, fmt.Errorf("%w: got %v", ErrNegativeCommission, commissionRate)
	}
	sma, err := indicator.SMA(prices, period)
	if err != nil {
		return domain.SMAResult{}, err
	}

	keep := (1 - commissionRate) * (1 - commissionRate)
	result := domain.SMAResult{Period: period}

	var entry float64
	inPosition := false
	for i, price := range prices {
		if sma[i] == nil {
			continue
		}
		avg := *sma[i]

		switch {
		case price > avg && !inPosition:
			entry = price
			inPosition = true
		case price < avg && inPosition:
			profit := 100 * ((price/entry)*keep - 1)
			result.TotalProfit += profit
			result.TradesCount++
			if profit > 0 {
				result.WinningTrades++
			}
			inPosition = false
		}
	}

	if result.TradesCount > 0 {
		result.ProfitPercentage = result.TotalProfit / float64(result.TradesCount)
	}
	return result, nil
}

// SweepSMA runs SimulateSMA for every period from 2 to 200, in ascending order.
func SweepSMA(prices []float64, commissionRate float64) ([]domain.SMAResult, error) {
	if len(prices) == 0 {
		return nil, numeric.ErrEmptySeries
	}

	results := make([]domain.SMAResult, 0, domain.SMAMaxPeriod-domain.SMAMinPeriod+1)
	for period := domain.SMAMinPeriod; period <= domain.SMAMaxPeriod; period++ {
		r, err := SimulateSMA(prices, period, commissionRate)
		if err != nil {
			return nil, fmt.Errorf("sma period %d: %w", period, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// BestSMA returns the sweep result with the highest total profit.
// Ties keep the shortest period. Returns ErrNotEnoughPrices below 24 prices.
func BestSMA(prices []float64, commissionRate float64) (domain.SMAResult, error) {
	if len(prices) < domain.SMAMinPrices {
		return domain.SMAResult{}, fmt.Errorf("%w: got %d", ErrNotEnoughPrices, len(prices))
	}

	results, err := SweepSMA(prices, commissionRate)
	if err != nil {
		return domain.SMAResult{}, err
	}
	return BestOf(results), nil
}

// BestOf picks the result with the highest total profit; ties keep the earliest.
// Returns the zero value for an empty slice.
func BestOf(results []domain.SMAResult) domain.SMAResult {
	var best domain.SMAResult
	for i, r := range results {
		if i == 0 || r.TotalProfit > best.TotalProfit {
			best = r
		}
	}
	return best
}
