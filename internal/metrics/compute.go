package metrics

import (
	"math"
	"sort"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// Summarize aggregates strategy records in entry order.
// Totals are rounded to 2 decimals; Net is computed from the unrounded totals.
func Summarize(records []domain.StrategyRecord) domain.StrategySummary {
	var (
		totalProfit float64
		totalLoss   float64
		summary     domain.StrategySummary
	)

	outcomes := make([]float64, 0, len(records))
	for _, r := range records {
		summary.Trades++
		switch r.Outcome {
		case domain.OutcomeTakeProfit:
			summary.TakeProfits++
		case domain.OutcomeStopLoss:
			summary.StopLosses++
		default:
			summary.OpenTrades++
			continue
		}
		totalProfit += r.ResultProfit
		totalLoss += r.ResultLoss
		outcomes = append(outcomes, r.ResultProfit-r.ResultLoss)
	}

	summary.TotalProfit = numeric.RoundToDecimal(totalProfit, 2)
	summary.TotalLoss = numeric.RoundToDecimal(totalLoss, 2)
	summary.Net = numeric.RoundToDecimal(totalProfit-totalLoss, 2)
	summary.WinRate = computeWinRate(summary.TakeProfits, summary.TakeProfits+summary.StopLosses)
	summary.MaxDrawdown = numeric.RoundToDecimal(computeMaxDrawdown(outcomes), 2)
	summary.MaxConsecutiveLosses = computeMaxConsecutiveLosses(outcomes)
	return summary
}

// SummarizeSweep describes total profit across SMA periods.
func SummarizeSweep(results []domain.SMAResult) domain.SweepSummary {
	n := len(results)
	if n == 0 {
		return domain.SweepSummary{}
	}

	profits := make([]float64, n)
	profitable := 0
	best := results[0]
	for i, r := range results {
		profits[i] = r.TotalProfit
		if r.TotalProfit > 0 {
			profitable++
		}
		if r.TotalProfit > best.TotalProfit {
			best = r
		}
	}

	sorted := make([]float64, n)
	copy(sorted, profits)
	sort.Float64s(sorted)

	mean := computeMean(profits)
	return domain.SweepSummary{
		Periods:          n,
		ProfitablePeriod: profitable,
		MeanProfit:       mean,
		MedianProfit:     computePercentile(sorted, 0.50),
		P10Profit:        computePercentile(sorted, 0.10),
		P90Profit:        computePercentile(sorted, 0.90),
		StddevProfit:     computeStddev(profits, mean),
		Best:             best,
	}
}

// computeWinRate calculates win rate as wins / total.
func computeWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxDrawdown calculates worst peak-to-trough on cumulative outcomes.
// Outcomes must be in chronological order.
func computeMaxDrawdown(outcomes []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, o := range outcomes {
		cumulative += o
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// computeMaxConsecutiveLosses finds longest streak of outcome <= 0.
func computeMaxConsecutiveLosses(outcomes []float64) int {
	maxStreak := 0
	currentStreak := 0

	for _, o := range outcomes {
		if o <= 0 {
			currentStreak++
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
