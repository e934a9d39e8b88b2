package metrics

import (
	"math"
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
)

func TestSummarize_CountsAndTotals(t *testing.T) {
	records := []domain.StrategyRecord{
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 6},
		{Outcome: domain.OutcomeStopLoss, ResultLoss: 2},
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 6},
		{Outcome: domain.OutcomeOpen},
	}

	s := Summarize(records)

	if s.Trades != 4 {
		t.Errorf("expected 4 trades, got %d", s.Trades)
	}
	if s.TakeProfits != 2 || s.StopLosses != 1 || s.OpenTrades != 1 {
		t.Errorf("unexpected outcome counts: tp=%d sl=%d open=%d", s.TakeProfits, s.StopLosses, s.OpenTrades)
	}
	if s.TotalProfit != 12 {
		t.Errorf("expected total profit 12, got %f", s.TotalProfit)
	}
	if s.TotalLoss != 2 {
		t.Errorf("expected total loss 2, got %f", s.TotalLoss)
	}
	if s.Net != 10 {
		t.Errorf("expected net 10, got %f", s.Net)
	}
	// 2 wins out of 3 resolved
	if math.Abs(s.WinRate-2.0/3.0) > 1e-9 {
		t.Errorf("expected win rate 0.667, got %f", s.WinRate)
	}
}

func TestSummarize_NetRoundedToTwoDecimals(t *testing.T) {
	records := []domain.StrategyRecord{
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 0.1},
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 0.2},
		{Outcome: domain.OutcomeStopLoss, ResultLoss: 0.005},
	}

	s := Summarize(records)

	if s.Net != 0.3 {
		t.Errorf("expected net 0.3, got %v", s.Net)
	}
	if s.TotalProfit != 0.3 {
		t.Errorf("expected total profit 0.3, got %v", s.TotalProfit)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.Trades != 0 || s.Net != 0 || s.WinRate != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestSummarize_DrawdownAndStreak(t *testing.T) {
	records := []domain.StrategyRecord{
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 6},
		{Outcome: domain.OutcomeStopLoss, ResultLoss: 2},
		{Outcome: domain.OutcomeStopLoss, ResultLoss: 2},
		{Outcome: domain.OutcomeOpen},
		{Outcome: domain.OutcomeStopLoss, ResultLoss: 2},
		{Outcome: domain.OutcomeTakeProfit, ResultProfit: 6},
	}

	s := Summarize(records)

	// Open trades do not break the losing streak.
	if s.MaxConsecutiveLosses != 3 {
		t.Errorf("expected streak 3, got %d", s.MaxConsecutiveLosses)
	}
	if s.MaxDrawdown != 6 {
		t.Errorf("expected drawdown 6, got %f", s.MaxDrawdown)
	}
}

func TestComputeMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []float64
		want     float64
	}{
		{"empty", nil, 0},
		{"all gains", []float64{1, 2, 3}, 0},
		{"loss first", []float64{-5, 2}, 5},
		{"peak then trough", []float64{10, -3, -4, 2, -8}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeMaxDrawdown(tt.outcomes)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeMaxDrawdown(%v) = %f, want %f", tt.outcomes, got, tt.want)
			}
		})
	}
}

func TestComputeMaxConsecutiveLosses(t *testing.T) {
	outcomes := []float64{1, -1, 0, -2, 3, -1}
	if got := computeMaxConsecutiveLosses(outcomes); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestComputePercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	if got := computePercentile(sorted, 0.5); got != 3 {
		t.Errorf("expected median 3, got %f", got)
	}
	if got := computePercentile(sorted, 0.1); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("expected p10 1.4, got %f", got)
	}
	if got := computePercentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty, got %f", got)
	}
}

func TestSummarizeSweep(t *testing.T) {
	results := []domain.SMAResult{
		{Period: 2, TotalProfit: -1},
		{Period: 3, TotalProfit: 4},
		{Period: 4, TotalProfit: 4},
		{Period: 5, TotalProfit: 1},
	}

	s := SummarizeSweep(results)

	if s.Periods != 4 {
		t.Errorf("expected 4 periods, got %d", s.Periods)
	}
	if s.ProfitablePeriod != 3 {
		t.Errorf("expected 3 profitable periods, got %d", s.ProfitablePeriod)
	}
	if s.Best.Period != 3 {
		t.Errorf("expected best period 3 (earliest on tie), got %d", s.Best.Period)
	}
	if s.MeanProfit != 2 {
		t.Errorf("expected mean 2, got %f", s.MeanProfit)
	}
	if s.MedianProfit != 2.5 {
		t.Errorf("expected median 2.5, got %f", s.MedianProfit)
	}
}
