package strategy

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
)

func TestSimulateSMA_SingleTrade(t *testing.T) {
	// SMA(3): -, -, 2, 3, 4, 4.33, 4, 3, 2
	prices := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}

	r, err := SimulateSMA(prices, 3, 0)
	if err != nil {
		t.Fatalf("SimulateSMA failed: %v", err)
	}

	if r.Period != 3 {
		t.Errorf("expected period 3, got %d", r.Period)
	}
	if r.TradesCount != 1 || r.WinningTrades != 1 {
		t.Errorf("expected 1 trade 1 win, got %d/%d", r.TradesCount, r.WinningTrades)
	}
	want := 100 * (4.0/3.0 - 1)
	if math.Abs(r.TotalProfit-want) > 1e-9 {
		t.Errorf("expected total profit %v, got %v", want, r.TotalProfit)
	}
	if math.Abs(r.ProfitPercentage-want) > 1e-9 {
		t.Errorf("expected profit percentage %v, got %v", want, r.ProfitPercentage)
	}
}

func TestSimulateSMA_CommissionBothLegs(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}

	r, err := SimulateSMA(prices, 3, 0.1)
	if err != nil {
		t.Fatalf("SimulateSMA failed: %v", err)
	}

	want := 100 * ((4.0/3.0)*0.9*0.9 - 1) // 8%
	if math.Abs(r.TotalProfit-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, r.TotalProfit)
	}
}

func TestSimulateSMA_LosingTrade(t *testing.T) {
	// SMA(2): -, 10.5, 11.5, 11, 9.5
	prices := []float64{10, 11, 12, 10, 9}

	r, err := SimulateSMA(prices, 2, 0)
	if err != nil {
		t.Fatalf("SimulateSMA failed: %v", err)
	}
	if r.TradesCount != 1 {
		t.Fatalf("expected 1 trade, got %d", r.TradesCount)
	}
	if r.WinningTrades != 0 {
		t.Errorf("expected 0 wins, got %d", r.WinningTrades)
	}
	want := 100 * (10.0/11.0 - 1)
	if math.Abs(r.TotalProfit-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, r.TotalProfit)
	}
}

func TestSimulateSMA_OpenPositionNotCounted(t *testing.T) {
	r, err := SimulateSMA([]float64{1, 2, 3, 4, 5}, 2, 0)
	if err != nil {
		t.Fatalf("SimulateSMA failed: %v", err)
	}
	if r.TradesCount != 0 || r.TotalProfit != 0 || r.ProfitPercentage != 0 {
		t.Errorf("expected no trades, got %+v", r)
	}
}

func TestSimulateSMA_Errors(t *testing.T) {
	if _, err := SimulateSMA([]float64{1, 2}, 2, -0.01); !errors.Is(err, ErrNegativeCommission) {
		t.Errorf("expected ErrNegativeCommission, got %v", err)
	}
	if _, err := SimulateSMA([]float64{1, 2}, 0, 0); !errors.Is(err, domain.ErrDegenerateParameter) {
		t.Errorf("expected ErrDegenerateParameter, got %v", err)
	}
	if _, err := SimulateSMA(nil, 2, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func sawtooth(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i%7)
	}
	return prices
}

func TestSweepSMA_AllPeriodsAscending(t *testing.T) {
	results, err := SweepSMA(sawtooth(300), 0.001)
	if err != nil {
		t.Fatalf("SweepSMA failed: %v", err)
	}

	if len(results) != 199 {
		t.Fatalf("expected 199 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Period != i+2 {
			t.Errorf("result %d: expected period %d, got %d", i, i+2, r.Period)
		}
	}
}

func TestSweepSMA_Deterministic(t *testing.T) {
	prices := sawtooth(250)

	first, err := SweepSMA(prices, 0.002)
	if err != nil {
		t.Fatalf("SweepSMA failed: %v", err)
	}
	second, err := SweepSMA(prices, 0.002)
	if err != nil {
		t.Fatalf("SweepSMA failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results across runs")
	}
}

func TestSweepSMA_ShortSeriesHasNoTrades(t *testing.T) {
	results, err := SweepSMA([]float64{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("SweepSMA failed: %v", err)
	}
	for _, r := range results[2:] {
		if r.TradesCount != 0 {
			t.Errorf("period %d: expected no trades, got %d", r.Period, r.TradesCount)
		}
	}
}

func TestBestSMA_InsufficientData(t *testing.T) {
	_, err := BestSMA(sawtooth(23), 0)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestBestSMA_PicksMaxTotalProfit(t *testing.T) {
	prices := sawtooth(120)

	best, err := BestSMA(prices, 0)
	if err != nil {
		t.Fatalf("BestSMA failed: %v", err)
	}

	results, _ := SweepSMA(prices, 0)
	for _, r := range results {
		if r.TotalProfit > best.TotalProfit {
			t.Errorf("period %d has higher profit %v than best %v", r.Period, r.TotalProfit, best.TotalProfit)
		}
	}
}

func TestBestOf_TieKeepsShortestPeriod(t *testing.T) {
	results := []domain.SMAResult{
		{Period: 2, TotalProfit: 5},
		{Period: 3, TotalProfit: 7},
		{Period: 4, TotalProfit: 7},
	}
	if got := BestOf(results); got.Period != 3 {
		t.Errorf("expected period 3, got %d", got.Period)
	}

	negative := []domain.SMAResult{{Period: 2, TotalProfit: -3}, {Period: 3, TotalProfit: -1}}
	if got := BestOf(negative); got.Period != 3 {
		t.Errorf("expected period 3, got %d", got.Period)
	}
}
