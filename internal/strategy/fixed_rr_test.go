package strategy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

func bar(high, low, close float64) domain.Candle {
	return domain.Candle{Open: close, High: high, Low: low, Close: close}
}

func runFixed(t *testing.T, tp, sl float64, inc string, candles ...domain.Candle) []domain.StrategyRecord {
	t.Helper()
	s := NewFixedRRStrategy(FixedPercent{TakeProfitPct: tp, StopLossPct: sl}, domain.DefaultPositionSize)
	records, err := s.Execute(context.Background(), &StrategyInput{
		Symbol:    "BTC-USDT",
		Candles:   candles,
		Increment: numeric.PriceIncrement(inc),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(records) != len(candles) {
		t.Fatalf("expected %d records, got %d", len(candles), len(records))
	}
	return records
}

func TestFixedRR_LongTakeProfit(t *testing.T) {
	records := runFixed(t, 6, 2, "0.01",
		bar(100, 100, 100),
		bar(107, 99, 103),
	)

	r := records[0]
	if r.Side != domain.SideLong {
		t.Errorf("expected LONG, got %s", r.Side)
	}
	if r.ProfitPrice != 106 || r.LossPrice != 98 {
		t.Errorf("expected levels 106/98, got %v/%v", r.ProfitPrice, r.LossPrice)
	}
	if r.Outcome != domain.OutcomeTakeProfit {
		t.Fatalf("expected TAKE_PROFIT, got %s", r.Outcome)
	}
	if r.ResultProfit != 6 || r.ResultLoss != 0 {
		t.Errorf("expected profit 6 loss 0, got %v/%v", r.ResultProfit, r.ResultLoss)
	}
	if r.ExitIndex != 1 {
		t.Errorf("expected exit index 1, got %d", r.ExitIndex)
	}
}

func TestFixedRR_StopCheckedBeforeProfit(t *testing.T) {
	// Next bar touches both 106 and 98.
	records := runFixed(t, 6, 2, "0.01",
		bar(100, 100, 100),
		bar(110, 90, 100),
	)

	r := records[0]
	if r.Outcome != domain.OutcomeStopLoss {
		t.Fatalf("expected STOP_LOSS, got %s", r.Outcome)
	}
	if r.ResultLoss != 2 || r.ResultProfit != 0 {
		t.Errorf("expected loss 2 profit 0, got %v/%v", r.ResultLoss, r.ResultProfit)
	}
}

func TestFixedRR_ShortSide(t *testing.T) {
	tests := []struct {
		name    string
		next    domain.Candle
		outcome domain.Outcome
		profit  float64
		loss    float64
	}{
		{"take profit", bar(101, 93, 95), domain.OutcomeTakeProfit, 6, 0},
		{"stop loss", bar(103, 99, 102), domain.OutcomeStopLoss, 0, 2},
		{"both touched", bar(103, 93, 100), domain.OutcomeStopLoss, 0, 2},
		{"untouched", bar(101, 95, 100), domain.OutcomeOpen, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := runFixed(t, 6, 2, "0.01",
				bar(50, 50, 50),
				bar(100, 100, 100),
				tt.next,
			)

			r := records[1]
			if r.Side != domain.SideShort {
				t.Fatalf("expected SHORT, got %s", r.Side)
			}
			if r.ProfitPrice != 94 || r.LossPrice != 102 {
				t.Errorf("expected levels 94/102, got %v/%v", r.ProfitPrice, r.LossPrice)
			}
			if r.Outcome != tt.outcome {
				t.Errorf("expected %s, got %s", tt.outcome, r.Outcome)
			}
			if r.ResultProfit != tt.profit || r.ResultLoss != tt.loss {
				t.Errorf("expected %v/%v, got %v/%v", tt.profit, tt.loss, r.ResultProfit, r.ResultLoss)
			}
		})
	}
}

func TestFixedRR_FirstTouchWins(t *testing.T) {
	records := runFixed(t, 6, 2, "0.01",
		bar(100, 100, 100),
		bar(101, 99, 100),
		bar(107, 99, 105), // profit first
		bar(100, 90, 95),  // stop later
	)

	if records[0].Outcome != domain.OutcomeTakeProfit || records[0].ExitIndex != 2 {
		t.Errorf("expected TAKE_PROFIT at 2, got %s at %d", records[0].Outcome, records[0].ExitIndex)
	}
}

func TestFixedRR_AlternatesSidesAndLastIsOpen(t *testing.T) {
	records := runFixed(t, 6, 2, "0.01",
		bar(100, 100, 100),
		bar(100, 100, 100),
		bar(100, 100, 100),
		bar(100, 100, 100),
	)

	for i, r := range records {
		want := domain.SideLong
		if i%2 == 1 {
			want = domain.SideShort
		}
		if r.Side != want {
			t.Errorf("record %d: expected %s, got %s", i, want, r.Side)
		}
		if r.Outcome != domain.OutcomeOpen || r.ExitIndex != -1 {
			t.Errorf("record %d: expected OPEN, got %s", i, r.Outcome)
		}
		if r.ResultProfit != 0 || r.ResultLoss != 0 {
			t.Errorf("record %d: open trade has P&L", i)
		}
	}
}

func TestFixedRR_RoundsLevelsToIncrement(t *testing.T) {
	records := runFixed(t, 6, 2, "1", bar(99.5, 99.5, 99.5))

	r := records[0]
	// 99.5 * 1.06 = 105.47, 99.5 * 0.98 = 97.51
	if r.ProfitPrice != 105 || r.LossPrice != 98 {
		t.Errorf("expected 105/98, got %v/%v", r.ProfitPrice, r.LossPrice)
	}
}

func TestFixedRR_RoundsPercentages(t *testing.T) {
	records := runFixed(t, 6.666, 2.004, "0.0001", bar(10, 10, 10))

	if records[0].TakeProfitPc != 6.67 || records[0].StopLossPc != 2 {
		t.Errorf("expected 6.67/2, got %v/%v", records[0].TakeProfitPc, records[0].StopLossPc)
	}
}

func TestFixedRR_ATRScaled(t *testing.T) {
	candles := []domain.Candle{
		bar(101, 99, 100),
		bar(101, 99, 100),
		bar(101, 99, 100), // ATR(3) = 2
		bar(105, 99, 100),
	}

	s := NewFixedRRStrategy(ATRScaled{Period: 3, RiskMultiplier: 1, RewardRatio: 2}, 100)
	records, err := s.Execute(context.Background(), &StrategyInput{Candles: candles, Increment: "0.01"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if records[i].Priced || records[i].Outcome != domain.OutcomeOpen {
			t.Errorf("record %d: expected unpriced OPEN during warm-up, got %+v", i, records[i])
		}
	}

	r := records[2]
	if !r.Priced {
		t.Fatal("expected record 2 to be priced")
	}
	if r.Side != domain.SideLong {
		t.Errorf("expected LONG, got %s", r.Side)
	}
	if r.StopLossPc != 2 || r.TakeProfitPc != 4 {
		t.Errorf("expected sl 2%% tp 4%%, got %v/%v", r.StopLossPc, r.TakeProfitPc)
	}
	if r.LossPrice != 98 || r.ProfitPrice != 104 {
		t.Errorf("expected levels 104/98, got %v/%v", r.ProfitPrice, r.LossPrice)
	}
	if r.Outcome != domain.OutcomeTakeProfit {
		t.Fatalf("expected TAKE_PROFIT, got %s", r.Outcome)
	}
	if math.Abs(r.ResultProfit-4) > 1e-9 {
		t.Errorf("expected profit 4, got %v", r.ResultProfit)
	}
}

func TestFixedRR_RejectsDegenerateSizing(t *testing.T) {
	tests := []struct {
		name   string
		sizing Sizing
		size   float64
	}{
		{"zero take profit", FixedPercent{TakeProfitPct: 0, StopLossPct: 2}, 100},
		{"negative stop", FixedPercent{TakeProfitPct: 6, StopLossPct: -1}, 100},
		{"zero atr period", ATRScaled{Period: 0, RiskMultiplier: 2, RewardRatio: 3}, 100},
		{"zero reward", ATRScaled{Period: 20, RiskMultiplier: 2, RewardRatio: 0}, 100},
		{"zero position", FixedPercent{TakeProfitPct: 6, StopLossPct: 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFixedRRStrategy(tt.sizing, tt.size)
			_, err := s.Execute(context.Background(), &StrategyInput{Candles: []domain.Candle{bar(1, 1, 1)}})
			if !errors.Is(err, domain.ErrDegenerateParameter) {
				t.Errorf("expected ErrDegenerateParameter, got %v", err)
			}
		})
	}
}

func TestFixedRR_EmptyInput(t *testing.T) {
	s := NewFixedRRStrategy(FixedPercent{TakeProfitPct: 6, StopLossPct: 2}, 100)

	_, err := s.Execute(context.Background(), &StrategyInput{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = s.Execute(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil input, got %v", err)
	}
}

func TestFixedRR_ID(t *testing.T) {
	fixed := NewFixedRRStrategy(FixedPercent{TakeProfitPct: 6, StopLossPct: 2}, 100)
	if got := fixed.ID(); got != "FIXED_RR_tp6_sl2_size100" {
		t.Errorf("unexpected id %s", got)
	}

	atr := NewFixedRRStrategy(ATRScaled{Period: 20, RiskMultiplier: 2, RewardRatio: 3}, 100)
	if got := atr.ID(); got != "FIXED_RR_atr20_risk2_reward3_size100" {
		t.Errorf("unexpected id %s", got)
	}
}
