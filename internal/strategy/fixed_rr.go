package strategy

import (
	"context"
	"fmt"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/indicator"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// percentPlaces is the rounding applied to take-profit/stop-loss percentages.
const percentPlaces = 2

// FixedRRStrategy enters on every close, alternating Long and Short starting
// with Long, and resolves each trade by scanning forward for the first bar
// that touches either level.
type FixedRRStrategy struct {
	Sizing       Sizing
	PositionSize float64 // notional per trade
}

// NewFixedRRStrategy creates a new FixedRRStrategy.
func NewFixedRRStrategy(sizing Sizing, positionSize float64) *FixedRRStrategy {
	return &FixedRRStrategy{
		Sizing:       sizing,
		PositionSize: positionSize,
	}
}

// ID returns the strategy identifier including parameters.
func (s *FixedRRStrategy) ID() string {
	switch sz := s.Sizing.(type) {
	case FixedPercent:
		return fmt.Sprintf("FIXED_RR_tp%g_sl%g_size%g", sz.TakeProfitPct, sz.StopLossPct, s.PositionSize)
	case ATRScaled:
		return fmt.Sprintf("FIXED_RR_atr%d_risk%g_reward%g_size%g", sz.Period, sz.RiskMultiplier, sz.RewardRatio, s.PositionSize)
	default:
		return "FIXED_RR"
	}
}

// Validate rejects degenerate configuration before any computation.
func (s *FixedRRStrategy) Validate() error {
	if s.Sizing == nil {
		return ErrUnknownSizingMode
	}
	if err := s.Sizing.Validate(); err != nil {
		return err
	}
	if s.PositionSize <= 0 {
		return fmt.Errorf("%w: got %v", ErrNonPositivePositionSize, s.PositionSize)
	}
	return nil
}

// Execute runs the strategy over the candle series.
//   - entry = close[i]; side = Long for even i, Short for odd i
//   - Long: profit = entry*(1+tp%), loss = entry*(1-sl%)
//   - Short: profit = entry*(1-tp%), loss = entry*(1+sl%)
//   - levels are rounded to the price increment, percentages to 2dp
//   - within a forward bar the stop is checked before the profit target
func (s *FixedRRStrategy) Execute(_ context.Context, input *StrategyInput) ([]domain.StrategyRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	candles := input.Candles
	atr := make([]*float64, len(candles))
	if period := s.Sizing.lookback(); period > 0 {
		var err error
		atr, err = indicator.ATR(candles, period)
		if err != nil {
			return nil, err
		}
	}

	records := make([]domain.StrategyRecord, len(candles))
	for i, c := range candles {
		side := domain.SideLong
		if i%2 == 1 {
			side = domain.SideShort
		}

		rec := domain.StrategyRecord{
			Timestamp:    c.Timestamp,
			Open:         c.Open,
			High:         c.High,
			Low:          c.Low,
			Close:        c.Close,
			Side:         side,
			EntryPrice:   c.Close,
			PositionSize: s.PositionSize,
			Outcome:      domain.OutcomeOpen,
			ExitIndex:    -1,
		}

		tpPct, slPct, ok := s.Sizing.percents(c.Close, atr[i])
		if ok {
			rec.Priced = true
			rec.ProfitPrice, rec.LossPrice = levels(side, c.Close, tpPct, slPct, input.Increment)
			rec.TakeProfitPc = numeric.RoundToDecimal(tpPct, percentPlaces)
			rec.StopLossPc = numeric.RoundToDecimal(slPct, percentPlaces)
			resolve(&rec, candles[i+1:], i+1)
		}

		records[i] = rec
	}

	return records, nil
}

// levels computes rounded profit-target and stop-loss prices.
func levels(side domain.Side, entry, tpPct, slPct float64, inc numeric.PriceIncrement) (profit, loss float64) {
	if side == domain.SideLong {
		profit = entry * (1 + tpPct/100)
		loss = entry * (1 - slPct/100)
	} else {
		profit = entry * (1 - tpPct/100)
		loss = entry * (1 + slPct/100)
	}
	return inc.Round(profit), inc.Round(loss)
}

// resolve scans forward bars for the first level touch. offset is the index
// of forward[0] in the full series.
func resolve(rec *domain.StrategyRecord, forward []domain.Candle, offset int) {
	for j, bar := range forward {
		var stopHit, profitHit bool
		if rec.Side == domain.SideLong {
			stopHit = bar.Low <= rec.LossPrice
			profitHit = bar.High >= rec.ProfitPrice
		} else {
			stopHit = bar.High >= rec.LossPrice
			profitHit = bar.Low <= rec.ProfitPrice
		}

		// Stop first: a bar touching both levels counts as a loss.
		if stopHit {
			rec.Outcome = domain.OutcomeStopLoss
			rec.ExitIndex = offset + j
			rec.ResultLoss = rec.PositionSize * rec.StopLossPc / 100
			return
		}
		if profitHit {
			rec.Outcome = domain.OutcomeTakeProfit
			rec.ExitIndex = offset + j
			rec.ResultProfit = rec.PositionSize * rec.TakeProfitPc / 100
			return
		}
	}
}

var _ Strategy = (*FixedRRStrategy)(nil)
