package strategy

import (
	"fmt"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/indicator"
)

// Sizing errors.
var (
	ErrNonPositiveTarget       = fmt.Errorf("%w: take-profit and stop-loss must be positive", domain.ErrDegenerateParameter)
	ErrNonPositiveMultiplier   = fmt.Errorf("%w: risk multiplier and reward ratio must be positive", domain.ErrDegenerateParameter)
	ErrNonPositivePositionSize = fmt.Errorf("%w: position size must be positive", domain.ErrDegenerateParameter)
)

// Sizing places take-profit and stop-loss levels around an entry price.
// Implementations are FixedPercent and ATRScaled.
type Sizing interface {
	// Mode returns domain.SizingFixedPercent or domain.SizingATRScaled.
	Mode() string

	// Validate rejects degenerate parameters.
	Validate() error

	// lookback is the ATR period the sizing needs, 0 if none.
	lookback() int

	// percents returns take-profit and stop-loss distances as percentages of entry.
	// ok is false when the bar cannot be priced (ATR still undefined).
	percents(entry float64, atr *float64) (tpPct, slPct float64, ok bool)
}

// FixedPercent uses constant percentage distances, independent of volatility.
type FixedPercent struct {
	TakeProfitPct float64 // e.g. 6 for 6%
	StopLossPct   float64 // e.g. 2 for 2%
}

// Mode implements Sizing.
func (f FixedPercent) Mode() string { return domain.SizingFixedPercent }

// Validate implements Sizing.
func (f FixedPercent) Validate() error {
	if f.TakeProfitPct <= 0 || f.StopLossPct <= 0 {
		return fmt.Errorf("%w: tp=%v sl=%v", ErrNonPositiveTarget, f.TakeProfitPct, f.StopLossPct)
	}
	return nil
}

func (f FixedPercent) lookback() int { return 0 }

func (f FixedPercent) percents(_ float64, _ *float64) (float64, float64, bool) {
	return f.TakeProfitPct, f.StopLossPct, true
}

// ATRScaled places the stop at ATR * RiskMultiplier from entry and the
// take-profit at stop distance * RewardRatio, a fixed risk:reward.
type ATRScaled struct {
	Period         int     // ATR lookback, 20 by default
	RiskMultiplier float64 // e.g. 2.0
	RewardRatio    float64 // e.g. 3.0
}

// Mode implements Sizing.
func (a ATRScaled) Mode() string { return domain.SizingATRScaled }

// Validate implements Sizing.
func (a ATRScaled) Validate() error {
	if a.Period < 1 {
		return fmt.Errorf("%w: got %d", indicator.ErrInvalidPeriod, a.Period)
	}
	if a.RiskMultiplier <= 0 || a.RewardRatio <= 0 {
		return fmt.Errorf("%w: risk=%v reward=%v", ErrNonPositiveMultiplier, a.RiskMultiplier, a.RewardRatio)
	}
	return nil
}

func (a ATRScaled) lookback() int { return a.Period }

func (a ATRScaled) percents(entry float64, atr *float64) (float64, float64, bool) {
	if atr == nil || entry <= 0 {
		return 0, 0, false
	}
	stopDistance := *atr * a.RiskMultiplier
	profitDistance := stopDistance * a.RewardRatio
	return profitDistance / entry * 100, stopDistance / entry * 100, true
}

var (
	_ Sizing = FixedPercent{}
	_ Sizing = ATRScaled{}
)
