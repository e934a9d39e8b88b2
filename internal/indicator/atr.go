package indicator

import (
	"math"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// DefaultATRPeriod is the lookback used by the candle view and ATR-scaled sizing.
const DefaultATRPeriod = 20

// TrueRange returns the true range of every bar.
// The first bar has no previous close, so its range is high - low.
func TrueRange(candles []domain.Candle) []float64 {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prevClose := candles[i-1].Close
		tr[i] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return tr
}

// ATR returns the Average True Range with Wilder smoothing.
//   - ATR[i] is nil for i < period-1
//   - ATR[period-1] is the mean of the first period true ranges
//   - ATR[i] = (ATR[i-1]*(period-1) + TR[i]) / period afterwards
//
// A series shorter than period yields all nil values.
func ATR(candles []domain.Candle, period int) ([]*float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, numeric.ErrEmptySeries
	}
	return smoothTrueRange(TrueRange(candles), period), nil
}

func smoothTrueRange(tr []float64, period int) []*float64 {
	out := make([]*float64, len(tr))
	if len(tr) < period {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period-1] = ptr(prev)

	p := float64(period)
	for i := period; i < len(tr); i++ {
		prev = (prev*(p-1) + tr[i]) / p
		out[i] = ptr(prev)
	}
	return out
}

// ATRPercent expresses an ATR value as a percentage of close.
// Returns nil when atr is undefined or close is not positive.
func ATRPercent(atr *float64, close float64) *float64 {
	if atr == nil || close <= 0 {
		return nil
	}
	return ptr(*atr / close * 100)
}

func ptr(v float64) *float64 {
	return &v
}
