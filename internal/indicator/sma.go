package indicator

import "github.com/BizKey/webaggregator/internal/numeric"

// SMA returns the simple moving average using a rolling sum.
// The first period-1 values are nil. A series shorter than period yields all nil values.
func SMA(prices []float64, period int) ([]*float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, numeric.ErrEmptySeries
	}

	out := make([]*float64, len(prices))
	if len(prices) < period {
		return out, nil
	}

	p := float64(period)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[period-1] = ptr(sum / p)

	for i := period; i < len(prices); i++ {
		sum += prices[i] - prices[i-period]
		out[i] = ptr(sum / p)
	}
	return out, nil
}
