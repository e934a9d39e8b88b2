// Package indicator computes technical indicators over parsed candle series.
// Undefined values (warm-up windows) are nil.
package indicator

import (
	"fmt"

	"github.com/BizKey/webaggregator/internal/domain"
)

// ErrInvalidPeriod is returned for a zero or negative lookback period.
var ErrInvalidPeriod = fmt.Errorf("%w: period must be at least 1", domain.ErrDegenerateParameter)

func validatePeriod(period int) error {
	if period < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPeriod, period)
	}
	return nil
}
