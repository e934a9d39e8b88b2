package strategy

import (
	"context"
	"fmt"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// Strategy produces one synthetic trade per candle of a series.
type Strategy interface {
	// Execute runs the strategy over an ascending candle series.
	// Returns records in input order, one per candle.
	Execute(ctx context.Context, input *StrategyInput) ([]domain.StrategyRecord, error)

	// ID returns strategy identifier (includes parameters).
	ID() string
}

// StrategyInput holds all data needed for strategy execution.
type StrategyInput struct {
	Symbol    string
	Candles   []domain.Candle // ascending by timestamp
	Increment numeric.PriceIncrement
}

// Validate checks the input at the package boundary.
func (in *StrategyInput) Validate() error {
	if in == nil {
		return fmt.Errorf("%w: nil strategy input", domain.ErrInvalidInput)
	}
	if len(in.Candles) == 0 {
		return numeric.ErrEmptySeries
	}
	return nil
}
