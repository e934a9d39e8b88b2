package strategy

import (
	"fmt"
	"strings"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/indicator"
)

// Factory errors
var (
	ErrUnknownSizingMode     = fmt.Errorf("%w: unknown sizing mode", domain.ErrInvalidInput)
	ErrMissingTakeProfitPct  = fmt.Errorf("%w: FIXED_PERCENT requires TakeProfitPct", domain.ErrInvalidInput)
	ErrMissingStopLossPct    = fmt.Errorf("%w: FIXED_PERCENT requires StopLossPct", domain.ErrInvalidInput)
	ErrMissingRiskMultiplier = fmt.Errorf("%w: ATR_SCALED requires RiskMultiplier", domain.ErrInvalidInput)
	ErrMissingRewardRatio    = fmt.Errorf("%w: ATR_SCALED requires RewardRatio", domain.ErrInvalidInput)
)

// FromConfig creates a FixedRRStrategy from domain.StrategyConfig.
// Validates required parameters per sizing mode.
// ATRPeriod defaults to 20 and PositionSize to 100.
func FromConfig(cfg domain.StrategyConfig) (*FixedRRStrategy, error) {
	sizing, err := sizingFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	positionSize := domain.DefaultPositionSize
	if cfg.PositionSize != nil {
		positionSize = *cfg.PositionSize
	}

	s := NewFixedRRStrategy(sizing, positionSize)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func sizingFromConfig(cfg domain.StrategyConfig) (Sizing, error) {
	switch cfg.SizingMode {
	case domain.SizingFixedPercent:
		if cfg.TakeProfitPct == nil {
			return nil, ErrMissingTakeProfitPct
		}
		if cfg.StopLossPct == nil {
			return nil, ErrMissingStopLossPct
		}
		return FixedPercent{TakeProfitPct: *cfg.TakeProfitPct, StopLossPct: *cfg.StopLossPct}, nil

	case domain.SizingATRScaled:
		if cfg.RiskMultiplier == nil {
			return nil, ErrMissingRiskMultiplier
		}
		if cfg.RewardRatio == nil {
			return nil, ErrMissingRewardRatio
		}
		period := indicator.DefaultATRPeriod
		if cfg.ATRPeriod != nil {
			period = *cfg.ATRPeriod
		}
		return ATRScaled{Period: period, RiskMultiplier: *cfg.RiskMultiplier, RewardRatio: *cfg.RewardRatio}, nil

	default:
		return nil, ErrUnknownSizingMode
	}
}

// ParseSizingMode maps user-facing names ("fixed", "atr") to sizing modes.
// An empty name selects fixed-percent sizing.
func ParseSizingMode(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fixed", "fixed_percent", "percent":
		return domain.SizingFixedPercent, nil
	case "atr", "atr_scaled", "rr":
		return domain.SizingATRScaled, nil
	default:
		return "", ErrUnknownSizingMode
	}
}
