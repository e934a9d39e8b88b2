package strategy

import (
	"errors"
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFromConfig_FixedPercent(t *testing.T) {
	cfg := domain.StrategyConfig{
		SizingMode:    domain.SizingFixedPercent,
		TakeProfitPct: ptr(6.0),
		StopLossPct:   ptr(2.0),
	}

	s, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	fp, ok := s.Sizing.(FixedPercent)
	if !ok {
		t.Fatalf("expected FixedPercent, got %T", s.Sizing)
	}
	if fp.TakeProfitPct != 6 || fp.StopLossPct != 2 {
		t.Errorf("unexpected sizing %+v", fp)
	}
	if s.PositionSize != domain.DefaultPositionSize {
		t.Errorf("expected default position size, got %v", s.PositionSize)
	}
}

func TestFromConfig_ATRScaled(t *testing.T) {
	cfg := domain.StrategyConfig{
		SizingMode:     domain.SizingATRScaled,
		RiskMultiplier: ptr(2.0),
		RewardRatio:    ptr(3.0),
		PositionSize:   ptr(250.0),
	}

	s, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	as, ok := s.Sizing.(ATRScaled)
	if !ok {
		t.Fatalf("expected ATRScaled, got %T", s.Sizing)
	}
	if as.Period != 20 {
		t.Errorf("expected default period 20, got %d", as.Period)
	}
	if as.RiskMultiplier != 2 || as.RewardRatio != 3 {
		t.Errorf("unexpected sizing %+v", as)
	}
	if s.PositionSize != 250 {
		t.Errorf("expected position size 250, got %v", s.PositionSize)
	}
}

func TestFromConfig_MissingParams(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.StrategyConfig
		want error
	}{
		{"unknown mode", domain.StrategyConfig{SizingMode: "MARTINGALE"}, ErrUnknownSizingMode},
		{"missing tp", domain.StrategyConfig{SizingMode: domain.SizingFixedPercent, StopLossPct: ptr(2.0)}, ErrMissingTakeProfitPct},
		{"missing sl", domain.StrategyConfig{SizingMode: domain.SizingFixedPercent, TakeProfitPct: ptr(6.0)}, ErrMissingStopLossPct},
		{"missing risk", domain.StrategyConfig{SizingMode: domain.SizingATRScaled, RewardRatio: ptr(3.0)}, ErrMissingRiskMultiplier},
		{"missing reward", domain.StrategyConfig{SizingMode: domain.SizingATRScaled, RiskMultiplier: ptr(2.0)}, ErrMissingRewardRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromConfig_DegenerateValues(t *testing.T) {
	cfg := domain.StrategyConfig{
		SizingMode:     domain.SizingATRScaled,
		ATRPeriod:      ptr(0),
		RiskMultiplier: ptr(2.0),
		RewardRatio:    ptr(3.0),
	}
	if _, err := FromConfig(cfg); !errors.Is(err, domain.ErrDegenerateParameter) {
		t.Errorf("expected ErrDegenerateParameter, got %v", err)
	}
}

func TestParseSizingMode(t *testing.T) {
	tests := map[string]string{
		"":      domain.SizingFixedPercent,
		"fixed": domain.SizingFixedPercent,
		"ATR":   domain.SizingATRScaled,
		" rr ":  domain.SizingATRScaled,
	}
	for in, want := range tests {
		got, err := ParseSizingMode(in)
		if err != nil {
			t.Errorf("ParseSizingMode(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSizingMode(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseSizingMode("kelly"); !errors.Is(err, ErrUnknownSizingMode) {
		t.Errorf("expected ErrUnknownSizingMode, got %v", err)
	}
}
