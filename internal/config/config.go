// Package config loads server and command configuration from a YAML file,
// a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/strategy"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete application configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Strategy StrategyConfig `yaml:"strategy"`
	SMA      SMAConfig      `yaml:"sma"`
	DVA      DVAConfig      `yaml:"dva"`
	Report   ReportConfig   `yaml:"report"`
}

// HTTPConfig controls the API server.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ComputeRPS   float64       `yaml:"compute_rps"` // token refill rate for compute endpoints
	ComputeBurst int           `yaml:"compute_burst"`
}

// StorageConfig selects and connects the backends.
type StorageConfig struct {
	PostgresDSN   string        `yaml:"postgres_dsn"`
	ClickHouseDSN string        `yaml:"clickhouse_dsn"` // optional candle backend
	UseMemory     bool          `yaml:"use_memory"`
	Migrate       bool          `yaml:"migrate"`
	ConnectRetry  time.Duration `yaml:"connect_retry"` // max elapsed time for startup retries
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// StrategyConfig holds the default fixed risk:reward parameters.
type StrategyConfig struct {
	TakeProfitPct  float64 `yaml:"take_profit_pct"`
	StopLossPct    float64 `yaml:"stop_loss_pct"`
	PositionSize   float64 `yaml:"position_size"`
	ATRPeriod      int     `yaml:"atr_period"`
	RiskMultiplier float64 `yaml:"risk_multiplier"`
	RewardRatio    float64 `yaml:"reward_ratio"`
	Workers        int     `yaml:"workers"`
}

// SMAConfig controls the SMA crossover sweep inputs.
type SMAConfig struct {
	CandleLimit int `yaml:"candle_limit"`
	MinPrices   int `yaml:"min_prices"`
}

// DVAConfig holds the default value averaging parameters.
type DVAConfig struct {
	TargetIncrement float64 `yaml:"target_increment"`
	CommissionRate  float64 `yaml:"commission_rate"`
}

// ReportConfig controls scheduled report generation. A zero Interval disables it.
type ReportConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Interval  time.Duration `yaml:"interval"`
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads the YAML file at path (skipped when path is empty), loads .env if
// present, applies environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides replaces values with environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickHouseDSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills zero values.
func setDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ReadTimeout <= 0 {
		cfg.HTTP.ReadTimeout = 10 * time.Second
	}
	if cfg.HTTP.WriteTimeout <= 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.ComputeRPS <= 0 {
		cfg.HTTP.ComputeRPS = 2
	}
	if cfg.HTTP.ComputeBurst <= 0 {
		cfg.HTTP.ComputeBurst = 5
	}
	if cfg.Storage.ConnectRetry <= 0 {
		cfg.Storage.ConnectRetry = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Strategy.TakeProfitPct == 0 {
		cfg.Strategy.TakeProfitPct = 6
	}
	if cfg.Strategy.StopLossPct == 0 {
		cfg.Strategy.StopLossPct = 2
	}
	if cfg.Strategy.PositionSize == 0 {
		cfg.Strategy.PositionSize = domain.DefaultPositionSize
	}
	if cfg.Strategy.ATRPeriod == 0 {
		cfg.Strategy.ATRPeriod = 20
	}
	if cfg.Strategy.RiskMultiplier == 0 {
		cfg.Strategy.RiskMultiplier = 2
	}
	if cfg.Strategy.RewardRatio == 0 {
		cfg.Strategy.RewardRatio = 3
	}
	if cfg.Strategy.Workers <= 0 {
		cfg.Strategy.Workers = 4
	}
	if cfg.SMA.CandleLimit <= 0 {
		cfg.SMA.CandleLimit = 1000
	}
	if cfg.SMA.MinPrices <= 0 {
		cfg.SMA.MinPrices = domain.SMAMinPrices
	}
	if cfg.DVA.TargetIncrement == 0 {
		cfg.DVA.TargetIncrement = 10
	}
	if cfg.DVA.CommissionRate == 0 {
		cfg.DVA.CommissionRate = 0.001
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}
}

// UsesMemory reports whether the in-process stores should be used.
func (c *Config) UsesMemory() bool {
	return c.Storage.UseMemory || c.Storage.PostgresDSN == ""
}

// FixedPercent returns the FIXED_PERCENT strategy configuration.
func (c *Config) FixedPercent() domain.StrategyConfig {
	s := c.Strategy
	return domain.StrategyConfig{
		SizingMode:    domain.SizingFixedPercent,
		TakeProfitPct: &s.TakeProfitPct,
		StopLossPct:   &s.StopLossPct,
		PositionSize:  &s.PositionSize,
	}
}

// ATRScaled returns the ATR_SCALED strategy configuration.
func (c *Config) ATRScaled() domain.StrategyConfig {
	s := c.Strategy
	return domain.StrategyConfig{
		SizingMode:     domain.SizingATRScaled,
		ATRPeriod:      &s.ATRPeriod,
		RiskMultiplier: &s.RiskMultiplier,
		RewardRatio:    &s.RewardRatio,
		PositionSize:   &s.PositionSize,
	}
}

// Validate rejects configurations the strategies or server cannot run with.
func (c *Config) Validate() error {
	if _, err := strategy.FromConfig(c.FixedPercent()); err != nil {
		return fmt.Errorf("%w: strategy: %v", ErrInvalidConfig, err)
	}
	if _, err := strategy.FromConfig(c.ATRScaled()); err != nil {
		return fmt.Errorf("%w: strategy: %v", ErrInvalidConfig, err)
	}
	if c.SMA.MinPrices < domain.SMAMinPrices {
		return fmt.Errorf("%w: sma.min_prices must be at least %d", ErrInvalidConfig, domain.SMAMinPrices)
	}
	if c.DVA.TargetIncrement <= 0 {
		return fmt.Errorf("%w: dva.target_increment must be positive", ErrInvalidConfig)
	}
	if c.DVA.CommissionRate < 0 || c.DVA.CommissionRate >= 1 {
		return fmt.Errorf("%w: dva.commission_rate must be in [0, 1)", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Report.Interval < 0 {
		return fmt.Errorf("%w: report.interval must not be negative", ErrInvalidConfig)
	}
	return nil
}
