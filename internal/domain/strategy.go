package domain

// Side is the direction of a simulated position.
type Side string

// Position sides. Fixed risk:reward backtests alternate starting with Long.
const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Outcome is how a simulated trade resolved.
type Outcome string

// Trade outcomes.
const (
	OutcomeTakeProfit Outcome = "TAKE_PROFIT"
	OutcomeStopLoss   Outcome = "STOP_LOSS"
	OutcomeOpen       Outcome = "OPEN" // never resolved before the series ended
)

// Sizing modes for take-profit/stop-loss levels.
const (
	SizingFixedPercent = "FIXED_PERCENT"
	SizingATRScaled    = "ATR_SCALED"
)

// DefaultPositionSize is the notional used for realized P&L.
const DefaultPositionSize = 100.0

// StrategyRecord is one synthetic trade entered on the close of a candle.
// ResultProfit and ResultLoss are mutually exclusive and both zero when Open.
type StrategyRecord struct {
	Timestamp    int64   `json:"timestamp"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Side         Side    `json:"side"`
	EntryPrice   float64 `json:"entry_price"`
	ProfitPrice  float64 `json:"profit_price"` // rounded to the symbol tick
	LossPrice    float64 `json:"loss_price"`   // rounded to the symbol tick
	TakeProfitPc float64 `json:"take_profit_pct"`
	StopLossPc   float64 `json:"stop_loss_pct"`
	PositionSize float64 `json:"position_size"`
	Outcome      Outcome `json:"outcome"`
	ExitIndex    int     `json:"exit_index"` // -1 when Open
	ResultProfit float64 `json:"result_profit"`
	ResultLoss   float64 `json:"result_loss"`

	// Priced is false for bars entered during the ATR warm-up window in
	// ATR-scaled mode; such bars carry no levels and stay Open.
	Priced bool `json:"priced"`
}

// StrategySummary aggregates StrategyRecords for one symbol.
type StrategySummary struct {
	TotalProfit          float64 `json:"total_profit"`
	TotalLoss            float64 `json:"total_loss"`
	Net                  float64 `json:"total"`
	Trades               int     `json:"trades"`
	TakeProfits          int     `json:"take_profits"`
	StopLosses           int     `json:"stop_losses"`
	OpenTrades           int     `json:"open_trades"`
	WinRate              float64 `json:"win_rate"` // take profits / resolved trades
	MaxDrawdown          float64 `json:"max_drawdown"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// SymbolProfit is one row of the cross-symbol strategy ranking.
type SymbolProfit struct {
	Rank   int     `json:"rank"`
	Symbol string  `json:"symbol"`
	Profit float64 `json:"profit"` // net, rounded to 2dp
}

// SymbolFailure records a symbol excluded from a ranking because its data could not be evaluated.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// StrategyConfig represents sizing policy configuration parameters.
type StrategyConfig struct {
	SizingMode string // "FIXED_PERCENT" | "ATR_SCALED"

	// FIXED_PERCENT parameters
	TakeProfitPct *float64
	StopLossPct   *float64

	// ATR_SCALED parameters
	ATRPeriod      *int
	RiskMultiplier *float64
	RewardRatio    *float64

	// Common parameters
	PositionSize *float64
}
