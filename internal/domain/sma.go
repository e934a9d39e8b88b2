package domain

// SMA sweep bounds, inclusive.
const (
	SMAMinPeriod = 2
	SMAMaxPeriod = 200
)

// SMAMinPrices is the minimum history required for best-period selection.
const SMAMinPrices = 24

// SMAResult is the backtest outcome of the price/SMA crossover rule for one period.
type SMAResult struct {
	Period           int     `json:"period"`
	TotalProfit      float64 `json:"total_profit"`      // sum of per-trade profit percentages
	ProfitPercentage float64 `json:"profit_percentage"` // mean per-trade profit percentage
	TradesCount      int     `json:"trades_count"`
	WinningTrades    int     `json:"winning_trades"`
}

// SweepSummary describes the distribution of total profit across a sweep.
type SweepSummary struct {
	Periods          int       `json:"periods"`
	ProfitablePeriod int       `json:"profitable_periods"`
	MeanProfit       float64   `json:"mean_profit"`
	MedianProfit     float64   `json:"median_profit"`
	P10Profit        float64   `json:"p10_profit"`
	P90Profit        float64   `json:"p90_profit"`
	StddevProfit     float64   `json:"stddev_profit"`
	Best             SMAResult `json:"best"`
}
