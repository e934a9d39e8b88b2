package domain

// RawCandle is a candle row as persisted: every numeric field is a decimal string.
// Corresponds to the candle table.
type RawCandle struct {
	Exchange    string `json:"exchange"`
	Symbol      string `json:"symbol"`
	Interval    string `json:"interval"`
	Timestamp   string `json:"timestamp"` // unix seconds as text
	Open        string `json:"open"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Close       string `json:"close"`
	Volume      string `json:"volume"`
	QuoteVolume string `json:"quote_volume"`
}

// Candle is a parsed OHLC bar. Prices are positive and Low <= Open, Close <= High.
type Candle struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// CandleATR is a candle annotated with its volatility as a percentage of close.
// ATRPercent is nil during the indicator warm-up window.
type CandleATR struct {
	RawCandle
	ATR        *float64 `json:"atr,omitempty"`
	ATRPercent *float64 `json:"atr_percent"`
}
