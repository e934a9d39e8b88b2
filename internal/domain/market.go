package domain

import "time"

// Ticker is exchange-published fee information for a trading pair.
type Ticker struct {
	Exchange         string  `json:"exchange"`
	Symbol           string  `json:"symbol"`
	SymbolName       string  `json:"symbol_name"`
	TakerFeeRate     *string `json:"taker_fee_rate"`
	MakerFeeRate     *string `json:"maker_fee_rate"`
	TakerCoefficient *string `json:"taker_coefficient"`
	MakerCoefficient *string `json:"maker_coefficient"`
}

// Symbol is the trading rules of a pair. Decimal values stay textual.
type Symbol struct {
	Exchange            string  `json:"exchange"`
	Symbol              string  `json:"symbol"`
	Name                string  `json:"name"`
	BaseCurrency        string  `json:"base_currency"`
	QuoteCurrency       string  `json:"quote_currency"`
	FeeCurrency         string  `json:"fee_currency"`
	Market              string  `json:"market"`
	BaseMinSize         string  `json:"base_min_size"`
	QuoteMinSize        string  `json:"quote_min_size"`
	BaseMaxSize         string  `json:"base_max_size"`
	QuoteMaxSize        string  `json:"quote_max_size"`
	BaseIncrement       string  `json:"base_increment"`
	QuoteIncrement      string  `json:"quote_increment"`
	PriceIncrement      string  `json:"price_increment"` // tick size, e.g. "0.001"
	PriceLimitRate      string  `json:"price_limit_rate"`
	MinFunds            *string `json:"min_funds"`
	IsMarginEnabled     bool    `json:"is_margin_enabled"`
	EnableTrading       bool    `json:"enable_trading"`
	FeeCategory         int16   `json:"fee_category"`
	MakerFeeCoefficient string  `json:"maker_fee_coefficient"`
	TakerFeeCoefficient string  `json:"taker_fee_coefficient"`
	ST                  bool    `json:"st"`
	TradingStartTime    *int64  `json:"trading_start_time"`
}

// Currency describes a single asset listed on an exchange.
type Currency struct {
	Exchange        string    `json:"exchange"`
	Currency        string    `json:"currency"`
	Name            string    `json:"currency_name"`
	FullName        string    `json:"full_name"`
	IsMarginEnabled bool      `json:"is_margin_enabled"`
	IsDebitEnabled  bool      `json:"is_debit_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Lend is a lending market snapshot for a currency.
type Lend struct {
	Exchange           string `json:"exchange"`
	Currency           string `json:"currency"`
	PurchaseEnable     bool   `json:"purchase_enable"`
	RedeemEnable       bool   `json:"redeem_enable"`
	Increment          string `json:"increment"`
	MinPurchaseSize    string `json:"min_purchase_size"`
	MaxPurchaseSize    string `json:"max_purchase_size"`
	InterestIncrement  string `json:"interest_increment"`
	MinInterestRate    string `json:"min_interest_rate"`
	MarketInterestRate string `json:"market_interest_rate"`
	MaxInterestRate    string `json:"max_interest_rate"`
	AutoPurchaseEnable bool   `json:"auto_purchase_enable"`
}

// Borrow is a borrow-rate snapshot for a currency.
type Borrow struct {
	Exchange             string `json:"exchange"`
	Currency             string `json:"currency"`
	HourlyBorrowRate     string `json:"hourly_borrow_rate"`
	AnnualizedBorrowRate string `json:"annualized_borrow_rate"`
}
