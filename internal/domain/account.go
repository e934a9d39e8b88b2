package domain

import "time"

// Balance is an account balance change event.
type Balance struct {
	Exchange        string    `json:"exchange"`
	AccountID       string    `json:"account_id"`
	Available       string    `json:"available"`
	AvailableChange string    `json:"available_change"`
	Currency        string    `json:"currency"`
	Hold            string    `json:"hold_value"`
	HoldChange      string    `json:"hold_change"`
	RelationEvent   string    `json:"relation_event"`
	RelationEventID string    `json:"relation_event_id"`
	EventTime       string    `json:"event_time"`
	Total           string    `json:"total"`
	Symbol          *string   `json:"symbol"`
	OrderID         *string   `json:"order_id"`
	TradeID         *string   `json:"trade_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Order is an order reference, either currently active or seen in the event stream.
type Order struct {
	Exchange string `json:"exchange"`
	OrderID  string `json:"order_id"`
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
}

// PositionAsset is a margin position asset line.
type PositionAsset struct {
	Exchange       string    `json:"exchange"`
	AssetSymbol    string    `json:"asset_symbol"`
	AssetTotal     string    `json:"asset_total"`
	AssetAvailable string    `json:"asset_available"`
	AssetHold      string    `json:"asset_hold"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PositionDebt is a margin position debt line.
type PositionDebt struct {
	Exchange   string    `json:"exchange"`
	DebtSymbol string    `json:"debt_symbol"`
	DebtValue  string    `json:"debt_value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PositionRatio is the overall margin account ratio snapshot.
type PositionRatio struct {
	Exchange                    string    `json:"exchange"`
	DebtRatio                   string    `json:"debt_ratio"`
	TotalAsset                  string    `json:"total_asset"`
	MarginCoefficientTotalAsset string    `json:"margin_coefficient_total_asset"`
	TotalDebt                   string    `json:"total_debt"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// Bot is a trading bot state row.
type Bot struct {
	Exchange  string    `json:"exchange"`
	EntryID   *string   `json:"entry_id"`
	ExitTPID  *string   `json:"exit_tp_id"`
	ExitSLID  *string   `json:"exit_sl_id"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is an informational message emitted by the trading services.
type Event struct {
	Exchange  string    `json:"exchange"`
	Message   string    `json:"msg"`
	Timestamp time.Time `json:"updated_at"`
}
