package storage

import (
	"context"

	"github.com/BizKey/webaggregator/internal/domain"
)

// CandleStore provides access to candle storage.
// Timestamps are unix seconds stored as text; ordering is numeric.
type CandleStore interface {
	// InsertBulk adds multiple candles atomically.
	// Fails entire batch on duplicate (exchange, symbol, interval, timestamp).
	InsertBulk(ctx context.Context, candles []*domain.RawCandle) error

	// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.RawCandle, error)

	// GetLatest retrieves the most recent limit candles for a symbol, ordered by timestamp ASC.
	GetLatest(ctx context.Context, symbol string, limit int) ([]*domain.RawCandle, error)

	// GetLatestPerSymbol retrieves the most recent candle of every symbol, ordered by symbol.
	GetLatestPerSymbol(ctx context.Context) ([]*domain.RawCandle, error)

	// Symbols returns the distinct symbols that have candles, sorted.
	Symbols(ctx context.Context) ([]string, error)
}

// SymbolStore provides access to trading rules per symbol.
type SymbolStore interface {
	// Insert adds a symbol. Returns ErrDuplicateKey if (exchange, symbol) exists.
	Insert(ctx context.Context, s *domain.Symbol) error

	// GetAll retrieves all symbols ordered by symbol.
	GetAll(ctx context.Context) ([]*domain.Symbol, error)

	// GetBySymbol retrieves a symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Symbol, error)
}

// MarketStore provides read access to exchange market reference data.
type MarketStore interface {
	Tickers(ctx context.Context) ([]*domain.Ticker, error)
	Currencies(ctx context.Context) ([]*domain.Currency, error)

	// Lends returns one row per currency.
	Lends(ctx context.Context) ([]*domain.Lend, error)
	LendsByCurrency(ctx context.Context, currency string) ([]*domain.Lend, error)

	// Borrows returns one row per currency.
	Borrows(ctx context.Context) ([]*domain.Borrow, error)
	BorrowsByCurrency(ctx context.Context, currency string) ([]*domain.Borrow, error)
}

// AccountStore provides read access to account and bot state.
// Rows carrying a timestamp are returned most recent first.
type AccountStore interface {
	Balances(ctx context.Context) ([]*domain.Balance, error)
	ActiveOrders(ctx context.Context) ([]*domain.Order, error)
	EventOrders(ctx context.Context) ([]*domain.Order, error)
	PositionAssets(ctx context.Context) ([]*domain.PositionAsset, error)
	PositionDebts(ctx context.Context) ([]*domain.PositionDebt, error)
	PositionRatios(ctx context.Context) ([]*domain.PositionRatio, error)
	Bots(ctx context.Context) ([]*domain.Bot, error)
	Events(ctx context.Context) ([]*domain.Event, error)
	Errors(ctx context.Context) ([]*domain.Event, error)
}

// StatsStore reports database activity counters.
type StatsStore interface {
	Stats(ctx context.Context) (*domain.DBStats, error)
}
