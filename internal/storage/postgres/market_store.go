package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// MarketStore implements storage.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

const (
	lendColumns = `exchange, currency, purchase_enable, redeem_enable, increment,
		min_purchase_size, max_purchase_size, interest_increment,
		min_interest_rate, market_interest_rate, max_interest_rate,
		auto_purchase_enable`
	borrowColumns = `exchange, currency, hourly_borrow_rate, annualized_borrow_rate`
)

func (s *MarketStore) Tickers(ctx context.Context) ([]*domain.Ticker, error) {
	query := `
		SELECT exchange, symbol, symbol_name, taker_fee_rate,
			maker_fee_rate, taker_coefficient, maker_coefficient
		FROM ticker
	`
	return queryAll(ctx, s.pool, "tickers", query, scanTicker)
}

// Currencies returns currencies, most recently updated first.
func (s *MarketStore) Currencies(ctx context.Context) ([]*domain.Currency, error) {
	query := `
		SELECT exchange, currency, currency_name, full_name,
			is_margin_enabled, is_debit_enabled, updated_at
		FROM currency
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "currencies", query, scanCurrency)
}

// Lends returns one row per currency.
func (s *MarketStore) Lends(ctx context.Context) ([]*domain.Lend, error) {
	query := `SELECT DISTINCT ON (currency) ` + lendColumns + ` FROM lend ORDER BY currency`
	return queryAll(ctx, s.pool, "lends", query, scanLend)
}

func (s *MarketStore) LendsByCurrency(ctx context.Context, currency string) ([]*domain.Lend, error) {
	query := `SELECT ` + lendColumns + ` FROM lend WHERE currency = $1`
	return queryAll(ctx, s.pool, "lends by currency", query, scanLend, currency)
}

// Borrows returns one row per currency.
func (s *MarketStore) Borrows(ctx context.Context) ([]*domain.Borrow, error) {
	query := `SELECT DISTINCT ON (currency) ` + borrowColumns + ` FROM borrow ORDER BY currency`
	return queryAll(ctx, s.pool, "borrows", query, scanBorrow)
}

func (s *MarketStore) BorrowsByCurrency(ctx context.Context, currency string) ([]*domain.Borrow, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow WHERE currency = $1`
	return queryAll(ctx, s.pool, "borrows by currency", query, scanBorrow, currency)
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, pool *Pool, what, query string, scan func(pgx.Row) (*T, error), args ...any) ([]*T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	result := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return result, nil
}

func scanTicker(row pgx.Row) (*domain.Ticker, error) {
	var t domain.Ticker
	err := row.Scan(
		&t.Exchange, &t.Symbol, &t.SymbolName, &t.TakerFeeRate,
		&t.MakerFeeRate, &t.TakerCoefficient, &t.MakerCoefficient,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var c domain.Currency
	err := row.Scan(
		&c.Exchange, &c.Currency, &c.Name, &c.FullName,
		&c.IsMarginEnabled, &c.IsDebitEnabled, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanLend(row pgx.Row) (*domain.Lend, error) {
	var l domain.Lend
	err := row.Scan(
		&l.Exchange, &l.Currency, &l.PurchaseEnable, &l.RedeemEnable, &l.Increment,
		&l.MinPurchaseSize, &l.MaxPurchaseSize, &l.InterestIncrement,
		&l.MinInterestRate, &l.MarketInterestRate, &l.MaxInterestRate,
		&l.AutoPurchaseEnable,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanBorrow(row pgx.Row) (*domain.Borrow, error) {
	var b domain.Borrow
	if err := row.Scan(&b.Exchange, &b.Currency, &b.HourlyBorrowRate, &b.AnnualizedBorrowRate); err != nil {
		return nil, err
	}
	return &b, nil
}
