package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// SymbolStore implements storage.SymbolStore using PostgreSQL.
type SymbolStore struct {
	pool *Pool
}

// NewSymbolStore creates a new SymbolStore.
func NewSymbolStore(pool *Pool) *SymbolStore {
	return &SymbolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SymbolStore = (*SymbolStore)(nil)

const symbolColumns = `
	exchange, symbol, name, base_currency, quote_currency, fee_currency,
	market, base_min_size, quote_min_size, base_max_size, quote_max_size,
	base_increment, quote_increment, price_increment, price_limit_rate,
	min_funds, is_margin_enabled, enable_trading, fee_category,
	maker_fee_coefficient, taker_fee_coefficient, st, trading_start_time`

// Insert adds a symbol. Returns ErrDuplicateKey if (exchange, symbol) exists.
func (s *SymbolStore) Insert(ctx context.Context, m *domain.Symbol) error {
	if m == nil || m.Symbol == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO symbol (` + symbolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := s.pool.Exec(ctx, query,
		m.Exchange, m.Symbol, m.Name, m.BaseCurrency, m.QuoteCurrency, m.FeeCurrency,
		m.Market, m.BaseMinSize, m.QuoteMinSize, m.BaseMaxSize, m.QuoteMaxSize,
		m.BaseIncrement, m.QuoteIncrement, m.PriceIncrement, m.PriceLimitRate,
		m.MinFunds, m.IsMarginEnabled, m.EnableTrading, m.FeeCategory,
		m.MakerFeeCoefficient, m.TakerFeeCoefficient, m.ST, m.TradingStartTime,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert symbol: %w", err)
	}
	return nil
}

// GetAll retrieves all symbols ordered by symbol.
func (s *SymbolStore) GetAll(ctx context.Context) ([]*domain.Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbol ORDER BY symbol, exchange`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Symbol, 0)
	for rows.Next() {
		m, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return result, nil
}

// GetBySymbol retrieves a symbol. Returns ErrNotFound if not exists.
func (s *SymbolStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbol WHERE symbol = $1 ORDER BY exchange LIMIT 1`

	row := s.pool.QueryRow(ctx, query, symbol)
	m, err := scanSymbol(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get symbol: %w", err)
	}
	return m, nil
}

// scanSymbol scans a single row into Symbol.
func scanSymbol(row pgx.Row) (*domain.Symbol, error) {
	var m domain.Symbol

	err := row.Scan(
		&m.Exchange, &m.Symbol, &m.Name, &m.BaseCurrency, &m.QuoteCurrency, &m.FeeCurrency,
		&m.Market, &m.BaseMinSize, &m.QuoteMinSize, &m.BaseMaxSize, &m.QuoteMaxSize,
		&m.BaseIncrement, &m.QuoteIncrement, &m.PriceIncrement, &m.PriceLimitRate,
		&m.MinFunds, &m.IsMarginEnabled, &m.EnableTrading, &m.FeeCategory,
		&m.MakerFeeCoefficient, &m.TakerFeeCoefficient, &m.ST, &m.TradingStartTime,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
