package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// CandleStore implements storage.CandleStore using PostgreSQL.
type CandleStore struct {
	pool *Pool
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(pool *Pool) *CandleStore {
	return &CandleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

const candleColumns = `exchange, symbol, interval, timestamp, open, high, low, close, volume, quote_volume`

// InsertBulk adds multiple candles atomically. Fails entire batch on any duplicate.
func (s *CandleStore) InsertBulk(ctx context.Context, candles []*domain.RawCandle) error {
	if len(candles) == 0 {
		return nil
	}
	for _, c := range candles {
		if c == nil || c.Symbol == "" {
			return storage.ErrInvalidInput
		}
		if _, err := strconv.ParseInt(c.Timestamp, 10, 64); err != nil {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO candle (` + candleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	batch := &pgx.Batch{}
	for _, c := range candles {
		batch.Queue(query,
			c.Exchange, c.Symbol, c.Interval, c.Timestamp,
			c.Open, c.High, c.Low, c.Close, c.Volume, c.QuoteVolume,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range candles {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert candle: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.RawCandle, error) {
	query := `SELECT ` + candleColumns + `
		FROM candle
		WHERE symbol = $1
		ORDER BY timestamp::BIGINT ASC`

	return s.queryCandles(ctx, query, symbol)
}

// GetLatest retrieves the most recent limit candles, ordered by timestamp ASC.
func (s *CandleStore) GetLatest(ctx context.Context, symbol string, limit int) ([]*domain.RawCandle, error) {
	if limit < 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + candleColumns + ` FROM (
			SELECT ` + candleColumns + `
			FROM candle
			WHERE symbol = $1
			ORDER BY timestamp::BIGINT DESC
			LIMIT $2
		) AS latest
		ORDER BY timestamp::BIGINT ASC`

	return s.queryCandles(ctx, query, symbol, limit)
}

// GetLatestPerSymbol retrieves the most recent candle of every symbol, ordered by symbol.
func (s *CandleStore) GetLatestPerSymbol(ctx context.Context) ([]*domain.RawCandle, error) {
	query := `SELECT DISTINCT ON (symbol) ` + candleColumns + `
		FROM candle
		ORDER BY symbol, timestamp::BIGINT DESC`

	return s.queryCandles(ctx, query)
}

// Symbols returns the distinct symbols that have candles, sorted.
func (s *CandleStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT symbol FROM candle GROUP BY symbol ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query candle symbols: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan candle symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candle symbols: %w", err)
	}
	return symbols, nil
}

func (s *CandleStore) queryCandles(ctx context.Context, query string, args ...any) ([]*domain.RawCandle, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	candles := make([]*domain.RawCandle, 0)
	for rows.Next() {
		c, err := scanCandle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candles: %w", err)
	}
	return candles, nil
}

// scanCandle scans a single row into RawCandle.
func scanCandle(row pgx.Row) (*domain.RawCandle, error) {
	var c domain.RawCandle

	err := row.Scan(
		&c.Exchange, &c.Symbol, &c.Interval, &c.Timestamp,
		&c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.QuoteVolume,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
