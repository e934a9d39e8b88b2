package clickhouse

import (
	"context"
	"fmt"
	"strconv"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// CandleStore implements storage.CandleStore using ClickHouse.
type CandleStore struct {
	conn *Conn
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(conn *Conn) *CandleStore {
	return &CandleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

const candleColumns = `exchange, symbol, interval, timestamp, open, high, low, close, volume, quote_volume`

type candleKey struct {
	exchange  string
	symbol    string
	interval  string
	timestamp int64
}

// InsertBulk adds multiple candles. Fails entire batch on duplicate key.
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
func (s *CandleStore) InsertBulk(ctx context.Context, candles []*domain.RawCandle) error {
	if len(candles) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[candleKey]struct{}, len(candles))
	timestamps := make([]int64, len(candles))
	for i, c := range candles {
		if c == nil || c.Symbol == "" {
			return storage.ErrInvalidInput
		}
		ts, err := strconv.ParseInt(c.Timestamp, 10, 64)
		if err != nil {
			return storage.ErrInvalidInput
		}
		k := candleKey{c.Exchange, c.Symbol, c.Interval, ts}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		timestamps[i] = ts
	}

	// Check for duplicates against existing rows
	for i, c := range candles {
		exists, err := s.exists(ctx, c, timestamps[i])
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO candle (`+candleColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, c := range candles {
		err = batch.Append(
			c.Exchange, c.Symbol, c.Interval, timestamps[i],
			c.Open, c.High, c.Low, c.Close, c.Volume, c.QuoteVolume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.RawCandle, error) {
	query := `SELECT ` + candleColumns + `
		FROM candle
		WHERE symbol = ?
		ORDER BY timestamp ASC`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetLatest retrieves the most recent limit candles, ordered by timestamp ASC.
func (s *CandleStore) GetLatest(ctx context.Context, symbol string, limit int) ([]*domain.RawCandle, error) {
	if limit < 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + candleColumns + ` FROM (
			SELECT ` + candleColumns + `
			FROM candle
			WHERE symbol = ?
			ORDER BY timestamp DESC
			LIMIT ?
		)
		ORDER BY timestamp ASC`

	rows, err := s.conn.Query(ctx, query, symbol, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetLatestPerSymbol retrieves the most recent candle of every symbol, ordered by symbol.
func (s *CandleStore) GetLatestPerSymbol(ctx context.Context) ([]*domain.RawCandle, error) {
	query := `SELECT ` + candleColumns + `
		FROM candle
		ORDER BY symbol ASC, timestamp DESC
		LIMIT 1 BY symbol`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest per symbol: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// Symbols returns the distinct symbols that have candles, sorted.
func (s *CandleStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT symbol FROM candle ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return symbols, nil
}

// exists checks if a candle with the given key exists.
func (s *CandleStore) exists(ctx context.Context, c *domain.RawCandle, ts int64) (bool, error) {
	query := `
		SELECT count(*) FROM candle
		WHERE exchange = ? AND symbol = ? AND interval = ? AND timestamp = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, c.Exchange, c.Symbol, c.Interval, ts).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanCandles scans multiple rows.
func scanCandles(rows chRows) ([]*domain.RawCandle, error) {
	candles := make([]*domain.RawCandle, 0)

	for rows.Next() {
		var c domain.RawCandle
		var ts int64

		err := rows.Scan(
			&c.Exchange, &c.Symbol, &c.Interval, &ts,
			&c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.QuoteVolume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candle row: %w", err)
		}

		c.Timestamp = strconv.FormatInt(ts, 10)
		candles = append(candles, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candle rows: %w", err)
	}

	return candles, nil
}
