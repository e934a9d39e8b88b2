package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
	"github.com/BizKey/webaggregator/internal/observability"
	"github.com/BizKey/webaggregator/internal/storage"
)

// loadCandles returns the full ascending history of a symbol.
// Returns storage.ErrNotFound if the symbol has no candles.
func (r *Runner) loadCandles(ctx context.Context, symbol string) ([]*domain.RawCandle, error) {
	start := time.Now()
	raw, err := r.candleStore.GetBySymbol(ctx, symbol)
	observability.RecordDBQuery(r.backend, "candles_by_symbol", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("load candles %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("candles for %s: %w", symbol, storage.ErrNotFound)
	}
	return raw, nil
}

// loadLatestCloses returns the closes of the last limit candles, ascending.
func (r *Runner) loadLatestCloses(ctx context.Context, symbol string, limit int) ([]float64, int64, error) {
	start := time.Now()
	raw, err := r.candleStore.GetLatest(ctx, symbol, limit)
	observability.RecordDBQuery(r.backend, "candles_latest", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, 0, fmt.Errorf("load latest candles %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, 0, fmt.Errorf("candles for %s: %w", symbol, storage.ErrNotFound)
	}

	closes, err := numeric.ParseCloses(raw)
	if err != nil {
		return nil, 0, err
	}
	last, err := lastTimestamp(raw)
	if err != nil {
		return nil, 0, err
	}
	return closes, last, nil
}

// loadSymbol returns the trading rules of a symbol.
func (r *Runner) loadSymbol(ctx context.Context, symbol string) (*domain.Symbol, error) {
	start := time.Now()
	sym, err := r.symbolStore.GetBySymbol(ctx, symbol)
	observability.RecordDBQuery(r.backend, "symbol_by_symbol", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("load symbol %s: %w", symbol, err)
	}
	return sym, nil
}

// lastTimestamp returns the timestamp of the final candle of an ascending series.
func lastTimestamp(raw []*domain.RawCandle) (int64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	c, err := numeric.ParseCandle(len(raw)-1, raw[len(raw)-1])
	if err != nil {
		return 0, err
	}
	return c.Timestamp, nil
}
