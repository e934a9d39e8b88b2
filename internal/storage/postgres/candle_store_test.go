package postgres

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

func makeCandle(symbol string, ts int64, close string) *domain.RawCandle {
	return &domain.RawCandle{
		Exchange:    "kucoin",
		Symbol:      symbol,
		Interval:    "1hour",
		Timestamp:   strconv.FormatInt(ts, 10),
		Open:        close,
		High:        close,
		Low:         close,
		Close:       close,
		Volume:      "10",
		QuoteVolume: "100",
	}
}

func TestCandleStore_InsertBulkAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(pool)

	// Empty insert is a no-op
	require.NoError(t, store.InsertBulk(ctx, nil))

	err := store.InsertBulk(ctx, []*domain.RawCandle{
		makeCandle("BTC-USDT", 1000, "3"),
		makeCandle("BTC-USDT", 900, "1"),
		makeCandle("ETH-USDT", 950, "2"),
	})
	require.NoError(t, err)

	got, err := store.GetBySymbol(ctx, "BTC-USDT")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Numeric ordering: "900" before "1000"
	assert.Equal(t, "900", got[0].Timestamp)
	assert.Equal(t, "1000", got[1].Timestamp)
	assert.Equal(t, "100", got[0].QuoteVolume)
}

func TestCandleStore_InsertBulk_DuplicateRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.RawCandle{makeCandle("BTC-USDT", 1000, "1")}))

	err := store.InsertBulk(ctx, []*domain.RawCandle{
		makeCandle("BTC-USDT", 2000, "1"),
		makeCandle("BTC-USDT", 1000, "1"),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetBySymbol(ctx, "BTC-USDT")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCandleStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(pool)

	var batch []*domain.RawCandle
	for i := int64(1); i <= 5; i++ {
		batch = append(batch, makeCandle("BTC-USDT", i*3600, strconv.FormatInt(i, 10)))
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	got, err := store.GetLatest(ctx, "BTC-USDT", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "4", got[0].Close)
	assert.Equal(t, "5", got[1].Close)
}

func TestCandleStore_GetLatestPerSymbolAndSymbols(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.RawCandle{
		makeCandle("SOL-USDT", 100, "1"),
		makeCandle("BTC-USDT", 100, "2"),
		makeCandle("BTC-USDT", 200, "3"),
	}))

	latest, err := store.GetLatestPerSymbol(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "BTC-USDT", latest[0].Symbol)
	assert.Equal(t, "200", latest[0].Timestamp)

	symbols, err := store.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USDT", "SOL-USDT"}, symbols)
}
