package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

func testSymbol(symbol string) *domain.Symbol {
	return &domain.Symbol{
		Exchange:            "kucoin",
		Symbol:              symbol,
		Name:                symbol,
		BaseCurrency:        "BTC",
		QuoteCurrency:       "USDT",
		FeeCurrency:         "USDT",
		Market:              "USDS",
		BaseMinSize:         "0.00001",
		QuoteMinSize:        "0.1",
		BaseMaxSize:         "10000",
		QuoteMaxSize:        "99999999",
		BaseIncrement:       "0.00000001",
		QuoteIncrement:      "0.000001",
		PriceIncrement:      "0.1",
		PriceLimitRate:      "0.1",
		MinFunds:            ptr("0.1"),
		IsMarginEnabled:     true,
		EnableTrading:       true,
		FeeCategory:         1,
		MakerFeeCoefficient: "1.00",
		TakerFeeCoefficient: "1.00",
		TradingStartTime:    ptr(int64(1700000000000)),
	}
}

func TestSymbolStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSymbolStore(pool)

	sym := testSymbol("BTC-USDT")
	require.NoError(t, store.Insert(ctx, sym))

	got, err := store.GetBySymbol(ctx, "BTC-USDT")
	require.NoError(t, err)
	assert.Equal(t, sym.PriceIncrement, got.PriceIncrement)
	assert.Equal(t, sym.FeeCategory, got.FeeCategory)
	assert.Equal(t, sym.TakerFeeCoefficient, got.TakerFeeCoefficient)
	require.NotNil(t, got.MinFunds)
	assert.Equal(t, "0.1", *got.MinFunds)
	require.NotNil(t, got.TradingStartTime)
	assert.Equal(t, int64(1700000000000), *got.TradingStartTime)
}

func TestSymbolStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSymbolStore(pool)

	require.NoError(t, store.Insert(ctx, testSymbol("BTC-USDT")))
	assert.ErrorIs(t, store.Insert(ctx, testSymbol("BTC-USDT")), storage.ErrDuplicateKey)
}

func TestSymbolStore_GetBySymbol_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewSymbolStore(pool).GetBySymbol(context.Background(), "NOPE-USDT")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSymbolStore_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSymbolStore(pool)

	require.NoError(t, store.Insert(ctx, testSymbol("SOL-USDT")))
	require.NoError(t, store.Insert(ctx, testSymbol("BTC-USDT")))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "BTC-USDT", all[0].Symbol)
	assert.Equal(t, "SOL-USDT", all[1].Symbol)
}
