package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketStore_LendsAndBorrows(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO lend (exchange, currency, purchase_enable, redeem_enable, increment,
			min_purchase_size, max_purchase_size, interest_increment,
			min_interest_rate, market_interest_rate, max_interest_rate, auto_purchase_enable)
		VALUES
			('kucoin', 'USDT', true, true, '1', '10', '1000000', '0.0001', '0.0001', '0.0002', '0.01', false),
			('kucoin', 'BTC', true, true, '0.0001', '0.001', '100', '0.0001', '0.0001', '0.0003', '0.01', false),
			('kucoin', 'USDT', true, false, '1', '10', '1000000', '0.0001', '0.0001', '0.0004', '0.01', true)
	`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO borrow (exchange, currency, hourly_borrow_rate, annualized_borrow_rate)
		VALUES ('kucoin', 'BTC', '0.000001', '0.00876')
	`)
	require.NoError(t, err)

	store := NewMarketStore(pool)

	lends, err := store.Lends(ctx)
	require.NoError(t, err)
	require.Len(t, lends, 2)
	assert.Equal(t, "BTC", lends[0].Currency)
	assert.Equal(t, "USDT", lends[1].Currency)

	usdt, err := store.LendsByCurrency(ctx, "USDT")
	require.NoError(t, err)
	assert.Len(t, usdt, 2)

	borrows, err := store.Borrows(ctx)
	require.NoError(t, err)
	require.Len(t, borrows, 1)
	assert.Equal(t, "0.00876", borrows[0].AnnualizedBorrowRate)

	none, err := store.BorrowsByCurrency(ctx, "ETH")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMarketStore_TickersAndCurrencies(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO ticker (exchange, symbol, symbol_name, taker_fee_rate, maker_fee_rate)
		VALUES ('kucoin', 'BTC-USDT', 'BTC-USDT', '0.001', NULL)
	`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO currency (exchange, currency, currency_name, full_name, updated_at)
		VALUES
			('kucoin', 'BTC', 'BTC', 'Bitcoin', '2025-01-01T00:00:00Z'),
			('kucoin', 'ETH', 'ETH', 'Ethereum', '2025-01-02T00:00:00Z')
	`)
	require.NoError(t, err)

	store := NewMarketStore(pool)

	tickers, err := store.Tickers(ctx)
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	require.NotNil(t, tickers[0].TakerFeeRate)
	assert.Equal(t, "0.001", *tickers[0].TakerFeeRate)
	assert.Nil(t, tickers[0].MakerFeeRate)

	currencies, err := store.Currencies(ctx)
	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, "ETH", currencies[0].Currency)
}
