package memory

import (
	"context"
	"testing"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
)

func TestMarketStore_LendsDistinctByCurrency(t *testing.T) {
	store := NewMarketStore()
	ctx := context.Background()

	store.Load(MarketSnapshot{
		Lends: []*domain.Lend{
			{Exchange: "kucoin", Currency: "USDT", MarketInterestRate: "0.0001"},
			{Exchange: "kucoin", Currency: "BTC", MarketInterestRate: "0.0002"},
			{Exchange: "other", Currency: "USDT", MarketInterestRate: "0.0003"},
		},
	})

	lends, err := store.Lends(ctx)
	if err != nil {
		t.Fatalf("Lends failed: %v", err)
	}
	if len(lends) != 2 {
		t.Fatalf("expected 2 distinct currencies, got %d", len(lends))
	}
	if lends[0].Currency != "BTC" || lends[1].Currency != "USDT" {
		t.Errorf("expected ordering by currency, got %s, %s", lends[0].Currency, lends[1].Currency)
	}

	usdt, err := store.LendsByCurrency(ctx, "USDT")
	if err != nil {
		t.Fatalf("LendsByCurrency failed: %v", err)
	}
	if len(usdt) != 2 {
		t.Errorf("expected 2 USDT rows, got %d", len(usdt))
	}
}

func TestMarketStore_BorrowsByCurrency_Unknown(t *testing.T) {
	store := NewMarketStore()
	store.Load(MarketSnapshot{
		Borrows: []*domain.Borrow{{Exchange: "kucoin", Currency: "BTC", HourlyBorrowRate: "0.00001"}},
	})

	got, err := store.BorrowsByCurrency(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("BorrowsByCurrency failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestMarketStore_CurrenciesNewestFirst(t *testing.T) {
	store := NewMarketStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	store.Load(MarketSnapshot{
		Currencies: []*domain.Currency{
			{Currency: "BTC", UpdatedAt: base},
			{Currency: "ETH", UpdatedAt: base.Add(time.Hour)},
		},
	})

	got, err := store.Currencies(context.Background())
	if err != nil {
		t.Fatalf("Currencies failed: %v", err)
	}
	if got[0].Currency != "ETH" {
		t.Errorf("expected ETH first, got %s", got[0].Currency)
	}
}
