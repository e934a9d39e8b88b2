package metrics

import (
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
)

func TestRank_SortsDescendingAndAssignsRanks(t *testing.T) {
	input := []domain.SymbolProfit{
		{Symbol: "ETH-USDT", Profit: 4},
		{Symbol: "BTC-USDT", Profit: 12.5},
		{Symbol: "SOL-USDT", Profit: -3},
	}

	r := Rank(input)

	want := []string{"BTC-USDT", "ETH-USDT", "SOL-USDT"}
	for i, row := range r.Rows {
		if row.Symbol != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], row.Symbol)
		}
		if row.Rank != i+1 {
			t.Errorf("row %d: expected rank %d, got %d", i, i+1, row.Rank)
		}
	}
	if r.TotalProfit != 13.5 {
		t.Errorf("expected total 13.5, got %f", r.TotalProfit)
	}
	if input[0].Symbol != "ETH-USDT" || input[0].Rank != 0 {
		t.Error("input slice was modified")
	}
}

func TestRank_TiesOrderedBySymbol(t *testing.T) {
	r := Rank([]domain.SymbolProfit{
		{Symbol: "XRP-USDT", Profit: 1},
		{Symbol: "ADA-USDT", Profit: 1},
	})

	if r.Rows[0].Symbol != "ADA-USDT" {
		t.Errorf("expected ADA-USDT first, got %s", r.Rows[0].Symbol)
	}
}

func TestRank_Empty(t *testing.T) {
	r := Rank(nil)

	if len(r.Rows) != 0 || r.TotalProfit != 0 {
		t.Errorf("expected empty ranking, got %+v", r)
	}
}
