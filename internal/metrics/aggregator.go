package metrics

import (
	"sort"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// Ranking is the cross-symbol strategy leaderboard.
type Ranking struct {
	Rows        []domain.SymbolProfit  `json:"rows"`
	TotalProfit float64                `json:"total_profit"`
	Failed      []domain.SymbolFailure `json:"failed,omitempty"`
}

// Rank orders per-symbol net profits descending and assigns 1-based ranks.
// Equal profits are ordered by symbol for deterministic output.
// The input slice is not modified.
func Rank(profits []domain.SymbolProfit) Ranking {
	rows := make([]domain.SymbolProfit, len(profits))
	copy(rows, profits)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Profit != rows[j].Profit {
			return rows[i].Profit > rows[j].Profit
		}
		return rows[i].Symbol < rows[j].Symbol
	})

	total := 0.0
	for i := range rows {
		rows[i].Rank = i + 1
		total += rows[i].Profit
	}

	return Ranking{
		Rows:        rows,
		TotalProfit: numeric.RoundToDecimal(total, 2),
	}
}
