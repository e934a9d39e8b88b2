package reporting

import (
	"fmt"
	"strings"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/metrics"
	"github.com/BizKey/webaggregator/internal/numeric"
)

// RenderRankingCSV renders a strategy ranking as CSV string.
func RenderRankingCSV(r metrics.Ranking) string {
	var sb strings.Builder

	sb.WriteString("rank,symbol,profit\n")
	for _, row := range r.Rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%.2f\n", row.Rank, row.Symbol, row.Profit))
	}

	return sb.String()
}

// RenderStrategyCSV renders the trades of one symbol as CSV string.
func RenderStrategyCSV(records []domain.StrategyRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("timestamp,side,entry_price,profit_price,loss_price,")
	sb.WriteString("take_profit_pct,stop_loss_pct,outcome,exit_index,result_profit,result_loss\n")

	// Rows
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%s,%.2f,%.2f,%s,%d,%.2f,%.2f\n",
			r.Timestamp,
			r.Side,
			numeric.FormatShortest(r.EntryPrice),
			numeric.FormatShortest(r.ProfitPrice),
			numeric.FormatShortest(r.LossPrice),
			r.TakeProfitPc,
			r.StopLossPc,
			r.Outcome,
			r.ExitIndex,
			r.ResultProfit,
			r.ResultLoss,
		))
	}

	return sb.String()
}

// RenderSMACSV renders an SMA period sweep as CSV string.
func RenderSMACSV(results []domain.SMAResult) string {
	var sb strings.Builder

	sb.WriteString("period,total_profit,profit_percentage,trades_count,winning_trades\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f,%d,%d\n",
			r.Period, r.TotalProfit, r.ProfitPercentage, r.TradesCount, r.WinningTrades))
	}

	return sb.String()
}

// RenderBestSMACSV renders best SMA periods as CSV string.
// Symbols without a best period leave the numeric columns empty.
func RenderBestSMACSV(rows []BestSMARow) string {
	var sb strings.Builder

	sb.WriteString("symbol,status,prices,period,total_profit,profit_percentage,trades_count,winning_trades\n")
	for _, r := range rows {
		if r.Best == nil {
			sb.WriteString(fmt.Sprintf("%s,%s,%d,,,,,\n", r.Symbol, r.Status, r.Prices))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%.6f,%.6f,%d,%d\n",
			r.Symbol, r.Status, r.Prices,
			r.Best.Period, r.Best.TotalProfit, r.Best.ProfitPercentage,
			r.Best.TradesCount, r.Best.WinningTrades))
	}

	return sb.String()
}
