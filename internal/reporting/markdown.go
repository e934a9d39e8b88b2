package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Strategy Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Strategy: %s | Symbols: %d | Excluded: %d\n\n",
		r.StrategyID, len(r.Ranking.Rows), len(r.Ranking.Failed)))
	sb.WriteString(fmt.Sprintf("Report ID: `%s`\n\n", r.ReportID))

	// Ranking
	sb.WriteString("## Ranking\n\n")
	if len(r.Ranking.Rows) > 0 {
		sb.WriteString("| Rank | Symbol | Profit |\n")
		sb.WriteString("|------|--------|--------|\n")
		for _, row := range r.Ranking.Rows {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f |\n", row.Rank, row.Symbol, row.Profit))
		}
		sb.WriteString(fmt.Sprintf("\n**Total: %.2f**\n", r.Ranking.TotalProfit))
	} else {
		sb.WriteString("No symbols with candles.\n")
	}
	sb.WriteString("\n")

	// Excluded symbols are only shown when present
	if len(r.Ranking.Failed) > 0 {
		sb.WriteString("### Excluded Symbols\n\n")
		for _, f := range r.Ranking.Failed {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", f.Symbol, f.Error))
		}
		sb.WriteString("\n")
	}

	// Best SMA
	sb.WriteString("## Best SMA Periods\n\n")
	if len(r.BestSMA) > 0 {
		sb.WriteString("| Symbol | Prices | Period | TotalProfit | AvgProfit | Trades | Wins |\n")
		sb.WriteString("|--------|--------|--------|-------------|-----------|--------|------|\n")
		for _, row := range r.BestSMA {
			if row.Best == nil {
				note := row.Status
				if row.Error != "" {
					note = row.Error
				}
				sb.WriteString(fmt.Sprintf("| %s | %d | %s | - | - | - | - |\n", row.Symbol, row.Prices, note))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.4f | %d | %d |\n",
				row.Symbol, row.Prices, row.Best.Period,
				row.Best.TotalProfit, row.Best.ProfitPercentage,
				row.Best.TradesCount, row.Best.WinningTrades))
		}
	} else {
		sb.WriteString("No SMA results available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderDVAMarkdown renders a value averaging result for one symbol.
func RenderDVAMarkdown(symbol string, targetIncrement float64, v domain.DvaView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# DVA %s\n\n", symbol))
	sb.WriteString(fmt.Sprintf("Target increment: %g | Commission: %g | Periods: %d\n\n",
		targetIncrement, v.CommissionRate, v.Periods))

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Gross Spent | %s |\n", v.TotalGrossSpent))
	sb.WriteString(fmt.Sprintf("| Gross Received | %s |\n", v.TotalGrossReceived))
	sb.WriteString(fmt.Sprintf("| Net Invested | %s |\n", v.NetInvested))
	sb.WriteString(fmt.Sprintf("| Final Asset Amount | %s |\n", v.FinalAssetAmount))
	sb.WriteString(fmt.Sprintf("| Final Price | %s |\n", v.FinalPrice))
	sb.WriteString(fmt.Sprintf("| Final Value | %s |\n", v.FinalValue))
	sb.WriteString(fmt.Sprintf("| Profit | %s |\n", v.Profit))
	sb.WriteString(fmt.Sprintf("| ROI | %s |\n", v.ROI))

	return sb.String()
}
