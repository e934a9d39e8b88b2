// Package console prints computation reports as tables for the command-line tools.
package console

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
	"github.com/BizKey/webaggregator/internal/reporting"
	"github.com/BizKey/webaggregator/internal/simulation"
)

// Printer writes report tables to an output stream.
type Printer struct {
	out  io.Writer
	rows int // trailing rows shown for long series, 0 shows all
}

// NewPrinter creates a Printer showing at most rows entries of long series.
func NewPrinter(out io.Writer, rows int) *Printer {
	return &Printer{out: out, rows: rows}
}

// tail returns the index of the first row to show out of n.
func (p *Printer) tail(n int) int {
	if p.rows <= 0 || n <= p.rows {
		return 0
	}
	return n - p.rows
}

func optional(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return numeric.FormatFixed(*v, places)
}

// Candles prints the newest candles with their ATR.
func (p *Printer) Candles(r *simulation.CandleReport) {
	fmt.Fprintf(p.out, "\n%s: %d candles, ATR(%d)\n", r.Symbol, len(r.Candles), r.Period)

	n := len(r.Candles)
	if p.rows > 0 && n > p.rows {
		n = p.rows
	}

	table := tablewriter.NewWriter(p.out)
	table.Header("Timestamp", "Open", "High", "Low", "Close", "ATR", "ATR%")
	for _, c := range r.Candles[:n] {
		table.Append(c.Timestamp, c.Open, c.High, c.Low, c.Close, optional(c.ATR, 6), optional(c.ATRPercent, 2))
	}
	table.Render()
}

// Strategy prints the summary and latest trades of a fixed risk:reward backtest.
func (p *Printer) Strategy(r *simulation.StrategyReport) {
	s := r.Summary
	fmt.Fprintf(p.out, "\n%s %s\n", r.Symbol, r.StrategyID)
	fmt.Fprintf(p.out, "  Trades: %d (TP %d / SL %d / open %d)  Win rate: %.2f%%\n",
		s.Trades, s.TakeProfits, s.StopLosses, s.OpenTrades, s.WinRate*100)
	fmt.Fprintf(p.out, "  Profit: %.2f  Loss: %.2f  Net: %.2f  Max DD: %.2f  Max losing streak: %d\n\n",
		s.TotalProfit, s.TotalLoss, s.Net, s.MaxDrawdown, s.MaxConsecutiveLosses)

	table := tablewriter.NewWriter(p.out)
	table.Header("Timestamp", "Side", "Entry", "TP", "SL", "Outcome", "Exit", "Profit", "Loss")
	for _, rec := range r.Records[p.tail(len(r.Records)):] {
		exit := "-"
		if rec.ExitIndex >= 0 {
			exit = fmt.Sprintf("%d", rec.ExitIndex)
		}
		tp, sl := "-", "-"
		if rec.Priced {
			tp = numeric.FormatShortest(rec.ProfitPrice)
			sl = numeric.FormatShortest(rec.LossPrice)
		}
		table.Append(
			fmt.Sprintf("%d", rec.Timestamp),
			string(rec.Side),
			numeric.FormatShortest(rec.EntryPrice),
			tp,
			sl,
			string(rec.Outcome),
			exit,
			fmt.Sprintf("%.2f", rec.ResultProfit),
			fmt.Sprintf("%.2f", rec.ResultLoss),
		)
	}
	table.Render()
}

// Ranking prints symbols ranked by net profit and any excluded symbols.
func (p *Printer) Ranking(r *simulation.RankingReport) {
	fmt.Fprintf(p.out, "\n%s: %d symbols\n", r.StrategyID, len(r.Rows))

	table := tablewriter.NewWriter(p.out)
	table.Header("Rank", "Symbol", "Profit")
	for _, row := range r.Rows {
		table.Append(fmt.Sprintf("%d", row.Rank), row.Symbol, fmt.Sprintf("%.2f", row.Profit))
	}
	table.Render()

	fmt.Fprintf(p.out, "  Total: %.2f\n", r.TotalProfit)
	for _, f := range r.Failed {
		fmt.Fprintf(p.out, "  excluded %s: %s\n", f.Symbol, f.Error)
	}
}

// SMA prints an SMA period sweep and its distribution summary.
func (p *Printer) SMA(r *simulation.SMAReport) {
	s := r.Summary
	fmt.Fprintf(p.out, "\n%s: %d closes, commission %g\n", r.Symbol, r.Prices, r.CommissionRate)
	fmt.Fprintf(p.out, "  Profitable periods: %d/%d  Mean: %.4f  Median: %.4f  P10: %.4f  P90: %.4f\n\n",
		s.ProfitablePeriod, s.Periods, s.MeanProfit, s.MedianProfit, s.P10Profit, s.P90Profit)

	table := tablewriter.NewWriter(p.out)
	table.Header("Period", "Total", "Avg", "Trades", "Wins")
	for _, res := range r.Results[p.tail(len(r.Results)):] {
		appendSMA(table, res)
	}
	table.Render()
}

func appendSMA(table *tablewriter.Table, res domain.SMAResult) {
	table.Append(
		fmt.Sprintf("%d", res.Period),
		fmt.Sprintf("%.4f", res.TotalProfit),
		fmt.Sprintf("%.4f", res.ProfitPercentage),
		fmt.Sprintf("%d", res.TradesCount),
		fmt.Sprintf("%d", res.WinningTrades),
	)
}

// BestSMA prints the best SMA period of one symbol.
func (p *Printer) BestSMA(r *simulation.BestSMAReport) {
	if r.Best == nil {
		fmt.Fprintf(p.out, "\n%s: %s (%d closes, %d required)\n", r.Symbol, r.Status, r.Prices, r.Required)
		return
	}
	fmt.Fprintf(p.out, "\n%s: best SMA period over %d closes\n", r.Symbol, r.Prices)

	table := tablewriter.NewWriter(p.out)
	table.Header("Period", "Total", "Avg", "Trades", "Wins")
	appendSMA(table, *r.Best)
	table.Render()
}

// BestSMARows prints the best SMA period of several symbols.
func (p *Printer) BestSMARows(rows []reporting.BestSMARow) {
	table := tablewriter.NewWriter(p.out)
	table.Header("Symbol", "Status", "Closes", "Period", "Total", "Trades", "Wins")
	for _, row := range rows {
		if row.Best == nil {
			status := row.Status
			if row.Error != "" {
				status = row.Error
			}
			table.Append(row.Symbol, status, fmt.Sprintf("%d", row.Prices), "-", "-", "-", "-")
			continue
		}
		table.Append(
			row.Symbol,
			row.Status,
			fmt.Sprintf("%d", row.Prices),
			fmt.Sprintf("%d", row.Best.Period),
			fmt.Sprintf("%.4f", row.Best.TotalProfit),
			fmt.Sprintf("%d", row.Best.TradesCount),
			fmt.Sprintf("%d", row.Best.WinningTrades),
		)
	}
	table.Render()
}

// DVA prints a value averaging result.
func (p *Printer) DVA(r *simulation.DVAReport) {
	v := r.View
	fmt.Fprintf(p.out, "\n%s: DVA over %d periods, increment %g, commission %g\n",
		r.Symbol, v.Periods, r.TargetIncrement, v.CommissionRate)

	table := tablewriter.NewWriter(p.out)
	table.Header("Metric", "Value")
	table.Append("Gross spent", v.TotalGrossSpent)
	table.Append("Gross received", v.TotalGrossReceived)
	table.Append("Net invested", v.NetInvested)
	table.Append("Final asset amount", v.FinalAssetAmount)
	table.Append("Final price", v.FinalPrice)
	table.Append("Final value", v.FinalValue)
	table.Append("Profit", v.Profit)
	table.Append("ROI", v.ROI)
	table.Render()
}
