package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/dva"
	"github.com/BizKey/webaggregator/internal/idhash"
	"github.com/BizKey/webaggregator/internal/indicator"
	"github.com/BizKey/webaggregator/internal/metrics"
	"github.com/BizKey/webaggregator/internal/numeric"
	"github.com/BizKey/webaggregator/internal/observability"
	"github.com/BizKey/webaggregator/internal/storage"
	"github.com/BizKey/webaggregator/internal/strategy"
)

// Report kinds, used for metrics labels and report ids.
const (
	KindCandles  = "candles"
	KindStrategy = "strategy"
	KindRanking  = "ranking"
	KindSMA      = "sma"
	KindBestSMA  = "sma_best"
	KindDVA      = "dva"
)

// Report statuses.
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

// Defaults applied when RunnerOptions leaves a field zero.
const (
	DefaultWorkers        = 4
	DefaultSMACandleLimit = 1000
)

// Runner loads candles and symbol rules from storage and runs the numeric core over them.
type Runner struct {
	candleStore    storage.CandleStore
	symbolStore    storage.SymbolStore
	workers        int
	smaCandleLimit int
	smaMinPrices   int
	backend        string
	logger         zerolog.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	CandleStore    storage.CandleStore
	SymbolStore    storage.SymbolStore
	Workers        int    // parallel symbols in StrategyRanking
	SMACandleLimit int    // closes fed into SMA sweeps
	SMAMinPrices   int    // closes required for best-period selection
	Backend        string // database label for query metrics
	Logger         zerolog.Logger
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		candleStore:    opts.CandleStore,
		symbolStore:    opts.SymbolStore,
		workers:        opts.Workers,
		smaCandleLimit: opts.SMACandleLimit,
		smaMinPrices:   opts.SMAMinPrices,
		backend:        opts.Backend,
		logger:         opts.Logger,
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.smaCandleLimit <= 0 {
		r.smaCandleLimit = DefaultSMACandleLimit
	}
	if r.smaMinPrices < domain.SMAMinPrices {
		r.smaMinPrices = domain.SMAMinPrices
	}
	if r.backend == "" {
		r.backend = "memory"
	}
	return r
}

// CandleReport is a symbol's candle history annotated with ATR, newest first.
type CandleReport struct {
	Symbol   string             `json:"symbol"`
	ReportID string             `json:"report_id"`
	Period   int                `json:"atr_period"`
	Candles  []domain.CandleATR `json:"candles"`
}

// StrategyReport is a fixed risk:reward backtest of one symbol.
type StrategyReport struct {
	Symbol     string                  `json:"symbol"`
	StrategyID string                  `json:"strategy_id"`
	ReportID   string                  `json:"report_id"`
	Records    []domain.StrategyRecord `json:"records"`
	Summary    domain.StrategySummary  `json:"summary"`
}

// RankingReport ranks every symbol by fixed risk:reward net profit.
type RankingReport struct {
	StrategyID string `json:"strategy_id"`
	ReportID   string `json:"report_id"`
	metrics.Ranking
}

// SMAReport is the full SMA crossover period sweep of one symbol.
type SMAReport struct {
	Symbol         string              `json:"symbol"`
	ReportID       string              `json:"report_id"`
	CommissionRate float64             `json:"commission_rate"`
	Prices         int                 `json:"prices"`
	Results        []domain.SMAResult  `json:"results"`
	Summary        domain.SweepSummary `json:"summary"`
}

// BestSMAReport is the most profitable SMA period of one symbol.
// Best is nil when Status is StatusInsufficientData.
type BestSMAReport struct {
	Symbol         string            `json:"symbol"`
	ReportID       string            `json:"report_id"`
	Status         string            `json:"status"`
	CommissionRate float64           `json:"commission_rate"`
	Prices         int               `json:"prices"`
	Required       int               `json:"required_prices"`
	Best           *domain.SMAResult `json:"best,omitempty"`
}

// DVAReport is a dollar value averaging simulation over a symbol's closes.
type DVAReport struct {
	Symbol          string           `json:"symbol"`
	ReportID        string           `json:"report_id"`
	TargetIncrement float64          `json:"target_increment"`
	Result          domain.DvaResult `json:"-"`
	View            domain.DvaView   `json:"result"`
}

// CandlesWithATR returns the symbol's candles with ATR(20) and ATR as a percent of close.
func (r *Runner) CandlesWithATR(ctx context.Context, symbol string) (*CandleReport, error) {
	start := time.Now()
	report, n, err := r.candlesWithATR(ctx, symbol)
	r.record(KindCandles, symbol, start, n, err)
	return report, err
}

func (r *Runner) candlesWithATR(ctx context.Context, symbol string) (*CandleReport, int, error) {
	raw, err := r.loadCandles(ctx, symbol)
	if err != nil {
		return nil, 0, err
	}
	candles, err := numeric.ParseCandles(raw)
	if err != nil {
		return nil, 0, err
	}
	atr, err := indicator.ATR(candles, indicator.DefaultATRPeriod)
	if err != nil {
		return nil, 0, err
	}

	n := len(candles)
	out := make([]domain.CandleATR, n)
	for i := range candles {
		// newest first
		j := n - 1 - i
		out[j] = domain.CandleATR{
			RawCandle:  *raw[i],
			ATR:        atr[i],
			ATRPercent: indicator.ATRPercent(atr[i], candles[i].Close),
		}
	}

	params := fmt.Sprintf("atr%d", indicator.DefaultATRPeriod)
	return &CandleReport{
		Symbol:   symbol,
		ReportID: idhash.ComputeReportID(KindCandles, symbol, params, candles[n-1].Timestamp),
		Period:   indicator.DefaultATRPeriod,
		Candles:  out,
	}, n, nil
}

// SymbolStrategy backtests the fixed risk:reward strategy on one symbol.
func (r *Runner) SymbolStrategy(ctx context.Context, symbol string, cfg domain.StrategyConfig) (*StrategyReport, error) {
	start := time.Now()
	strat, err := strategy.FromConfig(cfg)
	if err != nil {
		r.record(KindStrategy, symbol, start, 0, err)
		return nil, err
	}
	report, n, err := r.symbolStrategy(ctx, symbol, strat)
	r.record(KindStrategy, symbol, start, n, err)
	if err == nil {
		observability.RecordTradesSimulated(len(report.Records))
	}
	return report, err
}

func (r *Runner) symbolStrategy(ctx context.Context, symbol string, strat *strategy.FixedRRStrategy) (*StrategyReport, int, error) {
	raw, err := r.loadCandles(ctx, symbol)
	if err != nil {
		return nil, 0, err
	}
	sym, err := r.loadSymbol(ctx, symbol)
	if err != nil {
		return nil, 0, err
	}
	candles, err := numeric.ParseCandles(raw)
	if err != nil {
		return nil, 0, err
	}

	input := &strategy.StrategyInput{
		Symbol:    symbol,
		Candles:   candles,
		Increment: numeric.PriceIncrement(sym.PriceIncrement),
	}
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	records, err := strat.Execute(ctx, input)
	if err != nil {
		return nil, 0, err
	}

	last := candles[len(candles)-1].Timestamp
	return &StrategyReport{
		Symbol:     symbol,
		StrategyID: strat.ID(),
		ReportID:   idhash.ComputeReportID(KindStrategy, symbol, strat.ID(), last),
		Records:    records,
		Summary:    metrics.Summarize(records),
	}, len(candles), nil
}

// StrategyRanking backtests every symbol with candles and ranks them by net profit.
// A symbol whose data cannot be evaluated is listed in Failed; storage and
// context errors abort the whole ranking.
func (r *Runner) StrategyRanking(ctx context.Context, cfg domain.StrategyConfig) (*RankingReport, error) {
	start := time.Now()
	report, n, err := r.strategyRanking(ctx, cfg)
	r.record(KindRanking, "", start, n, err)
	return report, err
}

func (r *Runner) strategyRanking(ctx context.Context, cfg domain.StrategyConfig) (*RankingReport, int, error) {
	strat, err := strategy.FromConfig(cfg)
	if err != nil {
		return nil, 0, err
	}

	symbols, err := r.candleStore.Symbols(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list symbols: %w", err)
	}

	var (
		mu       sync.Mutex
		profits  = make([]domain.SymbolProfit, 0, len(symbols))
		failed   []domain.SymbolFailure
		total    int
		lastSeen int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			report, n, err := r.symbolStrategy(gctx, symbol, strat)
			if err != nil {
				if !IsDataError(err) {
					return err
				}
				r.logger.Warn().Err(err).Str("symbol", symbol).Msg("symbol excluded from ranking")
				observability.RecordSymbolFailed()
				mu.Lock()
				failed = append(failed, domain.SymbolFailure{Symbol: symbol, Error: err.Error()})
				mu.Unlock()
				return nil
			}

			observability.RecordTradesSimulated(len(report.Records))
			last := report.Records[len(report.Records)-1].Timestamp

			mu.Lock()
			profits = append(profits, domain.SymbolProfit{Symbol: symbol, Profit: report.Summary.Net})
			total += n
			if last > lastSeen {
				lastSeen = last
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, total, err
	}

	ranking := metrics.Rank(profits)
	ranking.Failed = sortFailures(failed)

	fingerprint := make([]string, 0, len(ranking.Rows))
	for _, row := range ranking.Rows {
		fingerprint = append(fingerprint, row.Symbol)
	}
	params := strat.ID() + "|" + strings.Join(fingerprint, ",")

	return &RankingReport{
		StrategyID: strat.ID(),
		ReportID:   idhash.ComputeReportID(KindRanking, "", params, lastSeen),
		Ranking:    ranking,
	}, total, nil
}

// SMASweep runs the SMA crossover backtest for every period over the latest closes.
func (r *Runner) SMASweep(ctx context.Context, symbol string) (*SMAReport, error) {
	start := time.Now()
	report, err := r.smaSweep(ctx, symbol)
	n := 0
	if report != nil {
		n = report.Prices
	}
	r.record(KindSMA, symbol, start, n, err)
	return report, err
}

func (r *Runner) smaSweep(ctx context.Context, symbol string) (*SMAReport, error) {
	closes, last, commission, err := r.smaInputs(ctx, symbol)
	if err != nil {
		return nil, err
	}

	results, err := strategy.SweepSMA(closes, commission)
	if err != nil {
		return nil, err
	}

	return &SMAReport{
		Symbol:         symbol,
		ReportID:       idhash.ComputeReportID(KindSMA, symbol, r.smaParams(commission), last),
		CommissionRate: commission,
		Prices:         len(closes),
		Results:        results,
		Summary:        metrics.SummarizeSweep(results),
	}, nil
}

// BestSMA returns the most profitable SMA period over the latest closes.
// Too short a history yields a report with StatusInsufficientData and no error.
func (r *Runner) BestSMA(ctx context.Context, symbol string) (*BestSMAReport, error) {
	start := time.Now()
	report, err := r.bestSMA(ctx, symbol)
	n := 0
	if report != nil {
		n = report.Prices
	}
	r.record(KindBestSMA, symbol, start, n, err)
	return report, err
}

func (r *Runner) bestSMA(ctx context.Context, symbol string) (*BestSMAReport, error) {
	closes, last, commission, err := r.smaInputs(ctx, symbol)
	if err != nil {
		return nil, err
	}

	report := &BestSMAReport{
		Symbol:         symbol,
		ReportID:       idhash.ComputeReportID(KindBestSMA, symbol, r.smaParams(commission), last),
		Status:         StatusOK,
		CommissionRate: commission,
		Prices:         len(closes),
		Required:       r.smaMinPrices,
	}
	if len(closes) < r.smaMinPrices {
		report.Status = StatusInsufficientData
		return report, nil
	}

	best, err := strategy.BestSMA(closes, commission)
	if errors.Is(err, domain.ErrInsufficientData) {
		report.Status = StatusInsufficientData
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.Best = &best
	return report, nil
}

func (r *Runner) smaInputs(ctx context.Context, symbol string) ([]float64, int64, float64, error) {
	closes, last, err := r.loadLatestCloses(ctx, symbol, r.smaCandleLimit)
	if err != nil {
		return nil, 0, 0, err
	}
	sym, err := r.loadSymbol(ctx, symbol)
	if err != nil {
		return nil, 0, 0, err
	}
	commission, err := numeric.CommissionRate(sym.FeeCategory, sym.TakerFeeCoefficient)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("commission for %s: %w", symbol, err)
	}
	return closes, last, commission, nil
}

func (r *Runner) smaParams(commission float64) string {
	return fmt.Sprintf("limit%d_c%g", r.smaCandleLimit, commission)
}

// DVA simulates dollar value averaging over the symbol's full close history.
func (r *Runner) DVA(ctx context.Context, symbol string, targetIncrement, commissionRate float64) (*DVAReport, error) {
	start := time.Now()
	report, n, err := r.dva(ctx, symbol, targetIncrement, commissionRate)
	r.record(KindDVA, symbol, start, n, err)
	return report, err
}

func (r *Runner) dva(ctx context.Context, symbol string, targetIncrement, commissionRate float64) (*DVAReport, int, error) {
	raw, err := r.loadCandles(ctx, symbol)
	if err != nil {
		return nil, 0, err
	}
	closes, err := numeric.ParseCloses(raw)
	if err != nil {
		return nil, 0, err
	}
	last, err := lastTimestamp(raw)
	if err != nil {
		return nil, 0, err
	}

	result, err := dva.Simulate(closes, targetIncrement, commissionRate)
	if err != nil {
		return nil, 0, err
	}

	params := fmt.Sprintf("inc%g_c%g", targetIncrement, commissionRate)
	return &DVAReport{
		Symbol:          symbol,
		ReportID:        idhash.ComputeReportID(KindDVA, symbol, params, last),
		TargetIncrement: targetIncrement,
		Result:          result,
		View:            dva.Format(result),
	}, len(closes), nil
}

// record emits the computation metric and a debug line for one run.
func (r *Runner) record(kind, symbol string, start time.Time, candles int, err error) {
	elapsed := time.Since(start)
	status := StatusOK
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		status = StatusInsufficientData
	case err != nil:
		status = "error"
	}
	observability.RecordComputation(kind, status, elapsed.Seconds(), candles)

	r.logger.Debug().
		Str("kind", kind).
		Str("symbol", symbol).
		Str("status", status).
		Int("candles", candles).
		Dur("elapsed", elapsed).
		Msg("computation finished")
}

// IsDataError reports whether err describes the symbol's data rather than the system.
func IsDataError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInsufficientData) ||
		errors.Is(err, storage.ErrNotFound)
}

func sortFailures(failed []domain.SymbolFailure) []domain.SymbolFailure {
	out := make([]domain.SymbolFailure, len(failed))
	copy(out, failed)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
