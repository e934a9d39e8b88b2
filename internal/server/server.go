// Package server exposes market data, account state and computed strategy
// reports over HTTP as JSON, with CSV and Markdown renditions of the reports.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/BizKey/webaggregator/internal/config"
	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/observability"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
)

// Header names.
const (
	RequestIDHeader = "X-Request-ID"
	ETagHeader      = "ETag"
)

// Computer runs the numeric core over stored candles.
// *simulation.Runner satisfies it.
type Computer interface {
	CandlesWithATR(ctx context.Context, symbol string) (*simulation.CandleReport, error)
	SymbolStrategy(ctx context.Context, symbol string, cfg domain.StrategyConfig) (*simulation.StrategyReport, error)
	StrategyRanking(ctx context.Context, cfg domain.StrategyConfig) (*simulation.RankingReport, error)
	SMASweep(ctx context.Context, symbol string) (*simulation.SMAReport, error)
	BestSMA(ctx context.Context, symbol string) (*simulation.BestSMAReport, error)
	DVA(ctx context.Context, symbol string, targetIncrement, commissionRate float64) (*simulation.DVAReport, error)
}

// Options contains the dependencies of a Server.
type Options struct {
	Computer Computer
	Candles  storage.CandleStore
	Symbols  storage.SymbolStore
	Market   storage.MarketStore
	Account  storage.AccountStore
	Stats    storage.StatsStore // nil when the backend has no statistics
	Reports  *Scheduler         // nil when scheduled reports are disabled
	Config   *config.Config
	Logger   zerolog.Logger
}

// Server serves the dashboard API.
type Server struct {
	computer Computer
	candles  storage.CandleStore
	symbols  storage.SymbolStore
	market   storage.MarketStore
	account  storage.AccountStore
	stats    storage.StatsStore
	reports  *Scheduler
	cfg      *config.Config
	limiter  *rate.Limiter
	logger   zerolog.Logger
	started  time.Time
}

// New creates a Server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		computer: opts.Computer,
		candles:  opts.Candles,
		symbols:  opts.Symbols,
		market:   opts.Market,
		account:  opts.Account,
		stats:    opts.Stats,
		reports:  opts.Reports,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.HTTP.ComputeRPS), cfg.HTTP.ComputeBurst),
		logger:   opts.Logger,
		started:  time.Now(),
	}
}

// Handler returns the HTTP handler with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health, metrics and status
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	// Market reference data
	s.route(mux, "GET /api/tickers", s.handleTickers)
	s.route(mux, "GET /api/symbols", s.handleSymbols)
	s.route(mux, "GET /api/symbols/{symbol}", s.handleSymbol)
	s.route(mux, "GET /api/currencies", s.handleCurrencies)
	s.route(mux, "GET /api/lends", s.handleLends)
	s.route(mux, "GET /api/lends/{currency}", s.handleLendsByCurrency)
	s.route(mux, "GET /api/borrows", s.handleBorrows)
	s.route(mux, "GET /api/borrows/{currency}", s.handleBorrowsByCurrency)
	s.route(mux, "GET /api/candles", s.handleLatestCandles)
	s.route(mux, "GET /api/sma", s.handleSMASymbols)

	// Account state
	s.route(mux, "GET /api/balances", s.handleBalances)
	s.route(mux, "GET /api/orders/active", s.handleActiveOrders)
	s.route(mux, "GET /api/orders/events", s.handleEventOrders)
	s.route(mux, "GET /api/positions/asset", s.handlePositionAssets)
	s.route(mux, "GET /api/positions/debt", s.handlePositionDebts)
	s.route(mux, "GET /api/positions/ratio", s.handlePositionRatios)
	s.route(mux, "GET /api/bots", s.handleBots)
	s.route(mux, "GET /api/events", s.handleEvents)
	s.route(mux, "GET /api/errors", s.handleErrors)
	s.route(mux, "GET /api/pg", s.handleDBStats)

	// Computations
	s.compute(mux, "GET /api/candles/{symbol}", s.handleCandlesWithATR)
	s.compute(mux, "GET /api/strategy", s.handleStrategyRanking)
	s.compute(mux, "GET /api/strategy/{symbol}", s.handleSymbolStrategy)
	s.compute(mux, "GET /api/sma/{symbol}", s.handleSMASweep)
	s.compute(mux, "GET /api/sma/{symbol}/best", s.handleBestSMA)
	s.compute(mux, "GET /api/dva/{symbol}", s.handleDVA)

	// Plain-text reports
	s.compute(mux, "GET /reports/strategy.csv", s.handleStrategyCSV)
	s.compute(mux, "GET /reports/strategy.md", s.handleStrategyMarkdown)
	s.compute(mux, "GET /reports/strategy/{file}", s.handleSymbolStrategyCSV)
	s.compute(mux, "GET /reports/sma/{file}", s.handleSMACSV)
	s.compute(mux, "GET /reports/dva/{file}", s.handleDVAMarkdown)

	return requestID(mux)
}

// route registers a handler with access logging and request metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

// compute registers a rate-limited handler.
func (s *Server) compute(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, s.rateLimit(pattern, h)))
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status  string          `json:"status"`
	Uptime  string          `json:"uptime"`
	Backend string          `json:"backend"`
	Reports *SchedulerState `json:"reports,omitempty"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:  "running",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Backend: "postgres",
	}
	if s.cfg.UsesMemory() {
		resp.Backend = "memory"
	}
	if s.reports != nil {
		state := s.reports.State()
		resp.Reports = &state
	}
	writeRaw(w, http.StatusOK, resp)
}
