// Package main runs the dashboard API server:
// - HTTP (continuous): market data, account state and computed strategy reports
// - Reporting (scheduled): strategy.md, strategy.csv, sma_best.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/BizKey/webaggregator/internal/candlecsv"
	"github.com/BizKey/webaggregator/internal/config"
	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/logging"
	"github.com/BizKey/webaggregator/internal/reporting"
	"github.com/BizKey/webaggregator/internal/server"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
	chstore "github.com/BizKey/webaggregator/internal/storage/clickhouse"
	"github.com/BizKey/webaggregator/internal/storage/memory"
	"github.com/BizKey/webaggregator/internal/storage/migrations"
	pgstore "github.com/BizKey/webaggregator/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	backend string
	candles storage.CandleStore
	symbols storage.SymbolStore
	market  storage.MarketStore
	account storage.AccountStore
	stats   storage.StatsStore
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations on startup")
	seedCSV := flag.String("seed-csv", "", "Load candles for -seed-symbol from a CSV file (memory storage only)")
	seedSymbol := flag.String("seed-symbol", "BTC-USDT", "Symbol for -seed-csv candles")
	seedTick := flag.String("seed-tick", "0.01", "Price increment for the seeded symbol")
	seedFee := flag.String("seed-fee", "0.001", "Taker fee for the seeded symbol")
	outputDir := flag.String("output-dir", "", "Output directory for scheduled reports (overrides config)")
	reportInterval := flag.Duration("report-interval", -1, "Report generation interval, 0 disables (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *addr, *useMemory, *migrate, *outputDir, *reportInterval)

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create stores")
	}
	defer cleanup()

	if *seedCSV != "" {
		if err := seedCandles(ctx, stores, *seedCSV, candlecsv.Symbol("csv", *seedSymbol, *seedTick, *seedFee)); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed candles")
		}
	}

	runner := simulation.NewRunner(simulation.RunnerOptions{
		CandleStore:    stores.candles,
		SymbolStore:    stores.symbols,
		Workers:        cfg.Strategy.Workers,
		SMACandleLimit: cfg.SMA.CandleLimit,
		SMAMinPrices:   cfg.SMA.MinPrices,
		Backend:        stores.backend,
		Logger:         logger.With().Str("component", "runner").Logger(),
	})

	var scheduler *server.Scheduler
	if cfg.Report.Interval > 0 {
		scheduler = server.NewScheduler(
			reporting.NewGenerator(runner),
			cfg.FixedPercent(),
			cfg.Report.OutputDir,
			cfg.Report.Interval,
			logger.With().Str("component", "reports").Logger(),
		)
	}

	srv := server.New(server.Options{
		Computer: runner,
		Candles:  stores.candles,
		Symbols:  stores.symbols,
		Market:   stores.market,
		Account:  stores.account,
		Stats:    stores.stats,
		Reports:  scheduler,
		Config:   cfg,
		Logger:   logger.With().Str("component", "http").Logger(),
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("backend", stores.backend).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if scheduler != nil {
		go func() {
			if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("report scheduler: %w", err)
			}
		}()
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown timed out after 30s")
	}

	logger.Info().Msg("shutdown complete")
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cfg *config.Config, addr string, useMemory, migrate bool, outputDir string, reportInterval time.Duration) {
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if useMemory {
		cfg.Storage.UseMemory = true
	}
	if migrate {
		cfg.Storage.Migrate = true
	}
	if outputDir != "" {
		cfg.Report.OutputDir = outputDir
	}
	if reportInterval >= 0 {
		cfg.Report.Interval = reportInterval
	}
}

// createStores creates all required stores.
func createStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*allStores, func(), error) {
	if cfg.UsesMemory() {
		stores := &allStores{
			backend: "memory",
			candles: memory.NewCandleStore(),
			symbols: memory.NewSymbolStore(),
			market:  memory.NewMarketStore(),
			account: memory.NewAccountStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPoolWithRetry(ctx, cfg.Storage.PostgresDSN, cfg.Storage.ConnectRetry)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.Storage.Migrate {
		applied, err := migrations.ApplyPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		logger.Info().Strs("applied", applied).Msg("postgres schema up to date")
	}

	stores := &allStores{
		backend: "postgres",
		candles: pgstore.NewCandleStore(pool),
		symbols: pgstore.NewSymbolStore(pool),
		market:  pgstore.NewMarketStore(pool),
		account: pgstore.NewAccountStore(pool),
		stats:   pgstore.NewStatsStore(pool),
	}

	if cfg.Storage.ClickHouseDSN == "" {
		return stores, pool.Close, nil
	}

	// ClickHouse serves candles when configured
	var chConn *chstore.Conn
	if cfg.Storage.Migrate {
		chConn, err = migrations.ApplyClickHouse(ctx, cfg.Storage.ClickHouseDSN)
	} else {
		chConn, err = chstore.NewConnWithRetry(ctx, cfg.Storage.ClickHouseDSN, cfg.Storage.ConnectRetry)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores.backend = "clickhouse"
	stores.candles = chstore.NewCandleStore(chConn)

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// seedCandles loads a CSV candle file and its symbol rules into the memory stores.
func seedCandles(ctx context.Context, stores *allStores, path string, sym *domain.Symbol) error {
	if stores.backend != "memory" {
		return errors.New("-seed-csv requires memory storage")
	}
	candles, err := candlecsv.ReadFile(path, sym.Exchange, sym.Symbol, "1hour")
	if err != nil {
		return err
	}
	if err := stores.candles.InsertBulk(ctx, candles); err != nil {
		return fmt.Errorf("insert candles: %w", err)
	}
	return stores.symbols.Insert(ctx, sym)
}
