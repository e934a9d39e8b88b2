// Package main generates the strategy report files once and prints a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BizKey/webaggregator/internal/candlecsv"
	"github.com/BizKey/webaggregator/internal/config"
	"github.com/BizKey/webaggregator/internal/console"
	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/logging"
	"github.com/BizKey/webaggregator/internal/reporting"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
	chstore "github.com/BizKey/webaggregator/internal/storage/clickhouse"
	"github.com/BizKey/webaggregator/internal/storage/memory"
	pgstore "github.com/BizKey/webaggregator/internal/storage/postgres"
	"github.com/BizKey/webaggregator/internal/strategy"
)

func main() {
	// Parse flags
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (overrides config)")
	csvDir := flag.String("csv-dir", "", "Load <SYMBOL>.csv candle files from a directory instead of the database")
	tick := flag.String("tick", "0.01", "Price increment for -csv-dir symbols")
	fee := flag.String("fee", "0.001", "Taker fee for -csv-dir symbols")
	mode := flag.String("mode", "fixed", "Position sizing: fixed or atr")
	generatedAt := flag.String("generated-at", "", "Fixed RFC3339 report timestamp for reproducible output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	sizing, err := strategy.ParseSizingMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -mode %q: %v\n", *mode, err)
		os.Exit(1)
	}
	strategyCfg := cfg.FixedPercent()
	if sizing == domain.SizingATRScaled {
		strategyCfg = cfg.ATRScaled()
	}

	ctx := context.Background()

	// Create stores based on mode
	var (
		candles storage.CandleStore
		symbols storage.SymbolStore
		backend string
	)
	if *csvDir != "" {
		candles, symbols, err = createMemoryStores(ctx, *csvDir, *tick, *fee)
		backend = "memory"
	} else {
		var cleanup func()
		candles, symbols, backend, cleanup, err = createDatabaseStores(ctx, cfg)
		if cleanup != nil {
			defer cleanup()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}

	runner := simulation.NewRunner(simulation.RunnerOptions{
		CandleStore:    candles,
		SymbolStore:    symbols,
		Workers:        cfg.Strategy.Workers,
		SMACandleLimit: cfg.SMA.CandleLimit,
		SMAMinPrices:   cfg.SMA.MinPrices,
		Backend:        backend,
		Logger:         logger.With().Str("component", "runner").Logger(),
	})

	gen := reporting.NewGenerator(runner)
	if *generatedAt != "" {
		fixed, err := time.Parse(time.RFC3339, *generatedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -generated-at: %v\n", err)
			os.Exit(1)
		}
		gen = gen.WithClock(func() time.Time { return fixed })
	}

	report, err := gen.Generate(ctx, strategyCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	paths, err := reporting.WriteFiles(cfg.Report.OutputDir, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	printer := console.NewPrinter(os.Stdout, 0)
	printer.Ranking(&simulation.RankingReport{StrategyID: report.StrategyID, ReportID: report.ReportID, Ranking: report.Ranking})
	fmt.Println()
	printer.BestSMARows(report.BestSMA)

	fmt.Println("\nReport generated successfully:")
	for _, p := range paths {
		fmt.Printf("  - %s\n", p)
	}
}

// createMemoryStores loads every <SYMBOL>.csv file in dir into memory stores.
func createMemoryStores(ctx context.Context, dir, tick, fee string) (storage.CandleStore, storage.SymbolStore, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("list csv files: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no csv files in %s", dir)
	}

	candleStore := memory.NewCandleStore()
	symbolStore := memory.NewSymbolStore()
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".csv")
		sym := candlecsv.Symbol("csv", name, tick, fee)

		candles, err := candlecsv.ReadFile(path, sym.Exchange, sym.Symbol, "1hour")
		if err != nil {
			return nil, nil, err
		}
		if err := candleStore.InsertBulk(ctx, candles); err != nil {
			return nil, nil, fmt.Errorf("insert %s candles: %w", name, err)
		}
		if err := symbolStore.Insert(ctx, sym); err != nil {
			return nil, nil, fmt.Errorf("insert %s symbol: %w", name, err)
		}
	}
	return candleStore, symbolStore, nil
}

// createDatabaseStores connects to PostgreSQL and, when configured, ClickHouse for candles.
func createDatabaseStores(ctx context.Context, cfg *config.Config) (
	storage.CandleStore,
	storage.SymbolStore,
	string,
	func(),
	error,
) {
	if cfg.Storage.PostgresDSN == "" {
		return nil, nil, "", nil, fmt.Errorf("DATABASE_URL is required when not using -csv-dir")
	}

	pgPool, err := pgstore.NewPoolWithRetry(ctx, cfg.Storage.PostgresDSN, cfg.Storage.ConnectRetry)
	if err != nil {
		return nil, nil, "", nil, fmt.Errorf("connect to postgres: %w", err)
	}
	symbolStore := pgstore.NewSymbolStore(pgPool)

	if cfg.Storage.ClickHouseDSN == "" {
		return pgstore.NewCandleStore(pgPool), symbolStore, "postgres", pgPool.Close, nil
	}

	chConn, err := chstore.NewConnWithRetry(ctx, cfg.Storage.ClickHouseDSN, cfg.Storage.ConnectRetry)
	if err != nil {
		pgPool.Close()
		return nil, nil, "", nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	cleanup := func() {
		chConn.Close()
		pgPool.Close()
	}
	return chstore.NewCandleStore(chConn), symbolStore, "clickhouse", cleanup, nil
}
