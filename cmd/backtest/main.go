// Package main runs one computation against stored or CSV candles and prints the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/BizKey/webaggregator/internal/candlecsv"
	"github.com/BizKey/webaggregator/internal/config"
	"github.com/BizKey/webaggregator/internal/console"
	"github.com/BizKey/webaggregator/internal/logging"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
	chstore "github.com/BizKey/webaggregator/internal/storage/clickhouse"
	"github.com/BizKey/webaggregator/internal/storage/memory"
	pgstore "github.com/BizKey/webaggregator/internal/storage/postgres"
)

// Components.
const (
	componentATR     = "atr"
	componentFixed   = "fixed"
	componentATRRR   = "atr-rr"
	componentRanking = "ranking"
	componentSMA     = "sma"
	componentBestSMA = "sma-best"
	componentDVA     = "dva"
)

type stores struct {
	backend string
	candles storage.CandleStore
	symbols storage.SymbolStore
}

func main() {
	// Input
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file")
	component := flag.String("component", componentFixed, "Computation: atr, fixed, atr-rr, ranking, sma, sma-best, dva")
	symbol := flag.String("symbol", "BTC-USDT", "Symbol to compute")
	csvPath := flag.String("csv", "", "Read candles from a CSV file (timestamp,open,high,low,close[,volume]) instead of the database")
	tick := flag.String("tick", "0.01", "Price increment for -csv candles")
	fee := flag.String("fee", "0.001", "Taker fee for -csv candles")

	// DVA
	increment := flag.Float64("increment", 0, "DVA target increment per period (overrides config)")
	commission := flag.Float64("commission", -1, "DVA commission rate (overrides config)")

	// Output
	outputJSON := flag.Bool("json", false, "Print JSON instead of tables")
	rows := flag.Int("rows", 20, "Rows shown for long series, 0 shows all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *increment > 0 {
		cfg.DVA.TargetIncrement = *increment
	}
	if *commission >= 0 {
		cfg.DVA.CommissionRate = *commission
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("received shutdown signal")
		cancel()
	}()

	st, cleanup, err := openStores(ctx, cfg, logger, *csvPath, *symbol, *tick, *fee)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open stores")
	}
	defer cleanup()

	runner := simulation.NewRunner(simulation.RunnerOptions{
		CandleStore:    st.candles,
		SymbolStore:    st.symbols,
		Workers:        cfg.Strategy.Workers,
		SMACandleLimit: cfg.SMA.CandleLimit,
		SMAMinPrices:   cfg.SMA.MinPrices,
		Backend:        st.backend,
		Logger:         logger.With().Str("component", "runner").Logger(),
	})

	result, err := compute(ctx, runner, cfg, *component, *symbol)
	if err != nil {
		logger.Fatal().Err(err).Str("component", *component).Str("symbol", *symbol).Msg("computation failed")
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Fatal().Err(err).Msg("failed to encode result")
		}
		return
	}
	printResult(console.NewPrinter(os.Stdout, *rows), result)
}

// compute runs the selected component.
func compute(ctx context.Context, runner *simulation.Runner, cfg *config.Config, component, symbol string) (any, error) {
	switch component {
	case componentATR:
		return runner.CandlesWithATR(ctx, symbol)
	case componentFixed:
		return runner.SymbolStrategy(ctx, symbol, cfg.FixedPercent())
	case componentATRRR:
		return runner.SymbolStrategy(ctx, symbol, cfg.ATRScaled())
	case componentRanking:
		return runner.StrategyRanking(ctx, cfg.FixedPercent())
	case componentSMA:
		return runner.SMASweep(ctx, symbol)
	case componentBestSMA:
		return runner.BestSMA(ctx, symbol)
	case componentDVA:
		return runner.DVA(ctx, symbol, cfg.DVA.TargetIncrement, cfg.DVA.CommissionRate)
	default:
		return nil, fmt.Errorf("unknown component %q", component)
	}
}

func printResult(p *console.Printer, result any) {
	switch r := result.(type) {
	case *simulation.CandleReport:
		p.Candles(r)
	case *simulation.StrategyReport:
		p.Strategy(r)
	case *simulation.RankingReport:
		p.Ranking(r)
	case *simulation.SMAReport:
		p.SMA(r)
	case *simulation.BestSMAReport:
		p.BestSMA(r)
	case *simulation.DVAReport:
		p.DVA(r)
	}
}

// openStores loads -csv candles into memory stores, or connects to the configured databases.
func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger, csvPath, symbol, tick, fee string) (*stores, func(), error) {
	if csvPath != "" {
		sym := candlecsv.Symbol("csv", symbol, tick, fee)
		candles, err := candlecsv.ReadFile(csvPath, sym.Exchange, sym.Symbol, "1hour")
		if err != nil {
			return nil, nil, err
		}
		st := &stores{
			backend: "memory",
			candles: memory.NewCandleStore(),
			symbols: memory.NewSymbolStore(),
		}
		if err := st.candles.InsertBulk(ctx, candles); err != nil {
			return nil, nil, fmt.Errorf("insert candles: %w", err)
		}
		if err := st.symbols.Insert(ctx, sym); err != nil {
			return nil, nil, fmt.Errorf("insert symbol: %w", err)
		}
		return st, func() {}, nil
	}

	if cfg.Storage.PostgresDSN == "" {
		return nil, nil, fmt.Errorf("either -csv or DATABASE_URL is required")
	}
	return connect(ctx, cfg, logger)
}

// connect opens PostgreSQL and, when configured, ClickHouse for candles.
func connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, func(), error) {
	pool, err := pgstore.NewPoolWithRetry(ctx, cfg.Storage.PostgresDSN, cfg.Storage.ConnectRetry)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	st := &stores{
		backend: "postgres",
		candles: pgstore.NewCandleStore(pool),
		symbols: pgstore.NewSymbolStore(pool),
	}
	if cfg.Storage.ClickHouseDSN == "" {
		return st, pool.Close, nil
	}

	chConn, err := chstore.NewConnWithRetry(ctx, cfg.Storage.ClickHouseDSN, cfg.Storage.ConnectRetry)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	logger.Debug().Msg("reading candles from clickhouse")
	st.backend = "clickhouse"
	st.candles = chstore.NewCandleStore(chConn)
	return st, func() {
		chConn.Close()
		pool.Close()
	}, nil
}
