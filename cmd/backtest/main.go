package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"crypto-quant-lab/internal/backtest"
	"crypto-quant-lab/internal/config"
	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/feed"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/reporting"
	"crypto-quant-lab/internal/storage"
	chstore "crypto-quant-lab/internal/storage/clickhouse"
	pgstore "crypto-quant-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	seriesPath := flag.String("series", "", "Path to price series JSON file")
	symbol := flag.String("symbol", "", "Symbol to backtest; read from storage when --series is not set")
	strategy := flag.String("strategy", "ma-cross", "Signal strategy: hold, ma-cross")
	maPeriod := flag.Int("ma-period", 0, "Moving average period for ma-cross; defaults to the window size")
	capital := flag.Float64("capital", 0, "Initial capital; overrides config")
	window := flag.Int("window", 0, "Rolling signal window in bars; overrides config")
	configPath := flag.String("config", "", "Path to YAML config file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for price history")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for price history")
	tradesCSV := flag.String("trades-csv", "", "Write executed trades to this CSV file")
	equityCSV := flag.String("equity-csv", "", "Write the equity curve to this CSV file")
	outputJSON := flag.Bool("json", false, "Output result as a JSON envelope")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *seriesPath == "" && *symbol == "" {
		logger.Fatal("either --series or --symbol is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *capital == 0 {
		*capital = cfg.Backtest.InitialCapital
	}
	if *window == 0 {
		*window = cfg.Backtest.WindowSize
	}
	if *maPeriod == 0 {
		*maPeriod = *window
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Storage.PostgresDSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.Storage.ClickhouseDSN
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	series, err := loadSeries(ctx, *seriesPath, *symbol, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("load price series: %v", err)
	}

	signalFunc, err := buildSignal(*strategy, *maPeriod)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	engine, err := backtest.NewEngine(series, signalFunc, backtest.Config{
		InitialCapital: *capital,
		WindowSize:     *window,
	})
	if err != nil {
		observability.RecordAnalysisError("backtest", observability.KindLabel(err))
		emitError(logger, *outputJSON, err)
		return
	}

	logger.Printf("Running backtest: symbol=%s strategy=%s bars=%d", series.Symbol, *strategy, len(series.Bars))

	start := time.Now()
	report, err := engine.Run(ctx)
	if err != nil {
		observability.RecordAnalysisError("backtest", observability.KindLabel(err))
		emitError(logger, *outputJSON, err)
		return
	}
	observability.RecordBacktest(report.Metrics.TradeCount, time.Since(start).Seconds())

	if *tradesCSV != "" {
		if err := os.WriteFile(*tradesCSV, []byte(reporting.RenderTradesCSV(report.Trades)), 0o644); err != nil {
			logger.Fatalf("write trades csv: %v", err)
		}
		logger.Printf("Wrote %s", *tradesCSV)
	}
	if *equityCSV != "" {
		if err := os.WriteFile(*equityCSV, []byte(reporting.RenderEquityCSV(report.Curve)), 0o644); err != nil {
			logger.Fatalf("write equity csv: %v", err)
		}
		logger.Printf("Wrote %s", *equityCSV)
	}

	if *outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(report))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
	} else {
		fmt.Print(reporting.RenderBacktestMarkdown(report, time.Now().UTC()))
	}
}

// loadSeries reads a series from a JSON file or from the configured backend.
func loadSeries(ctx context.Context, seriesPath, symbol, postgresDSN, clickhouseDSN string) (*domain.PriceSeries, error) {
	if seriesPath != "" {
		data, err := os.ReadFile(seriesPath)
		if err != nil {
			return nil, err
		}
		if symbol == "" {
			base := filepath.Base(seriesPath)
			symbol = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
		}
		return feed.DecodePriceSeries(data, symbol)
	}

	var store storage.PriceHistoryStore
	switch {
	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		store = pgstore.NewPriceHistoryStore(pool)
	case clickhouseDSN != "":
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()
		store = chstore.NewPriceHistoryStore(conn)
	default:
		return nil, fmt.Errorf("--symbol requires --postgres-dsn or --clickhouse-dsn")
	}

	return store.GetBySymbol(ctx, symbol)
}

// buildSignal maps a strategy name to its signal function.
func buildSignal(strategy string, maPeriod int) (backtest.SignalFunc, error) {
	switch strings.ToLower(strategy) {
	case "hold":
		return backtest.HoldOnly(), nil
	case "ma-cross":
		return backtest.MovingAverageCross(maPeriod), nil
	default:
		return nil, fmt.Errorf("invalid strategy: %s, must be hold or ma-cross", strategy)
	}
}

// emitError reports a failed run in the requested output format.
func emitError(logger *log.Logger, outputJSON bool, err error) {
	if outputJSON {
		out, renderErr := reporting.RenderJSON(reporting.Failure(err))
		if renderErr != nil {
			logger.Fatalf("render output: %v", renderErr)
		}
		fmt.Println(out)
		os.Exit(1)
	}
	logger.Fatalf("backtest failed: %v", err)
}
