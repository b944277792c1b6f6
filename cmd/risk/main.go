package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-quant-lab/internal/config"
	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/feed"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/reporting"
	"crypto-quant-lab/internal/risk"
	"crypto-quant-lab/internal/storage"
	chstore "crypto-quant-lab/internal/storage/clickhouse"
	pgstore "crypto-quant-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	holdingsPath := flag.String("holdings", "", "Path to holdings JSON file (required)")
	correlationsPath := flag.String("correlations", "", "Path to correlation matrix JSON file")
	configPath := flag.String("config", "", "Path to YAML config file")
	confidence := flag.Float64("confidence", 0, "VaR confidence level (0.90, 0.95, 0.99); overrides config")
	riskFree := flag.Float64("risk-free", 0, "Annual risk-free rate; overrides config")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for price history")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for price history")
	outputJSON := flag.Bool("json", false, "Output result as a JSON envelope")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[risk] ", log.LstdFlags)

	if *holdingsPath == "" {
		logger.Fatal("--holdings is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *confidence == 0 {
		*confidence = cfg.Risk.ConfidenceLevel
	}
	if *riskFree == 0 {
		*riskFree = cfg.Risk.RiskFreeRate
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

	// Load portfolio
	portfolio, err := loadPortfolio(*holdingsPath, *correlationsPath)
	if err != nil {
		logger.Fatalf("load portfolio: %v", err)
	}

	// Load observed return history from storage when a backend is configured.
	// Symbols without stored bars fall back to the estimation policy.
	history, err := loadHistory(ctx, logger, *postgresDSN, *clickhouseDSN, portfolio)
	if err != nil {
		logger.Fatalf("load price history: %v", err)
	}

	engine := risk.NewEngine(risk.EstimatedVolatilityPolicy{
		DefaultAnnualVolatility: cfg.Risk.DefaultVolatility,
		DefaultCorrelation:      cfg.Risk.DefaultCorrelation,
	})

	start := time.Now()
	report, err := engine.Analyze(portfolio, risk.Params{
		ConfidenceLevel: *confidence,
		RiskFreeRate:    *riskFree,
		History:         history,
	})
	if err != nil {
		observability.RecordAnalysisError("risk", observability.KindLabel(err))
		emitError(logger, *outputJSON, err)
		return
	}
	observability.RecordRiskReport(time.Since(start).Seconds())

	if *outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(report))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
	} else {
		fmt.Print(reporting.RenderRiskMarkdown(report, time.Now().UTC()))
	}
}

// loadPortfolio decodes holdings plus the optional correlation matrix.
func loadPortfolio(holdingsPath, correlationsPath string) (*domain.Portfolio, error) {
	data, err := os.ReadFile(holdingsPath)
	if err != nil {
		return nil, err
	}
	portfolio, err := feed.DecodeHoldings(data)
	if err != nil {
		return nil, err
	}

	if correlationsPath != "" {
		data, err := os.ReadFile(correlationsPath)
		if err != nil {
			return nil, err
		}
		matrix, err := feed.DecodeCorrelations(data)
		if err != nil {
			return nil, err
		}
		portfolio.Correlations = matrix
	}

	return portfolio, nil
}

// loadHistory pulls daily return series for each holding from the
// configured backend. No backend means no observed history.
func loadHistory(ctx context.Context, logger *log.Logger, postgresDSN, clickhouseDSN string, portfolio *domain.Portfolio) (map[string][]float64, error) {
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
		return nil, nil
	}

	history := make(map[string][]float64, len(portfolio.Holdings))
	for _, h := range portfolio.Holdings {
		series, err := store.GetBySymbol(ctx, h.Symbol)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Printf("no stored history for %s, using estimation policy", h.Symbol)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", h.Symbol, err)
		}
		history[h.Symbol] = series.Returns()
	}
	return history, nil
}

// emitError reports a failed analysis in the requested output format.
func emitError(logger *log.Logger, outputJSON bool, err error) {
	if outputJSON {
		out, renderErr := reporting.RenderJSON(reporting.Failure(err))
		if renderErr != nil {
			logger.Fatalf("render output: %v", renderErr)
		}
		fmt.Println(out)
		os.Exit(1)
	}
	logger.Fatalf("analysis failed: %v", err)
}
