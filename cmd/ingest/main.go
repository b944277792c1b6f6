package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"crypto-quant-lab/internal/config"
	"crypto-quant-lab/internal/feed"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/storage"
	chstore "crypto-quant-lab/internal/storage/clickhouse"
	"crypto-quant-lab/internal/storage/migrations"
	pgstore "crypto-quant-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	inputPath := flag.String("input", "", "Path to price series JSON file (required)")
	symbol := flag.String("symbol", "", "Symbol to store the series under; defaults to the file name")
	configPath := flag.String("config", "", "Path to YAML config file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	migrate := flag.Bool("migrate", false, "Apply schema migrations before inserting")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *inputPath == "" {
		logger.Fatal("--input is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Storage.PostgresDSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.Storage.ClickhouseDSN
	}
	if *postgresDSN == "" && *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn or --clickhouse-dsn is required")
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
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

	if *symbol == "" {
		base := filepath.Base(*inputPath)
		*symbol = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Fatalf("read input: %v", err)
	}
	series, err := feed.DecodePriceSeries(data, *symbol)
	if err != nil {
		logger.Fatalf("decode price series: %v", err)
	}

	var store storage.PriceHistoryStore
	var backend string
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if *migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("apply migrations: %v", err)
			}
			logger.Print("Applied postgres migrations")
		}
		store = pgstore.NewPriceHistoryStore(pool)
		backend = "postgres"
	} else {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		if *migrate {
			if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
				logger.Fatalf("apply migrations: %v", err)
			}
			logger.Print("Applied clickhouse migrations")
		}
		store = chstore.NewPriceHistoryStore(conn)
		backend = "clickhouse"
	}

	start := time.Now()
	if err := store.InsertBars(ctx, series.Symbol, series.Bars); err != nil {
		observability.RecordDBQuery(backend, "insert_bars", time.Since(start).Seconds(), err)
		logger.Fatalf("insert bars: %v", err)
	}
	observability.RecordDBQuery(backend, "insert_bars", time.Since(start).Seconds(), nil)

	logger.Printf("Stored %d bars for %s in %s", len(series.Bars), series.Symbol, backend)
}
