package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-quant-lab/internal/config"
	"crypto-quant-lab/internal/montecarlo"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/reporting"
)

func main() {
	// Parse flags
	initialValue := flag.Float64("initial", 10000, "Starting portfolio value")
	annualReturn := flag.Float64("annual-return", 0.15, "Expected annual return (e.g. 0.15 for 15%)")
	annualVol := flag.Float64("annual-vol", 0.60, "Annual volatility (e.g. 0.60 for 60%)")
	days := flag.Int("days", 0, "Projection horizon in days; overrides config")
	simulations := flag.Int("simulations", 0, "Number of simulated paths; overrides config")
	seed := flag.Int64("seed", 0, "Base random seed; identical seeds reproduce results")
	workers := flag.Int("workers", 0, "Worker goroutines; overrides config")
	configPath := flag.String("config", "", "Path to YAML config file")
	outputJSON := flag.Bool("json", false, "Output result as a JSON envelope")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[montecarlo] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *days == 0 {
		*days = cfg.MonteCarlo.HorizonDays
	}
	if *simulations == 0 {
		*simulations = cfg.MonteCarlo.Simulations
	}
	if *workers == 0 {
		*workers = cfg.MonteCarlo.Workers
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

	logger.Printf("Running simulation: paths=%d horizon=%dd seed=%d", *simulations, *days, *seed)

	start := time.Now()
	result, err := montecarlo.New().Run(ctx, montecarlo.Params{
		InitialValue:     *initialValue,
		AnnualReturn:     *annualReturn,
		AnnualVolatility: *annualVol,
		HorizonDays:      *days,
		Simulations:      *simulations,
		Seed:             *seed,
		Workers:          *workers,
	})
	if err != nil {
		observability.RecordAnalysisError("montecarlo", observability.KindLabel(err))
		emitError(logger, *outputJSON, err)
		return
	}
	observability.RecordSimulation(result.Simulations, time.Since(start).Seconds())

	if *outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(result))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
	} else {
		fmt.Print(reporting.RenderSimulationMarkdown(result, time.Now().UTC()))
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
	logger.Fatalf("simulation failed: %v", err)
}
