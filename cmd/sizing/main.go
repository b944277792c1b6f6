package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"crypto-quant-lab/internal/config"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/reporting"
	"crypto-quant-lab/internal/sizing"
)

func main() {
	// Parse flags
	mode := flag.String("mode", "kelly", "Calculation mode: kelly, stops")

	// Kelly sizing inputs
	accountSize := flag.Float64("account", 0, "Total account value (required)")
	winRate := flag.Float64("win-rate", 0, "Historical win probability in [0, 1]")
	avgWin := flag.Float64("avg-win", 0, "Average winning-trade return (e.g. 0.10)")
	avgLoss := flag.Float64("avg-loss", 0, "Average losing-trade loss magnitude (e.g. 0.05)")
	riskPerTrade := flag.Float64("risk-per-trade", 0, "Risk budget per trade as a fraction; overrides config")

	// Stop level inputs
	entryPrice := flag.Float64("entry", 0, "Entry price for stop derivation")
	riskAmount := flag.Float64("risk-amount", 0, "Dollar risk budget for the trade")
	rewardRatio := flag.Float64("reward-ratio", 3, "Risk:reward multiple for the target price")
	volatility := flag.Float64("volatility", 0, "Recent volatility as a fraction, for ATR-style stops")

	configPath := flag.String("config", "", "Path to YAML config file")
	outputJSON := flag.Bool("json", false, "Output result as a JSON envelope")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[sizing] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *riskPerTrade == 0 {
		*riskPerTrade = cfg.Sizing.RiskPerTrade
	}

	switch strings.ToLower(*mode) {
	case "kelly":
		runKelly(logger, *outputJSON, sizing.KellyParams{
			AccountSize:  *accountSize,
			WinRate:      *winRate,
			AvgWinPct:    *avgWin,
			AvgLossPct:   *avgLoss,
			RiskPerTrade: *riskPerTrade,
		})
	case "stops":
		runStops(logger, *outputJSON, sizing.StopParams{
			EntryPrice:    *entryPrice,
			AccountSize:   *accountSize,
			RiskAmount:    *riskAmount,
			RewardRatio:   *rewardRatio,
			VolatilityPct: *volatility,
		})
	default:
		logger.Fatalf("invalid mode: %s, must be kelly or stops", *mode)
	}
}

// runKelly computes and prints the capped Kelly recommendation.
func runKelly(logger *log.Logger, outputJSON bool, params sizing.KellyParams) {
	rec, err := sizing.PositionSize(params)
	if err != nil {
		observability.RecordAnalysisError("sizing", observability.KindLabel(err))
		emitError(logger, outputJSON, err)
		return
	}
	observability.RecordSizing()

	if outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(rec))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
		return
	}

	fmt.Printf("Kelly fraction:     %.4f\n", rec.KellyFraction)
	fmt.Printf("Applied fraction:   %.4f\n", rec.AppliedFraction)
	fmt.Printf("Recommended size:   %.2f\n", rec.RecommendedSize)
	fmt.Printf("Cap applied:        %s\n", rec.CapApplied)
}

// runStops derives and prints stop and target levels.
func runStops(logger *log.Logger, outputJSON bool, params sizing.StopParams) {
	levels, err := sizing.StopLevels(params)
	if err != nil {
		observability.RecordAnalysisError("sizing", observability.KindLabel(err))
		emitError(logger, outputJSON, err)
		return
	}
	observability.RecordSizing()

	if outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(levels))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
		return
	}

	fmt.Printf("Entry price:        %.4f\n", levels.EntryPrice)
	fmt.Printf("Stop distance:      %.2f%%\n", levels.StopDistancePct)
	fmt.Printf("Stop price:         %.4f\n", levels.StopPrice)
	fmt.Printf("Target price:       %.4f\n", levels.TargetPrice)
	fmt.Printf("ATR stop:           %.4f\n", levels.ATRStop)
	fmt.Printf("Chandelier stop:    %.4f\n", levels.ChandelierStop)
}

// emitError reports a failed calculation in the requested output format.
func emitError(logger *log.Logger, outputJSON bool, err error) {
	if outputJSON {
		out, renderErr := reporting.RenderJSON(reporting.Failure(err))
		if renderErr != nil {
			logger.Fatalf("render output: %v", renderErr)
		}
		fmt.Println(out)
		os.Exit(1)
	}
	logger.Fatalf("sizing failed: %v", err)
}
