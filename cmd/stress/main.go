package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/feed"
	"crypto-quant-lab/internal/observability"
	"crypto-quant-lab/internal/reporting"
	"crypto-quant-lab/internal/stress"
)

func main() {
	// Parse flags
	holdingsPath := flag.String("holdings", "", "Path to holdings JSON file (required unless --list)")
	scenarios := flag.String("scenarios", "", "Comma-separated scenario ids; empty runs the full catalog")
	listScenarios := flag.Bool("list", false, "List the scenario catalog and exit")
	outputJSON := flag.Bool("json", false, "Output result as a JSON envelope")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[stress] ", log.LstdFlags)

	if *listScenarios {
		printCatalog()
		return
	}

	if *holdingsPath == "" {
		logger.Fatal("--holdings is required")
	}

	data, err := os.ReadFile(*holdingsPath)
	if err != nil {
		logger.Fatalf("read holdings: %v", err)
	}
	portfolio, err := feed.DecodeHoldings(data)
	if err != nil {
		logger.Fatalf("decode holdings: %v", err)
	}

	var ids []string
	if *scenarios != "" {
		for _, id := range strings.Split(*scenarios, ",") {
			ids = append(ids, strings.TrimSpace(id))
		}
	}

	start := time.Now()
	report, err := stress.Run(portfolio, ids)
	if err != nil {
		observability.RecordAnalysisError("stress", observability.KindLabel(err))
		emitError(logger, *outputJSON, err)
		return
	}
	observability.RecordStressRun(len(report.Results), time.Since(start).Seconds())

	if *outputJSON {
		out, err := reporting.RenderJSON(reporting.Success(report))
		if err != nil {
			logger.Fatalf("render output: %v", err)
		}
		fmt.Println(out)
	} else {
		fmt.Print(reporting.RenderStressMarkdown(report, time.Now().UTC()))
	}
}

// printCatalog lists the built-in scenarios.
func printCatalog() {
	fmt.Println("Available stress scenarios:")
	for _, s := range domain.StressCatalog {
		fmt.Printf("  %-18s %-24s price %+.0f%%  vol %+.0f%%  [%s]\n",
			s.ID, s.Name, s.PriceChangePct, s.VolatilityChangePct, s.Severity)
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
	logger.Fatalf("stress test failed: %v", err)
}
