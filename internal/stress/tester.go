// Package stress applies deterministic scenario shocks to a portfolio.
// No randomness and no clock reads: identical inputs always produce
// identical reports.
package stress

import (
	"crypto-quant-lab/internal/domain"
)

// Run applies each requested catalog scenario to the portfolio and reports
// per-holding and portfolio-level deltas plus the worst and best case by
// portfolio delta. Ties resolve to the first scenario in input order.
// An empty id list runs the full catalog in canonical order. Unknown ids
// fail with ErrNotFound before any scenario is applied.
func Run(portfolio *domain.Portfolio, scenarioIDs []string) (*domain.StressReport, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	var scenarios []domain.StressScenario
	if len(scenarioIDs) == 0 {
		scenarios = domain.StressCatalog
	} else {
		scenarios = make([]domain.StressScenario, 0, len(scenarioIDs))
		for _, id := range scenarioIDs {
			s, err := domain.ScenarioByID(id)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, s)
		}
	}

	report := &domain.StressReport{
		Results: make([]domain.StressResult, 0, len(scenarios)),
	}
	for _, scenario := range scenarios {
		report.Results = append(report.Results, apply(portfolio, scenario))
	}

	// Strict comparisons keep the first scenario on ties.
	for i := range report.Results {
		r := &report.Results[i]
		if report.WorstCase == nil || r.PortfolioChange < report.WorstCase.PortfolioChange {
			report.WorstCase = r
		}
		if report.BestCase == nil || r.PortfolioChange > report.BestCase.PortfolioChange {
			report.BestCase = r
		}
	}

	return report, nil
}

// apply shocks every holding's current price by the scenario's price change
// and tallies the deltas. Caller-owned holdings are never mutated; shocked
// values live only in the result.
func apply(portfolio *domain.Portfolio, scenario domain.StressScenario) domain.StressResult {
	result := domain.StressResult{
		Scenario: scenario,
		Impacts:  make([]domain.HoldingImpact, 0, len(portfolio.Holdings)),
	}

	factor := 1 + scenario.PriceChangePct/100
	for _, h := range portfolio.Holdings {
		before := h.MarketValue()
		shockedPrice := h.CurrentPrice * factor
		after := h.Quantity * shockedPrice

		result.Impacts = append(result.Impacts, domain.HoldingImpact{
			Symbol:       h.Symbol,
			ValueBefore:  before,
			ValueAfter:   after,
			ValueChange:  after - before,
			ShockedPrice: shockedPrice,
			PctChange:    scenario.PriceChangePct,
		})

		result.PortfolioBefore += before
		result.PortfolioAfter += after
	}

	result.PortfolioChange = result.PortfolioAfter - result.PortfolioBefore
	if result.PortfolioBefore > 0 {
		result.ChangePct = result.PortfolioChange / result.PortfolioBefore * 100
	}

	return result
}
