package reporting

import (
	"fmt"
	"strings"
	"time"

	"crypto-quant-lab/internal/domain"
)

// RenderRiskMarkdown renders a risk report as a Markdown string.
func RenderRiskMarkdown(r *domain.RiskReport, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Portfolio Risk Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	if r.Estimated {
		sb.WriteString("**Note:** volatility figures include policy estimates, not only observed data.\n\n")
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Portfolio Value | %.2f |\n", r.PortfolioValue))
	sb.WriteString(fmt.Sprintf("| Annual Volatility | %.4f |\n", r.Volatility))
	sb.WriteString(fmt.Sprintf("| VaR | %.2f |\n", r.VaR95))
	sb.WriteString(fmt.Sprintf("| CVaR | %.2f |\n", r.CVaR95))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Sortino Ratio | %.4f |\n", r.SortinoRatio))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Risk Score | %.1f |\n", r.RiskScore))
	sb.WriteString("\n")

	sb.WriteString("## Concentration\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Herfindahl Index | %.4f |\n", r.HerfindahlIndex))
	sb.WriteString(fmt.Sprintf("| Diversification Score | %.2f |\n", r.DiversificationScore))
	sb.WriteString(fmt.Sprintf("| Top Holdings Share | %.4f |\n", r.TopHoldingsShare))
	sb.WriteString(fmt.Sprintf("| Concentration Level | %s |\n", r.ConcentrationLevel))
	sb.WriteString("\n")

	sb.WriteString("## Asset Volatilities\n\n")
	if len(r.AssetVolatilities) > 0 {
		sb.WriteString("| Symbol | Annual Volatility | Source |\n")
		sb.WriteString("|--------|-------------------|--------|\n")
		for _, av := range r.AssetVolatilities {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %s |\n", av.Symbol, av.Volatility, av.Source))
		}
	} else {
		sb.WriteString("No asset volatilities available.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Correlated Pairs\n\n")
	if len(r.CorrelatedPairs) > 0 {
		sb.WriteString("| Symbol A | Symbol B | Correlation |\n")
		sb.WriteString("|----------|----------|-------------|\n")
		for _, p := range r.CorrelatedPairs {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f |\n", p.SymbolA, p.SymbolB, p.Correlation))
		}
	} else {
		sb.WriteString("No correlated pairs above threshold.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderSimulationMarkdown renders a Monte Carlo result as Markdown.
func RenderSimulationMarkdown(r *domain.SimulationResult, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Monte Carlo Simulation\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Paths: %d | Horizon: %d days | Initial Value: %.2f\n\n",
		r.Simulations, r.HorizonDays, r.InitialValue))

	sb.WriteString("| Percentile | Final Value |\n")
	sb.WriteString("|------------|-------------|\n")
	sb.WriteString(fmt.Sprintf("| Min | %.2f |\n", r.Min))
	sb.WriteString(fmt.Sprintf("| P5 | %.2f |\n", r.P5))
	sb.WriteString(fmt.Sprintf("| P25 | %.2f |\n", r.P25))
	sb.WriteString(fmt.Sprintf("| Median | %.2f |\n", r.Median))
	sb.WriteString(fmt.Sprintf("| P75 | %.2f |\n", r.P75))
	sb.WriteString(fmt.Sprintf("| P95 | %.2f |\n", r.P95))
	sb.WriteString(fmt.Sprintf("| Max | %.2f |\n", r.Max))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Expected Value: %.2f\n\n", r.ExpectedValue))
	sb.WriteString(fmt.Sprintf("Probability of Profit: %.4f\n\n", r.ProbabilityOfProfit))

	return sb.String()
}

// RenderStressMarkdown renders a stress report as Markdown.
func RenderStressMarkdown(r *domain.StressReport, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Stress Test Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))

	sb.WriteString("## Scenarios\n\n")
	if len(r.Results) > 0 {
		sb.WriteString("| Scenario | Severity | Before | After | Change | Change % |\n")
		sb.WriteString("|----------|----------|--------|-------|--------|----------|\n")
		for _, res := range r.Results {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.2f |\n",
				res.Scenario.Name, res.Scenario.Severity,
				res.PortfolioBefore, res.PortfolioAfter, res.PortfolioChange, res.ChangePct))
		}
	} else {
		sb.WriteString("No scenarios applied.\n")
	}
	sb.WriteString("\n")

	if r.WorstCase != nil {
		sb.WriteString(fmt.Sprintf("Worst Case: %s (%.2f)\n\n",
			r.WorstCase.Scenario.Name, r.WorstCase.PortfolioChange))
	}
	if r.BestCase != nil {
		sb.WriteString(fmt.Sprintf("Best Case: %s (%.2f)\n\n",
			r.BestCase.Scenario.Name, r.BestCase.PortfolioChange))
	}

	return sb.String()
}

// RenderBacktestMarkdown renders a backtest report as Markdown.
func RenderBacktestMarkdown(r *domain.BacktestReport, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Symbol: %s | Bars: %d\n\n", r.RunID, r.Symbol, r.Bars))

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Initial Capital | %.2f |\n", r.InitialCapital))
	sb.WriteString(fmt.Sprintf("| Final Equity | %.2f |\n", r.FinalEquity))
	sb.WriteString(fmt.Sprintf("| Total Return | %.4f |\n", r.Metrics.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Buy & Hold Return | %.4f |\n", r.Metrics.BuyHoldReturn))
	sb.WriteString(fmt.Sprintf("| Outperformance | %.4f |\n", r.Metrics.Outperformance))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.Metrics.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.Metrics.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", r.Metrics.WinRate))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %.4f |\n", r.Metrics.ProfitFactor))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.Metrics.TradeCount))
	sb.WriteString("\n")

	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| # | Side | Bar | Price | Quantity |\n")
		sb.WriteString("|---|------|-----|-------|----------|\n")
		for i, tr := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %.4f | %.6f |\n",
				i+1, tr.Side, tr.BarIndex, tr.Price, tr.Quantity))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
