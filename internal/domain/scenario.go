package domain

// Scenario severity labels.
const (
	SeverityMild     = "MILD"
	SeverityModerate = "MODERATE"
	SeveritySevere   = "SEVERE"
	SeverityExtreme  = "EXTREME"
)

// StressScenario is a deterministic shock applied uniformly to every
// holding's current price. The catalog is static and read-only.
type StressScenario struct {
	ID                  string
	Name                string
	PriceChangePct      float64 // e.g. -20 means prices drop 20%
	VolatilityChangePct float64 // shift applied to volatility assumptions
	Severity            string
}

// Scenario catalog IDs.
const (
	ScenarioCrash20         = "crash_20"
	ScenarioCrash50         = "crash_50"
	ScenarioVolatilitySpike = "volatility_spike"
	ScenarioMeltUp25        = "melt_up_25"
	ScenarioStablecoinDepeg = "stablecoin_depeg"
	ScenarioRegulatoryShock = "regulatory_shock"
)

// StressCatalog is the fixed scenario catalog, in canonical order.
var StressCatalog = []StressScenario{
	{
		ID:                  ScenarioCrash20,
		Name:                "Market Crash -20%",
		PriceChangePct:      -20,
		VolatilityChangePct: 50,
		Severity:            SeverityModerate,
	},
	{
		ID:                  ScenarioCrash50,
		Name:                "Market Crash -50%",
		PriceChangePct:      -50,
		VolatilityChangePct: 150,
		Severity:            SeverityExtreme,
	},
	{
		ID:                  ScenarioVolatilitySpike,
		Name:                "Volatility Spike",
		PriceChangePct:      -10,
		VolatilityChangePct: 200,
		Severity:            SeveritySevere,
	},
	{
		ID:                  ScenarioMeltUp25,
		Name:                "Melt-Up +25%",
		PriceChangePct:      25,
		VolatilityChangePct: 80,
		Severity:            SeverityMild,
	},
	{
		ID:                  ScenarioStablecoinDepeg,
		Name:                "Stablecoin Depeg",
		PriceChangePct:      -15,
		VolatilityChangePct: 120,
		Severity:            SeveritySevere,
	},
	{
		ID:                  ScenarioRegulatoryShock,
		Name:                "Regulatory Shock",
		PriceChangePct:      -30,
		VolatilityChangePct: 100,
		Severity:            SeveritySevere,
	},
}

// ScenarioByID looks up a catalog scenario. Returns ErrNotFound for
// unknown ids; ids are never silently skipped.
func ScenarioByID(id string) (StressScenario, error) {
	for _, s := range StressCatalog {
		if s.ID == id {
			return s, nil
		}
	}
	return StressScenario{}, NotFoundError("scenarioId", id)
}

// HoldingImpact is one holding's value shift under a scenario.
type HoldingImpact struct {
	Symbol       string
	ValueBefore  float64
	ValueAfter   float64
	ValueChange  float64
	ShockedPrice float64
	PctChange    float64
}

// StressResult is the outcome of one scenario applied to a portfolio.
type StressResult struct {
	Scenario        StressScenario
	PortfolioBefore float64
	PortfolioAfter  float64
	PortfolioChange float64
	ChangePct       float64
	Impacts         []HoldingImpact
}

// StressReport is the full set of scenario results plus the extremes.
// Ties on portfolio delta resolve to the first scenario in input order.
type StressReport struct {
	Results   []StressResult
	WorstCase *StressResult
	BestCase  *StressResult
}
