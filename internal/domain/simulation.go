package domain

// SimulationResult holds the outcome distribution of a Monte Carlo run.
// Created, returned, discarded by the caller; never stored.
type SimulationResult struct {
	Simulations  int     // number of independent paths
	HorizonDays  int     // projection horizon
	InitialValue float64 // starting portfolio value

	// Final-value distribution.
	Min    float64
	P5     float64
	P25    float64
	Median float64
	P75    float64
	P95    float64
	Max    float64

	ExpectedValue       float64 // mean of final values
	ProbabilityOfProfit float64 // fraction of paths ending above InitialValue
}
