package risk

import (
	"sort"

	"crypto-quant-lab/internal/domain"
)

// CorrelationConcernThreshold flags holding pairs whose correlation erodes
// diversification.
const CorrelationConcernThreshold = 0.7

// Top-3 share cutoffs for concentration buckets. Comparisons are strict
// (> not >=) on both boundaries.
const (
	concentrationHighCutoff   = 0.60
	concentrationMediumCutoff = 0.40
)

// herfindahl calculates the sum of squared portfolio weights.
func herfindahl(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w * w
	}
	return sum
}

// diversificationScore maps a Herfindahl index onto [0, 100].
// A single-holding portfolio (H = 1) scores 0.
func diversificationScore(h float64) float64 {
	score := 100 * (1 - h)
	if score < 0 {
		return 0
	}
	return score
}

// topHoldingsShare returns the combined weight of the three largest holdings.
func topHoldingsShare(weights []float64) float64 {
	sorted := make([]float64, len(weights))
	copy(sorted, weights)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	share := 0.0
	for i, w := range sorted {
		if i >= 3 {
			break
		}
		share += w
	}
	return share
}

// concentrationLevel buckets the top-3 share: >60% HIGH, >40% MEDIUM,
// else LOW.
func concentrationLevel(topShare float64) string {
	switch {
	case topShare > concentrationHighCutoff:
		return domain.ConcentrationHigh
	case topShare > concentrationMediumCutoff:
		return domain.ConcentrationMedium
	default:
		return domain.ConcentrationLow
	}
}

// correlatedPairs flags every known holding pair with correlation above the
// concern threshold, in holding order.
func correlatedPairs(symbols []string, matrix domain.CorrelationMatrix) []domain.CorrelatedPair {
	if matrix == nil {
		return nil
	}
	var pairs []domain.CorrelatedPair
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			v, ok := matrix.At(symbols[i], symbols[j])
			if ok && v > CorrelationConcernThreshold {
				pairs = append(pairs, domain.CorrelatedPair{
					SymbolA:     symbols[i],
					SymbolB:     symbols[j],
					Correlation: v,
				})
			}
		}
	}
	return pairs
}
