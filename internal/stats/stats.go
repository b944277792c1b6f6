// Package stats provides the statistical primitives shared by the risk,
// simulation, and backtest engines. All functions are pure and resilient to
// short inputs: fewer than two points yields zero sentinels, never a panic.
package stats

import "math"

// Mean calculates the arithmetic mean of values. Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance calculates population variance (n denominator). Returns 0 for
// fewer than 2 points.
func Variance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(n)
}

// StdDev calculates population standard deviation. Returns 0 for fewer
// than 2 points.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Returns derives simple returns from a value sequence: element i =
// (v[i+1]-v[i])/v[i]. Zero-valued elements contribute a zero return rather
// than dividing by zero. Returns nil for fewer than 2 points.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			returns[i-1] = 0
			continue
		}
		returns[i-1] = (values[i] - values[i-1]) / values[i-1]
	}
	return returns
}

// MaxDrawdown calculates the worst peak-to-trough decline as a fraction of
// the peak, scanning a running peak. 0.25 means a 25% drawdown. Returns 0
// for fewer than 2 points or when no peak is positive.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values[1:] {
		if v > peak {
			peak = v
			continue
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// Correlation calculates the Pearson correlation between two series, aligned
// on the last min(len(a), len(b)) elements. Zero variance on either side
// makes the correlation undefined; 0 is returned explicitly in that case.
func Correlation(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0
	}
	a = a[len(a)-n:]
	b = b[len(b)-n:]

	meanA := Mean(a)
	meanB := Mean(b)

	cov := 0.0
	varA := 0.0
	varB := 0.0
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Percentile uses linear interpolation over a pre-sorted ascending slice.
// p is the percentile as a fraction (0.05 = 5th percentile). Returns 0 for
// empty input.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// DownsideDeviation calculates population standard deviation over only the
// negative elements of a return series. Returns 0 when fewer than 2 returns
// are negative.
func DownsideDeviation(returns []float64) float64 {
	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	return StdDev(negative)
}
