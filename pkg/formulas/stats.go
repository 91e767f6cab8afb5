// Package formulas provides shared scalar statistics helpers for the risk
// engine and its consumers.
package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// QuantileIndex returns the nearest-rank index of the alpha quantile on an
// ascending-sorted sample of size n: floor(alpha * n), clamped to [0, n-1].
// Returns -1 when the sample is empty.
func QuantileIndex(n int, alpha float64) int {
	if n <= 0 {
		return -1
	}
	idx := int(alpha * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// TailMean returns the mean of sortedAscending[0..through] inclusive, the
// average of the worst outcomes up to and including the quantile point.
func TailMean(sortedAscending []float64, through int) float64 {
	if through >= len(sortedAscending) {
		through = len(sortedAscending) - 1
	}
	if through < 0 {
		return 0
	}
	return Mean(sortedAscending[:through+1])
}
