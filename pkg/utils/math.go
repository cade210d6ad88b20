package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// ProbabilityTolerance is the slack allowed when checking that a distribution sums to one.
const ProbabilityTolerance = 1e-6

// IsDistribution reports whether p is non-empty, has no negative or NaN entries,
// and sums to one within tol.
func IsDistribution(p []float64, tol float64) bool {
	if len(p) == 0 {
		return false
	}
	for _, v := range p {
		if math.IsNaN(v) || v < 0 {
			return false
		}
	}
	return scalar.EqualWithinAbs(floats.Sum(p), 1, tol)
}

// ArgMax returns the index of the largest value; ties resolve to the lowest index.
// Returns -1 for an empty slice.
func ArgMax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	return floats.MaxIdx(x)
}
