// Package metrics holds the summary statistics used across a benchmark
// suite. Every function returns 0 for empty input and leaves its argument
// untouched.
package metrics

import (
	"math"
	"slices"
)

// Mean computes the arithmetic mean of a float64 slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Sum adds up the values.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Min returns the smallest value.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Min(values)
}

// Max returns the largest value.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// StdDev computes the sample standard deviation (Bessel's correction).
// Returns 0 when fewer than 2 data points are available.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// Percentile returns the nearest-rank percentile p (0–100) of values:
// the element at index floor(len*p/100) of the ascending order, clamped to
// the last element. No interpolation is performed.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := int(math.Floor(float64(len(sorted)) * p / 100))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
