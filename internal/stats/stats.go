// Package stats provides the scalar statistics and scaling primitives used
// by the pipeline stages: median/mode for imputation, min-max normalization
// with an explicit degenerate-column policy, and a train-fitted standard
// scaler for the model bench.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of values, or NaN when values is empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Median returns the median of values using midpoint interpolation for even
// lengths, or NaN when values is empty. The input slice is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode returns the most frequent value and its count. Ties break on
// first-seen order so the result is deterministic for a fixed row order.
// An empty input returns ("", 0).
func Mode(values []string) (string, int) {
	if len(values) == 0 {
		return "", 0
	}

	counts := make(map[string]int, len(values))
	best := ""
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best, bestCount
}

// MinMax returns the minimum and maximum of values, or (NaN, NaN) when
// values is empty. NaN entries are ignored.
func MinMax(values []float64) (float64, float64) {
	min := math.NaN()
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return min, max
}
