// Package scores derives the two composite indicators from the raw table:
// engagement, from the transaction and savings column groups, and
// literacy, from the education level and wealth quintile. Each score is a
// fixed-weight combination of min-max normalized sub-indicators, one value
// in [0,1] per respondent, row-aligned with the raw table.
package scores

import (
	"fmt"
	"math"
)

// Fixed combination weights. These are constants of the indicator
// definitions, not learned parameters.
const (
	DefaultPrimaryWeight   = 0.6
	DefaultSecondaryWeight = 0.4
)

// Weights holds the two-component combination weights for a composite
// score. Primary weighs the leading sub-indicator (transaction activity
// for engagement, education for literacy); Secondary weighs the other.
type Weights struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
}

// DefaultWeights returns the 0.6/0.4 split both composites use.
func DefaultWeights() Weights {
	return Weights{Primary: DefaultPrimaryWeight, Secondary: DefaultSecondaryWeight}
}

// IsValid checks that both weights are positive and sum to 1 within
// floating tolerance.
func (w Weights) IsValid() bool {
	if w.Primary <= 0 || w.Secondary <= 0 {
		return false
	}
	return math.Abs(w.Primary+w.Secondary-1.0) < 1e-9
}

// CombineComponents combines per-respondent component slices into one
// score per respondent using the given weights. Weights are renormalized
// to sum to 1, so callers can pass any positive proportions. Component
// lengths must agree.
func CombineComponents(components [][]float64, weights []float64) ([]float64, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("no components to combine")
	}
	if len(components) != len(weights) {
		return nil, fmt.Errorf("%d components for %d weights", len(components), len(weights))
	}

	rows := len(components[0])
	weightSum := 0.0
	for i, c := range components {
		if len(c) != rows {
			return nil, fmt.Errorf("component %d has %d rows, want %d", i, len(c), rows)
		}
		if weights[i] <= 0 {
			return nil, fmt.Errorf("weight %d is %v, want positive", i, weights[i])
		}
		weightSum += weights[i]
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := 0.0
		for j, c := range components {
			v += c[i] * (weights[j] / weightSum)
		}
		out[i] = v
	}
	return out, nil
}
