package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DegeneratePolicy decides what min-max normalization does with a constant
// column, where (max - min) is zero and the scaled value is undefined.
type DegeneratePolicy string

const (
	// DegenerateFail rejects constant columns. Callers surface the
	// rejection as a data-quality error naming the column.
	DegenerateFail DegeneratePolicy = "fail"
	// DegenerateZero maps every value of a constant column to 0.
	DegenerateZero DegeneratePolicy = "zero"
)

// Valid reports whether the policy is one of the defined values.
func (p DegeneratePolicy) Valid() bool {
	return p == DegenerateFail || p == DegenerateZero
}

// ErrConstantColumn is returned by MinMaxNormalize under DegenerateFail for
// a constant input. Callers wrap it into a DataQualityError with the column
// name, which the scaler itself does not know.
var ErrConstantColumn = fmt.Errorf("constant input: min equals max")

// MinMaxNormalize rescales values to [0,1] using the observed min and max:
// x' = (x - min) / (max - min). The original minimum maps to 0 and the
// maximum to 1. The input must be free of NaN entries (normalization runs
// after imputation); a NaN is reported as an error rather than propagated.
func MinMaxNormalize(values []float64, policy DegeneratePolicy) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value at row %d", i)
		}
	}

	min, max := MinMax(values)
	out := make([]float64, len(values))

	if min == max {
		switch policy {
		case DegenerateZero:
			return out, nil // all zeros
		default:
			return nil, ErrConstantColumn
		}
	}

	span := max - min
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out, nil
}

// StandardScaler centers features to zero mean and unit variance. Fit
// computes per-column statistics on the training split only; Transform
// applies them to any split so train and test share the same scaling.
type StandardScaler struct {
	Means  []float64
	Stds   []float64
	fitted bool
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes column means and population standard deviations from X.
// A zero-variance column gets a divisor of 1 so constant features pass
// through centered instead of dividing by zero.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("fit on empty matrix")
	}

	cols := len(X[0])
	col := make([]float64, len(X))
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	for j := 0; j < cols; j++ {
		for i, row := range X {
			if len(row) != cols {
				return fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(row), cols)
			}
			col[i] = row[j]
		}
		s.Means[j] = stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Stds[j] = std
	}

	s.fitted = true
	return nil
}

// Transform returns a standardized copy of X using the fitted statistics.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, fmt.Errorf("scaler is not fitted")
	}

	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("row %d has %d columns, scaler fitted on %d", i, len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the standardized copy.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
