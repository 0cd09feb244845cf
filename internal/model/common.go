// Package model implements the four binary classifiers the bench trains:
// logistic regression, random forest, gradient boosted trees, and an
// RBF-kernel support vector machine. Models share the Classifier contract
// and nothing else; each one trains independently on the same split.
//
// Labels are 0 (included) and 1 (excluded). Every model is deterministic
// for a fixed seed: randomized steps draw from rand.New(rand.NewSource)
// and tie-breaks resolve to the lowest index or class.
package model

import (
	"fmt"
	"sort"
)

// Classifier is a binary classifier over float feature rows.
type Classifier interface {
	Name() string
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
}

// Attribution is one feature's mean absolute contribution to a fitted
// model's decisions.
type Attribution struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// Attributor is implemented by classifiers that can explain themselves
// with per-feature attribution scores after fitting.
type Attributor interface {
	Attributions(featureNames []string) ([]Attribution, error)
}

// TopAttributions sorts attributions by descending score and returns the
// first n. Equal scores order by feature name so the ranking is stable.
func TopAttributions(attrs []Attribution, n int) []Attribution {
	sorted := append([]Attribution(nil), attrs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Feature < sorted[j].Feature
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// validateTrainingData checks the common Fit preconditions: non-empty
// rectangular X, matching label length, and binary labels.
func validateTrainingData(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(y) != len(X) {
		return fmt.Errorf("%d labels for %d rows", len(y), len(X))
	}
	d := len(X[0])
	if d == 0 {
		return fmt.Errorf("rows have no features")
	}
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("ragged matrix: row %d has %d features, want %d", i, len(row), d)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d at row %d, want 0 or 1", label, i)
		}
	}
	return nil
}

// validatePredictData checks rows against the fitted feature count.
func validatePredictData(X [][]float64, features int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty prediction set")
	}
	for i, row := range X {
		if len(row) != features {
			return fmt.Errorf("row %d has %d features, model fitted on %d", i, len(row), features)
		}
	}
	return nil
}
