package model

import (
	"fmt"
	"math"
	"math/rand"
)

// SVM is a margin classifier with a radial basis function kernel, trained
// with the kernelized Pegasos subgradient method. Labels map to -1/+1
// internally; the kernel expansion keeps every training row, so prediction
// cost grows with the training set size.
type SVM struct {
	Lambda float64 // regularization strength
	Epochs int     // passes over the training set
	Gamma  float64 // RBF width; 0 derives 1/feature count at fit time
	Seed   int64

	alphas   []float64
	trainX   [][]float64
	trainY   []float64
	gamma    float64
	scale    float64
	features int
	fitted   bool
}

// NewSVM returns a model with the standard training configuration.
func NewSVM(seed int64) *SVM {
	return &SVM{
		Lambda: 0.01,
		Epochs: 20,
		Seed:   seed,
	}
}

// Name identifies the model in bench results.
func (m *SVM) Name() string { return "rbf_svm" }

// Fit runs Epochs*n Pegasos iterations: each draws a seeded random row,
// and rows inside the margin get their kernel coefficient bumped.
func (m *SVM) Fit(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("rbf svm: %w", err)
	}
	if m.Lambda <= 0 || m.Epochs <= 0 {
		return fmt.Errorf("rbf svm: lambda %v and epochs %d must be positive", m.Lambda, m.Epochs)
	}

	n := len(X)
	m.features = len(X[0])

	m.gamma = m.Gamma
	if m.gamma <= 0 {
		m.gamma = 1.0 / float64(m.features)
	}

	m.trainX = X
	m.trainY = make([]float64, n)
	for i, label := range y {
		if label == 1 {
			m.trainY[i] = 1
		} else {
			m.trainY[i] = -1
		}
	}

	m.alphas = make([]float64, n)
	rng := rand.New(rand.NewSource(m.Seed))
	iterations := m.Epochs * n

	for t := 1; t <= iterations; t++ {
		i := rng.Intn(n)
		decision := 0.0
		for j, a := range m.alphas {
			if a == 0 {
				continue
			}
			decision += a * m.trainY[j] * m.rbf(m.trainX[j], m.trainX[i])
		}
		decision /= m.Lambda * float64(t)
		if m.trainY[i]*decision < 1 {
			m.alphas[i]++
		}
	}

	m.scale = 1.0 / (m.Lambda * float64(iterations))
	m.fitted = true
	return nil
}

// Predict labels each row 1 when the kernel decision value is positive.
func (m *SVM) Predict(X [][]float64) ([]int, error) {
	if !m.fitted {
		return nil, fmt.Errorf("rbf svm: not fitted")
	}
	if err := validatePredictData(X, m.features); err != nil {
		return nil, fmt.Errorf("rbf svm: %w", err)
	}

	out := make([]int, len(X))
	for i, row := range X {
		decision := 0.0
		for j, a := range m.alphas {
			if a == 0 {
				continue
			}
			decision += a * m.trainY[j] * m.rbf(m.trainX[j], row)
		}
		if decision*m.scale > 0 {
			out[i] = 1
		}
	}
	return out, nil
}

func (m *SVM) rbf(a, b []float64) float64 {
	dist := 0.0
	for i := range a {
		delta := a[i] - b[i]
		dist += delta * delta
	}
	return math.Exp(-m.gamma * dist)
}
