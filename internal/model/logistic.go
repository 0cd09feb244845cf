package model

import (
	"fmt"
	"math"
	"math/rand"
)

// LogisticRegression is a binary linear classifier trained with
// stochastic gradient descent on the log loss.
type LogisticRegression struct {
	LearningRate float64
	Epochs       int
	L2           float64
	Seed         int64

	weights      []float64
	bias         float64
	attributions []float64
	fitted       bool
}

// NewLogisticRegression returns a model with the standard training
// configuration. Features are expected standardized; the learning rate is
// tuned for unit-variance inputs.
func NewLogisticRegression(seed int64) *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Epochs:       200,
		L2:           1e-4,
		Seed:         seed,
	}
}

// Name identifies the model in bench results.
func (m *LogisticRegression) Name() string { return "logistic_regression" }

// Fit trains weights by SGD: one pass per epoch over a seeded shuffle of
// the rows, updating on each sample. Weights start at zero; log loss is
// convex, so no random init is needed and training is reproducible.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("logistic regression: %w", err)
	}
	if m.LearningRate <= 0 || m.Epochs <= 0 {
		return fmt.Errorf("logistic regression: learning rate %v and epochs %d must be positive", m.LearningRate, m.Epochs)
	}

	n, d := len(X), len(X[0])
	m.weights = make([]float64, d)
	m.bias = 0

	rng := rand.New(rand.NewSource(m.Seed))
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < m.Epochs; epoch++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			p := sigmoid(m.decision(X[i]))
			g := p - float64(y[i])
			for j, v := range X[i] {
				m.weights[j] -= m.LearningRate * (g*v + m.L2*m.weights[j])
			}
			m.bias -= m.LearningRate * g
		}
	}

	// Attribution per feature: the mean absolute contribution of the
	// feature to the decision value over the training rows.
	m.attributions = make([]float64, d)
	for _, row := range X {
		for j, v := range row {
			m.attributions[j] += math.Abs(m.weights[j] * v)
		}
	}
	for j := range m.attributions {
		m.attributions[j] /= float64(n)
	}

	m.fitted = true
	return nil
}

// Predict labels each row 1 when the estimated probability reaches 0.5.
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	if !m.fitted {
		return nil, fmt.Errorf("logistic regression: not fitted")
	}
	if err := validatePredictData(X, len(m.weights)); err != nil {
		return nil, fmt.Errorf("logistic regression: %w", err)
	}

	out := make([]int, len(X))
	for i, row := range X {
		if sigmoid(m.decision(row)) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Attributions pairs the fitted per-feature scores with their names.
func (m *LogisticRegression) Attributions(featureNames []string) ([]Attribution, error) {
	if !m.fitted {
		return nil, fmt.Errorf("logistic regression: not fitted")
	}
	if len(featureNames) != len(m.attributions) {
		return nil, fmt.Errorf("logistic regression: %d feature names for %d features", len(featureNames), len(m.attributions))
	}

	attrs := make([]Attribution, len(featureNames))
	for j, name := range featureNames {
		attrs[j] = Attribution{Feature: name, Score: m.attributions[j]}
	}
	return attrs, nil
}

func (m *LogisticRegression) decision(x []float64) float64 {
	sum := m.bias
	for j, v := range x {
		sum += m.weights[j] * v
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
