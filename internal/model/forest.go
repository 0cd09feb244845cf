package model

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomForest is a bagged ensemble of CART trees with per-node feature
// subsampling, predicting by majority vote.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 means sqrt of the feature count
	Seed            int64

	trees        []*decisionTree
	features     int
	attributions []float64
	fitted       bool
}

// NewRandomForest returns a forest with the standard configuration.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Seed:            seed,
	}
}

// Name identifies the model in bench results.
func (m *RandomForest) Name() string { return "random_forest" }

// Fit grows NEstimators trees, each on a bootstrap sample drawn from a
// per-tree rng seeded with Seed+i, so the forest is reproducible and
// trees stay independent of training order.
func (m *RandomForest) Fit(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("random forest: %w", err)
	}
	if m.NEstimators <= 0 {
		return fmt.Errorf("random forest: %d estimators, want at least 1", m.NEstimators)
	}

	n := len(X)
	m.features = len(X[0])

	maxFeatures := m.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(m.features)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	m.trees = make([]*decisionTree, m.NEstimators)
	m.attributions = make([]float64, m.features)

	for i := 0; i < m.NEstimators; i++ {
		rng := rand.New(rand.NewSource(m.Seed + int64(i)))

		sample := make([]int, n)
		for j := range sample {
			sample[j] = rng.Intn(n)
		}

		tree := &decisionTree{cfg: treeConfig{
			MaxDepth:        m.MaxDepth,
			MinSamplesSplit: m.MinSamplesSplit,
			MinSamplesLeaf:  m.MinSamplesLeaf,
			MaxFeatures:     maxFeatures,
		}}
		tree.fit(X, y, sample, rng)
		m.trees[i] = tree

		for j, v := range tree.normalizedImportances() {
			m.attributions[j] += v
		}
	}

	// Mean impurity decrease across trees, renormalized to sum to 1.
	total := 0.0
	for _, v := range m.attributions {
		total += v
	}
	if total > 0 {
		for j := range m.attributions {
			m.attributions[j] /= total
		}
	}

	m.fitted = true
	return nil
}

// Predict returns the majority vote over all trees per row. An even split
// resolves to class 0.
func (m *RandomForest) Predict(X [][]float64) ([]int, error) {
	if !m.fitted {
		return nil, fmt.Errorf("random forest: not fitted")
	}
	if err := validatePredictData(X, m.features); err != nil {
		return nil, fmt.Errorf("random forest: %w", err)
	}

	out := make([]int, len(X))
	for i, row := range X {
		votes := 0
		for _, tree := range m.trees {
			votes += tree.predictRow(row)
		}
		if votes*2 > len(m.trees) {
			out[i] = 1
		}
	}
	return out, nil
}

// Attributions pairs the mean impurity-decrease importances with their
// feature names.
func (m *RandomForest) Attributions(featureNames []string) ([]Attribution, error) {
	if !m.fitted {
		return nil, fmt.Errorf("random forest: not fitted")
	}
	if len(featureNames) != len(m.attributions) {
		return nil, fmt.Errorf("random forest: %d feature names for %d features", len(featureNames), len(m.attributions))
	}

	attrs := make([]Attribution, len(featureNames))
	for j, name := range featureNames {
		attrs[j] = Attribution{Feature: name, Score: m.attributions[j]}
	}
	return attrs, nil
}
