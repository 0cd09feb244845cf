package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// GradientBoosting is an additive ensemble of shallow regression trees
// fitted to the gradient of the log loss, with Newton leaf values and
// shrinkage.
type GradientBoosting struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	Subsample      float64 // fraction of rows per round; 1 trains on all
	Seed           int64

	baseScore float64
	trees     []*regressionNode
	features  int
	fitted    bool
}

// NewGradientBoosting returns a booster with the standard configuration.
// The seed only matters when Subsample is below 1; the default full-sample
// fit is deterministic without it.
func NewGradientBoosting(seed int64) *GradientBoosting {
	return &GradientBoosting{
		Rounds:         100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 1,
		Subsample:      1.0,
		Seed:           seed,
	}
}

// Name identifies the model in bench results.
func (m *GradientBoosting) Name() string { return "gradient_boosting" }

// Fit starts from the log odds of the positive class and adds Rounds
// trees, each fitted to the current residuals y - p. Leaf values take a
// Newton step, sum of residuals over sum of p(1-p).
func (m *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("gradient boosting: %w", err)
	}
	if m.Rounds <= 0 || m.LearningRate <= 0 {
		return fmt.Errorf("gradient boosting: rounds %d and learning rate %v must be positive", m.Rounds, m.LearningRate)
	}
	if m.MaxDepth <= 0 {
		return fmt.Errorf("gradient boosting: max depth %d, want at least 1", m.MaxDepth)
	}
	if m.Subsample <= 0 || m.Subsample > 1 {
		return fmt.Errorf("gradient boosting: subsample %v, want in (0,1]", m.Subsample)
	}

	n := len(X)
	m.features = len(X[0])

	positives := 0
	for _, label := range y {
		positives += label
	}
	p0 := clampProbability(float64(positives) / float64(n))
	m.baseScore = math.Log(p0 / (1 - p0))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = m.baseScore
	}

	residual := make([]float64, n)
	hessian := make([]float64, n)
	rng := rand.New(rand.NewSource(m.Seed))

	m.trees = make([]*regressionNode, 0, m.Rounds)
	for round := 0; round < m.Rounds; round++ {
		for i := range scores {
			p := sigmoid(scores[i])
			residual[i] = float64(y[i]) - p
			hessian[i] = p * (1 - p)
		}

		idx := m.roundSample(n, rng)
		tree := buildRegressionNode(X, residual, hessian, idx, 0, m.MaxDepth, m.MinSamplesLeaf)
		m.trees = append(m.trees, tree)

		for i, row := range X {
			scores[i] += m.LearningRate * tree.predict(row)
		}
	}

	m.fitted = true
	return nil
}

// Predict labels each row 1 when the boosted score maps to a probability
// of at least 0.5.
func (m *GradientBoosting) Predict(X [][]float64) ([]int, error) {
	if !m.fitted {
		return nil, fmt.Errorf("gradient boosting: not fitted")
	}
	if err := validatePredictData(X, m.features); err != nil {
		return nil, fmt.Errorf("gradient boosting: %w", err)
	}

	out := make([]int, len(X))
	for i, row := range X {
		score := m.baseScore
		for _, tree := range m.trees {
			score += m.LearningRate * tree.predict(row)
		}
		if sigmoid(score) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// roundSample picks the training rows for one round. Full subsample keeps
// every row in order, so the rng is untouched and the fit deterministic.
func (m *GradientBoosting) roundSample(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if m.Subsample >= 1 {
		return idx
	}
	keep := int(math.Ceil(m.Subsample * float64(n)))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	sampled := idx[:keep]
	return sampled
}

func clampProbability(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}

// regressionNode is one node of a least-squares regression tree over the
// boosting residuals.
type regressionNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *regressionNode
	right     *regressionNode
	value     float64
}

func (t *regressionNode) predict(x []float64) float64 {
	node := t
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// buildRegressionNode grows a tree on squared-error splits over the
// residuals. Leaf values are the Newton step sum(residual)/sum(hessian).
func buildRegressionNode(X [][]float64, residual, hessian []float64, idx []int, depth, maxDepth, minLeaf int) *regressionNode {
	if depth >= maxDepth || len(idx) < 2*minLeaf || len(idx) < 2 {
		return regressionLeaf(residual, hessian, idx)
	}

	feature, threshold, left, right, ok := bestRegressionSplit(X, residual, idx, minLeaf)
	if !ok {
		return regressionLeaf(residual, hessian, idx)
	}

	return &regressionNode{
		feature:   feature,
		threshold: threshold,
		left:      buildRegressionNode(X, residual, hessian, left, depth+1, maxDepth, minLeaf),
		right:     buildRegressionNode(X, residual, hessian, right, depth+1, maxDepth, minLeaf),
	}
}

func regressionLeaf(residual, hessian []float64, idx []int) *regressionNode {
	num, den := 0.0, 0.0
	for _, i := range idx {
		num += residual[i]
		den += hessian[i]
	}
	if den < 1e-12 {
		den = 1e-12
	}
	return &regressionNode{leaf: true, value: num / den}
}

// bestRegressionSplit scans every feature for the threshold with the
// largest squared-error reduction, visiting features in ascending order so
// equal reductions keep the first candidate.
func bestRegressionSplit(X [][]float64, residual []float64, idx []int, minLeaf int) (int, float64, []int, []int, bool) {
	d := len(X[0])
	n := len(idx)

	parentSum := 0.0
	parentSumSq := 0.0
	for _, i := range idx {
		parentSum += residual[i]
		parentSumSq += residual[i] * residual[i]
	}
	parentSSE := parentSumSq - parentSum*parentSum/float64(n)

	bestGain := 1e-12
	bestFeature := -1
	bestThreshold := 0.0
	var bestLeft, bestRight []int

	order := make([]int, n)
	for f := 0; f < d; f++ {
		copy(order, idx)
		sortByFeature(order, X, f)

		leftSum, leftSumSq := 0.0, 0.0
		rightSum, rightSumSq := parentSum, parentSumSq
		for s := 1; s < n; s++ {
			moved := order[s-1]
			r := residual[moved]
			leftSum += r
			leftSumSq += r * r
			rightSum -= r
			rightSumSq -= r * r

			prev, cur := X[order[s-1]][f], X[order[s]][f]
			if prev == cur {
				continue
			}
			if s < minLeaf || n-s < minLeaf {
				continue
			}

			leftSSE := leftSumSq - leftSum*leftSum/float64(s)
			rightSSE := rightSumSq - rightSum*rightSum/float64(n-s)
			gain := parentSSE - leftSSE - rightSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (prev + cur) / 2
				bestLeft = append(bestLeft[:0], order[:s]...)
				bestRight = append(bestRight[:0], order[s:]...)
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, nil, nil, false
	}
	left := append([]int(nil), bestLeft...)
	right := append([]int(nil), bestRight...)
	return bestFeature, bestThreshold, left, right, true
}

// sortByFeature is stable on the incoming order so equal feature values
// keep their original relative position.
func sortByFeature(order []int, X [][]float64, f int) {
	sort.SliceStable(order, func(a, b int) bool {
		return X[order[a]][f] < X[order[b]][f]
	})
}
