package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestDecisionTreeSingleSplit(t *testing.T) {
	// One feature with a clean class boundary between 2 and 3; the split
	// threshold is the midpoint 2.5.
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 0, 1, 1}

	tree := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	tree.fit(X, y, allRows(4), nil)

	for i, row := range X {
		assert.Equal(t, y[i], tree.predictRow(row), "row %d", i)
	}
	assert.Equal(t, 0, tree.predictRow([]float64{2.4}))
	assert.Equal(t, 1, tree.predictRow([]float64{2.6}))
}

func TestDecisionTreeMemorizesConsistentData(t *testing.T) {
	// Without depth or leaf limits the tree splits until every leaf is
	// pure, so a training set with no duplicate-row label conflicts is
	// reproduced exactly.
	X, y := xorData(8, 4)

	tree := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	tree.fit(X, y, allRows(len(X)), nil)

	for i, row := range X {
		assert.Equal(t, y[i], tree.predictRow(row), "row %d", i)
	}
}

func TestDecisionTreePureNodeIsLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{1, 1, 1}

	tree := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	tree.fit(X, y, allRows(3), nil)

	require.True(t, tree.root.leaf)
	assert.Equal(t, 1, tree.root.label)
	// A stump accumulates no impurity decrease.
	assert.Equal(t, []float64{0}, tree.normalizedImportances())
}

func treeDepth(node *treeNode) int {
	if node.leaf {
		return 0
	}
	left, right := treeDepth(node.left), treeDepth(node.right)
	if right > left {
		left = right
	}
	return 1 + left
}

func TestDecisionTreeMaxDepthStops(t *testing.T) {
	X, y := xorData(8, 4)

	tree := &decisionTree{cfg: treeConfig{MaxDepth: 2, MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	tree.fit(X, y, allRows(len(X)), nil)

	assert.LessOrEqual(t, treeDepth(tree.root), 2)
}

func TestDecisionTreeDeterministicWithoutSubsample(t *testing.T) {
	X, y := xorData(6, 8)

	first := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	first.fit(X, y, allRows(len(X)), nil)
	second := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	second.fit(X, y, allRows(len(X)), nil)

	for i, row := range X {
		assert.Equal(t, first.predictRow(row), second.predictRow(row), "row %d", i)
	}
	assert.Equal(t, first.normalizedImportances(), second.normalizedImportances())
}

func TestDecisionTreeImportancesSumToOne(t *testing.T) {
	X, y := xorData(5, 2)

	tree := &decisionTree{cfg: treeConfig{MinSamplesSplit: 2, MinSamplesLeaf: 1}}
	tree.fit(X, y, allRows(len(X)), nil)

	sum := 0.0
	for _, v := range tree.normalizedImportances() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCandidateFeatures(t *testing.T) {
	t.Run("all features without limit", func(t *testing.T) {
		tree := &decisionTree{cfg: treeConfig{}, features: 3}
		assert.Equal(t, []int{0, 1, 2}, tree.candidateFeatures(nil))
	})

	t.Run("subsample is sorted and bounded", func(t *testing.T) {
		tree := &decisionTree{cfg: treeConfig{MaxFeatures: 2}, features: 5}
		rng := rand.New(rand.NewSource(42))

		for trial := 0; trial < 20; trial++ {
			subset := tree.candidateFeatures(rng)
			require.Len(t, subset, 2)
			assert.Less(t, subset[0], subset[1])
			for _, f := range subset {
				assert.GreaterOrEqual(t, f, 0)
				assert.Less(t, f, 5)
			}
		}
	})
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, gini([2]int{0, 0}))
	assert.Equal(t, 0.0, gini([2]int{4, 0}))
	assert.InDelta(t, 0.5, gini([2]int{5, 5}), 1e-12)
	assert.InDelta(t, 0.375, gini([2]int{3, 1}), 1e-12)
}

func TestMajorityLabelTieBreaksToZero(t *testing.T) {
	assert.Equal(t, 0, majorityLabel([2]int{2, 2}))
	assert.Equal(t, 1, majorityLabel([2]int{1, 3}))
}
