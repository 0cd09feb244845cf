package model

import (
	"math/rand"
	"sort"
)

// treeConfig holds the growth limits shared by the ensemble trees.
type treeConfig struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 means consider every feature
}

// treeNode is one node of a fitted classification tree. Rows with
// x[feature] <= threshold descend left.
type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	label     int
}

// decisionTree is a CART binary classifier on gini impurity. Splits are
// searched in ascending feature order with midpoint thresholds between
// sorted distinct values; equal gains keep the first candidate, so a
// fitted tree is deterministic for a fixed feature subsample order.
type decisionTree struct {
	cfg         treeConfig
	root        *treeNode
	features    int
	importances []float64
}

// fit grows the tree over the rows selected by idx. The rng drives the
// per-node feature subsample when MaxFeatures is set; passing the parent
// ensemble's seeded rng keeps the whole ensemble reproducible.
func (t *decisionTree) fit(X [][]float64, y []int, idx []int, rng *rand.Rand) {
	t.features = len(X[0])
	t.importances = make([]float64, t.features)
	t.root = t.buildNode(X, y, idx, 0, len(idx), rng)
}

// predictRow walks a single row to its leaf label.
func (t *decisionTree) predictRow(x []float64) int {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.label
}

// normalizedImportances returns the accumulated impurity decreases scaled
// to sum to 1, or all zeros for a stump.
func (t *decisionTree) normalizedImportances() []float64 {
	out := make([]float64, len(t.importances))
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total == 0 {
		return out
	}
	for j, v := range t.importances {
		out[j] = v / total
	}
	return out
}

type splitCandidate struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func (t *decisionTree) buildNode(X [][]float64, y []int, idx []int, depth, total int, rng *rand.Rand) *treeNode {
	var counts [2]int
	for _, i := range idx {
		counts[y[i]]++
	}

	leaf := &treeNode{leaf: true, label: majorityLabel(counts)}
	if counts[0] == 0 || counts[1] == 0 {
		return leaf
	}
	if len(idx) < t.cfg.MinSamplesSplit {
		return leaf
	}
	if t.cfg.MaxDepth > 0 && depth >= t.cfg.MaxDepth {
		return leaf
	}

	best := t.bestSplit(X, y, idx, counts, rng)
	if best.feature < 0 {
		return leaf
	}

	t.importances[best.feature] += float64(len(idx)) / float64(total) * best.gain

	return &treeNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.buildNode(X, y, best.left, depth+1, total, rng),
		right:     t.buildNode(X, y, best.right, depth+1, total, rng),
	}
}

// bestSplit scans candidate features for the threshold with the largest
// gini gain. Features are visited in ascending index order and only a
// strictly larger gain replaces the incumbent.
func (t *decisionTree) bestSplit(X [][]float64, y []int, idx []int, counts [2]int, rng *rand.Rand) splitCandidate {
	best := splitCandidate{feature: -1}
	parent := gini(counts)
	n := float64(len(idx))

	order := make([]int, len(idx))

	for _, f := range t.candidateFeatures(rng) {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return X[order[a]][f] < X[order[b]][f]
		})

		var leftCounts [2]int
		rightCounts := counts
		for s := 1; s < len(order); s++ {
			moved := order[s-1]
			leftCounts[y[moved]]++
			rightCounts[y[moved]]--

			prev, cur := X[order[s-1]][f], X[order[s]][f]
			if prev == cur {
				continue
			}
			if s < t.cfg.MinSamplesLeaf || len(order)-s < t.cfg.MinSamplesLeaf {
				continue
			}

			weighted := float64(s)/n*gini(leftCounts) + float64(len(order)-s)/n*gini(rightCounts)
			gain := parent - weighted
			if gain > best.gain && gain > 1e-12 {
				best = splitCandidate{
					feature:   f,
					threshold: (prev + cur) / 2,
					gain:      gain,
					left:      append([]int(nil), order[:s]...),
					right:     append([]int(nil), order[s:]...),
				}
			}
		}
	}
	return best
}

// candidateFeatures returns the feature indices to try at a node. With
// MaxFeatures set, a random subset is drawn and then sorted so the scan
// order stays ascending.
func (t *decisionTree) candidateFeatures(rng *rand.Rand) []int {
	all := make([]int, t.features)
	for j := range all {
		all[j] = j
	}
	if t.cfg.MaxFeatures <= 0 || t.cfg.MaxFeatures >= t.features || rng == nil {
		return all
	}
	for j := 0; j < t.cfg.MaxFeatures; j++ {
		k := j + rng.Intn(t.features-j)
		all[j], all[k] = all[k], all[j]
	}
	subset := all[:t.cfg.MaxFeatures]
	sort.Ints(subset)
	return subset
}

func gini(counts [2]int) float64 {
	n := float64(counts[0] + counts[1])
	if n == 0 {
		return 0
	}
	p0 := float64(counts[0]) / n
	p1 := float64(counts[1]) / n
	return 1 - p0*p0 - p1*p1
}

// majorityLabel breaks ties toward class 0.
func majorityLabel(counts [2]int) int {
	if counts[1] > counts[0] {
		return 1
	}
	return 0
}
