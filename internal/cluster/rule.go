package cluster

import (
	"fmt"
)

// ExcludedRule decides which fitted cluster carries the "excluded" label.
// The rule sees the fitted clusterer, the clustered feature rows, and the
// per-row engagement scores, and returns a cluster id. Swapping the rule
// changes label polarity without touching the clustering itself.
type ExcludedRule func(km *KMeans, X [][]float64, engagement []float64) (int, error)

// MinEngagementRule labels the cluster of the respondent with the globally
// minimum engagement score. Ties on the minimum keep the lowest row index.
// The respondent's cluster id comes from re-querying the fitted clusterer
// with that row's feature vector.
func MinEngagementRule(km *KMeans, X [][]float64, engagement []float64) (int, error) {
	if len(engagement) == 0 {
		return 0, fmt.Errorf("no engagement scores")
	}
	if len(engagement) != len(X) {
		return 0, fmt.Errorf("%d engagement scores for %d rows", len(engagement), len(X))
	}

	minRow := 0
	for i, v := range engagement {
		if v < engagement[minRow] {
			minRow = i
		}
	}
	return km.Predict(X[minRow])
}

// Labels expands a cluster id into per-row boolean exclusion labels.
func Labels(assignments []int, excluded int) []bool {
	labels := make([]bool, len(assignments))
	for i, c := range assignments {
		labels[i] = c == excluded
	}
	return labels
}
