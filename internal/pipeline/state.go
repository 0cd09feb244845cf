package pipeline

import (
	"finclusion/internal/dataset"
)

// State carries a run's data through the stages. Each stage reads the
// artifacts of earlier stages and writes its own; no stage mutates an
// artifact it did not produce, except the imputer, which fills missing
// cells of the raw table in place.
//
// Row alignment is the load-bearing invariant: row i of every artifact
// refers to the same respondent as row i of Raw. The runner re-checks it
// after every stage.
type State struct {
	// Raw is the loaded survey table. Imputation fills its missing cells;
	// nothing else changes it.
	Raw *dataset.Table

	// Features is the encoded matrix: numeric columns (min-max normalized
	// once the normalizer has run), one-hot indicators, and integer-coded
	// high-cardinality columns.
	Features *FeatureMatrix
	// NumericFeatures indexes the Features columns that originate from
	// numeric raw columns; only those are min-max normalized.
	NumericFeatures []int

	// Reduced is the PCA projection of Features.
	Reduced *FeatureMatrix
	// ExplainedVariance holds the variance ratio of each retained
	// component, in component order.
	ExplainedVariance []float64

	// Engagement and Literacy are the composite scores, one per respondent.
	Engagement []float64
	Literacy   []float64

	// Processed is Reduced plus the two score columns; the clusterer and
	// the model bench consume it.
	Processed *FeatureMatrix

	// Assignments holds each respondent's cluster id; ExcludedCluster is
	// the id the rule picked; Excluded is the derived label.
	Assignments     []int
	ExcludedCluster int
	Excluded        []bool
}

// NewState starts a run over a loaded table.
func NewState(raw *dataset.Table) *State {
	return &State{Raw: raw, ExcludedCluster: -1}
}

// artifactRows lists the row count of every populated artifact, keyed by
// artifact name, for the runner's shape check.
func (s *State) artifactRows() map[string]int {
	counts := make(map[string]int)
	if s.Features != nil {
		counts["features"] = s.Features.Rows()
	}
	if s.Reduced != nil {
		counts["reduced"] = s.Reduced.Rows()
	}
	if s.Engagement != nil {
		counts["engagement"] = len(s.Engagement)
	}
	if s.Literacy != nil {
		counts["literacy"] = len(s.Literacy)
	}
	if s.Processed != nil {
		counts["processed"] = s.Processed.Rows()
	}
	if s.Assignments != nil {
		counts["assignments"] = len(s.Assignments)
	}
	if s.Excluded != nil {
		counts["labels"] = len(s.Excluded)
	}
	return counts
}
