package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "finclusion/internal/errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ReduceStage projects the feature matrix onto its principal components,
// keeping the smallest number whose cumulative explained-variance ratio
// reaches the target. The decomposition runs once over the full dataset;
// this is descriptive reduction, not a fitted model, so there is no
// train/test split here. SVD makes the result deterministic for a given
// input.
type ReduceStage struct {
	VarianceTarget float64
}

// NewReduceStage creates the reduction stage.
func NewReduceStage(varianceTarget float64) *ReduceStage {
	return &ReduceStage{VarianceTarget: varianceTarget}
}

// ID implements Stage
func (s *ReduceStage) ID() string { return "reduce" }

// Name implements Stage
func (s *ReduceStage) Name() string { return "principal component reduction" }

// Validate implements Stage
func (s *ReduceStage) Validate(state *State) error {
	if state.Features == nil {
		return fmt.Errorf("no feature matrix; encoding must run first")
	}
	if s.VarianceTarget <= 0 || s.VarianceTarget > 1 {
		return fmt.Errorf("variance target %v outside (0, 1]", s.VarianceTarget)
	}
	if state.Features.Rows() < 2 {
		return fmt.Errorf("need at least 2 rows, have %d", state.Features.Rows())
	}
	return nil
}

// Execute implements Stage
func (s *ReduceStage) Execute(ctx context.Context, state *State) error {
	rows, cols := state.Features.M.Dims()

	var pc stat.PC
	if ok := pc.PrincipalComponents(state.Features.M, nil); !ok {
		return fmt.Errorf("principal component decomposition failed")
	}

	vars := pc.VarsTo(nil)
	total := 0.0
	for _, v := range vars {
		total += v
	}
	if total == 0 {
		return apperrors.NewDataQuality(s.ID(), "", "every feature is constant; nothing to project")
	}

	// Smallest k whose cumulative explained-variance ratio reaches the
	// target. vars is ordered by decreasing variance.
	ratios := make([]float64, len(vars))
	k := len(vars)
	cumulative := 0.0
	for i, v := range vars {
		cumulative += v / total
		ratios[i] = v / total
		if cumulative >= s.VarianceTarget {
			k = i + 1
			break
		}
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// Project the centered data onto the first k components. stat.PC
	// centers internally for the decomposition, so the projection has to
	// center with the same column means.
	centered := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, state.Features.M)
		mean := stat.Mean(col, nil)
		for i := 0; i < rows; i++ {
			centered.Set(i, j, col[i]-mean)
		}
	}

	projected := mat.NewDense(rows, k, nil)
	projected.Mul(centered, vectors.Slice(0, cols, 0, k))

	names := make([]string, k)
	for i := range names {
		names[i] = fmt.Sprintf("PC%d", i+1)
	}

	state.Reduced = &FeatureMatrix{Names: names, M: projected}
	state.ExplainedVariance = ratios[:k]

	slog.Default().InfoContext(ctx, "reduction complete",
		"input_features", cols,
		"components", k,
		"cumulative_variance", cumulative,
	)
	return nil
}
