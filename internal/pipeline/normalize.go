package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "finclusion/internal/errors"
	"finclusion/internal/stats"
)

// NormalizeStage rescales each numeric-origin feature to [0,1] using its
// own observed min and max. One-hot indicators are already in [0,1] and
// integer codes are nominal, so both pass through untouched.
type NormalizeStage struct {
	Policy stats.DegeneratePolicy
}

// NewNormalizeStage creates the normalization stage.
func NewNormalizeStage(policy stats.DegeneratePolicy) *NormalizeStage {
	return &NormalizeStage{Policy: policy}
}

// ID implements Stage
func (s *NormalizeStage) ID() string { return "normalize" }

// Name implements Stage
func (s *NormalizeStage) Name() string { return "min-max normalization" }

// Validate implements Stage
func (s *NormalizeStage) Validate(state *State) error {
	if state.Features == nil {
		return fmt.Errorf("no feature matrix; encoding must run first")
	}
	if !s.Policy.Valid() {
		return fmt.Errorf("unknown degenerate policy %q", s.Policy)
	}
	return nil
}

// Execute implements Stage
func (s *NormalizeStage) Execute(ctx context.Context, state *State) error {
	for _, idx := range state.NumericFeatures {
		name := state.Features.Names[idx]
		scaled, err := stats.MinMaxNormalize(state.Features.Col(idx), s.Policy)
		if err != nil {
			if errors.Is(err, stats.ErrConstantColumn) {
				return apperrors.NewDataQuality(s.ID(), name, apperrors.ReasonConstantColumn)
			}
			return fmt.Errorf("normalize column %q: %w", name, err)
		}
		state.Features.SetCol(idx, scaled)
	}

	slog.Default().InfoContext(ctx, "normalization complete",
		"columns_normalized", len(state.NumericFeatures),
		"policy", string(s.Policy),
	)
	return nil
}
