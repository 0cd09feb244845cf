// Package pipeline orchestrates the preprocessing chain that turns a raw
// survey table into the processed matrix the clusterer and the model bench
// consume: imputation, categorical encoding, min-max normalization,
// principal component reduction, composite scoring, and exclusion
// clustering. Stages run in a fixed order over a shared State; the Runner
// enforces the row-alignment invariant between them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "finclusion/internal/errors"
)

// Stage is one step of the preprocessing chain. Stages run strictly in
// order; Validate catches wiring mistakes (a stage run before its inputs
// exist) before Execute touches the data.
type Stage interface {
	// ID returns the short identifier used in logs and error messages.
	ID() string

	// Name returns the human-readable stage name.
	Name() string

	// Validate checks that the state holds everything the stage needs.
	Validate(state *State) error

	// Execute runs the stage against the state.
	Execute(ctx context.Context, state *State) error
}

// Runner executes stages in order with per-stage logging and timing, and
// re-checks the row-alignment invariant after every stage. The first
// failure aborts the run: every stage feeds the next, so there is nothing
// to salvage downstream of a bad artifact.
type Runner struct {
	stages []Stage
	logger *slog.Logger
}

// NewRunner creates a runner over the given stages.
func NewRunner(logger *slog.Logger, stages ...Stage) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{stages: stages, logger: logger}
}

// Run executes every stage against the state.
func (r *Runner) Run(ctx context.Context, state *State) error {
	if state == nil || state.Raw == nil {
		return fmt.Errorf("run without a loaded table")
	}

	start := time.Now()
	r.logger.InfoContext(ctx, "starting pipeline",
		"stages", len(r.stages),
		"rows", state.Raw.Rows(),
		"columns", state.Raw.Cols(),
	)

	for _, stage := range r.stages {
		select {
		case <-ctx.Done():
			return fmt.Errorf("pipeline cancelled before stage %s: %w", stage.ID(), ctx.Err())
		default:
		}

		if err := stage.Validate(state); err != nil {
			return fmt.Errorf("stage %s: validate: %w", stage.ID(), err)
		}

		stageStart := time.Now()
		r.logger.InfoContext(ctx, "stage starting", "stage", stage.ID(), "name", stage.Name())

		if err := stage.Execute(ctx, state); err != nil {
			r.logger.ErrorContext(ctx, "stage failed",
				"stage", stage.ID(),
				"error", err,
			)
			return fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		if err := checkAlignment(stage.ID(), state); err != nil {
			return err
		}

		r.logger.InfoContext(ctx, "stage completed",
			"stage", stage.ID(),
			"duration", time.Since(stageStart),
		)
	}

	r.logger.InfoContext(ctx, "pipeline completed",
		"duration", time.Since(start),
		"rows", state.Raw.Rows(),
	)
	return nil
}

// checkAlignment verifies that every populated artifact still has one row
// per respondent.
func checkAlignment(stageID string, state *State) error {
	want := state.Raw.Rows()
	for artifact, got := range state.artifactRows() {
		if got != want {
			return fmt.Errorf("artifact %s after stage %s: %w",
				artifact, stageID, apperrors.NewShapeMismatch(stageID, want, got))
		}
	}
	return nil
}
