package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"finclusion/internal/dataset"
	apperrors "finclusion/internal/errors"
	"finclusion/internal/stats"
)

// ImputeStage fills missing cells in place: the column median for numeric
// columns, the most frequent value for categorical columns. Columns are
// independent, so processing order does not matter. A column with no
// non-missing values has no defined median or mode and fails the run.
type ImputeStage struct{}

// NewImputeStage creates the imputation stage.
func NewImputeStage() *ImputeStage { return &ImputeStage{} }

// ID implements Stage
func (s *ImputeStage) ID() string { return "impute" }

// Name implements Stage
func (s *ImputeStage) Name() string { return "missing-value imputation" }

// Validate implements Stage
func (s *ImputeStage) Validate(state *State) error {
	if state.Raw == nil {
		return fmt.Errorf("no table loaded")
	}
	return nil
}

// Execute implements Stage
func (s *ImputeStage) Execute(ctx context.Context, state *State) error {
	logger := slog.Default()
	imputed := 0

	for _, col := range state.Raw.Columns() {
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}

		if missing == col.Len() {
			return apperrors.NewDataQuality(s.ID(), col.Name, apperrors.ReasonAllMissing)
		}

		switch col.Kind {
		case dataset.KindNumeric:
			median := stats.Median(col.NonMissingNums())
			for i := range col.Nums {
				if col.IsMissing(i) {
					col.Nums[i] = median
				}
			}
			logger.DebugContext(ctx, "imputed numeric column",
				"column", col.Name,
				"filled", missing,
				"median", median,
			)
		case dataset.KindCategorical:
			mode, count := stats.Mode(col.NonMissingCats())
			for i := range col.Cats {
				if col.IsMissing(i) {
					col.Cats[i] = mode
				}
			}
			logger.DebugContext(ctx, "imputed categorical column",
				"column", col.Name,
				"filled", missing,
				"mode", mode,
				"mode_count", count,
			)
		}
		imputed++
	}

	logger.InfoContext(ctx, "imputation complete",
		"columns_imputed", imputed,
		"columns_total", state.Raw.Cols(),
	)
	return nil
}
