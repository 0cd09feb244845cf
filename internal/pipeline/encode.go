package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"finclusion/internal/dataset"
	apperrors "finclusion/internal/errors"
)

// EncodeStage turns the raw table into the feature matrix. Numeric columns
// pass through as single features. A categorical column expands to one-hot
// indicators when its cardinality is at or below the threshold, and to a
// single integer-coded feature above it. Categories are processed in
// sorted order, so indicator column order and code assignment are stable
// under row reordering.
type EncodeStage struct {
	CardinalityThreshold int
}

// NewEncodeStage creates the encoding stage.
func NewEncodeStage(cardinalityThreshold int) *EncodeStage {
	return &EncodeStage{CardinalityThreshold: cardinalityThreshold}
}

// ID implements Stage
func (s *EncodeStage) ID() string { return "encode" }

// Name implements Stage
func (s *EncodeStage) Name() string { return "categorical encoding" }

// Validate implements Stage
func (s *EncodeStage) Validate(state *State) error {
	if state.Raw == nil {
		return fmt.Errorf("no table loaded")
	}
	if s.CardinalityThreshold < 2 {
		return fmt.Errorf("cardinality threshold %d, want at least 2", s.CardinalityThreshold)
	}
	for _, col := range state.Raw.Columns() {
		if col.MissingCount() > 0 {
			return fmt.Errorf("column %q still has missing values; imputation must run first", col.Name)
		}
	}
	return nil
}

// Execute implements Stage
func (s *EncodeStage) Execute(ctx context.Context, state *State) error {
	var (
		names      []string
		cols       [][]float64
		numericIdx []int
		oneHotCols int
		codedCols  int
	)

	for _, col := range state.Raw.Columns() {
		switch col.Kind {
		case dataset.KindNumeric:
			vals := make([]float64, len(col.Nums))
			copy(vals, col.Nums)
			numericIdx = append(numericIdx, len(names))
			names = append(names, col.Name)
			cols = append(cols, vals)

		case dataset.KindCategorical:
			distinct := col.Distinct()
			if len(distinct) == 0 {
				return apperrors.NewDataQuality(s.ID(), col.Name, apperrors.ReasonAllMissing)
			}

			if len(distinct) > s.CardinalityThreshold {
				codes := make(map[string]float64, len(distinct))
				for code, cat := range distinct {
					codes[cat] = float64(code)
				}
				vals := make([]float64, len(col.Cats))
				for i, cat := range col.Cats {
					vals[i] = codes[cat]
				}
				names = append(names, col.Name)
				cols = append(cols, vals)
				codedCols++
				continue
			}

			for _, cat := range distinct {
				vals := make([]float64, len(col.Cats))
				for i, v := range col.Cats {
					if v == cat {
						vals[i] = 1
					}
				}
				names = append(names, fmt.Sprintf("%s=%s", col.Name, cat))
				cols = append(cols, vals)
			}
			oneHotCols++
		}
	}

	features, err := FromColumns(names, cols)
	if err != nil {
		return fmt.Errorf("build feature matrix: %w", err)
	}
	state.Features = features
	state.NumericFeatures = numericIdx

	slog.Default().InfoContext(ctx, "encoding complete",
		"features", features.Cols(),
		"numeric_features", len(numericIdx),
		"one_hot_columns", oneHotCols,
		"integer_coded_columns", codedCols,
	)
	return nil
}
