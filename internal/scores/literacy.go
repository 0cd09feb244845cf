package scores

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"finclusion/internal/dataset"
	apperrors "finclusion/internal/errors"
	"finclusion/internal/infrastructure"
	"finclusion/internal/stats"
)

// EducationLevels maps the recognized education labels to their ordinal
// rank. Any other label in the education column is a data quality defect;
// silently coding it would corrupt the ordering.
var EducationLevels = map[string]float64{
	"Primary":    1,
	"Secondary":  2,
	"Tertiary":   3,
	"University": 4,
}

// LiteracyCalculator computes the financial literacy score from the
// education level and wealth quintile columns of a raw table.
type LiteracyCalculator struct {
	educationColumn string
	wealthColumn    string
	weights         Weights
	policy          stats.DegeneratePolicy
	logger          *slog.Logger
}

// NewLiteracyCalculator returns a calculator reading the named education
// and wealth columns.
func NewLiteracyCalculator(educationColumn, wealthColumn string, policy stats.DegeneratePolicy) *LiteracyCalculator {
	return &LiteracyCalculator{
		educationColumn: educationColumn,
		wealthColumn:    wealthColumn,
		weights:         DefaultWeights(),
		policy:          policy,
		logger:          infrastructure.GetLogger(),
	}
}

// Compute returns one literacy score per row of t. Education labels are
// mapped to their ordinal rank, the ranks and the wealth quintile are
// min-max normalized over the observed values, and the two are combined
// with the education/wealth weights.
func (c *LiteracyCalculator) Compute(ctx context.Context, t *dataset.Table) ([]float64, error) {
	start := time.Now()

	education, err := c.educationOrdinals(t)
	if err != nil {
		return nil, err
	}
	wealth, err := c.wealthValues(t)
	if err != nil {
		return nil, err
	}

	educationNorm, err := c.normalize(c.educationColumn, education)
	if err != nil {
		return nil, err
	}
	wealthNorm, err := c.normalize(c.wealthColumn, wealth)
	if err != nil {
		return nil, err
	}

	score, err := CombineComponents(
		[][]float64{educationNorm, wealthNorm},
		[]float64{c.weights.Primary, c.weights.Secondary},
	)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "literacy score computed",
		slog.Int("rows", t.Rows()),
		slog.Duration("duration", time.Since(start)))
	return score, nil
}

func (c *LiteracyCalculator) educationOrdinals(t *dataset.Table) ([]float64, error) {
	col, ok := t.Column(c.educationColumn)
	if !ok {
		return nil, apperrors.NewDataQuality("literacy", c.educationColumn, apperrors.ReasonMissingColumn)
	}
	if col.Kind != dataset.KindCategorical {
		return nil, apperrors.NewDataQuality("literacy", c.educationColumn, apperrors.ReasonNotCategorical)
	}

	ordinals := make([]float64, col.Len())
	for i, label := range col.Cats {
		rank, ok := EducationLevels[label]
		if !ok {
			return nil, apperrors.NewDataQualityValue("literacy", c.educationColumn, apperrors.ReasonUnmappedValue, label)
		}
		ordinals[i] = rank
	}
	return ordinals, nil
}

func (c *LiteracyCalculator) wealthValues(t *dataset.Table) ([]float64, error) {
	col, ok := t.Column(c.wealthColumn)
	if !ok {
		return nil, apperrors.NewDataQuality("literacy", c.wealthColumn, apperrors.ReasonMissingColumn)
	}
	if col.Kind != dataset.KindNumeric {
		return nil, apperrors.NewDataQuality("literacy", c.wealthColumn, apperrors.ReasonNotNumeric)
	}
	values := make([]float64, col.Len())
	copy(values, col.Nums)
	return values, nil
}

func (c *LiteracyCalculator) normalize(name string, values []float64) ([]float64, error) {
	normalized, err := stats.MinMaxNormalize(values, c.policy)
	if err != nil {
		if errors.Is(err, stats.ErrConstantColumn) {
			return nil, apperrors.NewDataQuality("literacy", name, apperrors.ReasonConstantColumn)
		}
		return nil, apperrors.NewDataQuality("literacy", name, err.Error())
	}
	return normalized, nil
}
