package scores

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"finclusion/internal/dataset"
	apperrors "finclusion/internal/errors"
	"finclusion/internal/infrastructure"
	"finclusion/internal/stats"
)

// Column-name substrings that assign a numeric column to an engagement
// group. Matching is case-insensitive.
const (
	TransactionPattern = "transaction"
	SavingsPattern     = "savings"
)

// EngagementCalculator computes the financial engagement score from the
// transaction and savings column groups of a raw table.
type EngagementCalculator struct {
	weights Weights
	policy  stats.DegeneratePolicy
	logger  *slog.Logger
}

// NewEngagementCalculator returns a calculator with the standard
// transaction/savings weights and the given degenerate-column policy.
func NewEngagementCalculator(policy stats.DegeneratePolicy) *EngagementCalculator {
	return &EngagementCalculator{
		weights: DefaultWeights(),
		policy:  policy,
		logger:  infrastructure.GetLogger(),
	}
}

// Compute returns one engagement score per row of t. Columns are grouped
// by name substring, each matched column is min-max normalized, group
// values are averaged per row, and the two group averages are combined
// with the transaction/savings weights. A group with no matching numeric
// column is a data quality defect.
func (c *EngagementCalculator) Compute(ctx context.Context, t *dataset.Table) ([]float64, error) {
	start := time.Now()

	transaction, err := c.groupAverage(t, TransactionPattern)
	if err != nil {
		return nil, err
	}
	savings, err := c.groupAverage(t, SavingsPattern)
	if err != nil {
		return nil, err
	}

	score, err := CombineComponents(
		[][]float64{transaction, savings},
		[]float64{c.weights.Primary, c.weights.Secondary},
	)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "engagement score computed",
		slog.Int("rows", t.Rows()),
		slog.Duration("duration", time.Since(start)))
	return score, nil
}

// groupAverage normalizes every numeric column whose name contains
// pattern and averages them per row.
func (c *EngagementCalculator) groupAverage(t *dataset.Table, pattern string) ([]float64, error) {
	var matched []*dataset.Column
	for _, col := range t.NumericColumns() {
		if strings.Contains(strings.ToLower(col.Name), pattern) {
			matched = append(matched, col)
		}
	}
	if len(matched) == 0 {
		return nil, apperrors.NewDataQuality("engagement", pattern, apperrors.ReasonNoMatchingGroup)
	}

	sums := make([]float64, t.Rows())
	for _, col := range matched {
		normalized, err := stats.MinMaxNormalize(col.Nums, c.policy)
		if err != nil {
			if errors.Is(err, stats.ErrConstantColumn) {
				return nil, apperrors.NewDataQuality("engagement", col.Name, apperrors.ReasonConstantColumn)
			}
			return nil, apperrors.NewDataQuality("engagement", col.Name, err.Error())
		}
		for i, v := range normalized {
			sums[i] += v
		}
	}

	n := float64(len(matched))
	avg := make([]float64, len(sums))
	for i, v := range sums {
		avg[i] = v / n
	}
	return avg, nil
}
