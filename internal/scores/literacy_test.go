package scores

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "finclusion/internal/errors"
	"finclusion/internal/stats"
)

func TestLiteracyCompute(t *testing.T) {
	table := buildTable(t,
		[]string{"education_level", "wealth_quintile", "region"},
		[][]string{
			{"Primary", "1", "north"},
			{"Secondary", "2", "south"},
			{"Tertiary", "3", "north"},
			{"University", "4", "east"},
			{"Secondary", "5", "south"},
		},
	)

	calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateFail)
	got, err := calc.Compute(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, got, 5)

	// Ordinals [1,2,3,4,2] normalize to [0,1/3,2/3,1,1/3]; wealth [1..5]
	// normalizes to [0,.25,.5,.75,1].
	want := []float64{
		0,
		0.6/3.0 + 0.4*0.25,
		0.6*2.0/3.0 + 0.4*0.5,
		0.6 + 0.4*0.75,
		0.6/3.0 + 0.4,
	}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "row %d", i)
	}
}

func TestLiteracyUnmappedEducation(t *testing.T) {
	table := buildTable(t,
		[]string{"education_level", "wealth_quintile"},
		[][]string{
			{"Primary", "1"},
			{"Doctorate", "2"},
		},
	)

	calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateFail)
	_, err := calc.Compute(context.Background(), table)
	require.Error(t, err)

	var dqErr *apperrors.DataQualityError
	require.True(t, errors.As(err, &dqErr))
	assert.Equal(t, "education_level", dqErr.Column)
	assert.Equal(t, apperrors.ReasonUnmappedValue, dqErr.Reason)
	assert.Equal(t, "Doctorate", dqErr.Value)
}

func TestLiteracyColumnErrors(t *testing.T) {
	t.Run("education column absent", func(t *testing.T) {
		table := buildTable(t,
			[]string{"wealth_quintile"},
			[][]string{{"1"}, {"2"}},
		)
		calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateFail)
		_, err := calc.Compute(context.Background(), table)

		var dqErr *apperrors.DataQualityError
		require.True(t, errors.As(err, &dqErr))
		assert.Equal(t, "education_level", dqErr.Column)
		assert.Equal(t, apperrors.ReasonMissingColumn, dqErr.Reason)
	})

	t.Run("education column numeric", func(t *testing.T) {
		table := buildTable(t,
			[]string{"education_level", "wealth_quintile"},
			[][]string{{"1", "1"}, {"2", "2"}},
		)
		calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateFail)
		_, err := calc.Compute(context.Background(), table)

		var dqErr *apperrors.DataQualityError
		require.True(t, errors.As(err, &dqErr))
		assert.Equal(t, apperrors.ReasonNotCategorical, dqErr.Reason)
	})

	t.Run("wealth column categorical", func(t *testing.T) {
		table := buildTable(t,
			[]string{"education_level", "wealth_quintile"},
			[][]string{{"Primary", "low"}, {"Secondary", "high"}},
		)
		calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateFail)
		_, err := calc.Compute(context.Background(), table)

		var dqErr *apperrors.DataQualityError
		require.True(t, errors.As(err, &dqErr))
		assert.Equal(t, "wealth_quintile", dqErr.Column)
		assert.Equal(t, apperrors.ReasonNotNumeric, dqErr.Reason)
	})
}

func TestLiteracyConstantEducation(t *testing.T) {
	table := buildTable(t,
		[]string{"education_level", "wealth_quintile"},
		[][]string{
			{"Secondary", "1"},
			{"Secondary", "5"},
		},
	)

	calc := NewLiteracyCalculator("education_level", "wealth_quintile", stats.DegenerateZero)
	got, err := calc.Compute(context.Background(), table)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 0.4, got[1], 1e-12)
}
