package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "finclusion/internal/errors"
	"finclusion/internal/stats"
)

func stateWithFeatures(t *testing.T, names []string, cols [][]float64, numeric []int) *State {
	t.Helper()
	fm, err := FromColumns(names, cols)
	require.NoError(t, err)

	table := buildTable(t, []string{"placeholder"}, [][]string{{"1"}})
	state := NewState(table)
	state.Features = fm
	state.NumericFeatures = numeric
	return state
}

func TestNormalizeStage(t *testing.T) {
	state := stateWithFeatures(t,
		[]string{"txn_amt"},
		[][]float64{{10, 20, 30, 40, 50}},
		[]int{0},
	)

	stage := NewNormalizeStage(stats.DegenerateFail)
	require.NoError(t, stage.Execute(context.Background(), state))

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1.0}, state.Features.Col(0))
}

func TestNormalizeStageSkipsEncodedColumns(t *testing.T) {
	// Column 0 is numeric-origin; column 1 is a one-hot indicator and
	// column 2 an integer-coded field. Only column 0 may change.
	state := stateWithFeatures(t,
		[]string{"txn_amt", "region=north", "district"},
		[][]float64{
			{0, 50, 100},
			{1, 0, 1},
			{3, 11, 7},
		},
		[]int{0},
	)

	require.NoError(t, NewNormalizeStage(stats.DegenerateFail).Execute(context.Background(), state))

	assert.Equal(t, []float64{0, 0.5, 1}, state.Features.Col(0))
	assert.Equal(t, []float64{1, 0, 1}, state.Features.Col(1))
	assert.Equal(t, []float64{3, 11, 7}, state.Features.Col(2))
}

func TestNormalizeStageConstantColumn(t *testing.T) {
	t.Run("fail policy names the column", func(t *testing.T) {
		state := stateWithFeatures(t,
			[]string{"flat"},
			[][]float64{{5, 5, 5}},
			[]int{0},
		)

		err := NewNormalizeStage(stats.DegenerateFail).Execute(context.Background(), state)
		require.Error(t, err)

		var dqErr *apperrors.DataQualityError
		require.True(t, errors.As(err, &dqErr))
		assert.Equal(t, "flat", dqErr.Column)
		assert.Equal(t, apperrors.ReasonConstantColumn, dqErr.Reason)
	})

	t.Run("zero policy maps to zeros", func(t *testing.T) {
		state := stateWithFeatures(t,
			[]string{"flat"},
			[][]float64{{5, 5, 5}},
			[]int{0},
		)

		require.NoError(t, NewNormalizeStage(stats.DegenerateZero).Execute(context.Background(), state))
		assert.Equal(t, []float64{0, 0, 0}, state.Features.Col(0))
	})
}

func TestNormalizeStageValidate(t *testing.T) {
	t.Run("no features", func(t *testing.T) {
		err := NewNormalizeStage(stats.DegenerateFail).Validate(&State{})
		assert.Error(t, err)
	})

	t.Run("unknown policy", func(t *testing.T) {
		state := stateWithFeatures(t, []string{"a"}, [][]float64{{1, 2}}, []int{0})
		err := NewNormalizeStage("explode").Validate(state)
		assert.Error(t, err)
	})
}
