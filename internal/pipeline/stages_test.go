package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finclusion/internal/cluster"
	"finclusion/internal/config"
	"finclusion/internal/stats"
)

func scoresState(t *testing.T) *State {
	t.Helper()
	table := buildTable(t,
		[]string{"transaction_amt", "savings_balance", "education_level", "wealth_quintile"},
		[][]string{
			{"10", "0", "Primary", "1"},
			{"20", "100", "Secondary", "2"},
			{"30", "50", "Tertiary", "3"},
			{"40", "25", "University", "4"},
			{"50", "75", "Secondary", "5"},
		},
	)
	state := NewState(table)

	reduced, err := FromColumns([]string{"PC1"}, [][]float64{{-2, -1, 0, 1, 2}})
	require.NoError(t, err)
	state.Reduced = reduced
	return state
}

func TestScoresStage(t *testing.T) {
	state := scoresState(t)

	stage := NewScoresStage("education_level", "wealth_quintile", stats.DegenerateFail)
	require.NoError(t, stage.Validate(state))
	require.NoError(t, stage.Execute(context.Background(), state))

	require.Len(t, state.Engagement, 5)
	require.Len(t, state.Literacy, 5)
	for i := range state.Engagement {
		assert.GreaterOrEqual(t, state.Engagement[i], 0.0)
		assert.LessOrEqual(t, state.Engagement[i], 1.0)
		assert.GreaterOrEqual(t, state.Literacy[i], 0.0)
		assert.LessOrEqual(t, state.Literacy[i], 1.0)
	}

	require.NotNil(t, state.Processed)
	assert.Equal(t, []string{"PC1", EngagementColumn, LiteracyColumn}, state.Processed.Names)
	assert.Equal(t, state.Engagement, state.Processed.Col(1))
	assert.Equal(t, state.Literacy, state.Processed.Col(2))
}

func TestScoresStageValidate(t *testing.T) {
	t.Run("no reduced matrix", func(t *testing.T) {
		table := buildTable(t, []string{"a"}, [][]string{{"1"}})
		err := NewScoresStage("education_level", "wealth_quintile", stats.DegenerateFail).Validate(NewState(table))
		assert.Error(t, err)
	})

	t.Run("blank column names", func(t *testing.T) {
		state := scoresState(t)
		err := NewScoresStage("", "wealth_quintile", stats.DegenerateFail).Validate(state)
		assert.Error(t, err)
	})

	t.Run("bad policy", func(t *testing.T) {
		state := scoresState(t)
		err := NewScoresStage("education_level", "wealth_quintile", "explode").Validate(state)
		assert.Error(t, err)
	})
}

func TestScoresStageSurfacesCalculatorError(t *testing.T) {
	state := scoresState(t)

	// No savings column in this table.
	table := buildTable(t,
		[]string{"transaction_amt", "education_level", "wealth_quintile"},
		[][]string{
			{"10", "Primary", "1"},
			{"20", "Secondary", "2"},
		},
	)
	state.Raw = table
	reduced, err := FromColumns([]string{"PC1"}, [][]float64{{-1, 1}})
	require.NoError(t, err)
	state.Reduced = reduced

	execErr := NewScoresStage("education_level", "wealth_quintile", stats.DegenerateFail).Execute(context.Background(), state)
	assert.Error(t, execErr)
}

func clusterState(t *testing.T) *State {
	t.Helper()
	table := buildTable(t, []string{"placeholder"}, [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}})
	state := NewState(table)

	processed, err := FromColumns(
		[]string{"PC1", "PC2"},
		[][]float64{
			{0.0, 0.1, 0.05, 5.0, 5.1},
			{0.1, 0.0, 0.05, 5.1, 5.0},
		},
	)
	require.NoError(t, err)
	state.Processed = processed
	state.Engagement = []float64{0.1, 0.9, 0.2, 0.8, 0.05}
	return state
}

func TestClusterStage(t *testing.T) {
	state := clusterState(t)

	stage := NewClusterStage(cluster.DefaultConfig())
	require.NoError(t, stage.Validate(state))
	require.NoError(t, stage.Execute(context.Background(), state))

	require.Len(t, state.Assignments, 5)
	require.Len(t, state.Excluded, 5)
	assert.Contains(t, []int{0, 1}, state.ExcludedCluster)

	// Row 4 holds the global engagement minimum, so its cluster (the far
	// blob, rows 3 and 4) carries the excluded label.
	assert.Equal(t, state.Assignments[4], state.ExcludedCluster)
	assert.False(t, state.Excluded[0])
	assert.False(t, state.Excluded[1])
	assert.False(t, state.Excluded[2])
	assert.True(t, state.Excluded[3])
	assert.True(t, state.Excluded[4])
}

func TestClusterStageCustomRule(t *testing.T) {
	state := clusterState(t)

	// A rule that labels the cluster of row 0 flips the polarity.
	stage := NewClusterStage(cluster.DefaultConfig())
	stage.Rule = func(km *cluster.KMeans, X [][]float64, engagement []float64) (int, error) {
		return km.Predict(X[0])
	}
	require.NoError(t, stage.Execute(context.Background(), state))

	assert.Equal(t, state.Assignments[0], state.ExcludedCluster)
	assert.True(t, state.Excluded[0])
	assert.True(t, state.Excluded[1])
	assert.True(t, state.Excluded[2])
	assert.False(t, state.Excluded[3])
	assert.False(t, state.Excluded[4])
}

func TestClusterStageDeterministic(t *testing.T) {
	first := clusterState(t)
	require.NoError(t, NewClusterStage(cluster.DefaultConfig()).Execute(context.Background(), first))

	second := clusterState(t)
	require.NoError(t, NewClusterStage(cluster.DefaultConfig()).Execute(context.Background(), second))

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.ExcludedCluster, second.ExcludedCluster)
	assert.Equal(t, first.Excluded, second.Excluded)
}

func TestClusterStageValidate(t *testing.T) {
	t.Run("no processed matrix", func(t *testing.T) {
		err := NewClusterStage(cluster.DefaultConfig()).Validate(&State{})
		assert.Error(t, err)
	})

	t.Run("no engagement scores", func(t *testing.T) {
		state := clusterState(t)
		state.Engagement = nil
		err := NewClusterStage(cluster.DefaultConfig()).Validate(state)
		assert.Error(t, err)
	})
}

func TestDefaultStages(t *testing.T) {
	stages := DefaultStages(config.Default())
	require.Len(t, stages, 6)

	ids := make([]string, len(stages))
	for i, stage := range stages {
		ids[i] = stage.ID()
	}
	assert.Equal(t, []string{"impute", "encode", "normalize", "reduce", "scores", "cluster"}, ids)
}
