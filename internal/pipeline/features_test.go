package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromColumns(t *testing.T) {
	t.Run("builds column major", func(t *testing.T) {
		fm, err := FromColumns(
			[]string{"a", "b"},
			[][]float64{{1, 2, 3}, {4, 5, 6}},
		)
		require.NoError(t, err)

		assert.Equal(t, 3, fm.Rows())
		assert.Equal(t, 2, fm.Cols())
		assert.Equal(t, []float64{1, 2, 3}, fm.Col(0))
		assert.Equal(t, []float64{4, 5, 6}, fm.Col(1))
		assert.Equal(t, []float64{2, 5}, fm.Row(1))
	})

	t.Run("name count mismatch", func(t *testing.T) {
		_, err := FromColumns([]string{"a"}, [][]float64{{1}, {2}})
		assert.Error(t, err)
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := FromColumns([]string{"a", "b"}, [][]float64{{1, 2}, {3}})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FromColumns(nil, nil)
		assert.Error(t, err)
	})
}

func TestFeatureMatrixRowSlices(t *testing.T) {
	fm, err := FromColumns(
		[]string{"a", "b"},
		[][]float64{{1, 2}, {3, 4}},
	)
	require.NoError(t, err)

	rows := fm.RowSlices()
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, rows)
}

func TestFeatureMatrixAppendColumns(t *testing.T) {
	fm, err := FromColumns([]string{"a"}, [][]float64{{1, 2, 3}})
	require.NoError(t, err)

	t.Run("appends on the right", func(t *testing.T) {
		joined, err := fm.AppendColumns([]string{"b", "c"}, [][]float64{{4, 5, 6}, {7, 8, 9}})
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b", "c"}, joined.Names)
		assert.Equal(t, 3, joined.Cols())
		assert.Equal(t, []float64{4, 5, 6}, joined.Col(1))
		assert.Equal(t, []float64{7, 8, 9}, joined.Col(2))

		// The receiver keeps its shape.
		assert.Equal(t, 1, fm.Cols())
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := fm.AppendColumns([]string{"b"}, [][]float64{{1, 2}})
		assert.Error(t, err)
	})
}
