package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("sizes follow the fraction", func(t *testing.T) {
		train, test, err := Split(10, 0.2, 42)
		require.NoError(t, err)
		assert.Len(t, test, 2)
		assert.Len(t, train, 8)
	})

	t.Run("partitions without overlap", func(t *testing.T) {
		train, test, err := Split(25, 0.2, 42)
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, i := range train {
			seen[i]++
		}
		for _, i := range test {
			seen[i]++
		}
		require.Len(t, seen, 25)
		for i, count := range seen {
			assert.Equal(t, 1, count, "row %d", i)
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		train1, test1, err := Split(50, 0.2, 42)
		require.NoError(t, err)
		train2, test2, err := Split(50, 0.2, 42)
		require.NoError(t, err)
		assert.Equal(t, train1, train2)
		assert.Equal(t, test1, test2)
	})

	t.Run("different seeds differ", func(t *testing.T) {
		_, test1, err := Split(50, 0.2, 1)
		require.NoError(t, err)
		_, test2, err := Split(50, 0.2, 2)
		require.NoError(t, err)
		assert.NotEqual(t, test1, test2)
	})

	t.Run("never empties the train side", func(t *testing.T) {
		train, test, err := Split(2, 0.9, 42)
		require.NoError(t, err)
		assert.Len(t, train, 1)
		assert.Len(t, test, 1)
	})

	t.Run("too few rows", func(t *testing.T) {
		_, _, err := Split(1, 0.2, 42)
		assert.Error(t, err)
	})

	t.Run("invalid fraction", func(t *testing.T) {
		_, _, err := Split(10, 1.0, 42)
		assert.Error(t, err)
		_, _, err = Split(10, 0, 42)
		assert.Error(t, err)
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("known confusion counts", func(t *testing.T) {
		yTrue := []int{1, 1, 0, 0, 1}
		yPred := []int{1, 0, 0, 1, 1}

		m, err := Evaluate(yTrue, yPred)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, m.Accuracy, 1e-12)
		assert.InDelta(t, 2.0/3.0, m.Precision, 1e-12)
		assert.InDelta(t, 2.0/3.0, m.Recall, 1e-12)
		assert.InDelta(t, 2.0/3.0, m.F1, 1e-12)
	})

	t.Run("perfect prediction", func(t *testing.T) {
		m, err := Evaluate([]int{0, 1, 0, 1}, []int{0, 1, 0, 1})
		require.NoError(t, err)
		assert.Equal(t, Metrics{Accuracy: 1, Precision: 1, Recall: 1, F1: 1}, m)
	})

	t.Run("no predicted positives", func(t *testing.T) {
		m, err := Evaluate([]int{1, 0, 1}, []int{0, 0, 0})
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, m.Accuracy, 1e-12)
		assert.Zero(t, m.Precision)
		assert.Zero(t, m.Recall)
		assert.Zero(t, m.F1)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Evaluate([]int{1}, []int{1, 0})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Evaluate(nil, nil)
		assert.Error(t, err)
	})
}
