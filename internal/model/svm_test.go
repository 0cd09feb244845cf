package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVMRings(t *testing.T) {
	// Radially separated classes need the kernel; a linear decision
	// boundary cannot do better than chance here.
	X, y := ringData(30, 12)

	m := NewSVM(42)
	require.NoError(t, m.Fit(X, y))

	acc := trainAccuracy(t, m, X, y)
	assert.GreaterOrEqual(t, acc, 0.9)
}

func TestSVMSeparable(t *testing.T) {
	X, y := separableData(20, 4)

	m := NewSVM(42)
	require.NoError(t, m.Fit(X, y))

	acc := trainAccuracy(t, m, X, y)
	assert.GreaterOrEqual(t, acc, 0.95)
}

func TestSVMDeterministic(t *testing.T) {
	X, y := ringData(15, 3)

	first := NewSVM(42)
	require.NoError(t, first.Fit(X, y))
	second := NewSVM(42)
	require.NoError(t, second.Fit(X, y))

	predFirst, err := first.Predict(X)
	require.NoError(t, err)
	predSecond, err := second.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, predFirst, predSecond)
}

func TestSVMGammaDefault(t *testing.T) {
	X, y := separableData(10, 5)

	m := NewSVM(42)
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 0.5, m.gamma, 1e-12) // 1 / 2 features
}

func TestSVMErrors(t *testing.T) {
	t.Run("predict before fit", func(t *testing.T) {
		_, err := NewSVM(1).Predict([][]float64{{1, 2}})
		assert.Error(t, err)
	})

	t.Run("invalid lambda", func(t *testing.T) {
		m := NewSVM(1)
		m.Lambda = 0
		err := m.Fit([][]float64{{1}, {2}}, []int{0, 1})
		assert.Error(t, err)
	})

	t.Run("feature mismatch on predict", func(t *testing.T) {
		X, y := separableData(5, 2)
		m := NewSVM(1)
		require.NoError(t, m.Fit(X, y))
		_, err := m.Predict([][]float64{{1}})
		assert.Error(t, err)
	})
}
