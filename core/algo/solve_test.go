package algo

import (
	"math"
	"testing"

	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveLinearSystem(t *testing.T) {
	t.Run("two by two", func(t *testing.T) {
		x, err := SolveLinearSystem([][]float64{{2, 1}, {1, 3}}, []float64{3, 5})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.8, 1.4}, x, 1e-9)
	})

	t.Run("zero leading entry needs pivoting", func(t *testing.T) {
		x, err := SolveLinearSystem([][]float64{{0, 1}, {1, 0}}, []float64{2, 3})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{3, 2}, x, 1e-9)
	})

	t.Run("three by three", func(t *testing.T) {
		a := [][]float64{{2, 1, -1}, {-3, -1, 2}, {-2, 1, 2}}
		b := []float64{8, -11, -3}
		x, err := SolveLinearSystem(a, b)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{2, 3, -1}, x, 1e-9)
	})

	t.Run("singular", func(t *testing.T) {
		_, err := SolveLinearSystem([][]float64{{1, 2}, {2, 4}}, []float64{1, 2})
		assert.ErrorIs(t, err, schema.ErrSingularSystem)
	})

	t.Run("non-finite entries", func(t *testing.T) {
		_, err := SolveLinearSystem([][]float64{{math.NaN(), 0}, {0, 1}}, []float64{1, 1})
		assert.ErrorIs(t, err, schema.ErrSingularSystem)

		_, err = SolveLinearSystem([][]float64{{math.Inf(1), 1}, {1, 1}}, []float64{1, 1})
		assert.ErrorIs(t, err, schema.ErrSingularSystem)

		_, err = SolveLinearSystem([][]float64{{1, 0}, {0, 1}}, []float64{math.NaN(), 1})
		assert.ErrorIs(t, err, schema.ErrSingularSystem)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := SolveLinearSystem([][]float64{{1, 2}}, []float64{1, 2})
		assert.Error(t, err)
		_, err = SolveLinearSystem([][]float64{{1}, {2, 3}}, []float64{1, 2})
		assert.Error(t, err)
	})

	t.Run("inputs untouched", func(t *testing.T) {
		a := [][]float64{{0, 1}, {1, 0}}
		b := []float64{2, 3}
		_, err := SolveLinearSystem(a, b)
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, a)
		assert.Equal(t, []float64{2, 3}, b)
	})
}
