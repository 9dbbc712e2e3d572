package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/readiness/schema"
)

// SingularityThreshold is the smallest pivot magnitude accepted by the solver.
const SingularityThreshold = 1e-10

// SolveLinearSystem solves A·x = b by Gaussian elimination with partial pivoting.
// A must be n×n and b of length n. Inputs are not modified.
// A pivot below SingularityThreshold, or one that is not finite, returns
// schema.ErrSingularSystem, as does a solution with non-finite entries.
func SolveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	if len(a) != n {
		return nil, fmt.Errorf("matrix has %d rows, vector has %d entries", len(a), n)
	}

	// Augmented copy [A | b]
	m := make([][]float64, n)
	for i := range a {
		if len(a[i]) != n {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(a[i]), n)
		}
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := range n {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if p := math.Abs(m[pivot][col]); !(p >= SingularityThreshold) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: pivot %.3g in column %d", schema.ErrSingularSystem, m[pivot][col], col)
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k <= n; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return nil, fmt.Errorf("%w: non-finite solution at index %d", schema.ErrSingularSystem, i)
		}
	}
	return x, nil
}
