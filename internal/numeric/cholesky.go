package numeric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveSPD solves a·x = b for a square, symmetric, (hopefully) positive-
// definite a via gonum's Cholesky factorization. If a is not
// positive-definite, it falls back to doolittleSolve, a hand-rolled
// elimination grounded on the teacher's LU decomposition — LM's diagonal
// damping almost always restores positive-definiteness on the caller's
// retry, so the fallback exists for the rare case gonum's factorization
// still rejects the (now-damped) matrix.
func SolveSPD(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, ErrDimensionMismatch
	}
	for _, row := range a {
		if len(row) != n {
			return nil, ErrDimensionMismatch
		}
	}

	flat := make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(flat[i*n:(i+1)*n], a[i])
	}
	sym := mat.NewSymDense(n, flat)

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		var x mat.VecDense
		if err := chol.SolveVecTo(&x, mat.NewVecDense(n, append([]float64(nil), b...))); err == nil {
			out := make([]float64, n)
			for i := 0; i < n; i++ {
				out[i] = x.AtVec(i)
			}
			return out, nil
		}
	}

	x, err := doolittleSolve(a, b)
	if err != nil {
		return nil, fmt.Errorf("numeric: SolveSPD: %w", err)
	}
	return x, nil
}

// doolittleSolve performs Doolittle LU decomposition (no pivoting) of a
// followed by forward/back substitution, mirroring the teacher's
// matrix/ops/lu.go loop-by-loop: accumulate inner products explicitly
// rather than express them via a library call, since this is the
// fallback path precisely because the library path failed.
func doolittleSolve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	l := make([][]float64, n)
	u := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
		u[i] = make([]float64, n)
		l[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += l[i][k] * u[k][j]
			}
			u[i][j] = a[i][j] - sum
		}
		if u[i][i] == 0 {
			return nil, ErrSingular
		}
		for j := i + 1; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += l[j][k] * u[k][i]
			}
			l[j][i] = (a[j][i] - sum) / u[i][i]
		}
	}

	// Forward substitution: L y = b.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for k := 0; k < i; k++ {
			sum += l[i][k] * y[k]
		}
		y[i] = b[i] - sum
	}
	// Back substitution: U x = y.
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for k := i + 1; k < n; k++ {
			sum += u[i][k] * x[k]
		}
		if u[i][i] == 0 {
			return nil, ErrSingular
		}
		x[i] = (y[i] - sum) / u[i][i]
	}
	return x, nil
}
