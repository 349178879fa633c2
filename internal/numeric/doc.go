// Package numeric solves the small, dense normal-equation systems the
// Levenberg–Marquardt solver forms each iteration: (JᵀJ + λI) δ = −Jᵀr.
// Cholesky is attempted via gonum first; a hand-rolled Doolittle-style
// elimination (grounded on the teacher's matrix/ops/lu.go) serves as the
// fallback solver when gonum reports the matrix as non-positive-definite.
package numeric
