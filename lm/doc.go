// Package lm implements the Levenberg–Marquardt nonlinear least-squares
// solver (C6): damped Gauss-Newton steps over a compiled residual set,
// with adaptive damping and Cholesky-solved normal equations.
package lm
