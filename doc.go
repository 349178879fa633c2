// Package scalardiff is a scalar reverse-mode automatic differentiation
// engine with a JIT-compiling kernel cache for repeated evaluation of
// large residual systems, plus Levenberg–Marquardt and L-BFGS nonlinear
// solvers.
//
// Build an expression graph from autodiff.Parameter/Constant nodes and
// the operator catalog (autodiff package), canonicalize and compile a
// batch of residuals into reusable kernels with fnset.Compile, then drive
// them with lm.Solve (nonlinear least squares) or lbfgs.Solve (general
// scalar minimization). nnloss and sgd are thin convenience layers for
// cases too small to warrant kernel compilation.
package scalardiff
