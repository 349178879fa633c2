package lbfgs

// ConvergenceReason names why Solve stopped (spec §4.7).
type ConvergenceReason string

const (
	ConvergedGradient ConvergenceReason = "converged-gradient"
	MaxIterationsHit  ConvergenceReason = "max-iterations"
	LineSearchFailed  ConvergenceReason = "line-search-failed"
)

// Result is the solver's failure-as-value outcome.
type Result struct {
	Iterations        int
	FinalCost         float64
	ConvergenceReason ConvergenceReason
	Parameters        []float64
}
