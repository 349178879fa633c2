package lm

// ConvergenceReason names why Solve stopped (spec §4.6).
type ConvergenceReason string

const (
	ConvergedCost     ConvergenceReason = "converged-cost"
	ConvergedGradient ConvergenceReason = "converged-gradient"
	MaxIterationsHit  ConvergenceReason = "max-iterations"
	LineSearchFailed  ConvergenceReason = "line-search-failed"
	SingularJacobian  ConvergenceReason = "singular-jacobian"
)

// Result is the solver's failure-as-value outcome (spec §7: NonConvergence
// and SingularSystem are return values, never errors).
type Result struct {
	Success           bool
	Iterations        int
	FinalCost         float64
	ConvergenceReason ConvergenceReason
	Parameters        []float64
}
