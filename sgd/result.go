package sgd

// ConvergenceReason names why a run stopped.
type ConvergenceReason string

const (
	ConvergedGradient ConvergenceReason = "converged-gradient"
	MaxIterationsHit  ConvergenceReason = "max-iterations"
)

// Result is the optimizer's outcome record, matching lm.Result/lbfgs.Result's
// success-as-value shape.
type Result struct {
	Iterations        int
	FinalLoss         float64
	ConvergenceReason ConvergenceReason
	Parameters        []float64
}
