package sgd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/scalardiff/config"
)

// SolveAdam runs Adam (Adaptive Moment Estimation) against obj, starting
// from params. Grounded operand-for-operand on the reference toolkit's
// Adam function: biased first/second moment updates, bias-corrected
// moments, then a parameter update scaled by 1/(sqrt(vHat)+epsilon).
func SolveAdam(params []float64, obj Objective, opts ...Option) (*Result, error) {
	if len(params) == 0 {
		return nil, ErrEmptyParameters
	}
	o := config.Apply(DefaultOptions(), opts...)
	n := len(params)

	p := append([]float64(nil), params...)
	m := make([]float64, n)
	v := make([]float64, n)

	var loss float64
	for iter := 0; iter < o.MaxIterations; iter++ {
		t := float64(iter + 1)
		var grad []float64
		var err error
		loss, grad, err = obj(p)
		if err != nil {
			return nil, fmt.Errorf("sgd: SolveAdam: %w", err)
		}
		if infNorm(grad) <= o.GradientTolerance {
			return &Result{Iterations: iter, FinalLoss: loss, ConvergenceReason: ConvergedGradient, Parameters: p}, nil
		}
		for j := range p {
			m[j] = o.Beta1*m[j] + (1-o.Beta1)*grad[j]
			v[j] = o.Beta2*v[j] + (1-o.Beta2)*grad[j]*grad[j]

			mHat := m[j] / (1 - math.Pow(o.Beta1, t))
			vHat := v[j] / (1 - math.Pow(o.Beta2, t))

			p[j] -= o.LearningRate * mHat / (math.Sqrt(vHat) + o.Epsilon)
		}
		o.Logger.IterationInfo(iter, map[string]float64{"loss": loss, "grad_inf": infNorm(grad)}, "adam step")
	}
	return &Result{Iterations: o.MaxIterations, FinalLoss: loss, ConvergenceReason: MaxIterationsHit, Parameters: p}, nil
}
