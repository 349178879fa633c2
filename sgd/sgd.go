package sgd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/scalardiff/config"
)

// Solve runs SGD with classical momentum against obj, starting from
// params. Grounded on the momentum update in the reference optimization
// toolkit's GradientDescentWithMomentum: velocity[j] = momentum*velocity[j]
// - lr*gradient[j]; x[j] += velocity[j].
func Solve(params []float64, obj Objective, opts ...Option) (*Result, error) {
	if len(params) == 0 {
		return nil, ErrEmptyParameters
	}
	o := config.Apply(DefaultOptions(), opts...)
	n := len(params)

	p := append([]float64(nil), params...)
	velocity := make([]float64, n)

	var loss float64
	for iter := 0; iter < o.MaxIterations; iter++ {
		var grad []float64
		var err error
		loss, grad, err = obj(p)
		if err != nil {
			return nil, fmt.Errorf("sgd: Solve: %w", err)
		}
		if infNorm(grad) <= o.GradientTolerance {
			return &Result{Iterations: iter, FinalLoss: loss, ConvergenceReason: ConvergedGradient, Parameters: p}, nil
		}
		for j := range p {
			velocity[j] = o.Momentum*velocity[j] - o.LearningRate*grad[j]
			p[j] += velocity[j]
		}
		o.Logger.IterationInfo(iter, map[string]float64{"loss": loss, "grad_inf": infNorm(grad)}, "sgd step")
	}
	return &Result{Iterations: o.MaxIterations, FinalLoss: loss, ConvergenceReason: MaxIterationsHit, Parameters: p}, nil
}

func infNorm(v []float64) float64 {
	maxAbs := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}
