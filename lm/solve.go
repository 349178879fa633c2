package lm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/scalardiff/config"
	"github.com/katalvlaran/scalardiff/fnset"
	"github.com/katalvlaran/scalardiff/internal/numeric"
)

// Solve runs Levenberg–Marquardt nonlinear least squares starting from
// params against the residuals compiled into set (spec §4.6). It always
// returns a non-nil *Result on success paths; errors are reserved for
// shape/compile-time failures bubbling up from set, never for
// non-convergence (spec §7: NonConvergence and SingularSystem are
// return values, not exceptions).
func Solve(params []float64, set *fnset.Set, opts ...Option) (*Result, error) {
	if len(params) == 0 {
		return nil, ErrEmptyParameters
	}
	o := config.Apply(DefaultOptions(), opts...)
	n := len(params)

	p := append([]float64(nil), params...)
	lambda := o.InitialDamping

	values, jac, err := set.EvaluateJacobian(p)
	if err != nil {
		return nil, fmt.Errorf("lm: Solve: initial evaluation: %w", err)
	}
	cost := sumSquares(values) / 2

	best := append([]float64(nil), p...)
	bestCost := cost

	for iter := 0; iter < o.MaxIterations; iter++ {
		jtj, jtr := normalEquations(jac, values)
		if infNorm(jtr) <= o.GradientTolerance {
			return result(true, iter, bestCost, ConvergedGradient, best), nil
		}

		negJtr := make([]float64, n)
		for i := range negJtr {
			negJtr[i] = -jtr[i]
		}

		var newP []float64
		var newValues []float64
		var newJac [][]float64
		var newCost float64
		rejects := 0
		for {
			delta, serr := numeric.SolveSPD(addDiagonal(jtj, lambda), negJtr)
			if serr != nil {
				bump := math.Max(lambda, 1e-12)
				delta, serr = numeric.SolveSPD(addDiagonal(jtj, lambda+bump), negJtr)
				if serr != nil {
					return result(false, iter, bestCost, SingularJacobian, best), nil
				}
			}

			newP = make([]float64, n)
			for i := range newP {
				newP[i] = p[i] + delta[i]
			}
			newValues, newJac, err = set.EvaluateJacobian(newP)
			if err != nil {
				return nil, fmt.Errorf("lm: Solve: trial evaluation: %w", err)
			}
			newCost = sumSquares(newValues) / 2

			if newCost < cost {
				break
			}
			if !o.AdaptiveDamping {
				return result(false, iter, bestCost, LineSearchFailed, best), nil
			}
			lambda *= o.DampingGrowth
			rejects++
			if rejects > o.MaxInnerRejects {
				return result(false, iter, bestCost, LineSearchFailed, best), nil
			}
		}

		decrease := cost - newCost
		p, values, jac, cost = newP, newValues, newJac, newCost
		lambda /= o.DampingGrowth
		if cost < bestCost {
			bestCost = cost
			best = append([]float64(nil), p...)
		}
		o.Logger.IterationInfo(iter, map[string]float64{"cost": cost, "lambda": lambda, "decrease": decrease}, "lm step accepted")

		if decrease < o.CostTolerance {
			return result(true, iter+1, bestCost, ConvergedCost, best), nil
		}
	}
	return result(false, o.MaxIterations, bestCost, MaxIterationsHit, best), nil
}

func result(success bool, iterations int, finalCost float64, reason ConvergenceReason, params []float64) *Result {
	return &Result{
		Success:           success,
		Iterations:        iterations,
		FinalCost:         finalCost,
		ConvergenceReason: reason,
		Parameters:        append([]float64(nil), params...),
	}
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}

// normalEquations forms JᵀJ and Jᵀr from a residuals×params Jacobian and
// the residual values at the same point.
func normalEquations(jac [][]float64, values []float64) (jtj [][]float64, jtr []float64) {
	n := 0
	if len(jac) > 0 {
		n = len(jac[0])
	}
	jtj = make([][]float64, n)
	for i := range jtj {
		jtj[i] = make([]float64, n)
	}
	jtr = make([]float64, n)
	for _, row := range jac {
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				jtj[a][b] += row[a] * row[b]
			}
		}
	}
	for ri, row := range jac {
		for a := 0; a < n; a++ {
			jtr[a] += row[a] * values[ri]
		}
	}
	return jtj, jtr
}

func addDiagonal(m [][]float64, lambda float64) [][]float64 {
	n := len(m)
	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), m[i]...)
		out[i][i] += lambda
	}
	return out
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
