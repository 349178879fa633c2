package lbfgs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/scalardiff/config"
)

// Objective is the scalar accessor L-BFGS drives toward a stationary
// point (spec §4.7/§6's "evaluate-sum-with-gradient"). *fnset.Set
// satisfies this interface without lbfgs ever importing fnset — any
// caller-supplied accessor works just as well.
type Objective interface {
	EvaluateSumWithGradient(params []float64) (value float64, gradient []float64, err error)
}

type historyPair struct {
	s, y []float64
	rho  float64
}

// Solve runs limited-memory BFGS starting from params against obj.
func Solve(params []float64, obj Objective, opts ...Option) (*Result, error) {
	if len(params) == 0 {
		return nil, ErrEmptyParameters
	}
	o := config.Apply(DefaultOptions(), opts...)
	n := len(params)

	p := append([]float64(nil), params...)
	cost, grad, err := obj.EvaluateSumWithGradient(p)
	if err != nil {
		return nil, fmt.Errorf("lbfgs: Solve: initial evaluation: %w", err)
	}

	best := append([]float64(nil), p...)
	bestCost := cost

	history := make([]historyPair, 0, o.HistorySize)

	for iter := 0; iter < o.MaxIterations; iter++ {
		if infNorm(grad) <= o.GradientTolerance {
			return &Result{Iterations: iter, FinalCost: bestCost, ConvergenceReason: ConvergedGradient, Parameters: best}, nil
		}

		direction := twoLoopRecursion(grad, history)

		step, newP, newCost, newGrad, ok := backtrackingLineSearch(obj, p, cost, grad, direction, o)
		if !ok {
			return &Result{Iterations: iter, FinalCost: bestCost, ConvergenceReason: LineSearchFailed, Parameters: best}, nil
		}

		s := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			s[i] = newP[i] - p[i]
			y[i] = newGrad[i] - grad[i]
		}
		sy := dot(s, y)
		if sy > 0 {
			if len(history) == o.HistorySize {
				history = history[1:]
			}
			history = append(history, historyPair{s: s, y: y, rho: 1 / sy})
		}

		p, cost, grad = newP, newCost, newGrad
		if cost < bestCost {
			bestCost = cost
			best = append([]float64(nil), p...)
		}
		o.Logger.IterationInfo(iter, map[string]float64{"cost": cost, "step": step, "grad_inf": infNorm(grad)}, "lbfgs step")
	}
	return &Result{Iterations: o.MaxIterations, FinalCost: bestCost, ConvergenceReason: MaxIterationsHit, Parameters: best}, nil
}

// twoLoopRecursion produces a descent direction from the current gradient
// and the rolling (s, y) history — the standard L-BFGS two-loop recursion.
func twoLoopRecursion(grad []float64, history []historyPair) []float64 {
	n := len(grad)
	q := append([]float64(nil), grad...)
	m := len(history)
	alpha := make([]float64, m)

	for i := m - 1; i >= 0; i-- {
		h := history[i]
		alpha[i] = h.rho * dot(h.s, q)
		for j := 0; j < n; j++ {
			q[j] -= alpha[i] * h.y[j]
		}
	}

	gamma := 1.0
	if m > 0 {
		last := history[m-1]
		yy := dot(last.y, last.y)
		if yy > 0 {
			gamma = dot(last.s, last.y) / yy
		}
	}
	r := make([]float64, n)
	for j := range r {
		r[j] = gamma * q[j]
	}

	for i := 0; i < m; i++ {
		h := history[i]
		beta := h.rho * dot(h.y, r)
		for j := 0; j < n; j++ {
			r[j] += h.s[j] * (alpha[i] - beta)
		}
	}

	direction := r
	for i := range direction {
		direction[i] = -direction[i]
	}
	return direction
}

// backtrackingLineSearch halves the step from t=1 until the Armijo
// condition holds; when o.LineSearch is Wolfe, it additionally requires
// the curvature condition before accepting, falling back to the last
// Armijo-satisfying step if curvature is never met within the try budget
// (a documented simplification of full strong-Wolfe zooming — spec §4.7
// asks for "Armijo (optionally curvature)", not a specific zoom strategy).
func backtrackingLineSearch(obj Objective, p []float64, cost float64, grad, direction []float64, o Options) (step float64, newP []float64, newCost float64, newGrad []float64, ok bool) {
	n := len(p)
	gd := dot(grad, direction)
	if gd >= 0 {
		return 0, nil, 0, nil, false
	}

	t := 1.0
	var lastArmijoT float64
	var lastArmijoP []float64
	var lastArmijoCost float64
	var lastArmijoGrad []float64
	haveArmijo := false

	for try := 0; try < o.MaxLineSearchTries; try++ {
		trial := make([]float64, n)
		for i := range trial {
			trial[i] = p[i] + t*direction[i]
		}
		tc, tg, err := obj.EvaluateSumWithGradient(trial)
		if err != nil {
			t *= 0.5
			continue
		}
		if tc <= cost+o.C1*t*gd {
			haveArmijo = true
			lastArmijoT, lastArmijoP, lastArmijoCost, lastArmijoGrad = t, trial, tc, tg
			if o.LineSearch == Armijo {
				return t, trial, tc, tg, true
			}
			if math.Abs(dot(tg, direction)) <= o.C2*math.Abs(gd) {
				return t, trial, tc, tg, true
			}
		}
		t *= 0.5
	}
	if haveArmijo {
		return lastArmijoT, lastArmijoP, lastArmijoCost, lastArmijoGrad, true
	}
	return 0, nil, 0, nil, false
}

// dot and infNorm route through gonum/floats rather than hand-rolled
// loops: this package's job is to implement the two-loop recursion and
// line search themselves, not to re-derive vector arithmetic gonum
// already provides.
func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

func infNorm(v []float64) float64 {
	return floats.Norm(v, math.Inf(1))
}
