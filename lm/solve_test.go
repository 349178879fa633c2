package lm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/scalardiff/autodiff"
	"github.com/katalvlaran/scalardiff/fnset"
	"github.com/katalvlaran/scalardiff/lm"
)

func compileResiduals(t *testing.T, n int, build fnset.ResidualBuilder, start []float64) *fnset.Set {
	t.Helper()
	params := make([]*autodiff.Node, n)
	for i := range params {
		p, err := autodiff.Parameter(start[i])
		require.NoError(t, err)
		params[i] = p
	}
	set, err := fnset.Compile(params, build)
	require.NoError(t, err)
	return set
}

func TestSolve_QuadraticMinimumConvergesFast(t *testing.T) {
	targets := []float64{3, -2, 7.5}
	set := compileResiduals(t, 3, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		roots := make([]*autodiff.Node, len(ps))
		for i, p := range ps {
			c, err := autodiff.Constant(targets[i])
			if err != nil {
				return nil, err
			}
			roots[i] = autodiff.Sub(p, c)
		}
		return roots, nil
	}, []float64{0, 0, 0})

	res, err := lm.Solve([]float64{0, 0, 0}, set)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.LessOrEqual(t, res.Iterations, 5)
	assert.Less(t, res.FinalCost, 1e-14)
	for i, target := range targets {
		assert.InDelta(t, target, res.Parameters[i], 1e-6)
	}
}

func TestSolve_CircleFitConvergesWithinTolerance(t *testing.T) {
	const (
		n    = 100
		cx   = 10.0
		cy   = -5.0
		r    = 15.0
		nAmp = 0.25
	)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		noise := nAmp * math.Sin(float64(i)*7.1)
		xs[i] = cx + (r+noise)*math.Cos(theta)
		ys[i] = cy + (r+noise)*math.Sin(theta)
	}

	start := []float64{0, 0, 5}
	set := compileResiduals(t, 3, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		px, py, pr := ps[0], ps[1], ps[2]
		roots := make([]*autodiff.Node, n)
		for i := range xs {
			xc, err := autodiff.Constant(xs[i])
			if err != nil {
				return nil, err
			}
			yc, err := autodiff.Constant(ys[i])
			if err != nil {
				return nil, err
			}
			dx := autodiff.Sub(xc, px)
			dy := autodiff.Sub(yc, py)
			dist, err := autodiff.Sqrt(autodiff.Add(autodiff.Square(dx), autodiff.Square(dy)))
			if err != nil {
				return nil, err
			}
			roots[i] = autodiff.Sub(dist, pr)
		}
		return roots, nil
	}, start)

	res, err := lm.Solve(start, set, lm.WithMaxIterations(30))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.LessOrEqual(t, res.Iterations, 30)
	assert.Less(t, res.FinalCost, 1e-2)
	assert.InDelta(t, cx, res.Parameters[0], 0.1)
	assert.InDelta(t, cy, res.Parameters[1], 0.1)
	assert.InDelta(t, r, res.Parameters[2], 0.1)
}

func TestSolve_RosenbrockConvergesToGlobalMinimum(t *testing.T) {
	set := compileResiduals(t, 2, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		one, _ := autodiff.Constant(1)
		ten, _ := autodiff.Constant(10)
		r1 := autodiff.Sub(one, ps[0])
		r2 := autodiff.Mul(ten, autodiff.Sub(ps[1], autodiff.Square(ps[0])))
		return []*autodiff.Node{r1, r2}, nil
	}, []float64{-1.2, 1.0})

	res, err := lm.Solve([]float64{-1.2, 1.0}, set, lm.WithMaxIterations(200))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Less(t, res.FinalCost, 1e-8)
	assert.InDelta(t, 1.0, res.Parameters[0], 1e-3)
	assert.InDelta(t, 1.0, res.Parameters[1], 1e-3)
}

func TestSolve_ExponentialFit(t *testing.T) {
	const nSamples = 100
	aTrue, bTrue := 2.0, 0.5
	xs := make([]float64, nSamples)
	ys := make([]float64, nSamples)
	for i := range xs {
		x := float64(i) / float64(nSamples-1) * 10
		xs[i] = x
		// deterministic pseudo-noise instead of math/rand, to keep the test
		// reproducible without seeding concerns.
		noise := 0.05 * math.Sin(float64(i)*12.9898)
		ys[i] = aTrue*math.Exp(bTrue*x) + noise
	}

	set := compileResiduals(t, 2, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		roots := make([]*autodiff.Node, nSamples)
		for i := range xs {
			xc, _ := autodiff.Constant(xs[i])
			yc, _ := autodiff.Constant(ys[i])
			model := autodiff.Mul(ps[0], autodiff.Exp(autodiff.Mul(ps[1], xc)))
			roots[i] = autodiff.Sub(model, yc)
		}
		return roots, nil
	}, []float64{1, 0.1})

	res, err := lm.Solve([]float64{1, 0.1}, set, lm.WithMaxIterations(200))
	require.NoError(t, err)
	assert.Less(t, res.FinalCost, 0.5)
	assert.InDelta(t, aTrue, res.Parameters[0], 0.04*aTrue+0.05)
	assert.InDelta(t, bTrue, res.Parameters[1], 0.04*bTrue+0.05)
}

func TestSolve_RejectsEmptyParameters(t *testing.T) {
	_, err := lm.Solve(nil, nil)
	assert.ErrorIs(t, err, lm.ErrEmptyParameters)
}
