// Command scalardiff-bench exercises the circle-fit, Rosenbrock, and
// exponential-fit scenarios end to end: compile a residual set, run LM,
// print the result. Flag parsing uses the standard library's flag
// package — no cobra/pflag usage was retrieved anywhere in the reference
// pack (only a go.mod manifest naming cobra as a dependency, with no
// accompanying source to ground an actual wiring on), so this is the one
// ambient surface built on the standard library, recorded in DESIGN.md.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/scalardiff/autodiff"
	"github.com/katalvlaran/scalardiff/fnset"
	"github.com/katalvlaran/scalardiff/lm"
	"github.com/katalvlaran/scalardiff/telemetry"
)

func main() {
	scenario := flag.String("scenario", "circle-fit", "scenario to run: circle-fit, rosenbrock, exponential-fit")
	verbose := flag.Bool("verbose", false, "stream per-iteration LM events to stderr")
	flag.Parse()

	logger := telemetry.Discard()
	if *verbose {
		logger = telemetry.NewConsole()
	}

	var res *lm.Result
	var err error
	switch *scenario {
	case "circle-fit":
		res, err = runCircleFit(logger)
	case "rosenbrock":
		res, err = runRosenbrock(logger)
	case "exponential-fit":
		res, err = runExponentialFit(logger)
	default:
		fmt.Fprintf(os.Stderr, "scalardiff-bench: unknown scenario %q\n", *scenario)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scalardiff-bench: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("scenario=%s success=%v iterations=%d final_cost=%g reason=%s params=%v\n",
		*scenario, res.Success, res.Iterations, res.FinalCost, res.ConvergenceReason, res.Parameters)
}

// runCircleFit reproduces spec §8 scenario 1: 100 noisy points sampled
// from center (10, -5), radius 15, fit starting from (0, 0, 5).
func runCircleFit(logger telemetry.Logger) (*lm.Result, error) {
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
	params := make([]*autodiff.Node, 3)
	for i := range params {
		p, err := autodiff.Parameter(start[i])
		if err != nil {
			return nil, err
		}
		params[i] = p
	}

	set, err := fnset.Compile(params, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		px, py, pr := ps[0], ps[1], ps[2]
		roots := make([]*autodiff.Node, n)
		for i := range xs {
			xc, _ := autodiff.Constant(xs[i])
			yc, _ := autodiff.Constant(ys[i])
			dx := autodiff.Sub(xc, px)
			dy := autodiff.Sub(yc, py)
			dist, err := autodiff.Sqrt(autodiff.Add(autodiff.Square(dx), autodiff.Square(dy)))
			if err != nil {
				return nil, err
			}
			roots[i] = autodiff.Sub(dist, pr)
		}
		return roots, nil
	})
	if err != nil {
		return nil, err
	}

	return lm.Solve(start, set, lm.WithMaxIterations(30), lm.WithVerbose(logger))
}

// runRosenbrock reproduces spec §8 scenario 2.
func runRosenbrock(logger telemetry.Logger) (*lm.Result, error) {
	start := []float64{-1.2, 1.0}
	x, err := autodiff.Parameter(start[0])
	if err != nil {
		return nil, err
	}
	y, err := autodiff.Parameter(start[1])
	if err != nil {
		return nil, err
	}

	set, err := fnset.Compile([]*autodiff.Node{x, y}, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		one, _ := autodiff.Constant(1)
		ten, _ := autodiff.Constant(10)
		r1 := autodiff.Sub(one, ps[0])
		r2 := autodiff.Mul(ten, autodiff.Sub(ps[1], autodiff.Square(ps[0])))
		return []*autodiff.Node{r1, r2}, nil
	})
	if err != nil {
		return nil, err
	}

	return lm.Solve(start, set, lm.WithMaxIterations(100), lm.WithVerbose(logger))
}

// runExponentialFit reproduces spec §8 scenario 3: y = a*exp(b*x), a=2,
// b=0.5, 100 samples over x in [0, 10], noise +-0.05.
func runExponentialFit(logger telemetry.Logger) (*lm.Result, error) {
	const (
		n     = 100
		aTrue = 2.0
		bTrue = 0.5
	)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1) * 10
		noise := 0.05 * math.Sin(float64(i)*12.9898)
		xs[i] = x
		ys[i] = aTrue*math.Exp(bTrue*x) + noise
	}

	start := []float64{1, 0.1}
	a, err := autodiff.Parameter(start[0])
	if err != nil {
		return nil, err
	}
	b, err := autodiff.Parameter(start[1])
	if err != nil {
		return nil, err
	}

	set, err := fnset.Compile([]*autodiff.Node{a, b}, func(ps []*autodiff.Node) ([]*autodiff.Node, error) {
		roots := make([]*autodiff.Node, n)
		for i := range xs {
			xc, _ := autodiff.Constant(xs[i])
			yc, _ := autodiff.Constant(ys[i])
			model := autodiff.Mul(ps[0], autodiff.Exp(autodiff.Mul(ps[1], xc)))
			roots[i] = autodiff.Sub(model, yc)
		}
		return roots, nil
	})
	if err != nil {
		return nil, err
	}

	return lm.Solve(start, set, lm.WithMaxIterations(100), lm.WithVerbose(logger))
}
