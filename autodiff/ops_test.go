package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// buildUnary is one sample operator under test: it builds y=f(x) from a
// fresh Parameter each call so finite differences can perturb x in
// isolation without disturbing shared structure.
type unaryCase struct {
	name    string
	build   func(x *autodiff.Node) (*autodiff.Node, error)
	samples []float64 // positive, negative, near-zero-but-in-domain
}

// gradAt returns d(build(x))/dx at x via Backward, and the finite-difference
// estimate via central differences at epsilon=1e-6.
func gradAt(t *testing.T, build func(x *autodiff.Node) (*autodiff.Node, error), at float64) (analytic, numeric float64) {
	t.Helper()
	const eps = 1e-6

	x, err := autodiff.Parameter(at)
	require.NoError(t, err)
	y, err := build(x)
	require.NoError(t, err)
	require.NoError(t, autodiff.ZeroGradients(y))
	require.NoError(t, autodiff.Backward(y))
	analytic = x.Grad()

	xPlus, _ := autodiff.Parameter(at + eps)
	yPlus, err := build(xPlus)
	require.NoError(t, err)
	xMinus, _ := autodiff.Parameter(at - eps)
	yMinus, err := build(xMinus)
	require.NoError(t, err)
	numeric = (yPlus.Value() - yMinus.Value()) / (2 * eps)
	return analytic, numeric
}

func TestOperatorCatalog_FiniteDifference(t *testing.T) {
	cases := []unaryCase{
		{"neg", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Neg(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"abs", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Abs(x), nil }, []float64{2.5, -1.3, 0.05}},
		{"reciprocal", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Reciprocal(x) }, []float64{2.5, -1.3, 0.5}},
		{"square", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Square(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"cube", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Cube(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"pow_const_3", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.PowConst(x, 3) }, []float64{2.5, -1.3, 0.2}},
		{"sqrt", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Sqrt(x) }, []float64{2.5, 4.2, 0.05}},
		{"exp", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Exp(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"log", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Log(x) }, []float64{2.5, 4.2, 0.05}},
		{"sin", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Sin(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"cos", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Cos(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"tan", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Tan(x), nil }, []float64{0.8, -0.8, 0.01}},
		{"asin", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Asin(x), nil }, []float64{0.5, -0.5, 0.01}},
		{"acos", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Acos(x), nil }, []float64{0.5, -0.5, 0.01}},
		{"atan", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Atan(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"relu_pos", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Relu(x), nil }, []float64{2.5, 0.5}},
		{"relu_neg", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Relu(x), nil }, []float64{-2.5, -0.5}},
		{"softplus", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Softplus(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"sigmoid", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Sigmoid(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"tanh", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Tanh(x), nil }, []float64{2.5, -1.3, 0.01}},
		{"clamp", func(x *autodiff.Node) (*autodiff.Node, error) { return autodiff.Clamp(x, -1, 1), nil }, []float64{0.5, -0.5, 0.01}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			for _, at := range tc.samples {
				analytic, numeric := gradAt(t, tc.build, at)
				assert.InDelta(t, numeric, analytic, 1e-4, "at x=%v", at)
			}
		})
	}
}

func TestZeroGradientOps(t *testing.T) {
	for _, tc := range []struct {
		name  string
		build func(x *autodiff.Node) *autodiff.Node
	}{
		{"floor", autodiff.Floor},
		{"ceil", autodiff.Ceil},
		{"round", autodiff.Round},
		{"sign", autodiff.Sign},
	} {
		x, _ := autodiff.Parameter(2.7)
		y := tc.build(x)
		require.NoError(t, autodiff.ZeroGradients(y))
		require.NoError(t, autodiff.Backward(y))
		assert.Equal(t, 0.0, x.Grad(), tc.name)
	}
}

func TestAbsGradient_PinnedAtZero(t *testing.T) {
	x, _ := autodiff.Parameter(0)
	y := autodiff.Abs(x)
	require.NoError(t, autodiff.Backward(y))
	assert.Equal(t, 1.0, x.Grad())
}

func TestClampGradient_ZeroAtBoundsAndOutside(t *testing.T) {
	for _, at := range []float64{-1, 1, -5, 5} {
		x, _ := autodiff.Parameter(at)
		y := autodiff.Clamp(x, -1, 1)
		require.NoError(t, autodiff.Backward(y))
		assert.Equal(t, 0.0, x.Grad(), "at %v", at)
	}
}

func TestDivision_DomainError(t *testing.T) {
	a, _ := autodiff.Parameter(1)
	b, _ := autodiff.Parameter(1e-13)
	_, err := autodiff.Div(a, b)
	assert.ErrorIs(t, err, autodiff.ErrDomain)
}

func TestLog_DomainError(t *testing.T) {
	x, _ := autodiff.Parameter(0)
	_, err := autodiff.Log(x)
	assert.ErrorIs(t, err, autodiff.ErrDomain)
}

func TestSqrt_DomainError(t *testing.T) {
	x, _ := autodiff.Parameter(-1)
	_, err := autodiff.Sqrt(x)
	assert.ErrorIs(t, err, autodiff.ErrDomain)
}

func TestPowConst_NegativeBaseFractionalExponent(t *testing.T) {
	x, _ := autodiff.Parameter(-2)
	_, err := autodiff.PowConst(x, 0.5)
	assert.ErrorIs(t, err, autodiff.ErrDomain)

	// Integer exponents on a negative base are fine.
	y, err := autodiff.PowConst(x, 3)
	require.NoError(t, err)
	assert.Equal(t, -8.0, y.Value())
}

func TestComparisons_ZeroGradientAndCorrectValue(t *testing.T) {
	a, _ := autodiff.Parameter(3)
	b, _ := autodiff.Parameter(5)
	lt := autodiff.Lt(a, b)
	assert.Equal(t, 1.0, lt.Value())
	assert.False(t, lt.RequiresGrad())

	gte := autodiff.Gte(a, b)
	assert.Equal(t, 0.0, gte.Value())
}

func TestIfThenElse_SelectsBranchAndGatesGradient(t *testing.T) {
	cond, _ := autodiff.Parameter(1)
	thenV, _ := autodiff.Parameter(10)
	elseV, _ := autodiff.Parameter(20)
	out := autodiff.IfThenElse(cond, thenV, elseV)
	assert.Equal(t, 10.0, out.Value())

	require.NoError(t, autodiff.Backward(out))
	assert.Equal(t, 1.0, thenV.Grad())
	assert.Equal(t, 0.0, elseV.Grad())
	assert.Equal(t, 0.0, cond.Grad())
}

func TestSumMean_DistributeGradient(t *testing.T) {
	a, _ := autodiff.Parameter(1)
	b, _ := autodiff.Parameter(2)
	c, _ := autodiff.Parameter(3)

	s := autodiff.Sum(a, b, c)
	require.NoError(t, autodiff.Backward(s))
	assert.Equal(t, 1.0, a.Grad())
	assert.Equal(t, 1.0, b.Grad())
	assert.Equal(t, 1.0, c.Grad())

	require.NoError(t, autodiff.ZeroGradients(s))
	m := autodiff.Mean(a, b, c)
	require.NoError(t, autodiff.Backward(m))
	assert.InDelta(t, 1.0/3.0, a.Grad(), 1e-12)
}

func TestCustom_ForwardAndBackwardHooks(t *testing.T) {
	// custom(v) = v^2, with an explicit (and deliberately distinct-looking)
	// backward hook, to exercise the hook plumbing independent of the
	// built-in Square operator.
	x, _ := autodiff.Parameter(3)
	y, err := autodiff.Custom("square-hook", []*autodiff.Node{x},
		func(in []float64) float64 { return in[0] * in[0] },
		func(in []float64, outGrad float64) []float64 { return []float64{2 * in[0] * outGrad} },
	)
	require.NoError(t, err)
	assert.Equal(t, 9.0, y.Value())

	require.NoError(t, autodiff.Backward(y))
	assert.InDelta(t, 6.0, x.Grad(), 1e-12)
}

func TestCustom_RejectsEmptyNameOrNilHooks(t *testing.T) {
	x, _ := autodiff.Parameter(1)
	_, err := autodiff.Custom("", []*autodiff.Node{x}, func(in []float64) float64 { return 0 }, func(in []float64, g float64) []float64 { return []float64{0} })
	assert.ErrorIs(t, err, autodiff.ErrEmptyName)

	_, err = autodiff.Custom("name", []*autodiff.Node{x}, nil, nil)
	assert.ErrorIs(t, err, autodiff.ErrNilFunc)
}

func TestForward_RecomputesAfterLeafMutation(t *testing.T) {
	x, _ := autodiff.Parameter(2)
	y := autodiff.Square(x)
	assert.Equal(t, 4.0, y.Value())

	require.NoError(t, x.SetValue(5))
	assert.Equal(t, 4.0, y.Value(), "stale until Forward is called")

	require.NoError(t, autodiff.Forward(y))
	assert.Equal(t, 25.0, y.Value())
}
