package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// TestBackward_SeedsRootGradientToOne is the round-trip law from spec §8:
// zero-gradients(root); backward(root); ∂root/∂root = 1.
func TestBackward_SeedsRootGradientToOne(t *testing.T) {
	x, _ := autodiff.Parameter(3)
	require.NoError(t, autodiff.ZeroGradients(x))
	require.NoError(t, autodiff.Backward(x))
	assert.Equal(t, 1.0, x.Grad())
}

func TestBackward_SimpleChainRule(t *testing.T) {
	x, _ := autodiff.Parameter(2)
	y := autodiff.Mul(x, x) // y = x^2
	require.NoError(t, autodiff.ZeroGradients(y))
	require.NoError(t, autodiff.Backward(y))
	assert.InDelta(t, 4.0, x.Grad(), 1e-9) // dy/dx = 2x = 4
}

func TestBackward_SharedSubexpressionAccumulates(t *testing.T) {
	x, _ := autodiff.Parameter(3)
	a := autodiff.Mul(x, x)  // x^2
	b := autodiff.Add(a, a)  // 2*x^2, x's contribution should sum across both uses
	require.NoError(t, autodiff.ZeroGradients(b))
	require.NoError(t, autodiff.Backward(b))
	assert.InDelta(t, 12.0, x.Grad(), 1e-9) // d/dx(2x^2) = 4x = 12
}

func TestBackward_SkipsNonGradSubgraph(t *testing.T) {
	c, _ := autodiff.Constant(5)
	cc := autodiff.Neg(c)
	require.NoError(t, autodiff.Backward(cc))
	// Constant leaves never accumulate gradient because RequiresGrad is false.
	assert.Equal(t, 0.0, c.Grad())
}

func TestBackward_NilRoot(t *testing.T) {
	assert.ErrorIs(t, autodiff.Backward(nil), autodiff.ErrNilRoot)
	assert.ErrorIs(t, autodiff.ZeroGradients(nil), autodiff.ErrNilRoot)
}

func TestWithNoGrad_ProducesNonGradLeaves(t *testing.T) {
	var inner *autodiff.Node
	err := autodiff.WithNoGrad(func() error {
		p, perr := autodiff.Parameter(4)
		inner = p
		return perr
	})
	require.NoError(t, err)
	assert.False(t, inner.RequiresGrad())
}

func TestWithNoGrad_RestoresOnError(t *testing.T) {
	err := autodiff.WithNoGrad(func() error {
		return autodiff.ErrDomain
	})
	assert.ErrorIs(t, err, autodiff.ErrDomain)

	// The flag must be restored: a Parameter built after WithNoGrad returns
	// (even though fn returned an error) must require grad again.
	p, perr := autodiff.Parameter(1)
	require.NoError(t, perr)
	assert.True(t, p.RequiresGrad())
}

func TestWithNoGrad_NestsLIFO(t *testing.T) {
	err := autodiff.WithNoGrad(func() error {
		return autodiff.WithNoGrad(func() error {
			return nil
		})
	})
	require.NoError(t, err)
	p, _ := autodiff.Parameter(1)
	assert.True(t, p.RequiresGrad())
}

func TestTopoSort_Deterministic(t *testing.T) {
	x, _ := autodiff.Parameter(1)
	y, _ := autodiff.Parameter(2)
	root := autodiff.Add(autodiff.Mul(x, y), autodiff.Sin(x))

	first := autodiff.TopoSort(root)
	second := autodiff.TopoSort(root)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
	assert.Same(t, root, first[len(first)-1])
}
