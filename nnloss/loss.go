package nnloss

import (
	"fmt"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// SquaredErrorResiduals returns one unsquared residual (prediction −
// target) per sample. These are the residual shape lm.Solve expects: it
// squares and sums them internally via the normal equations, so this
// helper never squares them itself.
func SquaredErrorResiduals(predictions []*autodiff.Node, targets []float64) ([]*autodiff.Node, error) {
	if len(predictions) != len(targets) {
		return nil, fmt.Errorf("nnloss: SquaredErrorResiduals: %d predictions, %d targets: %w", len(predictions), len(targets), ErrLengthMismatch)
	}
	out := make([]*autodiff.Node, len(predictions))
	for i, pred := range predictions {
		target, err := autodiff.Constant(targets[i])
		if err != nil {
			return nil, err
		}
		out[i] = autodiff.Sub(pred, target)
	}
	return out, nil
}

// HuberLoss returns a single scalar node: the sum, over samples, of the
// Huber loss between predictions[i] and targets[i] with transition point
// delta (quadratic for |error| <= delta, linear beyond it). Unlike
// SquaredErrorResiduals this isn't a per-sample residual set — Huber's
// piecewise shape doesn't fit LM's sum-of-squares normal equations — so
// it targets gradient-based optimization instead: feed its gradient
// through autodiff.Backward directly, or drive it with sgd.SolveAdam.
func HuberLoss(predictions []*autodiff.Node, targets []float64, delta float64) (*autodiff.Node, error) {
	if len(predictions) != len(targets) {
		return nil, fmt.Errorf("nnloss: HuberLoss: %d predictions, %d targets: %w", len(predictions), len(targets), ErrLengthMismatch)
	}
	half, err := autodiff.Constant(0.5)
	if err != nil {
		return nil, err
	}
	deltaNode, err := autodiff.Constant(delta)
	if err != nil {
		return nil, err
	}
	halfDeltaSq := autodiff.Mul(half, autodiff.Square(deltaNode))

	terms := make([]*autodiff.Node, len(predictions))
	for i, pred := range predictions {
		target, err := autodiff.Constant(targets[i])
		if err != nil {
			return nil, err
		}
		e := autodiff.Sub(pred, target)
		absE := autodiff.Abs(e)
		quadratic := autodiff.Mul(half, autodiff.Square(e))
		linear := autodiff.Sub(autodiff.Mul(deltaNode, absE), halfDeltaSq)
		terms[i] = autodiff.IfThenElse(autodiff.Lte(absE, deltaNode), quadratic, linear)
	}
	return autodiff.Sum(terms...), nil
}
