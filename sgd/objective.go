package sgd

import "github.com/katalvlaran/scalardiff/autodiff"

// Objective evaluates a scalar loss and its gradient at params, rebuilding
// whatever graph is needed internally. Unlike fnset.Set's
// EvaluateSumWithGradient (which reuses a compiled kernel), an Objective
// is expected to pay the cost of a fresh Backward pass every call — the
// right tradeoff only for graphs too small or too short-lived to amortize
// kernel compilation.
type Objective func(params []float64) (loss float64, gradient []float64, err error)

// FromGraph adapts a graph builder into an Objective: at every call it
// constructs fresh Parameter nodes at params' values, invokes build to get
// the scalar root, runs autodiff.Backward, and reads back the root's
// value and each parameter's accumulated gradient.
func FromGraph(build func(params []*autodiff.Node) (*autodiff.Node, error)) Objective {
	return func(values []float64) (float64, []float64, error) {
		nodes := make([]*autodiff.Node, len(values))
		for i, v := range values {
			p, err := autodiff.Parameter(v)
			if err != nil {
				return 0, nil, err
			}
			nodes[i] = p
		}
		root, err := build(nodes)
		if err != nil {
			return 0, nil, err
		}
		if err := autodiff.Backward(root); err != nil {
			return 0, nil, err
		}
		grad := make([]float64, len(nodes))
		for i, n := range nodes {
			grad[i] = n.Grad()
		}
		return root.Value(), grad, nil
	}
}
