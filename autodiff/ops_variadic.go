package autodiff

import "fmt"

// Sum returns the sum of inputs. Each input gets gradient 1 (before scaling
// by the upstream gradient). The canonicalizer rewrites Sum to a nested
// binary + chain for hashing purposes only (spec §4.3 step 5); forward and
// backward here always use the genuine N-ary reduction.
func Sum(inputs ...*Node) *Node {
	n := variadicNode(OpSum, inputs)
	n.value, _ = forwardValue(n)
	return n
}

// Mean returns the arithmetic mean of inputs. Each input gets gradient 1/N.
func Mean(inputs ...*Node) *Node {
	n := variadicNode(OpMean, inputs)
	n.value, _ = forwardValue(n)
	return n
}

func variadicNode(op OpTag, inputs []*Node) *Node {
	parents := make([]*Node, len(inputs))
	copy(parents, inputs)
	rg := false
	for _, p := range inputs {
		if p.requiresGrad {
			rg = true
			break
		}
	}
	return &Node{id: newNodeID(), parents: parents, op: op, requiresGrad: !noGradActive() && rg}
}

// IfThenElse evaluates cond eagerly at construction time and selects then's
// or else's value: non-zero cond picks then, zero picks else. The branch
// selection is baked into the node as a captured constant — like every
// operator here, if-then-else is resolved once, at build time, not re-tested
// on every kernel dispatch. Gradient flows only through the selected
// branch; cond's gradient is always zero.
func IfThenElse(cond, thenNode, elseNode *Node) *Node {
	n := &Node{id: newNodeID(), parents: []*Node{cond, thenNode, elseNode}, op: OpIfThenElse}
	if cond.value != 0 {
		n.constA = 0
		n.requiresGrad = !noGradActive() && thenNode.requiresGrad
	} else {
		n.constA = 1
		n.requiresGrad = !noGradActive() && elseNode.requiresGrad
	}
	n.value, _ = forwardValue(n)
	return n
}

// CustomForward computes a custom node's value from its inputs' current
// values, in the same order the node's inputs were given to Custom.
type CustomForward func(inputs []float64) float64

// CustomBackward computes the per-input gradient contribution of a custom
// node given its inputs and the gradient flowing into the node's output.
// The returned slice must have the same length as inputs.
type CustomBackward func(inputs []float64, outGrad float64) []float64

type customSpec struct {
	name     string
	forward  CustomForward
	backward CustomBackward
}

// Custom short-circuits an expensive subgraph with caller-supplied forward
// and backward functions — e.g. the smallest eigenvalue of a 3×3 symmetric
// matrix, whose analytic gradient is v_i*v_j for the corresponding
// eigenvector v.
//
// name must be a stable identifier: the canonicalizer hashes custom nodes
// by name plus child positions (spec §9), so two custom nodes share a
// kernel only when they share both name and arity/position.
func Custom(name string, inputs []*Node, forward CustomForward, backward CustomBackward) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("autodiff: Custom: %w", ErrEmptyName)
	}
	if forward == nil || backward == nil {
		return nil, fmt.Errorf("autodiff: Custom: %w", ErrNilFunc)
	}
	n := variadicNode(OpCustom, inputs)
	n.custom = &customSpec{name: name, forward: forward, backward: backward}
	v, err := forwardValue(n)
	if err != nil {
		return nil, fmt.Errorf("autodiff: Custom(%s): %w", name, err)
	}
	n.value = v
	return n, nil
}
