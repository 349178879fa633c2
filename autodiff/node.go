package autodiff

import (
	"fmt"
	"math"
	"sync/atomic"
)

var nextNodeID uint64

func newNodeID() uint64 { return atomic.AddUint64(&nextNodeID, 1) }

// Node is a scalar in the computation graph: a forward value, a gradient
// accumulator, and — for non-leaves — an ordered tuple of parents plus the
// captured constants (if any) its backward rule needs.
//
// Structure is immutable once a Node is constructed: the only mutable
// fields are Value (via SetValue, leaves only) and Grad (via Backward).
// Node identity (ID) is a monotonically increasing counter used only for
// tie-breaking in deterministic traversals; it carries no semantic meaning
// (two distinct Parameter(5) calls get distinct IDs and are never deduped —
// deduplication happens one layer up, in Registry).
type Node struct {
	id           uint64
	value        float64
	grad         float64
	requiresGrad bool
	op           OpTag
	parents      []*Node
	label        string
	paramName    string

	// constA/constB hold captured scalar constants: the exponent for
	// pow-by-constant, the lo/hi bounds for clamp, the selected branch
	// (0=then, 1=else) for if-then-else.
	constA, constB float64

	custom *customSpec
}

// ID returns the monotonic creation-order identity of n.
func (n *Node) ID() uint64 { return n.id }

// Value returns n's last-computed forward value.
func (n *Node) Value() float64 { return n.value }

// Grad returns n's current gradient accumulator.
func (n *Node) Grad() float64 { return n.grad }

// RequiresGrad reports whether backward work flows through n.
func (n *Node) RequiresGrad() bool { return n.requiresGrad }

// Op returns n's operator tag.
func (n *Node) Op() OpTag { return n.op }

// Parents returns n's parent tuple (nil for leaves). Callers must not
// mutate the returned slice.
func (n *Node) Parents() []*Node { return n.parents }

// Label returns n's optional human-readable label.
func (n *Node) Label() string { return n.label }

// ParamName returns n's optional named-variable identity (used by
// Registry for named-variable deduplication); empty for anonymous nodes.
func (n *Node) ParamName() string { return n.paramName }

// IsLeaf reports whether n has no parents (a Parameter or a Constant).
func (n *Node) IsLeaf() bool { return len(n.parents) == 0 }

// ConstA returns n's first captured constant (exponent, clamp lo, or the
// if-then-else selected-branch flag). Meaningless for ops that capture none.
func (n *Node) ConstA() float64 { return n.constA }

// ConstB returns n's second captured constant (clamp hi). Meaningless for
// ops that capture only one or none.
func (n *Node) ConstB() float64 { return n.constB }

// CustomName returns the stable name of a custom-gradient node, or "" if
// n is not OpCustom.
func (n *Node) CustomName() string {
	if n.custom == nil {
		return ""
	}
	return n.custom.name
}

// CustomFuncs returns the forward/backward hooks of a custom-gradient
// node, or (nil, nil) if n is not OpCustom. Consumed by package kernel
// when compiling a custom node into a kernel instruction.
func (n *Node) CustomFuncs() (CustomForward, CustomBackward) {
	if n.custom == nil {
		return nil, nil
	}
	return n.custom.forward, n.custom.backward
}

// WithLabel attaches a human-readable label to n and returns n for chaining.
func (n *Node) WithLabel(label string) *Node {
	n.label = label
	return n
}

// SetValue overwrites a leaf's value. It is the sanctioned channel (besides
// Registry.UpdateFrom) for moving a parameter between optimizer iterations;
// it does not recompute any downstream node — call Forward on the relevant
// root afterwards if you need non-leaf values to reflect the change.
//
// Returns ErrNotLeaf if n has parents, ErrNonFinite if v is NaN or ±Inf.
func (n *Node) SetValue(v float64) error {
	if !n.IsLeaf() {
		return fmt.Errorf("autodiff: SetValue: %w", ErrNotLeaf)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("autodiff: SetValue: %w", ErrNonFinite)
	}
	n.value = v
	return nil
}

// Parameter creates a grad-bearing leaf with the given initial value.
// Returns ErrNonFinite if value is NaN or ±Inf. Honors the active no-grad
// scope: a Parameter created under WithNoGrad has RequiresGrad()==false.
func Parameter(value float64) (*Node, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("autodiff: Parameter: %w", ErrNonFinite)
	}
	return &Node{id: newNodeID(), value: value, op: OpParameter, requiresGrad: !noGradActive()}, nil
}

// NamedParameter creates a grad-bearing leaf identified by name. Two nodes
// built with the same name are independent Node objects, but Registry
// collapses them onto one dense ID (see Registry.Register).
func NamedParameter(name string, value float64) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("autodiff: NamedParameter: %w", ErrEmptyName)
	}
	n, err := Parameter(value)
	if err != nil {
		return nil, fmt.Errorf("autodiff: NamedParameter: %w", err)
	}
	n.paramName = name
	return n, nil
}

// Constant creates a non-grad leaf. Returns ErrNonFinite if value is NaN or
// ±Inf. Constant is always requires-grad=false, irrespective of no-grad scope.
func Constant(value float64) (*Node, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("autodiff: Constant: %w", ErrNonFinite)
	}
	return &Node{id: newNodeID(), value: value, op: OpConstant}, nil
}
