// Package autodiff implements a scalar reverse-mode automatic-differentiation
// engine: forward-evaluated nodes, a closed operator catalog, a topological
// backward sweep, and a value registry that hands out dense integer IDs to
// leaves for downstream kernel compilation.
//
// Nodes are immutable in structure once created — only a leaf's Value may be
// mutated afterwards (see SetValue), and only its gradient accumulator is
// mutated by Backward. Operator constructors evaluate eagerly: a node's
// Value is correct the instant it is built from its parents' current
// values. If a leaf's Value changes later, every node downstream of it goes
// stale until Forward is called again on the affected root — the registry's
// DataSnapshot/UpdateFrom pair (see Registry) is the sanctioned channel for
// moving values in bulk; reaching into individual Node.Value fields after a
// graph has been compiled into a kernel has no effect on kernel evaluation.
//
// Errors:
//
//	ErrDomain        - a forward operator violated its precondition.
//	ErrNonFinite     - a leaf was constructed from NaN/±Inf.
//	ErrNotLeaf       - SetValue called on a non-leaf node.
//	ErrNilFunc       - Custom was given a nil forward or backward function.
//	ErrEmptyName     - Custom was given an empty stable name.
//	ErrNilRoot       - Backward/Forward/ZeroGradients called with a nil root.
//	ErrNotRegistered - Registry.GetID called on a node never Registered.
//	ErrSizeMismatch  - Registry.DataSnapshot/UpdateFrom given a wrongly sized buffer.
package autodiff
