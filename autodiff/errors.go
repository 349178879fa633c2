package autodiff

import "errors"

// Sentinel errors for the autodiff package. Callers branch with errors.Is;
// call sites wrap these with fmt.Errorf("%s: %w", context, err) rather than
// defining new error types, matching the rest of this module.
var (
	// ErrDomain indicates a forward operator violated its precondition
	// (division by a near-zero value, log of a non-positive value, sqrt of
	// a negative value, or a negative base with a non-integer exponent).
	ErrDomain = errors.New("autodiff: domain error")

	// ErrNonFinite indicates a leaf was constructed (or SetValue'd) with a
	// NaN or infinite value.
	ErrNonFinite = errors.New("autodiff: non-finite value")

	// ErrNotLeaf indicates SetValue was called on a non-leaf node.
	ErrNotLeaf = errors.New("autodiff: not a leaf node")

	// ErrNilFunc indicates Custom was given a nil forward or backward function.
	ErrNilFunc = errors.New("autodiff: nil custom function")

	// ErrEmptyName indicates Custom was given an empty stable name.
	ErrEmptyName = errors.New("autodiff: empty custom name")

	// ErrNilRoot indicates Backward, Forward, or ZeroGradients was called
	// with a nil root node.
	ErrNilRoot = errors.New("autodiff: root is nil")

	// ErrNotRegistered indicates Registry.GetID was called on a node that
	// was never passed to Register.
	ErrNotRegistered = errors.New("autodiff: node not registered")

	// ErrSizeMismatch indicates a buffer passed to DataSnapshot/UpdateFrom
	// does not have length equal to Registry.Size().
	ErrSizeMismatch = errors.New("autodiff: buffer size mismatch")
)

// domainEps is the magnitude threshold below which a divisor is treated as
// zero for domain-error purposes (§4.1 of the design: "division by a value
// of magnitude below 1e-12 fails").
const domainEps = 1e-12
