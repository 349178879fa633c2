package fnset

import "errors"

// ErrShape is returned when a caller-supplied value/parameter slice has
// the wrong length for this function set.
var ErrShape = errors.New("fnset: shape mismatch")

// ErrNoResiduals is returned by Compile when the builder produces zero
// residuals.
var ErrNoResiduals = errors.New("fnset: residual builder produced no roots")

// ErrCompileCancelled is returned by CompileAsync when ctx is cancelled
// mid-compile; the returned Set, if non-nil, is partially compiled and
// must not be evaluated.
var ErrCompileCancelled = errors.New("fnset: compile cancelled")
