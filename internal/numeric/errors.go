package numeric

import "errors"

// ErrSingular is returned when a linear system has no usable solution: the
// coefficient matrix is not positive-definite even after the caller's
// diagonal damping, and the elimination fallback also hit a zero pivot.
var ErrSingular = errors.New("numeric: singular system")

// ErrDimensionMismatch is returned when a, b shapes are incompatible.
var ErrDimensionMismatch = errors.New("numeric: dimension mismatch")
