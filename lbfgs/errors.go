package lbfgs

import "errors"

// ErrEmptyParameters is returned when Solve is called with no parameters.
var ErrEmptyParameters = errors.New("lbfgs: parameter vector is empty")
