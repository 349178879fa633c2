package lm

import "errors"

// ErrEmptyParameters is returned when Solve is called with no parameters.
var ErrEmptyParameters = errors.New("lm: parameter vector is empty")
