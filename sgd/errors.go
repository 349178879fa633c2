package sgd

import "errors"

// ErrEmptyParameters is returned when a run is started with no parameters.
var ErrEmptyParameters = errors.New("sgd: parameter vector is empty")
