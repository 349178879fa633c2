package nnloss

import "errors"

// ErrLengthMismatch is returned when predictions and targets have
// different lengths.
var ErrLengthMismatch = errors.New("nnloss: predictions/targets length mismatch")
