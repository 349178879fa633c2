// Package sgd is a thin gradient-descent layer over autodiff.Backward,
// for objectives too small to warrant fnset's kernel compilation: plain
// SGD with momentum, and Adam. Both drive a caller-supplied objective
// rebuild-and-backward closure rather than a compiled function set.
package sgd
