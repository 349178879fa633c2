package kernel

import "errors"

// ErrCompile marks a fatal compilation failure: an unrecognized operator
// tag or a malformed graph (spec §4.4's "compilation failures... are
// fatal errors; the kernel pool must surface them").
var ErrCompile = errors.New("kernel: compile error")

// ErrNilRoot is returned by Compile when root is nil.
var ErrNilRoot = errors.New("kernel: root is nil")

// ErrIndexMismatch is returned by Run when an index slice's length
// doesn't match the kernel's input or gradient slot count.
var ErrIndexMismatch = errors.New("kernel: index slice length mismatch")
