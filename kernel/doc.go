// Package kernel compiles a canonicalized autodiff graph into a reusable
// procedure: given a packed input vector and index maps, it writes one
// forward value and accumulates gradient contributions into a caller
// buffer (spec §4.4).
//
// Go has no safe way to emit Go source and build-and-load it in-process at
// runtime, so unlike a language with an in-process eval primitive, this
// package's only emission strategy is the bytecode interpreter spec §4.4
// names as the fallback path: a topologically-ordered instruction slice
// over a flat register file, walked forward then backward by Kernel.Run.
// The signature/reuse contract is identical to a source-emitting
// implementation; only the constant factor changes (see DESIGN.md).
package kernel
