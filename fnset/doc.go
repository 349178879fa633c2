// Package fnset implements the kernel pool / compiled function set (C5):
// it owns a value registry, a map from signature hash to compiled kernel,
// and an ordered list of per-residual function descriptors, then
// orchestrates batched Jacobian/gradient evaluation over them.
package fnset
