// Package canon computes a deterministic signature for a rooted autodiff
// graph: a 64-bit hash of its operator tags and parent structure, paired
// with the ordered list of leaves that hash was computed over. Two
// residuals with the same signature are structurally identical and can
// share one compiled kernel (see package kernel and package fnset).
//
// Signing never mutates the graph it walks; it only reads Node accessors.
package canon
