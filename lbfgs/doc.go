// Package lbfgs implements the limited-memory BFGS solver (C7): two-loop
// recursion over a rolling history of (s, y) pairs, backtracking line
// search, driving a scalar objective accessor toward a stationary point.
package lbfgs
