package autodiff

// Neg returns -a.
func Neg(a *Node) *Node {
	n := newUnary(OpNeg, a)
	n.value, _ = forwardValue(n)
	return n
}

// Abs returns |a|. Subgradient is +1 at a==0 (pinned deterministically).
func Abs(a *Node) *Node {
	n := newUnary(OpAbs, a)
	n.value, _ = forwardValue(n)
	return n
}

// Sign returns -1, 0, or 1. Gradient is identically zero.
func Sign(a *Node) *Node {
	n := newUnary(OpSign, a)
	n.value, _ = forwardValue(n)
	return n
}

// Reciprocal returns 1/a. Fails with ErrDomain if |a| < 1e-12.
func Reciprocal(a *Node) (*Node, error) {
	n := newUnary(OpReciprocal, a)
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// Square returns a*a.
func Square(a *Node) *Node {
	n := newUnary(OpSquare, a)
	n.value, _ = forwardValue(n)
	return n
}

// Cube returns a*a*a.
func Cube(a *Node) *Node {
	n := newUnary(OpCube, a)
	n.value, _ = forwardValue(n)
	return n
}

// PowConst returns a**exponent with exponent captured as a node constant
// (not a graph input). Fails with ErrDomain if a<0 and exponent is not an
// integer.
func PowConst(a *Node, exponent float64) (*Node, error) {
	n := newUnary(OpPowConst, a)
	n.constA = exponent
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// Sqrt returns sqrt(a). Fails with ErrDomain if a<0.
func Sqrt(a *Node) (*Node, error) {
	n := newUnary(OpSqrt, a)
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// Exp returns e**a.
func Exp(a *Node) *Node {
	n := newUnary(OpExp, a)
	n.value, _ = forwardValue(n)
	return n
}

// Log returns the natural log of a. Fails with ErrDomain if a<=0.
func Log(a *Node) (*Node, error) {
	n := newUnary(OpLog, a)
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// Floor, Ceil, and Round have gradient identically zero.

// Floor returns floor(a). Zero gradient.
func Floor(a *Node) *Node {
	n := newUnary(OpFloor, a)
	n.value, _ = forwardValue(n)
	return n
}

// Ceil returns ceil(a). Zero gradient.
func Ceil(a *Node) *Node {
	n := newUnary(OpCeil, a)
	n.value, _ = forwardValue(n)
	return n
}

// Round returns round-half-away-from-zero(a). Zero gradient.
func Round(a *Node) *Node {
	n := newUnary(OpRound, a)
	n.value, _ = forwardValue(n)
	return n
}

// Clamp returns a restricted to [lo,hi]. Gradient is 1 on the open interior
// (lo,hi) and 0 elsewhere, including exactly at the bounds.
func Clamp(a *Node, lo, hi float64) *Node {
	n := newUnary(OpClamp, a)
	n.constA, n.constB = lo, hi
	n.value, _ = forwardValue(n)
	return n
}
