package autodiff

// Add returns a+b. Gradient: da=1, db=1.
func Add(a, b *Node) *Node {
	n := newBinary(OpAdd, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// Sub returns a-b. Gradient: da=1, db=-1.
func Sub(a, b *Node) *Node {
	n := newBinary(OpSub, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// Mul returns a*b. Gradient: da=b, db=a.
func Mul(a, b *Node) *Node {
	n := newBinary(OpMul, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// Div returns a/b. Fails with ErrDomain if |b| < 1e-12 at construction time.
func Div(a, b *Node) (*Node, error) {
	n := newBinary(OpDiv, a, b)
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// Min returns min(a,b). Gradient flows entirely to whichever parent is
// smaller (ties resolved deterministically toward a).
func Min(a, b *Node) *Node {
	n := newBinary(OpMin, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// Max returns max(a,b). Gradient flows entirely to whichever parent is
// larger (ties resolved deterministically toward a).
func Max(a, b *Node) *Node {
	n := newBinary(OpMax, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// Mod returns the floating-point remainder of a/b (math.Mod semantics).
func Mod(a, b *Node) *Node {
	n := newBinary(OpMod, a, b)
	n.value, _ = forwardValue(n)
	return n
}

// PowValue returns a**b with both operands as nodes. Fails with ErrDomain
// if a<0 and b is not (at construction time) an integer value.
func PowValue(a, b *Node) (*Node, error) {
	n := newBinary(OpPowValue, a, b)
	v, err := forwardValue(n)
	if err != nil {
		return nil, err
	}
	n.value = v
	return n, nil
}

// comparison builds a zero-gradient 0/1 predicate node. Comparisons never
// propagate gradient regardless of their operands' flags (spec §4.1).
func comparison(op OpTag, a, b *Node) *Node {
	n := &Node{id: newNodeID(), parents: []*Node{a, b}, op: op}
	n.value, _ = forwardValue(n)
	return n
}

// Eq returns 1 if a==b else 0. Zero gradient.
func Eq(a, b *Node) *Node { return comparison(OpEq, a, b) }

// Neq returns 1 if a!=b else 0. Zero gradient.
func Neq(a, b *Node) *Node { return comparison(OpNeq, a, b) }

// Lt returns 1 if a<b else 0. Zero gradient.
func Lt(a, b *Node) *Node { return comparison(OpLt, a, b) }

// Lte returns 1 if a<=b else 0. Zero gradient.
func Lte(a, b *Node) *Node { return comparison(OpLte, a, b) }

// Gt returns 1 if a>b else 0. Zero gradient.
func Gt(a, b *Node) *Node { return comparison(OpGt, a, b) }

// Gte returns 1 if a>=b else 0. Zero gradient.
func Gte(a, b *Node) *Node { return comparison(OpGte, a, b) }
