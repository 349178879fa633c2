package autodiff

// Sin returns sin(a).
func Sin(a *Node) *Node { n := newUnary(OpSin, a); n.value, _ = forwardValue(n); return n }

// Cos returns cos(a).
func Cos(a *Node) *Node { n := newUnary(OpCos, a); n.value, _ = forwardValue(n); return n }

// Tan returns tan(a).
func Tan(a *Node) *Node { n := newUnary(OpTan, a); n.value, _ = forwardValue(n); return n }

// Asin returns asin(a). Outside [-1,1] the value is NaN, same as math.Asin;
// this engine does not add a domain check beyond what spec §4.1 lists.
func Asin(a *Node) *Node { n := newUnary(OpAsin, a); n.value, _ = forwardValue(n); return n }

// Acos returns acos(a). See Asin for domain note.
func Acos(a *Node) *Node { n := newUnary(OpAcos, a); n.value, _ = forwardValue(n); return n }

// Atan returns atan(a).
func Atan(a *Node) *Node { n := newUnary(OpAtan, a); n.value, _ = forwardValue(n); return n }
