package canon

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// LeafRef is one entry in a Signature's ordered leaf list: the leaf node
// itself, its requires-grad flag at signing time, and — if it is one of
// the caller-supplied parameters — that parameter's position, else -1.
type LeafRef struct {
	Node         *autodiff.Node
	RequiresGrad bool
	ParamIndex   int
}

// Signature is the C3 output: a 64-bit structural hash plus the ordered
// leaf list it was computed over. Two residuals sharing a Signature.Key
// may share one compiled kernel (see kernel.Compile, fnset.Set.Compile).
type Signature struct {
	Hash   uint64
	Leaves []LeafRef
	Key    string
}

// frame is one stack entry of the iterative post-order walk: the node
// being expanded and the index of the next parent to visit. Using an
// explicit stack bounds recursion depth the way dfs.TopologicalSort does
// in the teacher repo.
type frame struct {
	node     *autodiff.Node
	childIdx int
}

// Sign computes the canonical signature of the graph rooted at root,
// given the caller's full parameter list (not every parameter need
// appear in this particular graph). Returns ErrNilRoot if root is nil.
func Sign(root *autodiff.Node, params []*autodiff.Node) (Signature, error) {
	if root == nil {
		return Signature{}, ErrNilRoot
	}

	paramIndex := make(map[*autodiff.Node]int, len(params))
	for i, p := range params {
		if _, exists := paramIndex[p]; !exists {
			paramIndex[p] = i
		}
	}

	// 1-3. Leaf discovery + node identity assignment, combined: an
	// iterative post-order DFS over parents, fixed iteration order,
	// recording leaves at first touch (discovery order) and non-leaves
	// in post-order (children before parents, per spec §4.3 step 3).
	//
	// tally counts, per node, how many parent-edges reach it in total and
	// how many of those are the exponent position of a squared pow-value
	// node. A leaf used *exclusively* as such an exponent never enters the
	// leaf list below: the rewrite that hashes that pow-value node as
	// square (step 4b) must present the same leaf set a genuine Square
	// call would, or the two graphs sign differently.
	tally := make(map[*autodiff.Node]*edgeTally)
	tallyEdge := func(parent, child *autodiff.Node, pos int) {
		t, ok := tally[child]
		if !ok {
			t = &edgeTally{}
			tally[child] = t
		}
		t.total++
		if pos == 1 && isSquaredPowValue(parent) {
			t.squareExponent++
		}
	}

	visited := map[*autodiff.Node]bool{root: true}
	var discoveredLeaves []*autodiff.Node
	var postOrder []*autodiff.Node

	if root.IsLeaf() {
		discoveredLeaves = append(discoveredLeaves, root)
	} else {
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := top.node.Parents()
			if top.childIdx < len(parents) {
				child := parents[top.childIdx]
				pos := top.childIdx
				top.childIdx++
				tallyEdge(top.node, child, pos)
				if visited[child] {
					continue
				}
				visited[child] = true
				if child.IsLeaf() {
					discoveredLeaves = append(discoveredLeaves, child)
				} else {
					stack = append(stack, frame{node: child})
				}
				continue
			}
			postOrder = append(postOrder, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	discoveredLeaves = dropExponentOnlyLeaves(discoveredLeaves, tally)

	// 2. Leaf ordering: caller-supplied parameters, in caller order, first;
	// remaining leaves in discovery order.
	leafSet := make(map[*autodiff.Node]bool, len(discoveredLeaves))
	for _, l := range discoveredLeaves {
		leafSet[l] = true
	}
	consumed := make(map[*autodiff.Node]bool, len(discoveredLeaves))
	var ordered []LeafRef
	for i, p := range params {
		if leafSet[p] && !consumed[p] {
			ordered = append(ordered, LeafRef{Node: p, RequiresGrad: p.RequiresGrad(), ParamIndex: i})
			consumed[p] = true
		}
	}
	for _, l := range discoveredLeaves {
		if !consumed[l] {
			ordered = append(ordered, LeafRef{Node: l, RequiresGrad: l.RequiresGrad(), ParamIndex: -1})
			consumed[l] = true
		}
	}

	id := make(map[*autodiff.Node]int, len(ordered)+len(postOrder))
	for i, lr := range ordered {
		id[lr.Node] = i
	}

	var h runningHash

	// 4a. Leaf contributions, in leaf-ordering order.
	for i, lr := range ordered {
		h.mix(uint64(i)<<1 | boolBit(lr.RequiresGrad))
	}

	// 4b. Non-leaf contributions, in post-order, applying the §4.3 step 5
	// normalization rewrites for hashing purposes only: pow-by-value with a
	// non-grad constant-2 exponent hashes as square; sum hashes as a nested
	// binary-+ chain. Neither rewrite changes Forward/Backward, which always
	// use the node's genuine operator.
	nextID := len(ordered)
	for _, n := range postOrder {
		switch {
		case n.Op() == autodiff.OpSum:
			id[n], nextID = hashSumChain(&h, n.Parents(), id, nextID)

		case isSquaredPowValue(n):
			id[n] = nextID
			nextID++
			h.mix(opConstant(autodiff.OpSquare, ""))
			h.mix(0)
			h.mix(uint64(id[n.Parents()[0]]))

		default:
			id[n] = nextID
			nextID++
			h.mix(opConstant(n.Op(), n.CustomName()))
			for pos, p := range n.Parents() {
				h.mix(uint64(pos))
				h.mix(uint64(id[p]))
			}
		}
	}

	return Signature{Hash: h.sum(), Leaves: ordered, Key: signatureKey(ordered, h.sum())}, nil
}

// hashSumChain mixes an n-ary Sum as a left-folded chain of binary +,
// synthesizing intermediate IDs from the same counter used for real
// non-leaf nodes. Nothing outside this function ever references those
// intermediate IDs, so burning extra integers on them is harmless; it
// keeps the hash of a Sum indistinguishable from the hash of the
// equivalent hand-written nested-+ expression, which is the point of the
// rewrite.
func hashSumChain(h *runningHash, inputs []*autodiff.Node, id map[*autodiff.Node]int, nextID int) (finalID, newNextID int) {
	cur := id[inputs[0]]
	if len(inputs) == 1 {
		// A one-input Sum has no "+" to fold into; still mark it distinct
		// from a bare reference to its input.
		synID := nextID
		nextID++
		h.mix(opConstant(autodiff.OpSum, ""))
		h.mix(uint64(cur))
		return synID, nextID
	}
	for k := 1; k < len(inputs); k++ {
		synID := nextID
		nextID++
		h.mix(opConstant(autodiff.OpAdd, ""))
		h.mix(0)
		h.mix(uint64(cur))
		h.mix(1)
		h.mix(uint64(id[inputs[k]]))
		cur = synID
	}
	return cur, nextID
}

// edgeTally counts, for one node, how many parent-edges reach it in total
// and how many of those are the exponent position of a squared pow-value
// node (see dropExponentOnlyLeaves).
type edgeTally struct {
	total, squareExponent int
}

// dropExponentOnlyLeaves filters out every leaf whose only parent-edges
// (across the whole graph being signed) are the exponent position of a
// squared pow-value node: one used solely in that role. A leaf also used
// somewhere else (directly added, or as a different pow's exponent with
// a non-square value) keeps its place in the leaf list.
func dropExponentOnlyLeaves(leaves []*autodiff.Node, tally map[*autodiff.Node]*edgeTally) []*autodiff.Node {
	var kept []*autodiff.Node
	for _, l := range leaves {
		t, ok := tally[l]
		if ok && t.total > 0 && t.total == t.squareExponent {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// isSquaredPowValue reports whether n is pow-by-value raised to a
// non-grad constant exactly equal to 2, the one rewrite spec §4.3 step 5
// names explicitly.
func isSquaredPowValue(n *autodiff.Node) bool {
	if n.Op() != autodiff.OpPowValue {
		return false
	}
	exponent := n.Parents()[1]
	return exponent.Op() == autodiff.OpConstant && !exponent.RequiresGrad() && exponent.Value() == 2
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// signatureKey emits "<param-id-list>|<hex-hash>" per spec §4.3 step 6.
func signatureKey(ordered []LeafRef, hash uint64) string {
	var prefix strings.Builder
	first := true
	for _, lr := range ordered {
		if lr.ParamIndex < 0 {
			continue
		}
		if !first {
			prefix.WriteByte(',')
		}
		first = false
		grad := 0
		if lr.RequiresGrad {
			grad = 1
		}
		fmt.Fprintf(&prefix, "%d:%d", lr.ParamIndex, grad)
	}
	return fmt.Sprintf("%s|%x", prefix.String(), hash)
}
