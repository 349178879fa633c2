package kernel

import (
	"fmt"

	"github.com/katalvlaran/scalardiff/autodiff"
	"github.com/katalvlaran/scalardiff/canon"
)

// Compile emits a Kernel for root, given the canonical signature already
// computed for it (canon.Sign). The signature supplies the leaf ordering
// (and therefore NumInputs/NumGradSlots); root supplies the real operator
// tags and captured constants — canon's sum-as-nested-add rewrite is
// hashing-only and never appears here, so a compiled kernel always
// implements the graph's genuine N-ary semantics (spec §4.4). The one
// trace of the pow-square rewrite: a constant-2 exponent leaf that Sign
// left out of the leaf list gets no register, and its pow-value node is
// compiled as Square of the base.
func Compile(sig canon.Signature, root *autodiff.Node) (*Kernel, error) {
	if root == nil {
		return nil, ErrNilRoot
	}

	leafIndex := make(map[*autodiff.Node]int, len(sig.Leaves))
	leafGradSlot := make([]int32, len(sig.Leaves))
	gradSlots := int32(0)
	for i, lr := range sig.Leaves {
		leafIndex[lr.Node] = i
		if lr.RequiresGrad {
			leafGradSlot[i] = gradSlots
			gradSlots++
		} else {
			leafGradSlot[i] = -1
		}
	}

	order := autodiff.TopoSort(root)
	reg := make(map[*autodiff.Node]int32, len(order))
	nextReg := int32(len(sig.Leaves))
	var instructions []instruction

	for _, n := range order {
		if n.IsLeaf() {
			idx, ok := leafIndex[n]
			if !ok {
				if n.Op() != autodiff.OpConstant || n.Value() != 2 {
					return nil, fmt.Errorf("kernel: Compile: leaf not present in signature's leaf list: %w", ErrCompile)
				}
				continue // exponent-only leaf of a squared pow-value
			}
			reg[n] = int32(idx)
			continue
		}

		op, parents := n.Op(), n.Parents()
		if op == autodiff.OpPowValue {
			if _, ok := reg[parents[1]]; !ok {
				op, parents = autodiff.OpSquare, parents[:1]
			}
		}
		parentRegs := make([]int32, len(parents))
		for i, p := range parents {
			r, ok := reg[p]
			if !ok {
				return nil, fmt.Errorf("kernel: Compile: parent visited out of order: %w", ErrCompile)
			}
			parentRegs[i] = r
		}

		instr := instruction{
			op:      op,
			parents: parentRegs,
			out:     nextReg,
			constA:  n.ConstA(),
			constB:  n.ConstB(),
		}
		if n.Op() == autodiff.OpCustom {
			fwd, bwd := n.CustomFuncs()
			if fwd == nil || bwd == nil {
				return nil, fmt.Errorf("kernel: Compile: custom node %q missing hooks: %w", n.CustomName(), ErrCompile)
			}
			instr.custom = fwd
			instr.customBk = bwd
		}

		reg[n] = nextReg
		instructions = append(instructions, instr)
		nextReg++
	}

	rootReg, ok := reg[root]
	if !ok {
		return nil, fmt.Errorf("kernel: Compile: root never assigned a register: %w", ErrCompile)
	}

	return &Kernel{
		NumInputs:    len(sig.Leaves),
		NumGradSlots: int(gradSlots),
		leafGradSlot: leafGradSlot,
		instructions: instructions,
		rootReg:      rootReg,
		totalRegs:    int(nextReg),
	}, nil
}
