package kernel

import (
	"fmt"
	"sync"
)

// Kernel is a compiled procedure for one canonical signature: stateless,
// parameterized at each Run by an input index vector and a gradient index
// vector (spec §4.4's kernel contract). NumInputs and NumGradSlots mirror
// the kernel descriptor's N and K (spec §3).
type Kernel struct {
	NumInputs    int
	NumGradSlots int

	leafGradSlot []int32 // per leaf local index 0..NumInputs-1: slot in [0,NumGradSlots) or -1
	instructions []instruction
	rootReg      int32
	totalRegs    int

	scratch sync.Pool
}

type scratchBuf struct {
	val  []float64
	grad []float64
}

func (k *Kernel) newScratch() *scratchBuf {
	return &scratchBuf{val: make([]float64, k.totalRegs), grad: make([]float64, k.totalRegs)}
}

// Run evaluates the kernel: values holds the packed registry buffer,
// inputIndices[0..NumInputs-1] map the kernel's input slots to positions
// in values, gradientIndices[0..NumGradSlots-1] map the kernel's
// grad-bearing slots to positions in gradOut. Returns the residual's
// value; gradOut is accumulated into with +=, never overwritten, so a
// caller can reuse one buffer across many residuals (spec §4.4/§4.5).
func (k *Kernel) Run(values []float64, inputIndices, gradientIndices []int32, gradOut []float64) (float64, error) {
	if len(inputIndices) != k.NumInputs {
		return 0, fmt.Errorf("kernel: Run: inputIndices has %d entries, want %d: %w", len(inputIndices), k.NumInputs, ErrIndexMismatch)
	}
	if len(gradientIndices) != k.NumGradSlots {
		return 0, fmt.Errorf("kernel: Run: gradientIndices has %d entries, want %d: %w", len(gradientIndices), k.NumGradSlots, ErrIndexMismatch)
	}

	buf, _ := k.scratch.Get().(*scratchBuf)
	if buf == nil {
		buf = k.newScratch()
	}
	defer k.scratch.Put(buf)

	val := buf.val
	grad := buf.grad
	for i := range grad {
		grad[i] = 0
	}

	for leaf, srcIdx := range inputIndices {
		val[leaf] = values[srcIdx]
	}

	for _, instr := range k.instructions {
		val[instr.out] = evalForward(instr, val)
	}

	grad[k.rootReg] = 1
	for i := len(k.instructions) - 1; i >= 0; i-- {
		evalBackward(k.instructions[i], val, grad)
	}

	for leaf := 0; leaf < k.NumInputs; leaf++ {
		slot := k.leafGradSlot[leaf]
		if slot < 0 {
			continue
		}
		gradOut[gradientIndices[slot]] += grad[leaf]
	}

	return val[k.rootReg], nil
}
