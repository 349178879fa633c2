package fnset

import (
	"context"
	"fmt"

	"github.com/katalvlaran/scalardiff/autodiff"
	"github.com/katalvlaran/scalardiff/canon"
	"github.com/katalvlaran/scalardiff/kernel"
)

// ResidualBuilder produces one root node per residual, given the caller's
// full parameter vector. It is invoked exactly once by Compile/CompileAsync.
type ResidualBuilder func(params []*autodiff.Node) ([]*autodiff.Node, error)

// descriptor is the per-residual bundle spec §3 calls a "function
// descriptor": a kernel handle plus the two index vectors Kernel.Run needs.
type descriptor struct {
	kernel          *kernel.Kernel
	inputIndices    []int32
	gradientIndices []int32
}

// Set is the compiled function set (C5): frozen after Compile returns,
// except for its dense data buffer, which every evaluate-* call refreshes
// from the caller's current parameter vector (spec §4.5/§5).
type Set struct {
	registry       *autodiff.Registry
	kernels        map[uint64]*kernel.Kernel
	descriptors    []descriptor
	params         []*autodiff.Node
	paramRegistry  []int // paramRegistry[i] = registry ID of params[i]
	buffer         []float64
	trashGradIndex int32 // out-of-band slot absorbing non-parameter grad-bearing leaves
}

// Compile builds a Set: invokes build once to get the residual roots,
// canonicalizes each, compiles a kernel on signature miss (reusing on
// hit), and records one descriptor per residual. params need not all
// appear in every residual; a param never reached by any residual is
// still registered so EvaluateJacobian/EvaluateSumWithGradient can always
// accept a full-length parameter vector.
func Compile(params []*autodiff.Node, build ResidualBuilder) (*Set, error) {
	roots, err := build(params)
	if err != nil {
		return nil, fmt.Errorf("fnset: Compile: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("fnset: Compile: %w", ErrNoResiduals)
	}

	s, err := newSet(params)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if err := s.addResidual(root); err != nil {
			return nil, err
		}
	}
	s.finalize()
	return s, nil
}

// CompileAsync has the same contract as Compile, but checks ctx for
// cancellation every chunkSize residuals and invokes onProgress (if
// non-nil) after each chunk — the one cooperative-yield point the system
// allows (spec §5). Unlike a callback/future-returning API, Go's idiom
// for "yield to the caller's event loop" is simply a context check at a
// loop boundary (the same pattern dfs.TopologicalSort and flow.Dinic use
// in the teacher repo); CompileAsync stays synchronous rather than
// spawning a goroutine; in Go a blocking call is the caller's own
// choice to run asynchronously (e.g. via `go` at the call site), not
// something this function should impose.
//
// On cancellation the returned Set is non-nil but partially compiled and
// must not be evaluated — ErrCompileCancelled is returned alongside it
// purely as a discard signal.
func CompileAsync(ctx context.Context, params []*autodiff.Node, build ResidualBuilder, chunkSize int, onProgress func(current, total int)) (*Set, error) {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	roots, err := build(params)
	if err != nil {
		return nil, fmt.Errorf("fnset: CompileAsync: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("fnset: CompileAsync: %w", ErrNoResiduals)
	}

	s, err := newSet(params)
	if err != nil {
		return nil, err
	}
	total := len(roots)
	for i, root := range roots {
		if err := s.addResidual(root); err != nil {
			return nil, err
		}
		if (i+1)%chunkSize == 0 || i == total-1 {
			if onProgress != nil {
				onProgress(i+1, total)
			}
			select {
			case <-ctx.Done():
				return s, fmt.Errorf("fnset: CompileAsync: %w: %w", ctx.Err(), ErrCompileCancelled)
			default:
			}
		}
	}
	s.finalize()
	return s, nil
}

func newSet(params []*autodiff.Node) (*Set, error) {
	reg := autodiff.NewRegistry()
	paramRegistry := make([]int, len(params))
	for i, p := range params {
		id, err := reg.Register(p)
		if err != nil {
			return nil, fmt.Errorf("fnset: registering parameter %d: %w", i, err)
		}
		paramRegistry[i] = id
	}
	return &Set{
		registry:       reg,
		kernels:        make(map[uint64]*kernel.Kernel),
		params:         params,
		paramRegistry:  paramRegistry,
		trashGradIndex: int32(len(params)),
	}, nil
}

func (s *Set) addResidual(root *autodiff.Node) error {
	sig, err := canon.Sign(root, s.params)
	if err != nil {
		return fmt.Errorf("fnset: signing residual: %w", err)
	}
	k, ok := s.kernels[sig.Hash]
	if !ok {
		k, err = kernel.Compile(sig, root)
		if err != nil {
			return fmt.Errorf("fnset: compiling kernel for signature %s: %w", sig.Key, err)
		}
		s.kernels[sig.Hash] = k
	}

	inputIndices := make([]int32, len(sig.Leaves))
	for i, lr := range sig.Leaves {
		id, err := s.registry.Register(lr.Node)
		if err != nil {
			return fmt.Errorf("fnset: registering leaf: %w", err)
		}
		inputIndices[i] = int32(id)
	}

	paramPos := make(map[*autodiff.Node]int, len(s.params))
	for i, p := range s.params {
		if _, exists := paramPos[p]; !exists {
			paramPos[p] = i
		}
	}
	gradientIndices := make([]int32, k.NumGradSlots)
	slot := 0
	for _, lr := range sig.Leaves {
		if !lr.RequiresGrad {
			continue
		}
		if pos, isParam := paramPos[lr.Node]; isParam {
			gradientIndices[slot] = int32(pos)
		} else {
			gradientIndices[slot] = s.trashGradIndex
		}
		slot++
	}

	s.descriptors = append(s.descriptors, descriptor{kernel: k, inputIndices: inputIndices, gradientIndices: gradientIndices})
	return nil
}

func (s *Set) finalize() {
	s.buffer = make([]float64, s.registry.Size())
	_ = s.registry.DataSnapshot(s.buffer)
}

// KernelCount returns the number of distinct compiled kernels (map size).
func (s *Set) KernelCount() int { return len(s.kernels) }

// ResidualCount returns the number of registered function descriptors.
func (s *Set) ResidualCount() int { return len(s.descriptors) }

// ReuseFactor is ResidualCount/KernelCount (spec §4.5).
func (s *Set) ReuseFactor() float64 {
	if len(s.kernels) == 0 {
		return 0
	}
	return float64(len(s.descriptors)) / float64(len(s.kernels))
}

// refreshBuffer writes parameterValues into the registry-sized buffer at
// each parameter's registered position; every other buffer slot (a
// constant, a named variable, an anonymous weight) keeps the value copied
// from the registry when Compile finished. A later SetValue on a node does
// not reach this buffer, and the Set exposes no call that changes those
// slots.
func (s *Set) refreshBuffer(parameterValues []float64) error {
	if len(parameterValues) != len(s.params) {
		return fmt.Errorf("fnset: refreshBuffer: got %d values, want %d: %w", len(parameterValues), len(s.params), ErrShape)
	}
	for i, id := range s.paramRegistry {
		s.buffer[id] = parameterValues[i]
	}
	return nil
}

// EvaluateJacobian refreshes the data buffer from parameterValues, then
// dispatches every residual's kernel, returning each residual's value and
// its full gradient row (len(params)-wide; entries for params the
// residual didn't depend on are zero).
func (s *Set) EvaluateJacobian(parameterValues []float64) (values []float64, jacobian [][]float64, err error) {
	if err := s.refreshBuffer(parameterValues); err != nil {
		return nil, nil, err
	}
	values = make([]float64, len(s.descriptors))
	jacobian = make([][]float64, len(s.descriptors))
	row := make([]float64, len(s.params)+1)
	for i, d := range s.descriptors {
		for j := range row {
			row[j] = 0
		}
		v, rerr := d.kernel.Run(s.buffer, d.inputIndices, d.gradientIndices, row)
		if rerr != nil {
			return nil, nil, rerr
		}
		values[i] = v
		jacobian[i] = append([]float64(nil), row[:len(s.params)]...)
	}
	return values, jacobian, nil
}

// EvaluateSumWithGradient refreshes the data buffer from parameterValues,
// then sums every residual's value and accumulates every residual's
// gradient into one length-len(params) vector.
func (s *Set) EvaluateSumWithGradient(parameterValues []float64) (sum float64, gradient []float64, err error) {
	if err := s.refreshBuffer(parameterValues); err != nil {
		return 0, nil, err
	}
	acc := make([]float64, len(s.params)+1)
	for _, d := range s.descriptors {
		v, rerr := d.kernel.Run(s.buffer, d.inputIndices, d.gradientIndices, acc)
		if rerr != nil {
			return 0, nil, rerr
		}
		sum += v
	}
	return sum, acc[:len(s.params)], nil
}
