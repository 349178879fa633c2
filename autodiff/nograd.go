package autodiff

import "sync"

// noGradMu guards noGradDepth. The contract (spec §4.1/§5) is a process-wide
// flag with strict LIFO save/restore; concurrent access from multiple
// goroutines is explicitly undefined, so a single shared counter (rather
// than a goroutine-local stack) is the idiomatic minimal implementation —
// nesting on one goroutine is exactly a LIFO push/pop of the depth counter.
var (
	noGradMu    sync.Mutex
	noGradDepth int
)

func noGradActive() bool {
	noGradMu.Lock()
	defer noGradMu.Unlock()
	return noGradDepth > 0
}

func pushNoGrad() {
	noGradMu.Lock()
	noGradDepth++
	noGradMu.Unlock()
}

func popNoGrad() {
	noGradMu.Lock()
	if noGradDepth > 0 {
		noGradDepth--
	}
	noGradMu.Unlock()
}

// WithNoGrad disables gradient tracking for every operator constructor
// invoked (transitively) from fn: nodes built inside fn get
// RequiresGrad()==false regardless of their parents' flags. The previous
// state is restored on every exit path, including a returned error or a
// panic unwinding through fn.
func WithNoGrad(fn func() error) error {
	pushNoGrad()
	defer popNoGrad()
	return fn()
}
