package config

// Option mutates a *T in place. Every package-local option type (lm.Option,
// lbfgs.Option, sgd.Option) is this same shape; the
// type alias exists so each package can still export its own named type for
// documentation purposes while sharing one Apply implementation.
type Option[T any] func(*T)

// Apply starts from defaults and applies opts left to right, matching the
// teacher's own option-resolution order (core.NewMixedGraph folds caller
// opts onto a directed-mode default "deterministically left-to-right";
// matrix.gatherOptions does the same over DefaultX constants).
func Apply[T any](defaults T, opts ...Option[T]) T {
	cfg := defaults
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
