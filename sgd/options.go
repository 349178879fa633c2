package sgd

import (
	"github.com/katalvlaran/scalardiff/config"
	"github.com/katalvlaran/scalardiff/telemetry"
)

// Option configures an SGD or Adam run.
type Option = config.Option[Options]

// Options holds every tunable shared by SGD and Adam. Fields irrelevant
// to a given optimizer (e.g. Momentum for Adam, Beta1/Beta2 for plain
// SGD) are simply ignored by that optimizer.
type Options struct {
	MaxIterations     int
	GradientTolerance float64
	LearningRate      float64
	Momentum          float64
	Beta1             float64
	Beta2             float64
	Epsilon           float64
	Logger            telemetry.Logger
}

// DefaultOptions mirrors common defaults for both optimizers (Adam's
// beta1/beta2/epsilon are the values from the original Adam paper).
func DefaultOptions() Options {
	return Options{
		MaxIterations:     1000,
		GradientTolerance: 1e-8,
		LearningRate:      0.01,
		Momentum:          0.9,
		Beta1:             0.9,
		Beta2:             0.999,
		Epsilon:           1e-8,
		Logger:            telemetry.Discard(),
	}
}

func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

func WithGradientTolerance(tol float64) Option {
	return func(o *Options) { o.GradientTolerance = tol }
}

func WithLearningRate(lr float64) Option {
	return func(o *Options) { o.LearningRate = lr }
}

func WithMomentum(m float64) Option {
	return func(o *Options) { o.Momentum = m }
}

func WithAdamBetas(beta1, beta2 float64) Option {
	return func(o *Options) { o.Beta1 = beta1; o.Beta2 = beta2 }
}

func WithVerbose(logger telemetry.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
