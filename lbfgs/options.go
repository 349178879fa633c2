package lbfgs

import (
	"github.com/katalvlaran/scalardiff/config"
	"github.com/katalvlaran/scalardiff/telemetry"
)

// LineSearchKind selects the acceptance test backtrackingLineSearch applies.
type LineSearchKind string

const (
	Armijo LineSearchKind = "armijo"
	Wolfe  LineSearchKind = "wolfe"
)

// Option configures a Solve call.
type Option = config.Option[Options]

// Options holds every tunable of the solver (spec §4.7/§6).
type Options struct {
	MaxIterations     int
	GradientTolerance float64
	HistorySize       int
	LineSearch        LineSearchKind
	C1                float64
	C2                float64
	MaxLineSearchTries int
	Logger            telemetry.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxIterations:      200,
		GradientTolerance:  1e-8,
		HistorySize:        10,
		LineSearch:         Wolfe,
		C1:                 1e-4,
		C2:                 0.9,
		MaxLineSearchTries: 50,
		Logger:             telemetry.Discard(),
	}
}

func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

func WithGradientTolerance(tol float64) Option {
	return func(o *Options) { o.GradientTolerance = tol }
}

func WithHistorySize(m int) Option {
	return func(o *Options) { o.HistorySize = m }
}

func WithLineSearch(kind LineSearchKind) Option {
	return func(o *Options) { o.LineSearch = kind }
}

// WithVerbose streams one structured event per iteration through logger.
func WithVerbose(logger telemetry.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
