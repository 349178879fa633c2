package lm

import (
	"github.com/katalvlaran/scalardiff/config"
	"github.com/katalvlaran/scalardiff/telemetry"
)

// Option configures a Solve call. See config.Option for the shared
// left-to-right application semantics.
type Option = config.Option[Options]

// Options holds every tunable of the solver (spec §4.6/§6).
type Options struct {
	MaxIterations     int
	CostTolerance     float64
	GradientTolerance float64
	AdaptiveDamping   bool
	InitialDamping    float64
	DampingGrowth     float64
	MaxInnerRejects   int
	Logger            telemetry.Logger
}

// DefaultOptions mirrors spec §4.6's stated defaults, exported so callers
// can start from it and override individual fields without config.Apply.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     100,
		CostTolerance:     1e-10,
		GradientTolerance: 1e-8,
		AdaptiveDamping:   true,
		InitialDamping:    1e-3,
		DampingGrowth:     10,
		MaxInnerRejects:   10,
		Logger:            telemetry.Discard(),
	}
}

func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

func WithCostTolerance(tol float64) Option {
	return func(o *Options) { o.CostTolerance = tol }
}

func WithGradientTolerance(tol float64) Option {
	return func(o *Options) { o.GradientTolerance = tol }
}

func WithAdaptiveDamping(on bool) Option {
	return func(o *Options) { o.AdaptiveDamping = on }
}

func WithInitialDamping(lambda0 float64) Option {
	return func(o *Options) { o.InitialDamping = lambda0 }
}

func WithDampingGrowth(nu float64) Option {
	return func(o *Options) { o.DampingGrowth = nu }
}

// WithVerbose streams one structured event per iteration through logger.
func WithVerbose(logger telemetry.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
