// Package telemetry is the ambient logging surface shared by the solver
// packages: LM and L-BFGS accept a `verbose` option (spec §6) that, when
// set, streams one structured event per iteration through a Logger.
package telemetry
