package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured-event sink the solver packages depend
// on, so they never import zerolog directly — only telemetry does.
type Logger interface {
	IterationInfo(iteration int, fields map[string]float64, msg string)
	Warn(msg string, err error)
}

// zlogger adapts zerolog.Logger to Logger.
type zlogger struct {
	z zerolog.Logger
}

// New builds a Logger writing structured JSON lines to w.
func New(w io.Writer) Logger {
	return &zlogger{z: zerolog.New(w).With().Timestamp().Logger()}
}

// NewConsole builds a Logger writing human-readable lines to stderr,
// useful for `verbose: true` in interactive CLI use (cmd/scalardiff-bench).
func NewConsole() Logger {
	return &zlogger{z: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

// Discard is a Logger that drops every event; the solver packages default
// to it when the caller passes no `verbose` option.
func Discard() Logger {
	return &zlogger{z: zerolog.New(io.Discard)}
}

func (l *zlogger) IterationInfo(iteration int, fields map[string]float64, msg string) {
	ev := l.z.Info().Int("iteration", iteration)
	for k, v := range fields {
		ev = ev.Float64(k, v)
	}
	ev.Msg(msg)
}

func (l *zlogger) Warn(msg string, err error) {
	l.z.Warn().Err(err).Msg(msg)
}
