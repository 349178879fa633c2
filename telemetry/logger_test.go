package telemetry_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/scalardiff/telemetry"
)

func TestLogger_IterationInfoWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.New(&buf)
	logger.IterationInfo(3, map[string]float64{"cost": 0.5}, "lm step")

	out := buf.String()
	assert.Contains(t, out, `"iteration":3`)
	assert.Contains(t, out, `"cost":0.5`)
	assert.Contains(t, out, "lm step")
}

func TestLogger_WarnIncludesError(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.New(&buf)
	logger.Warn("cholesky failed", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestDiscard_NeverPanics(t *testing.T) {
	logger := telemetry.Discard()
	assert.NotPanics(t, func() {
		logger.IterationInfo(0, nil, "noop")
		logger.Warn("noop", nil)
	})
}
