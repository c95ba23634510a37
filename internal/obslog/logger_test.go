package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ttrpgconv/internal/errs"
)

func TestNewProducesUsableLogger(t *testing.T) {
	l := New("pipeline")
	assert.NotNil(t, l)
	l.Info("starting run", map[string]any{"stage": "detect_input"})
	assert.Zero(t, l.Dropped())
}

func TestWithTraceIDAndComponentChain(t *testing.T) {
	root := New("pipeline")
	child := root.WithTraceID("trace-123").WithComponent("asset")
	assert.Equal(t, "asset", child.component)
	assert.Equal(t, "trace-123", child.traceID)
	child.Warn("slow fetch", map[string]any{"source_ref": "https://example.com/x.png"})
}

func TestLogErrorUnwrapsTaxonomy(t *testing.T) {
	l := New("validate")
	e := errs.ValidationFailed("validate_health", "current health exceeds maximum")
	l.LogError(e)
	l.LogError(nil)
	assert.Zero(t, l.Dropped())
}
