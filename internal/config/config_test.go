package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ttrpgconv/internal/validate/vconfig"
)

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, vconfig.StrictnessStandard, cfg.Validation.Strictness)
	assert.Equal(t, int64(8), cfg.Concurrency.MaxConcurrentFetches)
	assert.Equal(t, ".ttrpgconv-cache", cfg.AssetCache.Root)
}
