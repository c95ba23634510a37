// Package config defines the core's configuration surface: the keys the
// orchestrator reads (spec §6). On-disk config file parsing is explicitly
// out of scope (spec §1 Non-goals) — this package holds plain structs only;
// populating them from a file, environment, or flags is an external
// collaborator's job (cmd/ttrpgconv has no loader: it reads its own flags
// and falls back to DefaultConfig's asset cache root).
package config

import "ttrpgconv/internal/validate/vconfig"

// ConcurrencyConfig bounds the orchestrator's worker pool (spec §5:
// "bounded worker pool sized to CPU count by default").
type ConcurrencyConfig struct {
	WorkerCount         int
	MaxConcurrentFetches int64
}

// AssetCacheConfig locates the content-addressed asset cache internal/asset
// reads and writes.
type AssetCacheConfig struct {
	Root string
}

// Config is the full set of keys the orchestrator consumes, per spec §6:
// "validation.*, asset_cache.root, concurrency.*".
type Config struct {
	Validation vconfig.Config
	AssetCache AssetCacheConfig
	Concurrency ConcurrencyConfig
}

// DefaultConfig returns the documented defaults for every key: Standard
// validation strictness, an 8-worker default matching spec §4.5's default
// fetch concurrency, and a worker count left at 0 (caller resolves against
// runtime.NumCPU — this package holds no runtime dependency).
func DefaultConfig() Config {
	return Config{
		Validation: vconfig.DefaultConfig(),
		AssetCache: AssetCacheConfig{Root: ".ttrpgconv-cache"},
		Concurrency: ConcurrencyConfig{
			WorkerCount:          0,
			MaxConcurrentFetches: 8,
		},
	}
}
