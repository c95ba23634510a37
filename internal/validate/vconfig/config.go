// Package vconfig holds the validation engine's configuration types. It is
// split out from internal/validate so that internal/validate/business (and
// any other layer package) can depend on Strictness/Config without
// importing the engine package itself and creating an import cycle.
package vconfig

// Strictness selects the level ceiling business.ValidateLevelProgression
// applies and whether it adds the above-20 Warning. No other rule reads
// it, and it never turns a Warning into an Error or an Error into a Warning.
type Strictness string

const (
	StrictnessLenient  Strictness = "LENIENT"
	StrictnessStandard Strictness = "STANDARD"
	StrictnessStrict   Strictness = "STRICT"
)

// BusinessRulesConfig toggles individual business-rule checks.
type BusinessRulesConfig struct {
	ValidateHealthConsistency bool
	ValidateAbilityScores     bool
	ValidateLevelProgression  bool
	ValidateAssetReferences   bool
}

// AssetValidationConfig bounds Layer 3's file-path checks.
type AssetValidationConfig struct {
	AllowedExtensions     map[string]struct{}
	MaxFileSizeBytes      int64
	CheckURLAccessibility bool
	BasePaths             []string
}

// SecurityValidationConfig bounds Layer 3's URL/permission checks.
type SecurityValidationConfig struct {
	EnforcePermissions bool
	AllowedDomains     map[string]struct{}
	MaxRedirects       int
}

// Config is the full validation engine configuration.
type Config struct {
	ParallelValidation bool
	MaxValidationTimeMS int64
	Strictness          Strictness
	BusinessRules       BusinessRulesConfig
	Assets              AssetValidationConfig
	Security            SecurityValidationConfig
}

// DefaultConfig mirrors the original's ValidationConfig::default().
func DefaultConfig() Config {
	return Config{
		ParallelValidation:  true,
		MaxValidationTimeMS: 5000,
		Strictness:          StrictnessStandard,
		BusinessRules: BusinessRulesConfig{
			ValidateHealthConsistency: true,
			ValidateAbilityScores:     true,
			ValidateLevelProgression:  true,
			ValidateAssetReferences:   true,
		},
		Assets: AssetValidationConfig{
			AllowedExtensions: set("png", "jpg", "jpeg", "pdf", "json"),
			MaxFileSizeBytes:  50 * 1024 * 1024,
			CheckURLAccessibility: true,
			BasePaths:         []string{"assets", "images"},
		},
		Security: SecurityValidationConfig{
			EnforcePermissions: true,
			AllowedDomains:     set("github.com", "dndbeyond.com", "roll20.net"),
			MaxRedirects:       3,
		},
	}
}

func set(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
