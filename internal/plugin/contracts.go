// Package plugin defines the six plugin capability contracts
// (Input/Output/Validation/Asset/Export/Logging) and the discovery
// registry every concrete adapter registers itself into via init().
//
// Go interfaces are already object-safe and suspension-compatible, so
// unlike the tagged-variant dispatch the original's trait-object
// limitations required, plugins here are dispatched through ordinary
// interface-typed maps — see registry.go.
package plugin

import (
	"context"

	"ttrpgconv/internal/ir"
)

// PluginInfo is a plugin's static identity: name, version, description,
// author, declared feature tags, and the names of other registered
// plugins it depends on. Name is the plugin's identity; duplicates within
// a category are rejected at registration time.
type PluginInfo struct {
	Name         string
	Version      string
	Description  string
	Author       string
	Tags         []string
	Dependencies []string
}

// HealthStatus is the outcome of a PluginLifecycle health probe.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "HEALTHY"
	HealthDegraded  HealthStatus = "DEGRADED"
	HealthUnhealthy HealthStatus = "UNHEALTHY"
	HealthStopped   HealthStatus = "STOPPED"
	HealthUnknown   HealthStatus = "UNKNOWN"
)

// PluginLifecycle is implemented by every plugin regardless of capability.
// Initialize may be called at most once before any capability method;
// Shutdown releases resources and must be followed by no further calls.
type PluginLifecycle interface {
	Initialize(ctx context.Context, config map[string]any) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) HealthStatus
	GetInfo() PluginInfo
}

// ProcessingOptions configures a single AssetPlugin.Process call (resize
// hints, re-encoding, cache bypass).
type ProcessingOptions struct {
	MaxDimension   *uint32
	ForceRefetch   bool
	TargetFormat   *string
}

// OutputConfig parameterizes OutputPlugin.GenerateOutput — shared shape
// across vendor targets; format-specific blocks are nil unless relevant.
type OutputConfig struct {
	Format        ir.OutputFormat
	Subdirectory  string
	FoundryOptions *FoundryConfig
	PDFOptions     *PDFConfig
	WriteOptions   WriteOptions
}

// FoundryConfig carries Foundry-specific synthesis options.
type FoundryConfig struct {
	DatabaseType    string // "LEVELDB" (v10+) or "NEDB" (v9 and below)
	OutputType      string // "WORLD" or "MODULE"
	Version         string // "V9".."V12"
	WorldTitle      string
	WorldDescription string
	ModuleID        string
	ModuleTitle     string
	ModuleDescription string
}

// PDFConfig carries PDF-specific synthesis options. The core never imports
// a concrete PDF rendering library (spec §1 Non-goals): PDFRenderer in
// internal/adapters/output/pdf is the seam a real renderer plugs into.
type PDFConfig struct {
	IncludeCharacterSheets bool
	IncludeCampaignNotes   bool
	PageFormat             string // "LETTER", "A4", "LEGAL", "TABLOID"
	FontFamily             string
}

// WriteOptions governs OutputPlugin.WriteOutput's disk-write behavior.
type WriteOptions struct {
	OverwriteExisting  bool
	CreateDirectories  bool
	PreservePermissions bool
}

// InputPlugin normalizes a vendor source archive into the UIR.
type InputPlugin interface {
	PluginLifecycle
	// CanHandle is a cheap probe (extension, sentinel files, magic bytes);
	// it must not open large files fully.
	CanHandle(ctx context.Context, sourcePath string) bool
	// ExtractMetadata does a header-only read, used for listing/preview.
	ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error)
	// ParseCampaign does a full parse. Must be deterministic given
	// identical input bytes.
	ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error)
	// DiscoverAssets enumerates every external reference reachable from
	// campaign, including any retained raw source data. Must return a
	// stable ordering given stable input.
	DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error)
}

// OutputPlugin synthesizes a vendor bundle from the UIR.
type OutputPlugin interface {
	PluginLifecycle
	SupportedFormats() []ir.OutputFormat
	// GenerateOutput is pure: no I/O, no mutation of campaign or assets.
	GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config OutputConfig) (*ir.OutputBundle, error)
	// WriteOutput is idempotent when opts.OverwriteExisting is true.
	WriteOutput(ctx context.Context, bundle *ir.OutputBundle, targetPath string, opts WriteOptions) error
}

// ValidationPlugin is composable: multiple results merge by concatenation
// through ir.ValidationResult.Merge, which does not deduplicate identical
// issues.
type ValidationPlugin interface {
	PluginLifecycle
	ValidateCampaign(ctx context.Context, campaign *ir.Campaign) ir.ValidationResult
}

// AssetPlugin resolves a single AssetInfo to processed bytes on disk:
// fetch, cache lookup, and any requested transformation.
type AssetPlugin interface {
	PluginLifecycle
	Process(ctx context.Context, asset ir.AssetInfo, opts ProcessingOptions) (ir.ProcessedAsset, error)
}

// ExportPlugin wraps an OutputBundle into a directly consumable archive
// (zip, single PDF) beyond what OutputPlugin.WriteOutput produces.
type ExportPlugin interface {
	PluginLifecycle
	Export(ctx context.Context, bundle *ir.OutputBundle, targetPath string) error
}

// LoggingPlugin is a sink contract: non-blocking for callers, dropping
// entries under pressure with a best-effort counter rather than blocking
// the pipeline. internal/obslog.Logger satisfies this interface.
type LoggingPlugin interface {
	Trace(message string, fields map[string]any)
	Debug(message string, fields map[string]any)
	Info(message string, fields map[string]any)
	Warn(message string, fields map[string]any)
	Error(message string, fields map[string]any)
}
