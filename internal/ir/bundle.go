package ir

import "time"

// OutputBundle is a pure in-memory value produced by output plugin
// synthesis. No output plugin performs I/O while building one; writing it
// to disk is a separate, idempotent step owned by internal/bundle.
type OutputBundle struct {
	Files     map[string]string
	Databases map[string][]byte
	Assets    map[string]string
	Metadata  OutputMetadata
}

// NewOutputBundle returns an empty bundle ready for synthesis.
func NewOutputBundle() *OutputBundle {
	return &OutputBundle{
		Files:     map[string]string{},
		Databases: map[string][]byte{},
		Assets:    map[string]string{},
	}
}

// AddFile registers a text file in the bundle.
func (b *OutputBundle) AddFile(path, content string) { b.Files[path] = content }

// AddDatabase registers a binary database blob (e.g., a packed LevelDB).
func (b *OutputBundle) AddDatabase(path string, data []byte) { b.Databases[path] = data }

// AddAsset registers a target path mapped to a resolved source path.
func (b *OutputBundle) AddAsset(targetPath, sourcePath string) { b.Assets[targetPath] = sourcePath }

// OutputMetadata describes a bundle's generation provenance.
type OutputMetadata struct {
	GeneratedAt *time.Time
	Generator   *string
	Format      *OutputFormat
	Stats       *GenerationStats
}

// GenerationStats reports output synthesis counters.
type GenerationStats struct {
	FilesGenerated  int
	AssetsProcessed int
	ProcessingTime  time.Duration
}
