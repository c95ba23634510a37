package ir

// AssetType classifies an asset reference discovered in source data.
type AssetType string

const (
	AssetTypeCharacterArt AssetType = "CHARACTER_ART"
	AssetTypeMapBackground AssetType = "MAP_BACKGROUND"
	AssetTypeTokenImage    AssetType = "TOKEN_IMAGE"
	AssetTypeHandoutImage  AssetType = "HANDOUT_IMAGE"
	AssetTypeAudio         AssetType = "AUDIO"
	AssetTypeVideo         AssetType = "VIDEO"
	AssetTypeAttachment    AssetType = "ATTACHMENT"
)

// AssetDimensions holds pixel width/height when known.
type AssetDimensions struct {
	Width  uint32
	Height uint32
}

// AssetMetadata carries best-effort details about an asset, filled in as
// the processor discovers them.
type AssetMetadata struct {
	FileSize         *uint64
	Format           *string
	Dimensions       *AssetDimensions
	ProcessingHints  map[string]string
}

// AssetInfo identifies a single external reference discovered in source
// data. Identity is the pair (Source, AssetType); the processor computes a
// content hash after fetch to deduplicate assets referenced from multiple
// entities under different URLs/paths that happen to resolve to the same
// bytes.
type AssetInfo struct {
	Source    string
	AssetType AssetType
	LocalPath *string
	Metadata  AssetMetadata
}

// Key returns the identity tuple used for asset discovery dedup, distinct
// from the post-fetch content hash used for fetch-level dedup.
func (a AssetInfo) Key() string {
	return string(a.AssetType) + "|" + a.Source
}

// ProcessedAsset wraps an AssetInfo with the outcome of processing: the
// resolved on-disk path, the steps applied, and a per-output-format
// rewritten-reference table so each output plugin can emit a format-correct
// reference without re-deriving it.
type ProcessedAsset struct {
	Original         AssetInfo
	ProcessedPath    string
	ContentHash      string
	ProcessingApplied []string
	TargetMappings   map[OutputFormat]string
}

// NewProcessedAsset seeds a ProcessedAsset from its source AssetInfo,
// defaulting the processed path to the local path (if any) or the source
// reference itself, mirroring the original's From<AssetInfo> impl.
func NewProcessedAsset(asset AssetInfo) ProcessedAsset {
	path := asset.Source
	if asset.LocalPath != nil {
		path = *asset.LocalPath
	}
	return ProcessedAsset{
		Original:         asset,
		ProcessedPath:    path,
		TargetMappings:   map[OutputFormat]string{},
	}
}
