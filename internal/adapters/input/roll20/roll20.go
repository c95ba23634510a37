package roll20

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/afero"

	"ttrpgconv/internal/asset"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// Plugin implements plugin.InputPlugin for Roll20 campaign JSON exports.
// It is stateless between calls: ParseCampaign folds every raw reference
// into the returned Campaign's own fields, so DiscoverAssets never needs a
// handler-held copy of the source document (spec §9 Open Question 1).
type Plugin struct {
	FS afero.Fs
}

// New returns a Plugin reading from the OS filesystem.
func New() *Plugin {
	return &Plugin{FS: afero.NewOsFs()}
}

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "roll20-input",
			Version:     "1.0.0",
			Description: "Parses Roll20 campaign JSON exports into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "roll20", "json"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "roll20"},
		Tags:     []string{"input", "roll20"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "roll20-input",
		Version:     "1.0.0",
		Description: "Parses Roll20 campaign JSON exports into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "roll20", "json"},
	}
}

// CanHandle is a cheap sniff: the file must carry a ".json" extension and
// the top-level object must declare a "campaign" key alongside at least
// one Roll20-specific sibling array. It never unmarshals the full document.
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	if !strings.HasSuffix(strings.ToLower(sourcePath), ".json") {
		return false
	}
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return false
	}
	var probe struct {
		Campaign   json.RawMessage `json:"campaign"`
		Characters json.RawMessage `json:"characters"`
		Handouts   json.RawMessage `json:"handouts"`
		Pages      json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return len(probe.Campaign) > 0 && (len(probe.Characters) > 0 || len(probe.Handouts) > 0 || len(probe.Pages) > 0)
}

// ExtractMetadata decodes only the "campaign" object, ignoring every
// sibling array, for header-only preview/listing use.
func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("roll20.extract_metadata", "failed to read source file", err)
	}

	var doc struct {
		Campaign campaignMeta `json:"campaign"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.CampaignMetadata{}, errs.ParseFailed("roll20.extract_metadata", "invalid Roll20 JSON", err)
	}

	meta := ir.NewCampaignMetadata()
	meta.Title = doc.Campaign.Name
	meta.SourceFormat = ir.SourceFormatRoll20
	if doc.Campaign.Description != "" {
		desc := doc.Campaign.Description
		meta.Description = &desc
	}
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

// ParseCampaign fully decodes the Roll20 export and converts every entity
// to its UIR counterpart. Deterministic given identical input bytes: no
// randomness is introduced beyond ir.NewID for entities lacking a source
// ID, and Roll20 IDs are always present in practice.
func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return nil, errs.IOFailed("roll20.parse_campaign", "failed to read source file", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.ParseFailed("roll20.parse_campaign", "invalid Roll20 JSON", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.Title = doc.Campaign.Name
	campaign.Metadata.SourceFormat = ir.SourceFormatRoll20
	if doc.Campaign.Description != "" {
		desc := doc.Campaign.Description
		campaign.Metadata.Description = &desc
	}
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	system, confidence := detectGameSystem(doc.Characters)
	campaign.GameSystem = system
	campaign.Metadata.DetectedSystem = &system
	campaign.Metadata.SystemConfidence = confidence

	for _, c := range doc.Characters {
		if c.ID == "" {
			campaign.AddNote(ir.ConversionWarning, "Roll20 character has an empty id", "")
		}
		campaign.Actors = append(campaign.Actors, convertCharacterToActor(c))
	}

	for _, pg := range doc.Pages {
		campaign.Scenes = append(campaign.Scenes, convertPageToScene(pg))
	}

	for _, h := range doc.Handouts {
		campaign.Items = append(campaign.Items, convertHandoutToItem(h))
	}

	for _, a := range doc.Assets {
		campaign.Items = append(campaign.Items, convertAssetToItem(a))
	}

	for _, j := range doc.Journal {
		campaign.JournalEntries = append(campaign.JournalEntries, convertJournalEntry(j))
	}

	campaign.AddNote(ir.ConversionInfo, "Converted Roll20 campaign", "")
	return campaign, nil
}

// DiscoverAssets delegates to the shared Discoverer: ParseCampaign already
// folded every Roll20-specific reference (handout avatars, the top-level
// asset registry) into proper UIR fields, so no vendor-specific second
// pass is needed here.
func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
