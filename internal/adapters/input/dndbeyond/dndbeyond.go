// Package dndbeyond parses a single D&D Beyond character export JSON into
// the universal IR. As with output/dndbeyondjson, no original_source/
// platform crate documents this format, so it follows D&D Beyond's
// publicly known export envelope (name/race/classes/stats/inventory) and
// is the direct inverse of that output adapter.
package dndbeyond

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

type Plugin struct {
	FS afero.Fs
}

func New() *Plugin { return &Plugin{FS: afero.NewOsFs()} }

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "dndbeyond-input",
			Version:     "1.0.0",
			Description: "Parses a D&D Beyond character export JSON into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "dndbeyond"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "dndbeyond"},
		Tags:     []string{"input", "dndbeyond"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "dndbeyond-input",
		Version:     "1.0.0",
		Description: "Parses a D&D Beyond character export JSON into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "dndbeyond"},
	}
}

type statDoc struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type inventoryDoc struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
	Notes    string `json:"notes,omitempty"`
}

type document struct {
	Name      string         `json:"name"`
	Race      string         `json:"race,omitempty"`
	Classes   []string       `json:"classes,omitempty"`
	Stats     []statDoc      `json:"stats"`
	Inventory []inventoryDoc `json:"inventory,omitempty"`
	Traits    string         `json:"traits,omitempty"`
	Notes     string         `json:"notes,omitempty"`
}

// CanHandle requires "stats" as an array-of-{name,value} objects — the
// shape that distinguishes a D&D Beyond export from Pathbuilder's flat
// name->number "attributes" map and from HeroLab's nested
// "summary.statistics" envelope.
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	if !strings.HasSuffix(strings.ToLower(sourcePath), ".json") {
		return false
	}
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return false
	}
	var probe struct {
		Stats []statDoc `json:"stats"`
		Name  string    `json:"name"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Name != "" && len(probe.Stats) > 0
}

func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("dndbeyond.extract_metadata", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.CampaignMetadata{}, errs.ParseFailed("dndbeyond.extract_metadata", "invalid D&D Beyond JSON", err)
	}
	meta := ir.NewCampaignMetadata()
	meta.Title = doc.Name
	meta.SourceFormat = ir.SourceFormatDNDBeyond
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return nil, errs.IOFailed("dndbeyond.parse_campaign", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.ParseFailed("dndbeyond.parse_campaign", "invalid D&D Beyond JSON", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.Title = doc.Name
	campaign.Metadata.SourceFormat = ir.SourceFormatDNDBeyond
	campaign.GameSystem = ir.GameSystem{Kind: ir.GameSystemDnD5e}
	campaign.Metadata.DetectedSystem = &campaign.GameSystem
	campaign.Metadata.SystemConfidence = 1.0
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	actor := ir.NewActor(doc.Name, ir.ActorTypePC)
	actor.Notes = doc.Traits
	actor.Biography = doc.Notes
	for _, stat := range doc.Stats {
		actor.Attributes[strings.ToLower(stat.Name)] = ir.NumberAttribute(float64(stat.Value))
	}
	if doc.Race != "" {
		actor.Features = append(actor.Features, ir.Feature{ID: ir.NewID(), Name: doc.Race + " Traits"})
	}
	for _, cls := range doc.Classes {
		actor.Features = append(actor.Features, ir.Feature{ID: ir.NewID(), Name: cls})
	}
	for _, inv := range doc.Inventory {
		item := ir.NewItem(inv.Name, ir.ItemTypeEquipment)
		item.Description = inv.Notes
		item.Properties.Quantity = inv.Quantity
		item.Properties.Attunement = inv.Equipped
		actor.Items = append(actor.Items, item)
	}

	campaign.Actors = append(campaign.Actors, actor)
	campaign.AddNote(ir.ConversionInfo, "Converted D&D Beyond character", "")
	return campaign, nil
}

func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
