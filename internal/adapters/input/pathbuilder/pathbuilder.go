// Package pathbuilder parses a single Pathbuilder 2e character JSON export
// into the universal IR, grounded on the generated schema bindings in
// original_source/.../ttrpg-pathbuilder-pf2e/generated/{custom_item,
// custom_feat,custom_ancestry,custom_background}.rs — the corpus's only
// documented Pathbuilder wire shape. It is the inverse of
// output/pathbuilderjson: where that adapter emits `customItems`/
// `customFeats` arrays per character, this one reads them back.
package pathbuilder

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
			Name:        "pathbuilder-input",
			Version:     "1.0.0",
			Description: "Parses a Pathbuilder 2e character JSON export into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "pathbuilder", "pf2e"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "pathbuilder"},
		Tags:     []string{"input", "pathbuilder"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "pathbuilder-input",
		Version:     "1.0.0",
		Description: "Parses a Pathbuilder 2e character JSON export into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "pathbuilder", "pf2e"},
	}
}

type customItemDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
	Bulk        string `json:"bulk,omitempty"`
	Category    string `json:"category,omitempty"`
	Traits      string `json:"traits,omitempty"`
}

type customFeatDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type document struct {
	Name        string           `json:"name"`
	Level       int              `json:"level"`
	Ancestry    string           `json:"ancestry,omitempty"`
	Background  string           `json:"background,omitempty"`
	Attributes  map[string]int   `json:"attributes"`
	CustomItems []customItemDoc  `json:"customItems,omitempty"`
	CustomFeats []customFeatDoc  `json:"customFeats,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// CanHandle is a cheap sniff: the top-level object must declare "attributes"
// as a flat name->number map (Pathbuilder's shape) and at least one of the
// Pathbuilder-specific customItems/customFeats/ancestry keys, distinguishing
// it from a Roll20 export (array-of-rows attributes) and a D&D Beyond/HeroLab
// export (which use different top-level key names entirely).
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	if !strings.HasSuffix(strings.ToLower(sourcePath), ".json") {
		return false
	}
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return false
	}
	var probe struct {
		Attributes  json.RawMessage `json:"attributes"`
		Ancestry    json.RawMessage `json:"ancestry"`
		CustomItems json.RawMessage `json:"customItems"`
		CustomFeats json.RawMessage `json:"customFeats"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	if len(probe.Attributes) == 0 {
		return false
	}
	var asMap map[string]int
	if json.Unmarshal(probe.Attributes, &asMap) != nil {
		return false
	}
	return len(probe.Ancestry) > 0 || len(probe.CustomItems) > 0 || len(probe.CustomFeats) > 0
}

func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("pathbuilder.extract_metadata", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.CampaignMetadata{}, errs.ParseFailed("pathbuilder.extract_metadata", "invalid Pathbuilder JSON", err)
	}
	meta := ir.NewCampaignMetadata()
	meta.Title = doc.Name
	meta.SourceFormat = ir.SourceFormatPathbuilder
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return nil, errs.IOFailed("pathbuilder.parse_campaign", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.ParseFailed("pathbuilder.parse_campaign", "invalid Pathbuilder JSON", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.Title = doc.Name
	campaign.Metadata.SourceFormat = ir.SourceFormatPathbuilder
	campaign.GameSystem = ir.GameSystem{Kind: ir.GameSystemPathfinder2e}
	campaign.Metadata.DetectedSystem = &campaign.GameSystem
	campaign.Metadata.SystemConfidence = 1.0
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	actor := ir.NewActor(doc.Name, ir.ActorTypePC)
	actor.Notes = doc.Notes
	for name, value := range doc.Attributes {
		actor.Attributes[strings.ToLower(name)] = ir.NumberAttribute(float64(value))
	}
	actor.Attributes["level"] = ir.NumberAttribute(float64(doc.Level))

	for _, ci := range doc.CustomItems {
		item := ir.NewItem(ci.Name, itemTypeFromCategory(ci.Category))
		if ci.ID != "" {
			item.ID = ci.ID
		}
		item.Description = ci.Description
		item.Properties.Cost = ci.Price
		if ci.Bulk != "" {
			item.Properties.PropertiesMap["bulk"] = ci.Bulk
		}
		if ci.Traits != "" {
			item.Properties.PropertiesMap["traits"] = ci.Traits
		}
		actor.Items = append(actor.Items, item)
	}

	for _, cf := range doc.CustomFeats {
		feature := ir.Feature{ID: cf.ID, Name: cf.Name, Description: cf.Description}
		if feature.ID == "" {
			feature.ID = ir.NewID()
		}
		actor.Features = append(actor.Features, feature)
	}

	if doc.Ancestry != "" {
		actor.Features = append(actor.Features, ir.Feature{ID: ir.NewID(), Name: doc.Ancestry + " Ancestry"})
	}
	if doc.Background != "" {
		actor.Features = append(actor.Features, ir.Feature{ID: ir.NewID(), Name: doc.Background + " Background"})
	}

	campaign.Actors = append(campaign.Actors, actor)
	campaign.AddNote(ir.ConversionInfo, "Converted Pathbuilder character", "")
	return campaign, nil
}

func itemTypeFromCategory(category string) ir.ItemType {
	switch strings.ToLower(category) {
	case "weapon":
		return ir.ItemTypeWeapon
	case "armor", "shield":
		return ir.ItemTypeArmor
	case "consumable", "alchemical":
		return ir.ItemTypeConsumable
	default:
		return ir.ItemTypeEquipment
	}
}

func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
