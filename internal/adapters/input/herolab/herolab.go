// Package herolab parses a single HeroLab character export JSON into the
// universal IR, the inverse of output/herolabjson. No original_source/
// platform crate documents this vendor either, so it follows HeroLab's
// publicly known "heroLabExport.summary" export envelope.
package herolab

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
			Name:        "herolab-input",
			Version:     "1.0.0",
			Description: "Parses a HeroLab character export JSON into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "herolab"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "herolab"},
		Tags:     []string{"input", "herolab"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "herolab-input",
		Version:     "1.0.0",
		Description: "Parses a HeroLab character export JSON into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "herolab"},
	}
}

type statisticDoc struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type gearDoc struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Carried  bool   `json:"carried"`
}

type summaryDoc struct {
	Name       string         `json:"name"`
	Statistics []statisticDoc `json:"statistics"`
	Gear       []gearDoc      `json:"gear,omitempty"`
	Biography  string         `json:"biography,omitempty"`
}

type document struct {
	Summary summaryDoc `json:"summary"`
}

// CanHandle requires the nested "summary.statistics" envelope that
// distinguishes a HeroLab export from D&D Beyond's flat "stats" array and
// Pathbuilder's flat "attributes" map.
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	if !strings.HasSuffix(strings.ToLower(sourcePath), ".json") {
		return false
	}
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return false
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return doc.Summary.Name != "" && len(doc.Summary.Statistics) > 0
}

func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("herolab.extract_metadata", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.CampaignMetadata{}, errs.ParseFailed("herolab.extract_metadata", "invalid HeroLab JSON", err)
	}
	meta := ir.NewCampaignMetadata()
	meta.Title = doc.Summary.Name
	meta.SourceFormat = ir.SourceFormatHeroLab
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	data, err := afero.ReadFile(p.FS, sourcePath)
	if err != nil {
		return nil, errs.IOFailed("herolab.parse_campaign", "failed to read source file", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.ParseFailed("herolab.parse_campaign", "invalid HeroLab JSON", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.Title = doc.Summary.Name
	campaign.Metadata.SourceFormat = ir.SourceFormatHeroLab
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	actor := ir.NewActor(doc.Summary.Name, ir.ActorTypePC)
	actor.Biography = doc.Summary.Biography
	for _, stat := range doc.Summary.Statistics {
		actor.Attributes[strings.ToLower(stat.Name)] = ir.NumberAttribute(float64(stat.Value))
	}
	for _, g := range doc.Summary.Gear {
		item := ir.NewItem(g.Name, ir.ItemTypeEquipment)
		item.Properties.Quantity = g.Quantity
		actor.Items = append(actor.Items, item)
	}

	campaign.Actors = append(campaign.Actors, actor)
	campaign.AddNote(ir.ConversionInfo, "Converted HeroLab character", "")
	return campaign, nil
}

func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
