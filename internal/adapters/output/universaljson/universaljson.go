// Package universaljson implements the identity output format: the UIR
// serialized verbatim as JSON, grounded on
// ttrpg-output-plugins/src/json/core.rs's JsonExportPlugin (the original's
// "json" export path, stripped of its Foundry/YAML branches which belong
// to the foundry and (future) yaml-flavored output adapters instead of a
// universal passthrough).
package universaljson

import (
	"context"
	"encoding/json"

	"ttrpgconv/internal/bundle"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// Plugin implements plugin.OutputPlugin for the UniversalJson format: one
// campaign.json file carrying the entire UIR, plus an assets.json manifest
// mapping each processed asset's original source to its resolved path.
type Plugin struct {
	writer *bundle.Writer
}

func New() *Plugin { return &Plugin{writer: bundle.NewWriter()} }

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "universaljson-output",
			Version:     "1.0.0",
			Description: "Serializes the universal IR verbatim as campaign.json",
			Author:      "ttrpgconv",
			Tags:        []string{"output", "json"},
		},
		Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(ir.OutputFormatUniversalJSON)},
		Tags:     []string{"output", "json"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "universaljson-output",
		Version:     "1.0.0",
		Description: "Serializes the universal IR verbatim as campaign.json",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "json"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatUniversalJSON}
}

// campaignDocument mirrors ir.Campaign field-for-field. A hand-written
// mirror rather than `json.Marshal(campaign)` directly, since ir.Campaign
// carries no json tags of its own (the UIR is vendor-neutral Go, not a
// wire format) and this keeps the top-level key casing stable regardless of
// future field renames of ir.Campaign; nested UIR values have no json tags
// and are encoded under their Go field names.
type campaignDocument struct {
	Metadata        ir.CampaignMetadata `json:"metadata"`
	GameSystem      ir.GameSystem       `json:"game_system"`
	Actors          []ir.Actor          `json:"actors"`
	Scenes          []ir.Scene          `json:"scenes"`
	Items           []ir.Item           `json:"items"`
	JournalEntries  []ir.JournalEntry   `json:"journal_entries"`
	Macros          []ir.Macro          `json:"macros"`
	Playlists       []ir.Playlist       `json:"playlists"`
	Encounters      []ir.Encounter      `json:"encounters"`
	RollTables      []ir.RollTable      `json:"roll_tables"`
	Settings        ir.CampaignSettings `json:"settings"`
	ConversionNotes []ir.ConversionNote `json:"conversion_notes"`
}

// GenerateOutput is pure: it reads campaign/assets and builds the bundle
// in memory, performing no I/O itself.
func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	doc := campaignDocument{
		Metadata:        campaign.Metadata,
		GameSystem:      campaign.GameSystem,
		Actors:          campaign.Actors,
		Scenes:          campaign.Scenes,
		Items:           campaign.Items,
		JournalEntries:  campaign.JournalEntries,
		Macros:          campaign.Macros,
		Playlists:       campaign.Playlists,
		Encounters:      campaign.Encounters,
		RollTables:      campaign.RollTables,
		Settings:        campaign.Settings,
		ConversionNotes: campaign.ConversionNotes,
	}

	campaignJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.KindPlugin, "universaljson.generate_output", "failed to marshal campaign", err)
	}

	assetManifest := make(map[string]map[string]string, len(assets))
	for _, a := range assets {
		assetManifest[a.Original.Key()] = map[string]string{
			"source":       a.Original.Source,
			"processed":    a.ProcessedPath,
			"content_hash": a.ContentHash,
		}
	}
	assetsJSON, err := json.MarshalIndent(assetManifest, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.KindPlugin, "universaljson.generate_output", "failed to marshal asset manifest", err)
	}

	out := ir.NewOutputBundle()
	format := ir.OutputFormatUniversalJSON
	out.Metadata.Format = &format
	out.AddFile("campaign.json", string(campaignJSON))
	out.AddFile("assets.json", string(assetsJSON))
	for _, a := range assets {
		out.AddAsset("assets/"+a.ContentHash+assetExtension(a.Original.Source), a.ProcessedPath)
	}

	return out, nil
}

func assetExtension(source string) string {
	for i := len(source) - 1; i >= 0 && i > len(source)-8; i-- {
		if source[i] == '.' {
			return source[i:]
		}
		if source[i] == '/' {
			break
		}
	}
	return ""
}

// WriteOutput delegates to the shared bundle writer.
func (p *Plugin) WriteOutput(ctx context.Context, b *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	w := p.writer
	if w == nil {
		w = bundle.NewWriter()
	}
	return w.Write(b, targetPath, opts)
}

var _ plugin.OutputPlugin = (*Plugin)(nil)
