// Package foundry parses a Foundry VTT world/module directory back into
// the universal IR. It is the mirror image of
// ttrpgconv/internal/adapters/output/foundry: pack documents are decoded
// using that package's exported Document shapes (ActorDocument,
// ItemDocument, SceneDocument, ...) rather than a second, drifting copy of
// the same field layout, since both directions describe the same real
// Foundry wire format (spec §6's Foundry table, grounded on
// original_source/.../ttrpg-foundry-common/generated/*.rs).
package foundry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"ttrpgconv/internal/asset"
	outfoundry "ttrpgconv/internal/adapters/output/foundry"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// Plugin implements plugin.InputPlugin for Foundry world/module
// directories. Unlike the other input adapters it does not go through an
// afero.Fs: Foundry v10+ packs are real LevelDB databases, and
// github.com/syndtr/goleveldb's on-disk storage engine only opens native
// OS paths, not an afero abstraction.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "foundry-input",
			Version:     "1.0.0",
			Description: "Parses a Foundry VTT world/module directory into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "foundry"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "foundry"},
		Tags:     []string{"input", "foundry"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "foundry-input",
		Version:     "1.0.0",
		Description: "Parses a Foundry VTT world/module directory into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "foundry"},
	}
}

// CanHandle checks for world.json/module.json at the directory root, the
// sentinel spec §6 specifies for Foundry detection.
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	for _, name := range []string{"world.json", "module.json"} {
		if info, err := os.Stat(filepath.Join(sourcePath, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

type manifestDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	System      string `json:"system,omitempty"`
}

func readManifest(sourcePath string) (manifestDoc, bool, error) {
	for _, name := range []string{"world.json", "module.json"} {
		data, err := os.ReadFile(filepath.Join(sourcePath, name))
		if err == nil {
			var m manifestDoc
			if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
				return manifestDoc{}, false, jsonErr
			}
			return m, strings.HasSuffix(name, "module.json"), nil
		}
	}
	return manifestDoc{}, false, os.ErrNotExist
}

// ExtractMetadata reads only world.json/module.json, never opening a pack.
func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	m, _, err := readManifest(sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("foundry.extract_metadata", "failed to read world/module manifest", err)
	}
	meta := ir.NewCampaignMetadata()
	meta.Title = m.Title
	meta.SourceFormat = ir.SourceFormatFoundryVTT
	if m.Description != "" {
		desc := m.Description
		meta.Description = &desc
	}
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

// ParseCampaign decodes every pack under packs/ and folds the documents
// into a fresh Campaign. Deterministic given identical pack bytes: packs
// are read in a fixed order (playlists, actors, items, scenes, journal,
// macros, tables), and each pack's documents in stored order (key order for
// LevelDB, line order for NeDB).
func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	m, isModule, err := readManifest(sourcePath)
	if err != nil {
		return nil, errs.IOFailed("foundry.parse_campaign", "failed to read world/module manifest", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.Title = m.Title
	campaign.Metadata.SourceFormat = ir.SourceFormatFoundryVTT
	if m.Description != "" {
		desc := m.Description
		campaign.Metadata.Description = &desc
	}
	source := sourcePath
	campaign.Metadata.SourcePath = &source
	if m.System != "" {
		sys := gameSystemFromFoundryID(m.System)
		campaign.GameSystem = sys
		campaign.Metadata.DetectedSystem = &sys
		campaign.Metadata.SystemConfidence = 1.0
	}

	packsDir := filepath.Join(sourcePath, "packs")

	var playlistIDs map[string]string
	if docs, derr := loadPack(packsDir, "playlists"); derr == nil {
		playlistIDs = map[string]string{}
		for _, raw := range docs {
			var doc outfoundry.PlaylistDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				continue
			}
			playlistIDs[doc.ID] = doc.Name
			campaign.Playlists = append(campaign.Playlists, convertPlaylist(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "actors"); derr == nil {
		for _, raw := range docs {
			var doc outfoundry.ActorDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode actor document: "+jsonErr.Error(), "")
				continue
			}
			campaign.Actors = append(campaign.Actors, convertActor(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "items"); derr == nil {
		for _, raw := range docs {
			var doc outfoundry.ItemDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode item document: "+jsonErr.Error(), "")
				continue
			}
			campaign.Items = append(campaign.Items, convertItem(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "scenes"); derr == nil {
		for _, raw := range docs {
			var doc outfoundry.SceneDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode scene document: "+jsonErr.Error(), "")
				continue
			}
			campaign.Scenes = append(campaign.Scenes, convertScene(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "journal"); derr == nil {
		for _, raw := range docs {
			var doc outfoundry.JournalEntryDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode journal document: "+jsonErr.Error(), "")
				continue
			}
			campaign.JournalEntries = append(campaign.JournalEntries, convertJournalEntry(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "macros"); derr == nil {
		for _, raw := range docs {
			var doc outfoundry.MacroDocument
			if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode macro document: "+jsonErr.Error(), "")
				continue
			}
			campaign.Macros = append(campaign.Macros, convertMacro(doc))
		}
	}

	if docs, derr := loadPack(packsDir, "tables"); derr == nil {
		for _, raw := range docs {
			table, convErr := convertRollTable(raw)
			if convErr != nil {
				campaign.AddNote(ir.ConversionWarning, "failed to decode roll table document: "+convErr.Error(), "")
				continue
			}
			campaign.RollTables = append(campaign.RollTables, table)
		}
	}

	if isModule {
		campaign.AddNote(ir.ConversionInfo, "Converted Foundry module", "")
	} else {
		campaign.AddNote(ir.ConversionInfo, "Converted Foundry world", "")
	}
	return campaign, nil
}

// DiscoverAssets delegates to the shared Discoverer: ParseCampaign already
// folds every image/background/avatar reference into proper UIR fields.
func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

func gameSystemFromFoundryID(id string) ir.GameSystem {
	switch id {
	case "dnd5e":
		return ir.GameSystem{Kind: ir.GameSystemDnD5e}
	case "pf2e":
		return ir.GameSystem{Kind: ir.GameSystemPathfinder2e}
	case "pf1":
		return ir.GameSystem{Kind: ir.GameSystemPathfinder1e}
	case "CoC7":
		return ir.GameSystem{Kind: ir.GameSystemCallOfCthulhu7e}
	case "swade":
		return ir.GameSystem{Kind: ir.GameSystemSavageWorlds}
	case "gurps":
		return ir.GameSystem{Kind: ir.GameSystemGURPS4e}
	case "fate":
		return ir.GameSystem{Kind: ir.GameSystemFate}
	default:
		return ir.GameSystem{Kind: ir.GameSystemCustom, CustomName: id}
	}
}

var _ plugin.InputPlugin = (*Plugin)(nil)
