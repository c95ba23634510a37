package foundry

import (
	"context"
	"encoding/json"
	"fmt"

	"ttrpgconv/internal/bundle"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// Plugin implements plugin.OutputPlugin, synthesizing a Foundry VTT world
// or module from the UIR. Pack encoding (LevelDB vs. NeDB) is selected by
// FoundryConfig.DatabaseType; both share the same document-building code in
// mapping.go/document.go and differ only in serialization (leveldb.go,
// nedb.go).
type Plugin struct {
	writer *bundle.Writer
}

func New() *Plugin { return &Plugin{writer: bundle.NewWriter()} }

func init() {
	p := New()
	for _, format := range p.SupportedFormats() {
		_ = plugin.Global().Register(plugin.Registration{
			Info: plugin.PluginInfo{
				Name:        "foundry-output-" + string(format),
				Version:     "1.0.0",
				Description: "Synthesizes a Foundry VTT world/module bundle from the universal IR",
				Author:      "ttrpgconv",
				Tags:        []string{"output", "foundry"},
			},
			Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(format)},
			Tags:     []string{"output", "foundry"},
			AutoLoad: true,
			Instance: p,
		})
	}
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "foundry-output",
		Version:     "1.0.0",
		Description: "Synthesizes a Foundry VTT world/module bundle from the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "foundry"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatFoundryWorld, ir.OutputFormatFoundryModule}
}

// GenerateOutput builds every Foundry pack document in memory and hands
// each pack's documents to the configured encoder (LevelDB or NeDB). Pure:
// campaign and assets are read-only throughout.
func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	foundryCfg := config.FoundryOptions
	if foundryCfg == nil {
		foundryCfg = &plugin.FoundryConfig{DatabaseType: "LEVELDB", OutputType: "WORLD", Version: "V11"}
	}

	assetByOriginalSource := make(map[string]ir.ProcessedAsset, len(assets))
	for _, a := range assets {
		assetByOriginalSource[a.Original.Source] = a
	}
	resolve := func(source string) string {
		if source == "" {
			return ""
		}
		processed, ok := assetByOriginalSource[source]
		if !ok {
			return source
		}
		if mapped, ok := processed.TargetMappings[ir.OutputFormatFoundryWorld]; ok {
			return mapped
		}
		return processed.ProcessedPath
	}

	packs := map[string][]any{}

	var playlistDocs []PlaylistDocument
	for _, pl := range campaign.Playlists {
		playlistDocs = append(playlistDocs, buildPlaylistDocument(pl))
	}
	for _, d := range playlistDocs {
		packs["playlists"] = append(packs["playlists"], d)
	}

	sceneToPlaylist := ""
	if len(playlistDocs) > 0 {
		sceneToPlaylist = playlistDocs[0].ID
	}

	for _, actor := range campaign.Actors {
		doc := buildActorDocument(actor, resolve)
		packs["actors"] = append(packs["actors"], doc)
	}

	for _, item := range campaign.Items {
		doc := buildItemDocument(item, resolve)
		packs["items"] = append(packs["items"], doc)
	}

	for _, scene := range campaign.Scenes {
		playlistRef := ""
		if scene.AudioRef != nil {
			playlistRef = sceneToPlaylist
		}
		doc := buildSceneDocument(scene, playlistRef, resolve)
		packs["scenes"] = append(packs["scenes"], doc)
	}

	for _, je := range campaign.JournalEntries {
		doc := buildJournalEntryDocument(je, resolve)
		packs["journal"] = append(packs["journal"], doc)
	}

	for _, m := range campaign.Macros {
		packs["macros"] = append(packs["macros"], buildMacroDocument(m))
	}

	if _, ok := packs["tables"]; !ok {
		packs["tables"] = []any{}
	}
	for _, t := range campaign.RollTables {
		packs["tables"] = append(packs["tables"], buildRollTableDocument(t))
	}

	out := ir.NewOutputBundle()
	format := ir.OutputFormatFoundryWorld
	if foundryCfg.OutputType == "MODULE" {
		format = ir.OutputFormatFoundryModule
	}
	out.Metadata.Format = &format

	encode := encodeNeDBPack
	dbExt := ".db"
	if foundryCfg.DatabaseType != "NEDB" {
		encode = encodeLevelDBPack
	}

	for packName, docs := range packs {
		data, err := encode(docs)
		if err != nil {
			return nil, errs.Wrap(errs.KindPlugin, "foundry.generate_output", fmt.Sprintf("failed to encode %s pack", packName), err)
		}
		out.AddDatabase(fmt.Sprintf("packs/%s%s", packName, dbExt), data)
	}

	manifest, err := buildManifest(campaign, foundryCfg)
	if err != nil {
		return nil, errs.Wrap(errs.KindPlugin, "foundry.generate_output", "failed to encode world/module manifest", err)
	}
	out.AddFile(manifestFilename(foundryCfg), manifest)

	return out, nil
}

func manifestFilename(cfg *plugin.FoundryConfig) string {
	if cfg.OutputType == "MODULE" {
		return "module.json"
	}
	return "world.json"
}

// buildManifest produces world.json/module.json, grounded on Foundry's
// documented manifest schema (id/title/description + the compendium pack
// index every world/module manifest carries).
func buildManifest(campaign *ir.Campaign, cfg *plugin.FoundryConfig) (string, error) {
	id := cfg.ModuleID
	title := cfg.WorldTitle
	description := cfg.WorldDescription
	if cfg.OutputType == "MODULE" {
		title = cfg.ModuleTitle
		description = cfg.ModuleDescription
	}
	if id == "" {
		id = slugify(title)
	}
	if title == "" {
		title = campaign.Metadata.Title
		id = slugify(title)
	}

	manifest := map[string]any{
		"id":          id,
		"title":       title,
		"description": description,
		"compatibility": map[string]string{"minimum": "10", "verified": cfg.Version},
		"packs": []map[string]string{
			{"name": "actors", "label": "Actors", "path": "packs/actors.db", "type": "Actor"},
			{"name": "items", "label": "Items", "path": "packs/items.db", "type": "Item"},
			{"name": "scenes", "label": "Scenes", "path": "packs/scenes.db", "type": "Scene"},
			{"name": "journal", "label": "Journal", "path": "packs/journal.db", "type": "JournalEntry"},
			{"name": "macros", "label": "Macros", "path": "packs/macros.db", "type": "Macro"},
			{"name": "playlists", "label": "Playlists", "path": "packs/playlists.db", "type": "Playlist"},
			{"name": "tables", "label": "Roll Tables", "path": "packs/tables.db", "type": "RollTable"},
		},
	}
	if cfg.OutputType == "WORLD" {
		manifest["system"] = gameSystemFoundryID(campaign.GameSystem)
	}

	out, err := json.MarshalIndent(manifest, "", "  ")
	return string(out), err
}

func gameSystemFoundryID(gs ir.GameSystem) string {
	switch gs.Kind {
	case ir.GameSystemDnD5e:
		return "dnd5e"
	case ir.GameSystemPathfinder2e:
		return "pf2e"
	case ir.GameSystemPathfinder1e:
		return "pf1"
	case ir.GameSystemCallOfCthulhu7e:
		return "CoC7"
	case ir.GameSystemSavageWorlds:
		return "swade"
	case ir.GameSystemGURPS4e:
		return "gurps"
	case ir.GameSystemFate:
		return "fate"
	default:
		return "generic"
	}
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r-'A'+'a')
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "campaign"
	}
	return string(out)
}

// WriteOutput delegates to the shared bundle writer (internal/bundle):
// every output plugin writes through the same stage-then-rename path so
// no adapter needs its own partial-write recovery logic.
func (p *Plugin) WriteOutput(ctx context.Context, b *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	w := p.writer
	if w == nil {
		w = bundle.NewWriter()
	}
	return w.Write(b, targetPath, opts)
}

var _ plugin.OutputPlugin = (*Plugin)(nil)
