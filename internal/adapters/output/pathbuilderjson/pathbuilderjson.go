// Package pathbuilderjson emits the single-JSON-per-character export
// Pathbuilder 2e expects, grounded on the generated schema bindings in
// original_source/.../ttrpg-pathbuilder-pf2e/generated/{custom_ancestry,
// custom_background,custom_feat,custom_item}.rs. Those bindings describe
// Pathbuilder's "custom content" import format rather than its full
// character-sheet export; this adapter follows that shape since it is the
// only Pathbuilder wire format the corpus actually documents, and a
// character's Items/Features map onto custom_item/custom_feat entries the
// same way Pathbuilder's own importer expects them; Spells are not emitted.
package pathbuilderjson

import (
	"context"
	"encoding/json"
	"fmt"

	"ttrpgconv/internal/bundle"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

type Plugin struct {
	writer *bundle.Writer
}

func New() *Plugin { return &Plugin{writer: bundle.NewWriter()} }

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "pathbuilderjson-output",
			Version:     "1.0.0",
			Description: "Emits one Pathbuilder 2e custom-content JSON file per character",
			Author:      "ttrpgconv",
			Tags:        []string{"output", "pathbuilder", "pf2e"},
		},
		Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(ir.OutputFormatPathbuilderJSON)},
		Tags:     []string{"output", "pathbuilder"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "pathbuilderjson-output",
		Version:     "1.0.0",
		Description: "Emits one Pathbuilder 2e custom-content JSON file per character",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "pathbuilder", "pf2e"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatPathbuilderJSON}
}

// customItem mirrors generated/custom_item.rs's CustomItem, trimmed to the
// fields Pathbuilder's importer requires plus the common optional ones a
// converted weapon/armor/consumable can actually fill in.
type customItem struct {
	ID          string `json:"id"`
	DatabaseID  int    `json:"databaseID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Src         string `json:"src"`
	Timestamp   string `json:"timestamp"`
	Traits      string `json:"traits"`
	Level       int    `json:"level"`
	Price       string `json:"price,omitempty"`
	Bulk        string `json:"bulk,omitempty"`
	Category    string `json:"category,omitempty"`
	Damage      string `json:"damage,omitempty"`
	DamageType  string `json:"damageType,omitempty"`
	AC          *int   `json:"ac,omitempty"`
}

// customFeat mirrors generated/custom_feat.rs's CustomFeat.
type customFeat struct {
	ID            string `json:"id"`
	DatabaseID    int    `json:"databaseID"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Src           string `json:"src"`
	Timestamp     string `json:"timestamp"`
	Traits        string `json:"traits"`
	Level         int    `json:"level"`
	ActionType    string `json:"actionType,omitempty"`
	Prerequisites string `json:"prerequisites,omitempty"`
}

// pathbuilderCharacter is the per-character export envelope: core
// attributes plus the custom-content arrays a converted character's
// Items/Features populate.
type pathbuilderCharacter struct {
	Name          string            `json:"name"`
	Class         string            `json:"class,omitempty"`
	Level         int               `json:"level"`
	Ancestry      string            `json:"ancestry,omitempty"`
	Background    string            `json:"background,omitempty"`
	Attributes    map[string]int    `json:"attributes"`
	CustomItems   []customItem      `json:"customItems,omitempty"`
	CustomFeats   []customFeat      `json:"customFeats,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	out := ir.NewOutputBundle()
	format := ir.OutputFormatPathbuilderJSON
	out.Metadata.Format = &format

	for _, actor := range campaign.Actors {
		if actor.Type != ir.ActorTypePC {
			continue
		}
		doc := buildCharacterDocument(actor)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errs.Wrap(errs.KindPlugin, "pathbuilderjson.generate_output", fmt.Sprintf("failed to marshal character %q", actor.Name), err)
		}
		out.AddFile(fmt.Sprintf("characters/%s.json", slugify(actor.Name)), string(data))
	}

	return out, nil
}

func buildCharacterDocument(actor ir.Actor) pathbuilderCharacter {
	doc := pathbuilderCharacter{
		Name:       actor.Name,
		Attributes: map[string]int{},
		Notes:      actor.Biography,
	}
	for key, attr := range actor.Attributes {
		if n, ok := attr.AsNumber(); ok {
			doc.Attributes[key] = int(n)
		}
	}
	if lvl, ok := doc.Attributes["level"]; ok {
		doc.Level = lvl
	}

	for i, item := range actor.Items {
		doc.CustomItems = append(doc.CustomItems, customItem{
			ID:          item.ID,
			DatabaseID:  -(i + 1),
			Name:        item.Name,
			Description: item.Description,
			Src:         "converted",
			Timestamp:   "",
			Traits:      item.Properties.PropertiesMap["traits"],
			Level:       0,
			Price:       item.Properties.Cost,
			Bulk:        item.Properties.PropertiesMap["bulk"],
			Category:    string(item.Type),
		})
	}

	for i, feat := range actor.Features {
		doc.CustomFeats = append(doc.CustomFeats, customFeat{
			ID:          feat.ID,
			DatabaseID:  -(i + 1),
			Name:        feat.Name,
			Description: feat.Description,
			Src:         "converted",
		})
	}

	return doc
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
		return "character"
	}
	return string(out)
}

func (p *Plugin) WriteOutput(ctx context.Context, b *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	w := p.writer
	if w == nil {
		w = bundle.NewWriter()
	}
	return w.Write(b, targetPath, opts)
}

var _ plugin.OutputPlugin = (*Plugin)(nil)
