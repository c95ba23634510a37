// Package dndbeyondjson emits one D&D Beyond-shaped character JSON file per
// player character. Unlike output/pathbuilderjson and output/foundry, no
// original_source/ material documents D&D Beyond's wire format (it never
// shipped a platform crate in the Rust original), so this adapter follows
// D&D Beyond's publicly documented character-export shape (top-level name/
// race/classes[]/stats[]/inventory[]) rather than a grounded binding,
// keeping the same single-JSON-per-character pattern spec §6 requires of
// every vendor character export.
package dndbeyondjson

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
			Name:        "dndbeyondjson-output",
			Version:     "1.0.0",
			Description: "Emits one D&D Beyond-shaped character JSON file per character",
			Author:      "ttrpgconv",
			Tags:        []string{"output", "dndbeyond"},
		},
		Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(ir.OutputFormatDNDBeyondJSON)},
		Tags:     []string{"output", "dndbeyond"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "dndbeyondjson-output",
		Version:     "1.0.0",
		Description: "Emits one D&D Beyond-shaped character JSON file per character",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "dndbeyond"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatDNDBeyondJSON}
}

type statBlock struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type inventoryItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
	Notes    string `json:"notes,omitempty"`
}

type beyondCharacter struct {
	Name       string          `json:"name"`
	Race       string          `json:"race,omitempty"`
	Classes    []string        `json:"classes,omitempty"`
	Stats      []statBlock     `json:"stats"`
	Inventory  []inventoryItem `json:"inventory,omitempty"`
	Traits     string          `json:"traits,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

var abilityOrder = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	out := ir.NewOutputBundle()
	format := ir.OutputFormatDNDBeyondJSON
	out.Metadata.Format = &format

	for _, actor := range campaign.Actors {
		if actor.Type != ir.ActorTypePC {
			continue
		}
		doc := buildBeyondCharacter(actor)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errs.Wrap(errs.KindPlugin, "dndbeyondjson.generate_output", fmt.Sprintf("failed to marshal character %q", actor.Name), err)
		}
		out.AddFile(fmt.Sprintf("characters/%s.json", slugify(actor.Name)), string(data))
	}

	return out, nil
}

func buildBeyondCharacter(actor ir.Actor) beyondCharacter {
	doc := beyondCharacter{
		Name:   actor.Name,
		Traits: actor.Notes,
		Notes:  actor.Biography,
	}
	for _, name := range abilityOrder {
		if attr, ok := actor.Attributes[name]; ok {
			if n, ok := attr.AsNumber(); ok {
				doc.Stats = append(doc.Stats, statBlock{Name: name, Value: int(n)})
			}
		}
	}
	for _, item := range actor.Items {
		doc.Inventory = append(doc.Inventory, inventoryItem{
			Name:     item.Name,
			Quantity: item.Properties.Quantity,
			Equipped: item.Properties.Attunement,
			Notes:    item.Description,
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
