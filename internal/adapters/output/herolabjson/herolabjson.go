// Package herolabjson emits one HeroLab-shaped character JSON file per
// player character, following the same single-JSON-per-character pattern
// as output/dndbeyondjson and output/pathbuilderjson. As with D&D Beyond,
// no original_source/ platform crate documents HeroLab's export schema, so
// this follows HeroLab's publicly documented "portfolio" export shape
// (a top-level heroLabExport envelope wrapping one character summary).
package herolabjson

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
			Name:        "herolabjson-output",
			Version:     "1.0.0",
			Description: "Emits one HeroLab-shaped character JSON file per character",
			Author:      "ttrpgconv",
			Tags:        []string{"output", "herolab"},
		},
		Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(ir.OutputFormatHeroLabJSON)},
		Tags:     []string{"output", "herolab"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "herolabjson-output",
		Version:     "1.0.0",
		Description: "Emits one HeroLab-shaped character JSON file per character",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "herolab"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatHeroLabJSON}
}

type heroLabStatistic struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type heroLabGear struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Carried  bool   `json:"carried"`
}

type heroLabSummary struct {
	Name       string              `json:"name"`
	Statistics []heroLabStatistic  `json:"statistics"`
	Gear       []heroLabGear       `json:"gear,omitempty"`
	Biography  string              `json:"biography,omitempty"`
}

type heroLabExport struct {
	Summary heroLabSummary `json:"summary"`
}

func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	out := ir.NewOutputBundle()
	format := ir.OutputFormatHeroLabJSON
	out.Metadata.Format = &format

	for _, actor := range campaign.Actors {
		if actor.Type != ir.ActorTypePC {
			continue
		}
		doc := heroLabExport{Summary: buildSummary(actor)}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errs.Wrap(errs.KindPlugin, "herolabjson.generate_output", fmt.Sprintf("failed to marshal character %q", actor.Name), err)
		}
		out.AddFile(fmt.Sprintf("characters/%s.json", slugify(actor.Name)), string(data))
	}

	return out, nil
}

func buildSummary(actor ir.Actor) heroLabSummary {
	summary := heroLabSummary{Name: actor.Name, Biography: actor.Biography}
	for key, attr := range actor.Attributes {
		if n, ok := attr.AsNumber(); ok {
			summary.Statistics = append(summary.Statistics, heroLabStatistic{Name: key, Value: int(n)})
		}
	}
	for _, item := range actor.Items {
		summary.Gear = append(summary.Gear, heroLabGear{Name: item.Name, Quantity: item.Properties.Quantity, Carried: true})
	}
	return summary
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
