// Package fgxml emits a Fantasy Grounds campaign directory holding one root
// db.xml with the campaign's characters (and their inventory), journal
// stories and encounters. No asset folders are written: asset references in
// db.xml point at the processed asset paths, and the asset files themselves
// are not copied into the bundle.
// Neither original_source/ nor any example repo in the corpus uses an XML
// library, so this is one of the few genuinely stdlib-only adapters:
// encoding/xml is the only XML tool the corpus shows any convention for
// (none), and Fantasy Grounds' db.xml is a small enough tree that the
// stdlib encoder's struct-tag model is a direct fit.
package fgxml

import (
	"context"
	"encoding/xml"
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
			Name:        "fgxml-output",
			Version:     "1.0.0",
			Description: "Synthesizes a Fantasy Grounds db.xml campaign directory from the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"output", "fantasy-grounds", "xml"},
		},
		Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(ir.OutputFormatFantasyGroundsXML)},
		Tags:     []string{"output", "fgxml"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "fgxml-output",
		Version:     "1.0.0",
		Description: "Synthesizes a Fantasy Grounds db.xml campaign directory from the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "fantasy-grounds", "xml"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatFantasyGroundsXML}
}

// Fantasy Grounds' own convention assigns every record an "id-NNNNN" style
// identity; here that identity is carried as a plain "id" attribute on a
// fixed element name rather than as the element's own tag name, which
// keeps every slice a direct, statically-tagged encoding/xml mapping.

type fgStringField struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

func stringField(v string) fgStringField { return fgStringField{Type: "string", Value: v} }

type fgNumberField struct {
	Type  string  `xml:"type,attr"`
	Value float64 `xml:",chardata"`
}

func numberField(v float64) fgNumberField { return fgNumberField{Type: "number", Value: v} }

type fgAbility struct {
	Name  string        `xml:"name,attr"`
	Score fgNumberField `xml:"score"`
}

type fgInventoryItem struct {
	ID    string        `xml:"id,attr"`
	Name  fgStringField `xml:"name"`
	Count fgNumberField `xml:"count"`
}

type fgCharacter struct {
	ID        string            `xml:"id,attr"`
	Name      fgStringField     `xml:"name"`
	Token     *fgStringField    `xml:"token,omitempty"`
	Bio       fgStringField     `xml:"bio"`
	Abilities []fgAbility       `xml:"abilities>ability,omitempty"`
	Inventory []fgInventoryItem `xml:"inventorylist>item,omitempty"`
}

type fgEncounter struct {
	ID   string        `xml:"id,attr"`
	Name fgStringField `xml:"name"`
}

type fgStory struct {
	ID   string        `xml:"id,attr"`
	Name fgStringField `xml:"name"`
	Text fgStringField `xml:"text"`
}

type fgRoot struct {
	XMLName    xml.Name      `xml:"root"`
	Version    string        `xml:"version,attr"`
	DataVer    string        `xml:"dataversion,attr"`
	Release    string        `xml:"release,attr"`
	Characters []fgCharacter `xml:"character>id,omitempty"`
	Encounters []fgEncounter `xml:"encounter>id,omitempty"`
	Stories    []fgStory     `xml:"story>id,omitempty"`
}

func idAttr(n int) string {
	return fmt.Sprintf("id-%05d", n)
}

func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	assetByOriginalSource := make(map[string]ir.ProcessedAsset, len(assets))
	for _, a := range assets {
		assetByOriginalSource[a.Original.Source] = a
	}
	resolve := func(source string) string {
		if source == "" {
			return ""
		}
		if processed, ok := assetByOriginalSource[source]; ok {
			return processed.ProcessedPath
		}
		return source
	}

	root := fgRoot{Version: "4.1", DataVer: "20220101", Release: "1"}

	for i, actor := range campaign.Actors {
		character := fgCharacter{
			ID:   idAttr(i + 1),
			Name: stringField(actor.Name),
			Bio:  stringField(actor.Biography),
		}
		if actor.Images.Avatar != nil {
			field := stringField(resolve(*actor.Images.Avatar))
			character.Token = &field
		}
		for name, attr := range actor.Attributes {
			if n, ok := attr.AsNumber(); ok {
				character.Abilities = append(character.Abilities, fgAbility{Name: name, Score: numberField(n)})
			}
		}
		for j, item := range actor.Items {
			character.Inventory = append(character.Inventory, fgInventoryItem{
				ID:    idAttr(j + 1),
				Name:  stringField(item.Name),
				Count: numberField(float64(item.Properties.Quantity)),
			})
		}
		root.Characters = append(root.Characters, character)
	}

	for i, je := range campaign.JournalEntries {
		root.Stories = append(root.Stories, fgStory{
			ID:   idAttr(i + 1),
			Name: stringField(je.Title),
			Text: stringField(je.Content),
		})
	}

	for i, enc := range campaign.Encounters {
		root.Encounters = append(root.Encounters, fgEncounter{
			ID:   idAttr(i + 1),
			Name: stringField(enc.Name),
		})
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.KindPlugin, "fgxml.generate_output", "failed to marshal db.xml", err)
	}

	out := ir.NewOutputBundle()
	format := ir.OutputFormatFantasyGroundsXML
	out.Metadata.Format = &format
	out.AddFile("db.xml", xml.Header+string(data))

	return out, nil
}

func (p *Plugin) WriteOutput(ctx context.Context, b *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	w := p.writer
	if w == nil {
		w = bundle.NewWriter()
	}
	return w.Write(b, targetPath, opts)
}

var _ plugin.OutputPlugin = (*Plugin)(nil)
