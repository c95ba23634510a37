// Package fgxml parses a Fantasy Grounds campaign directory's db.xml back
// into the universal IR, the inverse of output/fgxml. It defines its own
// decode-side structs rather than importing output/fgxml's (those are
// unexported, scoped to that package's own marshal concerns), following the
// same independent-document-struct convention used by input/{pathbuilder,
// dndbeyond,herolab} against their output counterparts.
package fgxml

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"

	"ttrpgconv/internal/asset"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func init() {
	p := New()
	_ = plugin.Global().Register(plugin.Registration{
		Info: plugin.PluginInfo{
			Name:        "fgxml-input",
			Version:     "1.0.0",
			Description: "Parses a Fantasy Grounds db.xml campaign directory into the universal IR",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "fantasy-grounds", "xml"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "fgxml"},
		Tags:     []string{"input", "fgxml"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "fgxml-input",
		Version:     "1.0.0",
		Description: "Parses a Fantasy Grounds db.xml campaign directory into the universal IR",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "fantasy-grounds", "xml"},
	}
}

type fgStringField struct {
	Value string `xml:",chardata"`
}

type fgNumberField struct {
	Value float64 `xml:",chardata"`
}

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
	Token     *fgStringField    `xml:"token"`
	Bio       fgStringField     `xml:"bio"`
	Abilities []fgAbility       `xml:"abilities>ability"`
	Inventory []fgInventoryItem `xml:"inventorylist>item"`
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
	Characters []fgCharacter `xml:"character>id"`
	Encounters []fgEncounter `xml:"encounter>id"`
	Stories    []fgStory     `xml:"story>id"`
}

func dbXMLPath(sourcePath string) string {
	info, err := os.Stat(sourcePath)
	if err == nil && info.IsDir() {
		return filepath.Join(sourcePath, "db.xml")
	}
	return sourcePath
}

func readRoot(sourcePath string) (fgRoot, error) {
	data, err := os.ReadFile(dbXMLPath(sourcePath))
	if err != nil {
		return fgRoot{}, err
	}
	var root fgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return fgRoot{}, err
	}
	return root, nil
}

// CanHandle requires a db.xml whose root element is literally "root" with
// Fantasy Grounds' campaign structure, distinguishing it from an arbitrary
// XML file.
func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	root, err := readRoot(sourcePath)
	if err != nil {
		return false
	}
	return root.XMLName.Local == "root"
}

func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	if _, err := readRoot(sourcePath); err != nil {
		return ir.CampaignMetadata{}, errs.IOFailed("fgxml.extract_metadata", "failed to read db.xml", err)
	}
	meta := ir.NewCampaignMetadata()
	meta.SourceFormat = ir.SourceFormatFantasyGrounds
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	root, err := readRoot(sourcePath)
	if err != nil {
		return nil, errs.IOFailed("fgxml.parse_campaign", "failed to read db.xml", err)
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.SourceFormat = ir.SourceFormatFantasyGrounds
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	for _, fgc := range root.Characters {
		actor := ir.NewActor(fgc.Name.Value, ir.ActorTypePC)
		actor.Biography = fgc.Bio.Value
		if fgc.Token != nil && fgc.Token.Value != "" {
			token := fgc.Token.Value
			actor.Images.Avatar = &token
		}
		for _, a := range fgc.Abilities {
			actor.Attributes[a.Name] = ir.NumberAttribute(a.Score.Value)
		}
		for _, inv := range fgc.Inventory {
			item := ir.NewItem(inv.Name.Value, ir.ItemTypeEquipment)
			item.Properties.Quantity = int(inv.Count.Value)
			actor.Items = append(actor.Items, item)
		}
		campaign.Actors = append(campaign.Actors, actor)
	}

	for _, fgj := range root.Stories {
		entry := ir.NewJournalEntry(fgj.Name.Value)
		entry.Content = fgj.Text.Value
		campaign.JournalEntries = append(campaign.JournalEntries, entry)
	}

	for _, fge := range root.Encounters {
		campaign.Encounters = append(campaign.Encounters, ir.NewEncounter(fge.Name.Value))
	}

	campaign.AddNote(ir.ConversionInfo, "Converted Fantasy Grounds campaign", "")
	return campaign, nil
}

func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
