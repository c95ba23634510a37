// Package pdfsheet reads a character sheet PDF's AcroForm field values back
// into the universal IR on a best-effort basis. Full PDF text/layout
// extraction is out of scope (mirrors the Non-goal output/pdf documents for
// rendering): this package never parses the PDF's binary object streams
// itself, since no PDF-reading library exists anywhere in the corpus either
// (the one PDF-adjacent interface in the pack, a PDFRenderer found in
// another example's ports.go, only shells out to an external renderer for
// the opposite direction, HTML to PDF). Instead it reads a field-dump
// sidecar file in the plain text format pdftk's `dump_data_fields_utf8`
// produces — "FieldName:"/"FieldValue:" line pairs — a format external PDF
// tooling can generate from any source sheet without this module ever
// touching the PDF's native binary structure.
package pdfsheet

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strconv"
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
			Name:        "pdfsheet-input",
			Version:     "1.0.0",
			Description: "Reads a character sheet PDF's form fields back into the universal IR via a field-dump sidecar",
			Author:      "ttrpgconv",
			Tags:        []string{"input", "pdf"},
		},
		Category: plugin.Category{Kind: plugin.CategoryInput, Key: "pdfsheet"},
		Tags:     []string{"input", "pdf"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "pdfsheet-input",
		Version:     "1.0.0",
		Description: "Reads a character sheet PDF's form fields back into the universal IR via a field-dump sidecar",
		Author:      "ttrpgconv",
		Tags:        []string{"input", "pdf"},
	}
}

// fieldDumpPath locates the sidecar next to sourcePath: "<stem>.fields.txt"
// takes priority over a bare "<stem>.txt", matching a PDF and its own dump
// sitting side by side in an export directory.
func fieldDumpPath(fs afero.Fs, sourcePath string) (string, bool) {
	ext := filepath.Ext(sourcePath)
	stem := strings.TrimSuffix(sourcePath, ext)
	for _, candidate := range []string{stem + ".fields.txt", stem + ".txt"} {
		if ok, _ := afero.Exists(fs, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

// parseFieldDump reads pdftk dump_data_fields_utf8-style text: one
// "FieldName: x" line followed by a "FieldValue: y" line per form field,
// interleaved with other "Key: Value" metadata lines this parser ignores.
// Field order is preserved since a handful of sheet layouts (e.g. repeated
// inventory rows) depend on it.
func parseFieldDump(data []byte) []fieldPair {
	var fields []fieldPair
	var pendingName string
	haveName := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "FieldName":
			pendingName = value
			haveName = true
		case "FieldValue":
			if haveName {
				fields = append(fields, fieldPair{Name: pendingName, Value: value})
				haveName = false
			}
		}
	}
	return fields
}

type fieldPair struct {
	Name  string
	Value string
}

func (p *Plugin) CanHandle(ctx context.Context, sourcePath string) bool {
	if !strings.HasSuffix(strings.ToLower(sourcePath), ".pdf") {
		return false
	}
	_, ok := fieldDumpPath(p.FS, sourcePath)
	return ok
}

func (p *Plugin) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	fields, err := p.readFields(sourcePath)
	if err != nil {
		return ir.CampaignMetadata{}, err
	}
	meta := ir.NewCampaignMetadata()
	meta.Title = characterName(fields, sourcePath)
	meta.SourceFormat = ir.SourceFormatPDFSheet
	source := sourcePath
	meta.SourcePath = &source
	return meta, nil
}

func (p *Plugin) readFields(sourcePath string) ([]fieldPair, error) {
	dumpPath, ok := fieldDumpPath(p.FS, sourcePath)
	if !ok {
		return nil, errs.IOFailed("pdfsheet.read_fields", "no field-dump sidecar found next to "+sourcePath, nil)
	}
	data, err := afero.ReadFile(p.FS, dumpPath)
	if err != nil {
		return nil, errs.IOFailed("pdfsheet.read_fields", "failed to read field-dump sidecar", err)
	}
	return parseFieldDump(data), nil
}

func characterName(fields []fieldPair, sourcePath string) string {
	for _, f := range fields {
		if isNameField(f.Name) && f.Value != "" {
			return f.Value
		}
	}
	stem := filepath.Base(sourcePath)
	return strings.TrimSuffix(stem, filepath.Ext(stem))
}

func isNameField(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "charactername") || strings.Contains(n, "character_name") || n == "name"
}

var abilityFieldNames = map[string]string{
	"strength": "strength", "str": "strength", "strscore": "strength",
	"dexterity": "dexterity", "dex": "dexterity", "dexscore": "dexterity",
	"constitution": "constitution", "con": "constitution", "conscore": "constitution",
	"intelligence": "intelligence", "int": "intelligence", "intscore": "intelligence",
	"wisdom": "wisdom", "wis": "wisdom", "wisscore": "wisdom",
	"charisma": "charisma", "cha": "charisma", "chascore": "charisma",
}

// ParseCampaign builds a single PC actor from the sidecar's field pairs.
// Recognized ability-score fields populate Attributes; every other
// non-empty field is folded into Notes as a "label: value" line, since the
// sidecar carries no schema describing what the rest of the fields mean —
// full form-layout interpretation is the out-of-scope part of this plugin.
func (p *Plugin) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	fields, err := p.readFields(sourcePath)
	if err != nil {
		return nil, err
	}

	campaign := ir.NewCampaign()
	campaign.Metadata.SourceFormat = ir.SourceFormatPDFSheet
	source := sourcePath
	campaign.Metadata.SourcePath = &source

	name := characterName(fields, sourcePath)
	campaign.Metadata.Title = name

	actor := ir.NewActor(name, ir.ActorTypePC)
	var notes []string
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(strings.Map(func(r rune) rune {
			if r == ' ' || r == '_' || r == '-' {
				return -1
			}
			return r
		}, f.Name)))
		if attr, ok := abilityFieldNames[key]; ok {
			if n, convErr := strconv.ParseFloat(f.Value, 64); convErr == nil {
				actor.Attributes[attr] = ir.NumberAttribute(n)
				continue
			}
		}
		if isNameField(f.Name) {
			continue
		}
		notes = append(notes, f.Name+": "+f.Value)
	}
	actor.Notes = strings.Join(notes, "\n")

	campaign.Actors = append(campaign.Actors, actor)
	campaign.AddNote(ir.ConversionInfo, "Converted PDF character sheet from field-dump sidecar; full form layout was not interpreted", "")
	return campaign, nil
}

func (p *Plugin) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return asset.NewDiscoverer().Discover(campaign), nil
}

var _ plugin.InputPlugin = (*Plugin)(nil)
