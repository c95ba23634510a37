// Package pdf builds the page-model data structures for
// PDFCharacterSheets/PDFCampaignBook and hands them to an injected
// PDFRenderer. The PDF renderer implementation itself is out of scope
// (spec §1 Non-goals): no concrete PDF library appears anywhere in the
// corpus either, so this package never imports one — GenerateOutput stops
// at the page model, and WriteOutput calls the configured PDFRenderer to
// turn it into bytes. Covers both PDF formats from one package, the same
// one-package-two-formats convention output/foundry uses for
// FoundryWorld/FoundryModule: both produce the same Page/Section/Field page
// model, built by characterSheetPages or campaignBookPages depending on
// which entities the format includes.
package pdf

import (
	"context"
	"encoding/json"
	"fmt"

	"ttrpgconv/internal/bundle"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// pageModelKey is the bundle.Databases key GenerateOutput stashes the
// built page model under. ir.OutputBundle has no field of its own shaped
// for an in-memory page model; WriteOutput pops this key back out before
// delegating to bundle.Writer, so it never reaches disk as a spurious
// sidecar file.
const pageModelKey = "__pdf_page_model.json"

// PDFRenderer is the seam a real PDF library plugs into. Implementations
// live outside this module; tests use a fake that records calls.
type PDFRenderer interface {
	// RenderPages turns a finished page model into a single PDF file's
	// bytes, or returns an error if the document could not be produced.
	RenderPages(ctx context.Context, pages []Page, format ir.OutputFormat) ([]byte, error)
}

// Page is one sheet/chapter's content, expressed as plain structured data
// so any renderer can lay it out without this package knowing about fonts,
// coordinates, or page geometry.
type Page struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is a labeled block of field/value pairs or freeform text within
// a Page.
type Section struct {
	Heading string  `json:"heading,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// Field is a single labeled value on a character sheet (e.g. "Strength",
// "18") or campaign book entry.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Plugin struct {
	Renderer PDFRenderer
	writer   *bundle.Writer
}

func New(renderer PDFRenderer) *Plugin { return &Plugin{Renderer: renderer, writer: bundle.NewWriter()} }

func init() {
	p := New(nil)
	for _, format := range p.SupportedFormats() {
		_ = plugin.Global().Register(plugin.Registration{
			Info: plugin.PluginInfo{
				Name:        "pdf-output-" + string(format),
				Version:     "1.0.0",
				Description: "Builds a PDF page model from the universal IR and hands it to an injected renderer",
				Author:      "ttrpgconv",
				Tags:        []string{"output", "pdf"},
			},
			Category: plugin.Category{Kind: plugin.CategoryOutput, Key: string(format)},
			Tags:     []string{"output", "pdf"},
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
		Name:        "pdf-output",
		Version:     "1.0.0",
		Description: "Builds a PDF page model from the universal IR and hands it to an injected renderer",
		Author:      "ttrpgconv",
		Tags:        []string{"output", "pdf"},
	}
}

func (p *Plugin) SupportedFormats() []ir.OutputFormat {
	return []ir.OutputFormat{ir.OutputFormatPDFCharacterSheets, ir.OutputFormatPDFCampaignBook}
}

// outputFileName picks the final PDF's path within the bundle, by format.
func outputFileName(format ir.OutputFormat) string {
	if format == ir.OutputFormatPDFCampaignBook {
		return "campaign-book.pdf"
	}
	return "character-sheets.pdf"
}

// GenerateOutput is pure: it only builds the page model and stores it,
// JSON-encoded, as a transient bundle.Databases entry. No PDF bytes are
// produced here — that needs the injected renderer, a real I/O-adjacent
// dependency WriteOutput owns.
func (p *Plugin) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	var pages []Page
	switch config.Format {
	case ir.OutputFormatPDFCharacterSheets:
		pages = characterSheetPages(campaign)
	case ir.OutputFormatPDFCampaignBook:
		pages = campaignBookPages(campaign)
	default:
		return nil, errs.InvalidInput("pdf.generate_output", "format", fmt.Sprintf("unsupported PDF format %q", config.Format))
	}

	data, err := json.Marshal(pages)
	if err != nil {
		return nil, errs.Wrap(errs.KindPlugin, "pdf.generate_output", "failed to encode page model", err)
	}

	out := ir.NewOutputBundle()
	format := config.Format
	out.Metadata.Format = &format
	out.AddDatabase(pageModelKey, data)
	return out, nil
}

func characterSheetPages(campaign *ir.Campaign) []Page {
	var pages []Page
	for _, actor := range campaign.Actors {
		if actor.Type != ir.ActorTypePC {
			continue
		}
		page := Page{Title: actor.Name}

		var abilities []Field
		for name, attr := range actor.Attributes {
			if n, ok := attr.AsNumber(); ok {
				abilities = append(abilities, Field{Label: name, Value: fmt.Sprintf("%.0f", n)})
			}
		}
		page.Sections = append(page.Sections, Section{Heading: "Abilities", Fields: abilities})

		var items []Field
		for _, item := range actor.Items {
			items = append(items, Field{Label: item.Name, Value: fmt.Sprintf("x%d", item.Properties.Quantity)})
		}
		if len(items) > 0 {
			page.Sections = append(page.Sections, Section{Heading: "Inventory", Fields: items})
		}

		if actor.Biography != "" {
			page.Sections = append(page.Sections, Section{Heading: "Biography", Text: actor.Biography})
		}
		pages = append(pages, page)
	}
	return pages
}

func campaignBookPages(campaign *ir.Campaign) []Page {
	var pages []Page
	if campaign.Metadata.Title != "" {
		title := Page{Title: campaign.Metadata.Title}
		if campaign.Metadata.Description != nil {
			title.Sections = append(title.Sections, Section{Text: *campaign.Metadata.Description})
		}
		pages = append(pages, title)
	}
	for _, journal := range campaign.JournalEntries {
		pages = append(pages, Page{
			Title:    journal.Title,
			Sections: []Section{{Text: journal.Content}},
		})
	}
	for _, enc := range campaign.Encounters {
		section := Section{Heading: "Participants"}
		for _, id := range enc.ParticipantIDs {
			section.Fields = append(section.Fields, Field{Label: "Actor", Value: id})
		}
		desc := ""
		if enc.Description != nil {
			desc = *enc.Description
		}
		pages = append(pages, Page{
			Title:    enc.Name,
			Sections: []Section{{Text: desc}, section},
		})
	}
	return pages
}

// WriteOutput pops the pending page model back out of bundle, calls the
// injected PDFRenderer to turn it into PDF bytes, stages the result as the
// bundle's one real output file, and delegates to bundle.Writer for the
// same atomic stage-then-rename every other output plugin uses. A nil
// Renderer is a configuration error, not a silent no-op: callers must
// inject a real renderer to actually produce PDF output.
func (p *Plugin) WriteOutput(ctx context.Context, out *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	if p.Renderer == nil {
		return errs.New(errs.KindPlugin, "pdf.write_output", "no PDFRenderer configured; inject one via pdf.New before writing PDF output")
	}
	raw, ok := out.Databases[pageModelKey]
	if !ok {
		return errs.New(errs.KindPlugin, "pdf.write_output", "bundle has no pending page model; GenerateOutput must run first")
	}
	delete(out.Databases, pageModelKey)

	var pages []Page
	if err := json.Unmarshal(raw, &pages); err != nil {
		return errs.Wrap(errs.KindPlugin, "pdf.write_output", "failed to decode page model", err)
	}

	format := ir.OutputFormatPDFCharacterSheets
	if out.Metadata.Format != nil {
		format = *out.Metadata.Format
	}

	data, err := p.Renderer.RenderPages(ctx, pages, format)
	if err != nil {
		return errs.Wrap(errs.KindPlugin, "pdf.write_output", "renderer failed to produce PDF bytes", err)
	}
	out.AddDatabase(outputFileName(format), data)

	w := p.writer
	if w == nil {
		w = bundle.NewWriter()
	}
	return w.Write(out, targetPath, opts)
}

var _ plugin.OutputPlugin = (*Plugin)(nil)
