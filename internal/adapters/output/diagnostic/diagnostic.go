// Package diagnostic renders a campaign's scenes (grid, walls, token
// positions) to SVG for human review of a conversion before committing to a
// full vendor bundle. Grounded on dshills-dungo's pkg/export/svg.go, which
// renders a dungeon graph's rooms and connectors to SVG with the same
// github.com/ajstarks/svgo canvas primitives used here. It is a secondary
// ExportPlugin, not a primary OutputPlugin: it never participates in the
// core input-to-vendor-bundle conversion contract, and is only useful when
// chained after an output plugin (today, universaljson) that embeds a full
// JSON snapshot of the campaign the diagnostic exporter can read back.
package diagnostic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	svg "github.com/ajstarks/svgo"

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
			Name:        "diagnostic-export",
			Version:     "1.0.0",
			Description: "Renders a converted campaign's scenes to SVG for human review",
			Author:      "ttrpgconv",
			Tags:        []string{"export", "diagnostic", "svg"},
		},
		Category: plugin.Category{Kind: plugin.CategoryExport, Key: "diagnostic-svg"},
		Tags:     []string{"export", "diagnostic"},
		AutoLoad: true,
		Instance: p,
	})
}

func (p *Plugin) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (p *Plugin) Shutdown(ctx context.Context) error                         { return nil }
func (p *Plugin) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (p *Plugin) GetInfo() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "diagnostic-export",
		Version:     "1.0.0",
		Description: "Renders a converted campaign's scenes to SVG for human review",
		Author:      "ttrpgconv",
		Tags:        []string{"export", "diagnostic", "svg"},
	}
}

// SVGOptions configures scene visualization, mirroring dungo's SVGOptions
// shape (width/height/margin/node sizing) adapted to scenes/tokens/walls
// instead of dungeon rooms/connectors.
type SVGOptions struct {
	Width      int
	Height     int
	Margin     int
	TokenSize  int
	ShowLabels bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 1200, Height: 900, Margin: 40, TokenSize: 16, ShowLabels: true}
}

// campaignSnapshot mirrors the fields output/universaljson's
// campaignDocument uses for scenes: ir.Scene carries no json tags of its
// own, so a bundle produced by that plugin marshals scenes under the Go
// field names verbatim.
type campaignSnapshot struct {
	Scenes []ir.Scene `json:"scenes"`
}

// Export scans the bundle's files for a "campaign.json" produced by a
// prior output stage (today, output/universaljson) and, if found, renders
// one SVG per scene under targetPath/diagnostics/. A bundle without an
// embedded campaign snapshot produces no diagnostic output, which is a
// deliberate no-op rather than an error: this exporter is opportunistic,
// not a required step of any conversion.
func (p *Plugin) Export(ctx context.Context, bundle *ir.OutputBundle, targetPath string) error {
	raw, ok := bundle.Files["campaign.json"]
	if !ok {
		return nil
	}
	var snapshot campaignSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return errs.Wrap(errs.KindPlugin, "diagnostic.export", "failed to decode campaign.json snapshot", err)
	}

	diagDir := filepath.Join(targetPath, "diagnostics")
	if err := os.MkdirAll(diagDir, 0o755); err != nil {
		return errs.IOFailed("diagnostic.export", "failed to create diagnostics directory", err)
	}

	opts := DefaultSVGOptions()
	for i, scene := range snapshot.Scenes {
		data, err := renderSceneSVG(scene, opts)
		if err != nil {
			return errs.Wrap(errs.KindPlugin, "diagnostic.export", fmt.Sprintf("failed to render scene %d", i), err)
		}
		name := scene.ID
		if name == "" {
			name = fmt.Sprintf("scene-%d", i)
		}
		path := filepath.Join(diagDir, name+".svg")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errs.IOFailed("diagnostic.export", "failed to write scene SVG", err)
		}
	}
	return nil
}

func renderSceneSVG(scene ir.Scene, opts SVGOptions) ([]byte, error) {
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	scaleX, scaleY := sceneScale(scene, opts)

	if scene.Grid.GridType != ir.SceneGridNone {
		drawGrid(canvas, scene, opts, scaleX, scaleY)
	}

	for _, wall := range scene.Walls {
		canvas.Line(
			int(wall.Start.X*scaleX)+opts.Margin, int(wall.Start.Y*scaleY)+opts.Margin,
			int(wall.End.X*scaleX)+opts.Margin, int(wall.End.Y*scaleY)+opts.Margin,
			wallStyle(wall),
		)
	}

	tokenIDs := make([]string, 0, len(scene.Tokens))
	byID := make(map[string]ir.Token, len(scene.Tokens))
	for _, t := range scene.Tokens {
		tokenIDs = append(tokenIDs, t.ID)
		byID[t.ID] = t
	}
	sort.Strings(tokenIDs)

	for _, id := range tokenIDs {
		token := byID[id]
		x := int(token.Position.X*scaleX) + opts.Margin
		y := int(token.Position.Y*scaleY) + opts.Margin
		radius := opts.TokenSize
		style := "fill:#4299e1;stroke:#fff;stroke-width:2;opacity:0.9"
		if token.Hidden {
			style = "fill:#718096;stroke:#fff;stroke-width:1;opacity:0.4;stroke-dasharray:3,3"
		}
		canvas.Circle(x, y, radius, style)
		if opts.ShowLabels && token.ActorID != nil {
			canvas.Text(x, y+radius+12, *token.ActorID,
				"text-anchor:middle;font-size:10px;font-family:monospace;fill:#e2e8f0")
		}
	}

	if opts.ShowLabels && scene.Name != "" {
		canvas.Text(opts.Width/2, 20, scene.Name,
			"text-anchor:middle;font-size:16px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

func sceneScale(scene ir.Scene, opts SVGOptions) (float64, float64) {
	drawW := float64(opts.Width - 2*opts.Margin)
	drawH := float64(opts.Height - 2*opts.Margin)
	scaleX, scaleY := 1.0, 1.0
	if scene.Dimensions.WidthPx > 0 {
		scaleX = drawW / float64(scene.Dimensions.WidthPx)
	}
	if scene.Dimensions.HeightPx > 0 {
		scaleY = drawH / float64(scene.Dimensions.HeightPx)
	}
	return scaleX, scaleY
}

func drawGrid(canvas *svg.SVG, scene ir.Scene, opts SVGOptions, scaleX, scaleY float64) {
	if scene.Grid.Size == 0 {
		return
	}
	step := float64(scene.Grid.Size)
	color := scene.Grid.Color
	if color == "" {
		color = "#4a5568"
	}
	style := fmt.Sprintf("stroke:%s;stroke-width:1;opacity:0.3", color)

	drawW := float64(opts.Width - 2*opts.Margin)
	drawH := float64(opts.Height - 2*opts.Margin)
	for x := 0.0; x*scaleX < drawW; x += step {
		px := int(x*scaleX) + opts.Margin
		canvas.Line(px, opts.Margin, px, opts.Height-opts.Margin, style)
	}
	for y := 0.0; y*scaleY < drawH; y += step {
		py := int(y*scaleY) + opts.Margin
		canvas.Line(opts.Margin, py, opts.Width-opts.Margin, py, style)
	}
}

func wallStyle(wall ir.Wall) string {
	if wall.BlocksLight {
		return "stroke:#f56565;stroke-width:2;opacity:0.9"
	}
	if wall.BlocksMove {
		return "stroke:#ed8936;stroke-width:2;opacity:0.7"
	}
	return "stroke:#718096;stroke-width:1;opacity:0.5;stroke-dasharray:4,4"
}

var _ plugin.ExportPlugin = (*Plugin)(nil)
