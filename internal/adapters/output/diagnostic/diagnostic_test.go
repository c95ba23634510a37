package diagnostic

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
)

func sampleBundle(t *testing.T) *ir.OutputBundle {
	t.Helper()
	scene := ir.NewScene("The Crypt")
	scene.Dimensions = ir.SceneDimensions{WidthPx: 1000, HeightPx: 800, GridSizePx: 100}
	scene.Grid = ir.GridConfig{GridType: ir.SceneGridSquare, Size: 100, Color: "#333333"}
	actorID := "actor-1"
	scene.Tokens = append(scene.Tokens, ir.Token{
		ID:       "token-1",
		ActorID:  &actorID,
		Position: ir.Position{X: 200, Y: 300},
		Size:     ir.TokenSize{W: 1, H: 1},
	})
	scene.Walls = append(scene.Walls, ir.Wall{
		ID:          "wall-1",
		Start:       ir.Position{X: 0, Y: 0},
		End:         ir.Position{X: 500, Y: 0},
		BlocksMove:  true,
		BlocksLight: true,
	})

	snapshot := campaignSnapshot{Scenes: []ir.Scene{scene}}
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	bundle := ir.NewOutputBundle()
	bundle.AddFile("campaign.json", string(data))
	return bundle
}

func TestExportRendersOneSVGPerScene(t *testing.T) {
	p := New()
	bundle := sampleBundle(t)
	target := t.TempDir()

	err := p.Export(context.Background(), bundle, target)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(target, "diagnostics"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(target, "diagnostics", entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "The Crypt")
}

func TestExportIsNoOpWithoutCampaignSnapshot(t *testing.T) {
	p := New()
	bundle := ir.NewOutputBundle()
	target := t.TempDir()

	err := p.Export(context.Background(), bundle, target)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(target, "diagnostics"))
	assert.True(t, os.IsNotExist(err))
}
