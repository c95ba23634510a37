package universaljson

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

func sampleCampaign() *ir.Campaign {
	c := ir.NewCampaign()
	c.Metadata.Title = "Dungeon"
	c.GameSystem = ir.GameSystem{Kind: ir.GameSystemDnD5e}

	actor := ir.NewActor("Arin", ir.ActorTypePC)
	actor.Attributes["strength"] = ir.NumberAttribute(16)
	c.Actors = append(c.Actors, actor)

	table := ir.NewRollTable("Loot Table")
	table.Results = append(table.Results, ir.RollTableResult{ID: ir.NewID(), Text: "Gold", Weight: 1, Range: [2]int{1, 6}})
	c.RollTables = append(c.RollTables, table)

	return c
}

func TestGenerateOutputProducesCampaignAndAssetFiles(t *testing.T) {
	p := New()
	campaign := sampleCampaign()

	assets := []ir.ProcessedAsset{{
		Original:      ir.AssetInfo{Source: "http://example.com/a.png", AssetType: ir.AssetTypeCharacterArt},
		ProcessedPath: "/cache/a.png",
		ContentHash:   "deadbeef",
	}}

	bundle, err := p.GenerateOutput(context.Background(), campaign, assets, plugin.OutputConfig{Format: ir.OutputFormatUniversalJSON})
	require.NoError(t, err)

	campaignJSON, ok := bundle.Files["campaign.json"]
	require.True(t, ok)
	assert.Contains(t, campaignJSON, "Dungeon")
	assert.Contains(t, campaignJSON, "Loot Table")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(campaignJSON), &decoded))

	assetsJSON, ok := bundle.Files["assets.json"]
	require.True(t, ok)
	assert.Contains(t, assetsJSON, "deadbeef")

	_, ok = bundle.Assets["assets/deadbeef.png"]
	assert.True(t, ok)
}

func TestGenerateOutputDoesNotMutateCampaign(t *testing.T) {
	p := New()
	campaign := sampleCampaign()
	originalCount := len(campaign.Actors)

	_, err := p.GenerateOutput(context.Background(), campaign, nil, plugin.OutputConfig{Format: ir.OutputFormatUniversalJSON})
	require.NoError(t, err)

	assert.Equal(t, originalCount, len(campaign.Actors))
	assert.Equal(t, "Dungeon", campaign.Metadata.Title)
}

func TestAssetExtensionExtractsSuffix(t *testing.T) {
	assert.Equal(t, ".png", assetExtension("http://example.com/path/a.png"))
	assert.Equal(t, "", assetExtension("http://example.com/path/noext"))
}

func TestWriteOutputDelegatesToBundleWriter(t *testing.T) {
	p := New()
	b := ir.NewOutputBundle()
	b.AddFile("campaign.json", "{}")

	dir := t.TempDir() + "/export"
	err := p.WriteOutput(context.Background(), b, dir, plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
}
