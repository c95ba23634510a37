package fgxml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

func sampleCampaign() *ir.Campaign {
	c := ir.NewCampaign()
	pc := ir.NewActor("Tobin", ir.ActorTypePC)
	pc.Attributes["wisdom"] = ir.NumberAttribute(15)
	avatar := "tobin.png"
	pc.Images.Avatar = &avatar
	staff := ir.NewItem("Quarterstaff", ir.ItemTypeWeapon)
	staff.Properties.Quantity = 1
	pc.Items = append(pc.Items, staff)
	c.Actors = append(c.Actors, pc)

	journal := ir.NewJournalEntry("Prologue")
	journal.Content = "It begins in a tavern."
	c.JournalEntries = append(c.JournalEntries, journal)

	enc := ir.NewEncounter("Goblin Ambush")
	c.Encounters = append(c.Encounters, enc)
	return c
}

func TestGenerateOutputProducesDbXML(t *testing.T) {
	p := New()
	assets := []ir.ProcessedAsset{
		{
			Original:      ir.AssetInfo{Source: "tobin.png", AssetType: ir.AssetTypeCharacterArt},
			ProcessedPath: "assets/tobin-resolved.png",
			ContentHash:   "hash123",
		},
	}
	b, err := p.GenerateOutput(context.Background(), sampleCampaign(), assets, plugin.OutputConfig{Format: ir.OutputFormatFantasyGroundsXML})
	require.NoError(t, err)

	data, ok := b.Files["db.xml"]
	require.True(t, ok)
	assert.Contains(t, data, "<root")
	assert.Contains(t, data, "Tobin")
	assert.Contains(t, data, "Quarterstaff")
	assert.Contains(t, data, "assets/tobin-resolved.png")
	assert.Contains(t, data, "Prologue")
	assert.Contains(t, data, "Goblin Ambush")
	assert.Contains(t, data, `id="id-00001"`)
}

func TestGenerateOutputDoesNotMutateCampaign(t *testing.T) {
	p := New()
	c := sampleCampaign()
	original := c.Actors[0].Name

	_, err := p.GenerateOutput(context.Background(), c, nil, plugin.OutputConfig{Format: ir.OutputFormatFantasyGroundsXML})
	require.NoError(t, err)

	assert.Equal(t, original, c.Actors[0].Name)
}

func TestWriteOutputDelegatesToBundleWriter(t *testing.T) {
	p := New()
	b := ir.NewOutputBundle()
	b.AddFile("db.xml", "<root/>")

	dir := t.TempDir() + "/export"
	err := p.WriteOutput(context.Background(), b, dir, plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
}
