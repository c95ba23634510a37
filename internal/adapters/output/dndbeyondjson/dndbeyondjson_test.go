package dndbeyondjson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

func TestGenerateOutputEmitsStatsAndInventory(t *testing.T) {
	c := ir.NewCampaign()
	pc := ir.NewActor("Mira", ir.ActorTypePC)
	pc.Attributes["strength"] = ir.NumberAttribute(14)
	pc.Attributes["dexterity"] = ir.NumberAttribute(12)
	item := ir.NewItem("Dagger", ir.ItemTypeWeapon)
	pc.Items = append(pc.Items, item)
	c.Actors = append(c.Actors, pc)

	p := New()
	bundle, err := p.GenerateOutput(context.Background(), c, nil, plugin.OutputConfig{Format: ir.OutputFormatDNDBeyondJSON})
	require.NoError(t, err)

	data, ok := bundle.Files["characters/mira.json"]
	require.True(t, ok)
	assert.Contains(t, data, "strength")
	assert.Contains(t, data, "Dagger")
}

func TestWriteOutputDelegatesToBundleWriter(t *testing.T) {
	p := New()
	b := ir.NewOutputBundle()
	b.AddFile("characters/a.json", "{}")

	dir := t.TempDir() + "/export"
	err := p.WriteOutput(context.Background(), b, dir, plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
}
