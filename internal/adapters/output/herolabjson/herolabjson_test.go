package herolabjson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

func TestGenerateOutputEmitsSummary(t *testing.T) {
	c := ir.NewCampaign()
	pc := ir.NewActor("Tobin", ir.ActorTypePC)
	pc.Attributes["wisdom"] = ir.NumberAttribute(15)
	item := ir.NewItem("Quarterstaff", ir.ItemTypeWeapon)
	pc.Items = append(pc.Items, item)
	c.Actors = append(c.Actors, pc)

	p := New()
	bundle, err := p.GenerateOutput(context.Background(), c, nil, plugin.OutputConfig{Format: ir.OutputFormatHeroLabJSON})
	require.NoError(t, err)

	data, ok := bundle.Files["characters/tobin.json"]
	require.True(t, ok)
	assert.Contains(t, data, "wisdom")
	assert.Contains(t, data, "Quarterstaff")
}

func TestWriteOutputDelegatesToBundleWriter(t *testing.T) {
	p := New()
	b := ir.NewOutputBundle()
	b.AddFile("characters/a.json", "{}")

	dir := t.TempDir() + "/export"
	err := p.WriteOutput(context.Background(), b, dir, plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
}
