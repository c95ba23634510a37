package foundry

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
	c.Metadata.Title = "Dungeon"
	c.GameSystem = ir.GameSystem{Kind: ir.GameSystemDnD5e}

	actor := ir.NewActor("Arin", ir.ActorTypePC)
	bg := "https://example.com/avatar.png"
	actor.Images.Avatar = &bg
	actor.Attributes["strength"] = ir.NumberAttribute(16)
	c.Actors = append(c.Actors, actor)

	item := ir.NewItem("Shield", ir.ItemTypeArmor)
	c.Items = append(c.Items, item)

	scene := ir.NewScene("Map 1")
	scene.Dimensions = ir.SceneDimensions{WidthPx: 1400, HeightPx: 1000, GridSizePx: 70}
	bgImg := "https://example.com/bg.png"
	scene.BackgroundImage = &bgImg
	c.Scenes = append(c.Scenes, scene)

	je := ir.NewJournalEntry("Session 1")
	je.Content = "<p>stuff</p>"
	c.JournalEntries = append(c.JournalEntries, je)

	c.Macros = append(c.Macros, ir.Macro{ID: ir.NewID(), Name: "Attack", Command: "/roll 1d20"})
	c.Playlists = append(c.Playlists, ir.Playlist{ID: ir.NewID(), Name: "Ambience", Tracks: []ir.AudioTrack{{Name: "Wind", Source: "wind.ogg"}}})

	table := ir.NewRollTable("Loot Table")
	table.Formula = "1d6"
	table.Results = append(table.Results, ir.RollTableResult{ID: ir.NewID(), Text: "Gold", Weight: 1, Range: [2]int{1, 6}})
	c.RollTables = append(c.RollTables, table)

	return c
}

func TestGenerateOutputProducesAllPacks(t *testing.T) {
	p := New()
	campaign := sampleCampaign()

	bundle, err := p.GenerateOutput(context.Background(), campaign, nil, plugin.OutputConfig{
		Format:         ir.OutputFormatFoundryWorld,
		FoundryOptions: &plugin.FoundryConfig{DatabaseType: "NEDB", OutputType: "WORLD", Version: "V11", WorldTitle: "Dungeon"},
	})
	require.NoError(t, err)

	for _, pack := range []string{"actors", "items", "scenes", "journal", "macros", "playlists", "tables"} {
		_, ok := bundle.Databases["packs/"+pack+".db"]
		assert.True(t, ok, "expected packs/%s.db in bundle", pack)
	}
	_, ok := bundle.Files["world.json"]
	assert.True(t, ok)
}

func TestGenerateOutputUsesLevelDBByDefault(t *testing.T) {
	p := New()
	campaign := sampleCampaign()

	bundle, err := p.GenerateOutput(context.Background(), campaign, nil, plugin.OutputConfig{
		Format: ir.OutputFormatFoundryWorld,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Databases["packs/actors.db"])
}

func TestGenerateOutputDoesNotMutateCampaign(t *testing.T) {
	p := New()
	campaign := sampleCampaign()
	originalAvatar := *campaign.Actors[0].Images.Avatar

	assets := []ir.ProcessedAsset{{
		Original:       ir.AssetInfo{Source: originalAvatar, AssetType: ir.AssetTypeCharacterArt},
		ProcessedPath:  "/cache/avatar.png",
		TargetMappings: map[ir.OutputFormat]string{ir.OutputFormatFoundryWorld: "assets/avatar.png"},
	}}

	_, err := p.GenerateOutput(context.Background(), campaign, assets, plugin.OutputConfig{
		Format:         ir.OutputFormatFoundryWorld,
		FoundryOptions: &plugin.FoundryConfig{DatabaseType: "NEDB", OutputType: "WORLD"},
	})
	require.NoError(t, err)

	assert.Equal(t, originalAvatar, *campaign.Actors[0].Images.Avatar, "GenerateOutput must not mutate the source campaign")
}

func TestEnsureFoundryIDPreservesCompatibleIDs(t *testing.T) {
	id := "abcdefghij123456"
	assert.Equal(t, id, ensureFoundryID(id))
}

func TestEnsureFoundryIDDerivesStableIDForIncompatibleSource(t *testing.T) {
	raw := "roll20-character-9182"
	first := ensureFoundryID(raw)
	second := ensureFoundryID(raw)
	assert.Len(t, first, 16)
	assert.Equal(t, first, second, "derivation must be deterministic for the same input")
}

func TestToOwnershipUppercasesKnownRoles(t *testing.T) {
	perms := ir.NewEntityPermissions()
	perms.Grant("gm", ir.PermissionOwner)
	perms.Grant("user1234567890ab", ir.PermissionObserver)

	out := toOwnership(perms)
	assert.Equal(t, int(ir.PermissionOwner), out["GAMEMASTER"])
	assert.Equal(t, int(ir.PermissionObserver), out["user1234567890ab"])
}

func TestWriteOutputDelegatesToBundleWriter(t *testing.T) {
	p := New()
	b := ir.NewOutputBundle()
	b.AddFile("world.json", "{}")

	// WriteOutput uses the real OS filesystem through internal/bundle.Writer
	// by default; exercising it against a throwaway temp dir keeps this test
	// hermetic without needing a fake filesystem seam on this type.
	dir := t.TempDir() + "/world"
	err := p.WriteOutput(context.Background(), b, dir, plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
}
