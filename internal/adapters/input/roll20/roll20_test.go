package roll20

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
)

const scenarioAFixture = `{
	"campaign": {"id":"c1","name":"Demo","description":""},
	"characters": [{
		"id":"char0000000000000001",
		"name":"Arin",
		"attributes":[{"name":"strength","current":"16","max":"16"}],
		"abilities":[],
		"bio":"",
		"gmnotes":"",
		"archived":false,
		"inplayerjournals":"",
		"controlledby":""
	}],
	"pages": [],
	"handouts": [],
	"journal": [],
	"assets": []
}`

func newTestPlugin(t *testing.T, fixture string) *Plugin {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/campaign.json", []byte(fixture), 0o644))
	return &Plugin{FS: fs}
}

func TestParseCampaignScenarioAMinimal(t *testing.T) {
	p := newTestPlugin(t, scenarioAFixture)

	campaign, err := p.ParseCampaign(context.Background(), "/campaign.json")
	require.NoError(t, err)

	assert.Equal(t, "Demo", campaign.Metadata.Title)
	assert.Equal(t, ir.GameSystemDnD5e, campaign.GameSystem.Kind)
	assert.GreaterOrEqual(t, campaign.Metadata.SystemConfidence, 0.5)
	require.Len(t, campaign.Actors, 1)

	attr, ok := campaign.Actors[0].Attributes["strength"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 16.0, attr)

	assert.Empty(t, campaign.Scenes)
	assert.Empty(t, campaign.Items)

	var hasInfoNote bool
	for _, note := range campaign.ConversionNotes {
		if note.Category == ir.ConversionInfo && note.Message == "Converted Roll20 campaign" {
			hasInfoNote = true
		}
	}
	assert.True(t, hasInfoNote)
}

func TestParseCampaignFlagsEmptyCharacterID(t *testing.T) {
	fixture := `{
		"campaign": {"id":"c1","name":"Demo","description":""},
		"characters": [{"id":"","name":"NoID","attributes":[],"abilities":[]}],
		"pages": [], "handouts": [], "journal": [], "assets": []
	}`
	p := newTestPlugin(t, fixture)

	campaign, err := p.ParseCampaign(context.Background(), "/campaign.json")
	require.NoError(t, err)

	var flagged bool
	for _, note := range campaign.ConversionNotes {
		if note.Category == ir.ConversionWarning {
			flagged = true
		}
	}
	assert.True(t, flagged, "empty character id should be flagged as a conversion note (schema validation catches the hard failure downstream)")
}

func TestParseCampaignConvertsPagesHandoutsAndAssets(t *testing.T) {
	fixture := `{
		"campaign": {"id":"c1","name":"Dungeon","description":"test"},
		"characters": [],
		"pages": [{"id":"p1","name":"Map 1","background_url":"https://example.com/bg.png","tokens":[{"id":"t1","imgsrc":"https://example.com/tok.png","represents":"char1","left":10,"top":20,"width":70,"height":70}]}],
		"handouts": [{"id":"h1","name":"Note","notes":"secret text","avatar":"https://example.com/handout.png"}],
		"journal": [{"id":"j1","title":"Session 1","content":"stuff","tags":["recap"]}],
		"assets": [{"id":"a1","name":"Theme","url":"https://example.com/theme.mp3","asset_type":"audio"}]
	}`
	p := newTestPlugin(t, fixture)

	campaign, err := p.ParseCampaign(context.Background(), "/campaign.json")
	require.NoError(t, err)

	require.Len(t, campaign.Scenes, 1)
	scene := campaign.Scenes[0]
	require.NotNil(t, scene.BackgroundImage)
	assert.Equal(t, "https://example.com/bg.png", *scene.BackgroundImage)
	require.Len(t, scene.Tokens, 1)
	require.NotNil(t, scene.Tokens[0].ActorID)
	assert.Equal(t, "char1", *scene.Tokens[0].ActorID)
	assert.Equal(t, uint32(1400), scene.Dimensions.WidthPx)
	assert.Equal(t, uint32(1000), scene.Dimensions.HeightPx)
	assert.Equal(t, uint32(70), scene.Grid.Size)

	require.Len(t, campaign.Items, 2)
	require.Len(t, campaign.JournalEntries, 1)
	assert.Equal(t, "Session 1", campaign.JournalEntries[0].Title)
}

func TestDiscoverAssetsCoversFoldedReferences(t *testing.T) {
	fixture := `{
		"campaign": {"id":"c1","name":"Dungeon","description":""},
		"characters": [],
		"pages": [{"id":"p1","name":"Map 1","background_url":"https://example.com/bg.png","tokens":[]}],
		"handouts": [{"id":"h1","name":"Note","notes":"","avatar":"https://example.com/handout.png"}],
		"journal": [],
		"assets": [{"id":"a1","name":"Theme","url":"https://example.com/theme.mp3","asset_type":"audio"}]
	}`
	p := newTestPlugin(t, fixture)
	campaign, err := p.ParseCampaign(context.Background(), "/campaign.json")
	require.NoError(t, err)

	assets, err := p.DiscoverAssets(context.Background(), campaign)
	require.NoError(t, err)

	sources := map[string]bool{}
	for _, a := range assets {
		sources[a.Source] = true
	}
	assert.True(t, sources["https://example.com/bg.png"])
	assert.True(t, sources["https://example.com/handout.png"])
	assert.True(t, sources["https://example.com/theme.mp3"])
}

func TestCanHandleRecognizesRoll20Shape(t *testing.T) {
	p := newTestPlugin(t, scenarioAFixture)
	assert.True(t, p.CanHandle(context.Background(), "/campaign.json"))
}

func TestCanHandleRejectsNonRoll20JSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/other.json", []byte(`{"foo":"bar"}`), 0o644))
	p := &Plugin{FS: fs}
	assert.False(t, p.CanHandle(context.Background(), "/other.json"))
}
