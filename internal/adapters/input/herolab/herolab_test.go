package herolab

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCharacter = `{
  "summary": {
    "name": "Tobin",
    "statistics": [{"name": "wisdom", "value": 15}],
    "gear": [{"name": "Quarterstaff", "quantity": 1, "carried": true}],
    "biography": "A wandering monk"
  }
}`

func newFixture(t *testing.T) *Plugin {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "tobin.json", []byte(sampleCharacter), 0o644))
	return &Plugin{FS: fs}
}

func TestCanHandleAcceptsSummaryEnvelope(t *testing.T) {
	p := newFixture(t)
	assert.True(t, p.CanHandle(context.Background(), "tobin.json"))
}

func TestParseCampaignBuildsCharacter(t *testing.T) {
	p := newFixture(t)
	campaign, err := p.ParseCampaign(context.Background(), "tobin.json")
	require.NoError(t, err)

	require.Len(t, campaign.Actors, 1)
	actor := campaign.Actors[0]
	assert.Equal(t, "Tobin", actor.Name)
	assert.Equal(t, "A wandering monk", actor.Biography)

	wis, ok := actor.Attributes["wisdom"].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 15.0, wis)

	require.Len(t, actor.Items, 1)
	assert.Equal(t, "Quarterstaff", actor.Items[0].Name)
}
