package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCampaignDefaults(t *testing.T) {
	c := NewCampaign()
	assert.Equal(t, "Untitled Campaign", c.Metadata.Title)
	assert.Equal(t, GameSystemUnknown, c.GameSystem.Kind)
	assert.Equal(t, GridTypeSquare, c.Settings.GridType)
	assert.Empty(t, c.ConversionNotes)
}

func TestAddNoteAppendsWithoutDroppingPrior(t *testing.T) {
	c := NewCampaign()
	c.AddNote(ConversionWarning, "dangling token reference", "token-1")
	c.AddNote(ConversionInfo, "detected D&D 5e attribute fingerprint", "")
	assert.Len(t, c.ConversionNotes, 2)
	assert.Equal(t, "token-1", *c.ConversionNotes[0].AffectedEntity)
	assert.Nil(t, c.ConversionNotes[1].AffectedEntity)
}

func TestStatsReflectsEntityCounts(t *testing.T) {
	c := NewCampaign()
	c.Actors = append(c.Actors, NewActor("Aria", ActorTypePC))
	c.Scenes = append(c.Scenes, NewScene("The Crypt"))
	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalActors)
	assert.Equal(t, 1, stats.TotalScenes)
	assert.Equal(t, 0, stats.TotalItems)
}

func TestActorByIDResolvesReferences(t *testing.T) {
	c := NewCampaign()
	a := NewActor("Thistle", ActorTypeNPC)
	c.Actors = append(c.Actors, a)

	found, ok := c.ActorByID(a.ID)
	assert.True(t, ok)
	assert.Equal(t, "Thistle", found.Name)

	_, ok = c.ActorByID("does-not-exist")
	assert.False(t, ok)
}

func TestGameSystemDisplayStrings(t *testing.T) {
	cases := []struct {
		gs   GameSystem
		want string
	}{
		{GameSystem{Kind: GameSystemDnD5e}, "D&D 5e"},
		{GameSystem{Kind: GameSystemPathfinder2e}, "Pathfinder 2e"},
		{GameSystem{Kind: GameSystemCustom, CustomName: "Blades in the Dark"}, "Custom: Blades in the Dark"},
		{GameSystem{Kind: GameSystemUnknown}, "Unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.gs.String())
	}
}
