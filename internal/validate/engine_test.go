package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
)

func TestValidateCampaignFlagsUnknownTokenActorReference(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	campaign := ir.NewCampaign()
	scene := ir.NewScene("The Crypt")
	missing := "does-not-exist-0000"
	scene.Tokens = append(scene.Tokens, ir.Token{ActorID: &missing})
	campaign.Scenes = append(campaign.Scenes, scene)

	result := engine.ValidateCampaign(context.Background(), campaign)
	assert.True(t, result.HasWarnings())
}

func TestValidateCampaignCatchesLevelZeroActor(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	campaign := ir.NewCampaign()
	actor := ir.NewActor("Zeroed", ir.ActorTypePC)
	actor.Attributes["level"] = ir.NumberAttribute(0)
	campaign.Actors = append(campaign.Actors, actor)

	result := engine.ValidateCampaign(context.Background(), campaign)
	require.True(t, result.HasErrors())
}

func TestValidateCampaignPassesCleanCampaign(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	campaign := ir.NewCampaign()
	actor := ir.NewActor("Thistle", ir.ActorTypePC)
	actor.Attributes["level"] = ir.NumberAttribute(5)
	actor.Attributes["strength"] = ir.NumberAttribute(14)
	actor.Attributes["dexterity"] = ir.NumberAttribute(12)
	actor.Attributes["constitution"] = ir.NumberAttribute(13)
	actor.Attributes["intelligence"] = ir.NumberAttribute(10)
	actor.Attributes["wisdom"] = ir.NumberAttribute(11)
	actor.Attributes["charisma"] = ir.NumberAttribute(9)
	campaign.Actors = append(campaign.Actors, actor)

	result := engine.ValidateCampaign(context.Background(), campaign)
	assert.False(t, result.HasErrors())
}

func TestValidateCampaignRespectsTimeoutBudget(t *testing.T) {
	config := DefaultConfig()
	config.MaxValidationTimeMS = 0
	engine, err := NewEngine(config)
	require.NoError(t, err)

	campaign := ir.NewCampaign()
	result := engine.ValidateCampaign(context.Background(), campaign)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Issues[0].Message, "timeout")
}

func TestValidateCampaignSequentialMatchesParallel(t *testing.T) {
	parallelConfig := DefaultConfig()
	sequentialConfig := DefaultConfig()
	sequentialConfig.ParallelValidation = false

	campaign := ir.NewCampaign()
	for i := 0; i < 5; i++ {
		actor := ir.NewActor("Actor", ir.ActorTypeNPC)
		actor.Attributes["level"] = ir.NumberAttribute(0)
		campaign.Actors = append(campaign.Actors, actor)
	}

	parallelEngine, err := NewEngine(parallelConfig)
	require.NoError(t, err)
	sequentialEngine, err := NewEngine(sequentialConfig)
	require.NoError(t, err)

	parallelResult := parallelEngine.ValidateCampaign(context.Background(), campaign)
	sequentialResult := sequentialEngine.ValidateCampaign(context.Background(), campaign)

	assert.Equal(t, len(sequentialResult.Issues), len(parallelResult.Issues))
}
