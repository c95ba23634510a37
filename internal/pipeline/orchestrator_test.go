package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
	"ttrpgconv/internal/validate"
)

type fakeInput struct {
	campaign *ir.Campaign
	assets   []ir.AssetInfo
}

func (f *fakeInput) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (f *fakeInput) Shutdown(ctx context.Context) error                         { return nil }
func (f *fakeInput) HealthCheck(ctx context.Context) plugin.HealthStatus        { return plugin.HealthHealthy }
func (f *fakeInput) GetInfo() plugin.PluginInfo                                 { return plugin.PluginInfo{Name: "fake-input", Version: "0.0.1"} }
func (f *fakeInput) CanHandle(ctx context.Context, sourcePath string) bool      { return true }
func (f *fakeInput) ExtractMetadata(ctx context.Context, sourcePath string) (ir.CampaignMetadata, error) {
	return f.campaign.Metadata, nil
}
func (f *fakeInput) ParseCampaign(ctx context.Context, sourcePath string) (*ir.Campaign, error) {
	return f.campaign, nil
}
func (f *fakeInput) DiscoverAssets(ctx context.Context, campaign *ir.Campaign) ([]ir.AssetInfo, error) {
	return f.assets, nil
}

type fakeOutput struct {
	written bool
}

func (f *fakeOutput) Initialize(ctx context.Context, config map[string]any) error { return nil }
func (f *fakeOutput) Shutdown(ctx context.Context) error                          { return nil }
func (f *fakeOutput) HealthCheck(ctx context.Context) plugin.HealthStatus         { return plugin.HealthHealthy }
func (f *fakeOutput) GetInfo() plugin.PluginInfo                                  { return plugin.PluginInfo{Name: "fake-output", Version: "0.0.1"} }
func (f *fakeOutput) SupportedFormats() []ir.OutputFormat                         { return []ir.OutputFormat{ir.OutputFormatUniversalJSON} }
func (f *fakeOutput) GenerateOutput(ctx context.Context, campaign *ir.Campaign, assets []ir.ProcessedAsset, config plugin.OutputConfig) (*ir.OutputBundle, error) {
	b := ir.NewOutputBundle()
	b.AddFile("campaign.json", campaign.Metadata.Title)
	return b, nil
}
func (f *fakeOutput) WriteOutput(ctx context.Context, bundle *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	f.written = true
	return nil
}

func newTestOrchestrator(t *testing.T, campaign *ir.Campaign) (*Orchestrator, *fakeOutput) {
	t.Helper()
	engine, err := validate.NewEngine(validate.DefaultConfig())
	require.NoError(t, err)
	out := &fakeOutput{}
	return &Orchestrator{
		Input:     &fakeInput{campaign: campaign},
		Output:    out,
		Validator: engine,
	}, out
}

func TestRunExecutesFullDAGSuccessfully(t *testing.T) {
	campaign := ir.NewCampaign()
	campaign.Metadata.Title = "Test Campaign"
	orch, out := newTestOrchestrator(t, campaign)

	result, err := orch.Run(context.Background(), Config{
		SourcePath: "/fake/source",
		TargetPath: t.TempDir() + "/world",
		AssetCache: t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, out.written)
	assert.NotNil(t, result.Bundle)
	assert.NotEmpty(t, result.Stats.Timings)
}

func TestRunAbortsBeforeWriteWhenContextAlreadyCancelled(t *testing.T) {
	campaign := ir.NewCampaign()
	orch, out := newTestOrchestrator(t, campaign)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Run(ctx, Config{
		SourcePath: "/fake/source",
		TargetPath: t.TempDir() + "/world",
		AssetCache: t.TempDir(),
	})
	require.Error(t, err)
	assert.False(t, out.written, "write_output must not run once the pipeline has observed cancellation")
}

func TestRunFailsClosedWhenPreAssetValidationHasErrors(t *testing.T) {
	campaign := ir.NewCampaign()
	actor := ir.NewActor("Zeroed", ir.ActorTypePC)
	actor.Attributes["level"] = ir.NumberAttribute(0)
	campaign.Actors = append(campaign.Actors, actor)

	orch, out := newTestOrchestrator(t, campaign)
	_, err := orch.Run(context.Background(), Config{
		SourcePath: "/fake/source",
		TargetPath: t.TempDir() + "/world",
		AssetCache: t.TempDir(),
	})
	require.Error(t, err)
	assert.False(t, out.written)
}
