// Package pipeline drives the fixed conversion DAG (spec §4.6):
//
//	detect_input -> parse -> validate(schema+business) -> discover_assets
//	                                              -> process_assets
//	                                              -> validate(post-asset)
//	                                              -> generate_output -> write_output
//
// Generalized from the teacher's master.Run single-call pipeline: where the
// teacher accumulates an append-only Monad event log and checkpoints after
// each step, Orchestrator.Run records the same shape of information as
// PipelineStats timings plus the campaign's own ConversionNote trail, since
// the DAG here is a pure data pipeline rather than a resumable external API
// call — there is no provider round-trip to checkpoint across restarts.
package pipeline

import (
	"context"
	"time"

	"ttrpgconv/internal/asset"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
	"ttrpgconv/internal/validate"
)

// Config parameterizes one Orchestrator.Run call.
type Config struct {
	SourcePath   string
	TargetPath   string
	OutputConfig plugin.OutputConfig
	AssetCache   string
}

// Orchestrator wires the stages together: the caller-supplied input and
// output plugins (it does no registry lookups itself), the validation
// engine, and asset discovery/processing; writing goes through the output
// plugin's WriteOutput.
type Orchestrator struct {
	Input     plugin.InputPlugin
	Output    plugin.OutputPlugin
	Validator *validate.Engine
}

// Result is what Run returns: the final campaign, the written bundle's
// metadata, and the run's aggregated stats.
type Result struct {
	Campaign *ir.Campaign
	Bundle   *ir.OutputBundle
	Stats    *PipelineStats
}

// Run executes the full DAG against cfg. A cancelled ctx is checked at
// every stage boundary; write_output is the only stage that touches
// TargetPath, and does so via internal/bundle's stage-then-rename so a
// cancellation or error partway through leaves no partial files on disk.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*Result, error) {
	stats := NewPipelineStats()

	campaign, err := o.timedParse(ctx, cfg.SourcePath, stats)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	preAssetResult := o.timedValidate(ctx, campaign, stats, "validate_pre_asset")
	if preAssetResult.HasErrors() {
		return nil, errs.ValidationFailed("pipeline.validate_pre_asset", "campaign failed pre-asset validation")
	}
	campaign.ConversionNotes = append(campaign.ConversionNotes, issuesToNotes(preAssetResult.Issues)...)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	discovered, err := o.timedDiscoverAssets(ctx, campaign, stats)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	processed, dedupNotes, err := o.timedProcessAssets(ctx, discovered, cfg.AssetCache, stats)
	if err != nil {
		return nil, err
	}
	campaign.ConversionNotes = append(campaign.ConversionNotes, dedupNotes...)
	stats.RecordNotes(dedupNotes)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	postAssetResult := o.timedValidate(ctx, campaign, stats, "validate_post_asset")
	campaign.ConversionNotes = append(campaign.ConversionNotes, issuesToNotes(postAssetResult.Issues)...)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	outBundle, err := o.timedGenerateOutput(ctx, campaign, processed, cfg.OutputConfig, stats)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := o.timedWriteOutput(ctx, outBundle, cfg.TargetPath, cfg.OutputConfig.WriteOptions, stats); err != nil {
		return nil, err
	}

	stats.RecordNotes(campaign.ConversionNotes)
	return &Result{Campaign: campaign, Bundle: outBundle, Stats: stats}, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.Cancelled("pipeline.stage_boundary")
	default:
		return nil
	}
}

func (o *Orchestrator) timedParse(ctx context.Context, sourcePath string, stats *PipelineStats) (*ir.Campaign, error) {
	start := time.Now()
	defer func() { stats.RecordStage("parse", time.Since(start)) }()

	if !o.Input.CanHandle(ctx, sourcePath) {
		return nil, errs.InvalidInput("pipeline.detect_input", "source_path", "no registered input plugin can handle this source")
	}
	return o.Input.ParseCampaign(ctx, sourcePath)
}

func (o *Orchestrator) timedValidate(ctx context.Context, campaign *ir.Campaign, stats *PipelineStats, stageName string) ir.ValidationResult {
	start := time.Now()
	defer func() { stats.RecordStage(stageName, time.Since(start)) }()
	return o.Validator.ValidateCampaign(ctx, campaign)
}

func (o *Orchestrator) timedDiscoverAssets(ctx context.Context, campaign *ir.Campaign, stats *PipelineStats) ([]ir.AssetInfo, error) {
	start := time.Now()
	defer func() { stats.RecordStage("discover_assets", time.Since(start)) }()
	return o.Input.DiscoverAssets(ctx, campaign)
}

func (o *Orchestrator) timedProcessAssets(ctx context.Context, discovered []ir.AssetInfo, cacheRoot string, stats *PipelineStats) ([]ir.ProcessedAsset, []ir.ConversionNote, error) {
	start := time.Now()
	defer func() { stats.RecordStage("process_assets", time.Since(start)) }()

	processor := asset.NewProcessor(asset.DefaultProcessorConfig(cacheRoot))
	processed, notes, err := processor.ProcessAll(ctx, discovered)
	if err != nil {
		return nil, nil, err
	}
	stats.RecordAssets(len(processed), len(notes))
	return processed, notes, nil
}

func (o *Orchestrator) timedGenerateOutput(ctx context.Context, campaign *ir.Campaign, processed []ir.ProcessedAsset, cfg plugin.OutputConfig, stats *PipelineStats) (*ir.OutputBundle, error) {
	start := time.Now()
	defer func() { stats.RecordStage("generate_output", time.Since(start)) }()
	return o.Output.GenerateOutput(ctx, campaign, processed, cfg)
}

func (o *Orchestrator) timedWriteOutput(ctx context.Context, bundle_ *ir.OutputBundle, targetPath string, opts plugin.WriteOptions, stats *PipelineStats) error {
	start := time.Now()
	defer func() { stats.RecordStage("write_output", time.Since(start)) }()
	return o.Output.WriteOutput(ctx, bundle_, targetPath, opts)
}

func issuesToNotes(issues []ir.ValidationIssue) []ir.ConversionNote {
	notes := make([]ir.ConversionNote, 0, len(issues))
	for _, issue := range issues {
		category := ir.ConversionWarning
		if issue.Severity == ir.SeverityError {
			category = ir.ConversionError
		}
		notes = append(notes, ir.ConversionNote{
			Timestamp:      time.Now().UTC(),
			Category:       category,
			Message:        issue.Message,
			AffectedEntity: issue.EntityID,
		})
	}
	return notes
}
