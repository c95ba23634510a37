package validate

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/validate/business"
	"ttrpgconv/internal/validate/schema"
	"ttrpgconv/internal/validate/system"
	"ttrpgconv/internal/validate/vconfig"
)

// Re-export vconfig's types at the engine package's root so callers outside
// internal/validate don't need to import the vconfig subpackage directly
// for the common case of constructing a Config.
type (
	Strictness               = vconfig.Strictness
	Config                   = vconfig.Config
	BusinessRulesConfig      = vconfig.BusinessRulesConfig
	AssetValidationConfig    = vconfig.AssetValidationConfig
	SecurityValidationConfig = vconfig.SecurityValidationConfig
)

const (
	StrictnessLenient  = vconfig.StrictnessLenient
	StrictnessStandard = vconfig.StrictnessStandard
	StrictnessStrict   = vconfig.StrictnessStrict
)

// DefaultConfig mirrors vconfig.DefaultConfig for callers that only import
// the engine package.
func DefaultConfig() Config { return vconfig.DefaultConfig() }

// Engine sequences Layer 1 (schema), Layer 2 (business rules), and Layer 3
// (system/asset) validation and merges their results.
type Engine struct {
	config   Config
	schema   *schema.Validator
	business *business.Validator
}

// NewEngine builds an Engine with a default schema.Validator. Layers run
// sequentially by default; within a layer, per-entity validation runs
// concurrently when config.ParallelValidation is true.
func NewEngine(config Config) (*Engine, error) {
	sv, err := schema.New()
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:   config,
		schema:   sv,
		business: business.New(config.Strictness),
	}, nil
}

// ValidateCampaign runs all three layers against campaign and merges the
// results. A single call is bounded by config.MaxValidationTimeMS;
// exceeding it short-circuits with a terminating error-severity issue
// rather than blocking the pipeline indefinitely.
func (e *Engine) ValidateCampaign(ctx context.Context, campaign *ir.Campaign) ir.ValidationResult {
	start := time.Now()
	result := ir.NewValidationResult()

	if e.config.MaxValidationTimeMS <= 0 {
		result.AddError(ir.IssueError("campaign", "validation timeout"))
		result.Stats.ValidationTimeMS = time.Since(start).Milliseconds()
		return result
	}

	deadline := time.Duration(e.config.MaxValidationTimeMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	done := make(chan ir.ValidationResult, 1)
	go func() {
		done <- e.runLayers(ctx, campaign)
	}()

	select {
	case layered := <-done:
		result.Merge(layered)
	case <-ctx.Done():
		result.AddError(ir.IssueError("campaign", "validation timeout"))
	}

	result.Stats.ValidationTimeMS = time.Since(start).Milliseconds()
	return result
}

func (e *Engine) runLayers(ctx context.Context, campaign *ir.Campaign) ir.ValidationResult {
	result := ir.NewValidationResult()
	result.Merge(e.validateActors(ctx, campaign))
	result.Merge(e.validateSceneReferences(campaign))
	if e.config.BusinessRules.ValidateAssetReferences {
		result.Merge(e.validateAssetReferences(ctx, campaign))
	}
	result.Stats.EntitiesValidated = len(campaign.Actors) + len(campaign.Scenes) + len(campaign.Items)
	return result
}

// validateAssetReferences is Layer 3: it resolves every actor image
// reference as either a local file path or a remote URL and runs the
// corresponding system check, per config.Assets/config.Security.
func (e *Engine) validateAssetReferences(ctx context.Context, campaign *ir.Campaign) ir.ValidationResult {
	result := ir.NewValidationResult()

	fileCfg := system.FileCheckConfig{
		AllowedExtensions: e.config.Assets.AllowedExtensions,
		MaxFileSizeBytes:  e.config.Assets.MaxFileSizeBytes,
	}
	urlCfg := system.URLCheckConfig{
		CheckAccessibility: e.config.Assets.CheckURLAccessibility,
		AllowedDomains:     e.config.Security.AllowedDomains,
		Timeout:            10 * time.Second,
	}

	checkRef := func(entityType, ref string) []ir.ValidationIssue {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			return system.ValidateURL(ctx, entityType, ref, urlCfg)
		}
		return system.ValidateFilePath(entityType, ref, fileCfg)
	}

	addIssues := func(actorID string, issues []ir.ValidationIssue) {
		for _, issue := range issues {
			issue = issue.WithEntityID(actorID)
			if issue.Severity == ir.SeverityError {
				result.AddError(issue)
			} else {
				result.AddWarning(issue)
			}
		}
	}

	for i := range campaign.Actors {
		actor := &campaign.Actors[i]
		if actor.Images.Avatar != nil && *actor.Images.Avatar != "" {
			addIssues(actor.ID, checkRef("actor", *actor.Images.Avatar))
		}
		if actor.Images.Token != nil && *actor.Images.Token != "" {
			addIssues(actor.ID, checkRef("actor", *actor.Images.Token))
		}
	}
	return result
}

// validateActors runs schema + business rules over every actor, optionally
// in parallel per config.ParallelValidation.
func (e *Engine) validateActors(ctx context.Context, campaign *ir.Campaign) ir.ValidationResult {
	result := ir.NewValidationResult()
	if len(campaign.Actors) == 0 {
		return result
	}

	issuesPerActor := make([][]ir.ValidationIssue, len(campaign.Actors))

	if e.config.ParallelValidation {
		g, gctx := errgroup.WithContext(ctx)
		for i := range campaign.Actors {
			i := i
			g.Go(func() error {
				issuesPerActor[i] = e.validateOneActor(gctx, &campaign.Actors[i])
				return nil
			})
		}
		_ = g.Wait() // per-actor validation never returns an error; only issues
	} else {
		for i := range campaign.Actors {
			issuesPerActor[i] = e.validateOneActor(ctx, &campaign.Actors[i])
		}
	}

	for i, issues := range issuesPerActor {
		if len(issues) > 0 {
			result.Stats.EntitiesWithIssues++
		}
		for _, issue := range issues {
			if issue.Severity == ir.SeverityError {
				result.AddError(issue)
			} else {
				result.AddWarning(issue)
			}
		}
		_ = i
	}
	return result
}

func (e *Engine) validateOneActor(ctx context.Context, actor *ir.Actor) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	id := actor.ID

	if issue := schema.ValidateEntityID("actor", actor.ID); issue != nil {
		issues = append(issues, *issue)
	}

	if e.config.BusinessRules.ValidateHealthConsistency {
		if current, ok := actor.Attributes["current_health"]; ok {
			if maximum, ok := actor.Attributes["max_health"]; ok {
				cur, curOK := current.AsNumber()
				max, maxOK := maximum.AsNumber()
				if curOK && maxOK {
					issues = append(issues, e.business.ValidateHealthConsistency(int(cur), int(max), &id)...)
				}
			}
		}
	}

	if e.config.BusinessRules.ValidateAbilityScores {
		abilities := map[string]int{}
		for _, name := range []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"} {
			if v, ok := actor.Attributes[name]; ok {
				if n, ok := v.AsNumber(); ok {
					abilities[name] = int(n)
				}
			}
		}
		issues = append(issues, e.business.ValidateAbilityScores(abilities, &id)...)
	}

	if e.config.BusinessRules.ValidateLevelProgression {
		if levelAttr, ok := actor.Attributes["level"]; ok {
			if level, ok := levelAttr.AsNumber(); ok {
				issues = append(issues, e.business.ValidateLevelProgression(int(level), &id)...)
			}
		}
	}

	_ = ctx
	return issues
}

// validateSceneReferences enforces the UIR's scene→token→actor closure
// invariant (spec §3.1): every Token.ActorID, if present, must resolve in
// the owning campaign.
func (e *Engine) validateSceneReferences(campaign *ir.Campaign) ir.ValidationResult {
	result := ir.NewValidationResult()
	for _, scene := range campaign.Scenes {
		for _, token := range scene.Tokens {
			if token.ActorID == nil {
				continue
			}
			if _, ok := campaign.ActorByID(*token.ActorID); !ok {
				sceneID := scene.ID
				result.AddWarning(ir.IssueWarning("scene", "token references unknown actor: "+*token.ActorID).
					WithEntityID(sceneID).
					WithField("tokens.actor_id"))
			}
		}
	}
	return result
}
