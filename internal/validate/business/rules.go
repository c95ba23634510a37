// Package business implements Layer 2 of the validation engine: TTRPG
// domain invariants independent of any specific vendor schema, ported
// directly from the original's BusinessRulesValidator.
package business

import (
	"fmt"
	"sort"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/validate/vconfig"
)

// Validator applies health/ability/level/asset-reference rules at a
// configured strictness.
type Validator struct {
	strictness vconfig.Strictness
}

// New returns a Validator at the given strictness.
func New(strictness vconfig.Strictness) *Validator {
	return &Validator{strictness: strictness}
}

var coreAbilities = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// ValidateHealthConsistency checks current <= maximum; current < 0 is a
// Warning (the original's semantics, not an Error — some systems model
// "dying" as negative current health).
func (v *Validator) ValidateHealthConsistency(current, maximum int, entityID *string) []ir.ValidationIssue {
	var issues []ir.ValidationIssue

	if current > maximum {
		issue := ir.IssueError("actor", fmt.Sprintf("Current health (%d) exceeds maximum health (%d)", current, maximum)).
			WithField("health").
			WithSuggestion("Ensure current health does not exceed maximum health")
		issues = append(issues, withEntity(issue, entityID))
	}

	if current < 0 {
		issue := ir.IssueWarning("actor", fmt.Sprintf("Current health is negative: %d", current)).
			WithField("health.current").
			WithSuggestion("Consider setting minimum health to 0 or use proper death/unconscious mechanics")
		issues = append(issues, withEntity(issue, entityID))
	}

	return issues
}

// ValidateAbilityScores checks for the presence and range of the six core
// D&D-family ability scores.
func (v *Validator) ValidateAbilityScores(abilities map[string]int, entityID *string) []ir.ValidationIssue {
	var issues []ir.ValidationIssue

	for _, name := range coreAbilities {
		if _, ok := abilities[name]; !ok {
			issue := ir.IssueWarning("actor", "Missing core ability score: "+name).
				WithField("abilities").
				WithSuggestion("Add " + name + " ability score for complete character definition")
			issues = append(issues, withEntity(issue, entityID))
		}
	}

	names := make([]string, 0, len(abilities))
	for name := range abilities {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic issue ordering regardless of map iteration

	for _, name := range names {
		score := abilities[name]
		if score < 1 || score > 30 {
			issue := ir.IssueWarning("actor", fmt.Sprintf("Ability score %s (%d) is outside normal range (1-30)", name, score)).
				WithField("abilities." + name).
				WithSuggestion("Most D&D-style games use ability scores between 1-30")
			issues = append(issues, withEntity(issue, entityID))
		}
	}

	return issues
}

// ValidateLevelProgression checks level against the configured strictness.
// Standard treats [1, 20] as the typical range; Lenient raises the soft
// ceiling to 30; Strict keeps Lenient's ceiling but additionally flags
// anything above 20 with a Warning, so a Strict run surfaces unusual
// levels without rejecting high-level one-shots outright.
func (v *Validator) ValidateLevelProgression(level int, entityID *string) []ir.ValidationIssue {
	var issues []ir.ValidationIssue

	if level == 0 {
		issue := ir.IssueError("actor", "Character level cannot be 0").
			WithField("level").
			WithSuggestion("Set character level to at least 1")
		issues = append(issues, withEntity(issue, entityID))
	}

	ceiling := 20
	if v.strictness != vconfig.StrictnessStandard {
		ceiling = 30
	}
	if level > ceiling {
		issue := ir.IssueWarning("actor", fmt.Sprintf("Character level %d exceeds the typical range for %s strictness", level, v.strictness)).
			WithField("level").
			WithSuggestion("Confirm this level is intentional for the target system")
		issues = append(issues, withEntity(issue, entityID))
	} else if level > 20 && v.strictness == vconfig.StrictnessStrict {
		issue := ir.IssueWarning("actor", fmt.Sprintf("Character level %d is above typical maximum (20)", level)).
			WithField("level").
			WithSuggestion("Most D&D campaigns cap at level 20. Consider if this is intentional")
		issues = append(issues, withEntity(issue, entityID))
	}

	return issues
}

func withEntity(issue ir.ValidationIssue, entityID *string) ir.ValidationIssue {
	if entityID != nil {
		return issue.WithEntityID(*entityID)
	}
	return issue
}
