package business

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/validate/vconfig"
)

func TestHealthCurrentExceedsMaximumIsError(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	issues := v.ValidateHealthConsistency(15, 10, nil)
	assert.Len(t, issues, 1)
	assert.Equal(t, ir.SeverityError, issues[0].Severity)
}

func TestHealthNegativeCurrentIsWarningNotError(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	issues := v.ValidateHealthConsistency(-3, 10, nil)
	assert.Len(t, issues, 1)
	assert.Equal(t, ir.SeverityWarning, issues[0].Severity)
}

func TestHealthWithinRangeProducesNoIssues(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	assert.Empty(t, v.ValidateHealthConsistency(8, 10, nil))
}

func TestAbilityScoresFlagsMissingAndOutOfRange(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	issues := v.ValidateAbilityScores(map[string]int{
		"strength":     20,
		"dexterity":    0,
		"constitution": 14,
		"intelligence": 10,
		"wisdom":       10,
		// charisma missing
	}, nil)

	var messages []string
	for _, i := range issues {
		messages = append(messages, i.Message)
	}
	assert.Contains(t, messages, "Missing core ability score: charisma")
	assert.Contains(t, messages, "Ability score dexterity (0) is outside normal range (1-30)")
}

func TestAbilityScoresOrderIsDeterministic(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	abilities := map[string]int{"strength": 99, "dexterity": 99, "constitution": 99}
	first := v.ValidateAbilityScores(abilities, nil)
	second := v.ValidateAbilityScores(abilities, nil)
	assert.Equal(t, first, second)
}

func TestLevelZeroIsAlwaysError(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	issues := v.ValidateLevelProgression(0, nil)
	assert.Len(t, issues, 1)
	assert.Equal(t, ir.SeverityError, issues[0].Severity)
}

func TestLevelAboveTwentyUnderStrictWarns(t *testing.T) {
	v := New(vconfig.StrictnessStrict)
	issues := v.ValidateLevelProgression(25, nil)
	assert.NotEmpty(t, issues)
	for _, i := range issues {
		assert.Equal(t, ir.SeverityWarning, i.Severity)
	}
}

func TestLevelTwentyFiveUnderLenientProducesNoIssue(t *testing.T) {
	v := New(vconfig.StrictnessLenient)
	assert.Empty(t, v.ValidateLevelProgression(25, nil))
}

func TestLevelAboveTwentyUnderStandardWarns(t *testing.T) {
	v := New(vconfig.StrictnessStandard)
	issues := v.ValidateLevelProgression(21, nil)
	assert.Len(t, issues, 1)
	assert.Equal(t, ir.SeverityWarning, issues[0].Severity)
}
