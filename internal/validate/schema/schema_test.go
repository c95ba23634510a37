package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAgainstSchemaCatchesMissingRequiredField(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	issues, err := v.ValidateAgainstSchema("actor", map[string]any{
		"id": "abcd1234abcd1234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestValidateAgainstSchemaPassesWellFormedActor(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	issues, err := v.ValidateAgainstSchema("actor", map[string]any{
		"id":   "abcd1234abcd1234",
		"name": "Thistle",
		"type": "NPC",
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateAgainstSchemaUnknownEntityTypeIsNoOp(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	issues, err := v.ValidateAgainstSchema("unregistered-entity", map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateEntityIDRejectsShortIDs(t *testing.T) {
	issue := ValidateEntityID("actor", "short")
	assert.NotNil(t, issue)
}

func TestValidateEntityIDEmptyIDReportsExactMessage(t *testing.T) {
	issue := ValidateEntityID("actor", "")
	require.NotNil(t, issue)
	assert.Equal(t, "Entity ID cannot be empty", issue.Message)
	require.NotNil(t, issue.Field)
	assert.Equal(t, "id", *issue.Field)
}

func TestValidateEntityIDAcceptsSixteenToTwentyChars(t *testing.T) {
	assert.Nil(t, ValidateEntityID("actor", "abcd1234abcd1234"))
	assert.Nil(t, ValidateEntityID("actor", "abcd1234abcd1234abcd"))
}

func TestValidateRequiredFieldsReportsEachMissingField(t *testing.T) {
	issues := ValidateRequiredFields("scene", map[string]any{"name": "The Crypt"}, []string{"id", "name"})
	assert.Len(t, issues, 1)
	assert.Equal(t, "id", *issues[0].Field)
}

func TestGenerateTemplateProducesRequiredFieldSkeleton(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	template, ok := v.GenerateTemplate("actor")
	require.True(t, ok)
	assert.Contains(t, template, "id")
	assert.Contains(t, template, "name")
	assert.Contains(t, template, "type")
}
