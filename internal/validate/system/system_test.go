package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePathMissingFileIsWarning(t *testing.T) {
	issues := ValidateFilePath("item", "/no/such/path.png", FileCheckConfig{})
	assert.Len(t, issues, 1)
}

func TestValidateFilePathDisallowedExtensionIsWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.exe")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	issues := ValidateFilePath("actor", path, FileCheckConfig{AllowedExtensions: map[string]struct{}{"png": {}}})
	assert.Len(t, issues, 1)
}

func TestValidateFilePathOversizeIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	issues := ValidateFilePath("scene", path, FileCheckConfig{
		AllowedExtensions: map[string]struct{}{"png": {}},
		MaxFileSizeBytes:  4,
	})
	require.Len(t, issues, 1)
	assert.Equal(t, 0, int(issues[0].Severity)) // SeverityError == 0
}

func TestValidateURLRejectsUnparseableInput(t *testing.T) {
	issues := ValidateURL(context.Background(), "actor", "not a url", URLCheckConfig{})
	require.Len(t, issues, 1)
}

func TestValidateURLFlagsNonAllowlistedDomain(t *testing.T) {
	issues := ValidateURL(context.Background(), "scene", "https://evil.example.com/bg.png", URLCheckConfig{
		AllowedDomains: map[string]struct{}{"roll20.net": {}},
	})
	assert.NotEmpty(t, issues)
}

func TestValidatePermissionDeniesSystemWriteForNonAdmin(t *testing.T) {
	issues := ValidatePermission("campaign", "write", "system/config.json", false)
	require.Len(t, issues, 1)
	assert.Equal(t, 0, int(issues[0].Severity))
}

func TestValidatePermissionAllowsSystemWriteForAdmin(t *testing.T) {
	issues := ValidatePermission("campaign", "write", "system/config.json", true)
	assert.Empty(t, issues)
}

func TestValidatePermissionUnknownActionIsWarning(t *testing.T) {
	issues := ValidatePermission("campaign", "frobnicate", "anything", false)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, int(issues[0].Severity)) // SeverityWarning == 1
}
