package bundle

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

func TestWriteStagesThenRenamesAtomically(t *testing.T) {
	w := &Writer{FS: afero.NewMemMapFs()}
	b := ir.NewOutputBundle()
	b.AddFile("campaign.json", `{"title":"Test"}`)

	err := w.Write(b, "/out/world", plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)

	exists, err := afero.Exists(w.FS, "/out/world/campaign.json")
	require.NoError(t, err)
	assert.True(t, exists)

	entries, err := afero.ReadDir(w.FS, "/out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "world", entries[0].Name())
}

func TestWriteRejectsExistingTargetWithoutOverwrite(t *testing.T) {
	w := &Writer{FS: afero.NewMemMapFs()}
	require.NoError(t, w.FS.MkdirAll("/out/world", 0o755))

	b := ir.NewOutputBundle()
	err := w.Write(b, "/out/world", plugin.WriteOptions{})
	assert.Error(t, err)
}

func TestWriteOverwritesExistingWhenAllowed(t *testing.T) {
	w := &Writer{FS: afero.NewMemMapFs()}
	require.NoError(t, w.FS.MkdirAll("/out/world", 0o755))
	require.NoError(t, afero.WriteFile(w.FS, "/out/world/stale.json", []byte("old"), 0o644))

	b := ir.NewOutputBundle()
	b.AddFile("campaign.json", "{}")

	err := w.Write(b, "/out/world", plugin.WriteOptions{OverwriteExisting: true, CreateDirectories: true})
	require.NoError(t, err)

	staleExists, _ := afero.Exists(w.FS, "/out/world/stale.json")
	assert.False(t, staleExists)
}

func TestWriteAssetsReadsFromSourcePath(t *testing.T) {
	w := &Writer{FS: afero.NewMemMapFs()}
	require.NoError(t, afero.WriteFile(w.FS, "/cache/ab/abc.png", []byte("bytes"), 0o644))

	b := ir.NewOutputBundle()
	b.AddAsset("assets/token.png", "/cache/ab/abc.png")

	err := w.Write(b, "/out/world", plugin.WriteOptions{CreateDirectories: true})
	require.NoError(t, err)

	data, err := afero.ReadFile(w.FS, "/out/world/assets/token.png")
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}
