package pdfsheet

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `---
FieldName: CharacterName
FieldValue: Delina Nightstar
FieldName: STRength
FieldValue: 14
FieldName: Dexterity
FieldValue: 18
FieldName: Background
FieldValue: Entertainer
---
`

func samplePlugin(t *testing.T) (*Plugin, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sheets/delina.pdf", []byte("%PDF-1.4 fake binary"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/sheets/delina.fields.txt", []byte(sampleDump), 0o644))
	return &Plugin{FS: fs}, "/sheets/delina.pdf"
}

func TestCanHandleRequiresSidecar(t *testing.T) {
	p, sourcePath := samplePlugin(t)
	assert.True(t, p.CanHandle(context.Background(), sourcePath))

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sheets/orphan.pdf", []byte("%PDF-1.4"), 0o644))
	orphan := &Plugin{FS: fs}
	assert.False(t, orphan.CanHandle(context.Background(), "/sheets/orphan.pdf"))
}

func TestParseCampaignExtractsNameAbilitiesAndNotes(t *testing.T) {
	p, sourcePath := samplePlugin(t)
	campaign, err := p.ParseCampaign(context.Background(), sourcePath)
	require.NoError(t, err)
	require.Len(t, campaign.Actors, 1)

	actor := campaign.Actors[0]
	assert.Equal(t, "Delina Nightstar", actor.Name)

	str, ok := actor.Attributes["strength"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 14.0, str)

	dex, ok := actor.Attributes["dexterity"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 18.0, dex)

	assert.Contains(t, actor.Notes, "Entertainer")
}

func TestExtractMetadataSetsPDFSheetSourceFormat(t *testing.T) {
	p, sourcePath := samplePlugin(t)
	meta, err := p.ExtractMetadata(context.Background(), sourcePath)
	require.NoError(t, err)
	assert.Equal(t, "Delina Nightstar", meta.Title)
}
