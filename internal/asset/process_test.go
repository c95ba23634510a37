package asset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttrpgconv/internal/ir"
)

func TestProcessAllDeduplicatesIdenticalContent(t *testing.T) {
	bodyA := []byte("same-bytes")
	bodyB := []byte("same-bytes")
	bodyC := []byte("different-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Write(bodyA)
		case "/b":
			w.Write(bodyB)
		case "/c":
			w.Write(bodyC)
		}
	}))
	defer srv.Close()

	p := NewProcessor(DefaultProcessorConfig(t.TempDir()))
	p.fs = afero.NewMemMapFs()

	assets := []ir.AssetInfo{
		{Source: srv.URL + "/a", AssetType: ir.AssetTypeCharacterArt},
		{Source: srv.URL + "/b", AssetType: ir.AssetTypeMapBackground},
		{Source: srv.URL + "/c", AssetType: ir.AssetTypeTokenImage},
	}

	processed, notes, err := p.ProcessAll(context.Background(), assets)
	require.NoError(t, err)
	require.Len(t, processed, 3)

	assert.Equal(t, processed[0].ContentHash, processed[1].ContentHash)
	assert.NotEqual(t, processed[0].ContentHash, processed[2].ContentHash)

	dedupFound := false
	for _, n := range notes {
		if n.Category == ir.ConversionAssetProcessing {
			dedupFound = true
		}
	}
	assert.True(t, dedupFound, "expected at least one dedup ConversionNote")
}

func TestProcessAllCancelsWithoutPartialWork(t *testing.T) {
	p := NewProcessor(DefaultProcessorConfig(t.TempDir()))
	p.fs = afero.NewMemMapFs()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assets := []ir.AssetInfo{
		{Source: "/does/not/matter.png", AssetType: ir.AssetTypeCharacterArt},
	}

	_, _, err := p.ProcessAll(ctx, assets)
	assert.Error(t, err)
}

func TestDiscovererDeduplicatesByKeyAndPreservesOrder(t *testing.T) {
	campaign := ir.NewCampaign()
	avatar := "https://example.com/a.png"
	token := "https://example.com/t.png"

	actor1 := ir.NewActor("One", ir.ActorTypePC)
	actor1.Images.Avatar = &avatar
	actor2 := ir.NewActor("Two", ir.ActorTypePC)
	actor2.Images.Avatar = &avatar // duplicate reference, should collapse
	actor2.Images.Token = &token

	campaign.Actors = append(campaign.Actors, actor1, actor2)

	discovered := NewDiscoverer().Discover(&campaign)
	require.Len(t, discovered, 2)
	assert.Equal(t, avatar, discovered[0].Source)
	assert.Equal(t, token, discovered[1].Source)
}

func TestCachePathLayout(t *testing.T) {
	path := CachePath("/cache", "abcdef1234567890", ".png")
	assert.Equal(t, "/cache/ab/abcdef1234567890.png", path)
}
