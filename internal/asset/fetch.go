// Package asset implements spec §4.5: discovering external references
// reachable from a campaign, fetching and deduplicating their bytes, and
// laying them out in a content-addressed cache.
package asset

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/afero"

	"ttrpgconv/internal/errs"
)

// Fetcher resolves a single asset reference to its raw bytes. Local and
// remote sources share this interface so Processor never branches on
// source kind beyond picking which Fetcher to call.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// LocalFetcher resolves relative/absolute filesystem paths through an
// afero.Fs, so tests can substitute an in-memory filesystem without
// touching disk.
type LocalFetcher struct {
	FS afero.Fs
}

// NewLocalFetcher returns a LocalFetcher backed by the OS filesystem.
func NewLocalFetcher() LocalFetcher {
	return LocalFetcher{FS: afero.NewOsFs()}
}

func (f LocalFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Cancelled("asset.fetch.local")
	}
	file, err := f.FS.Open(source)
	if err != nil {
		return nil, errs.AssetFailed("asset.fetch.local", errs.AssetNotFound, source, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// HTTPFetcher resolves http(s) URLs through a shared *http.Client.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher using http.DefaultClient.
func NewHTTPFetcher() HTTPFetcher {
	return HTTPFetcher{Client: http.DefaultClient}
}

func (f HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errs.InvalidInput("asset.fetch.http", "source", "malformed asset URL: "+source)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.AssetFailed("asset.fetch.http", errs.AssetNetworkError, source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.AssetFailed("asset.fetch.http", errs.AssetNetworkError, source, nil)
	}
	return io.ReadAll(resp.Body)
}

// ResolveFetcher picks the Fetcher appropriate for source: HTTPFetcher for
// http(s) URLs, LocalFetcher otherwise.
func ResolveFetcher(source string, local LocalFetcher, remote HTTPFetcher) Fetcher {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return remote
	}
	return local
}

// isAbs reports whether source is a URL (http(s) or any other scheme) or
// an absolute OS path.
func isAbs(source string) bool {
	if source == "" {
		return false
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return true
	}
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		return true
	}
	return os.IsPathSeparator(source[0])
}
