package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
)

// ProcessorConfig bounds a Processor's concurrency and retry behavior.
type ProcessorConfig struct {
	CacheRoot        string
	MaxConcurrency   int64 // default weight matches spec §4.5's default of 8
	MaxRetries       uint64
}

// DefaultProcessorConfig returns the spec-default concurrency/retry shape:
// 8 concurrent fetches and 3 fetch attempts (the first plus 2 retries).
func DefaultProcessorConfig(cacheRoot string) ProcessorConfig {
	return ProcessorConfig{CacheRoot: cacheRoot, MaxConcurrency: 8, MaxRetries: 2}
}

// Processor fetches, deduplicates, and caches AssetInfo references.
// Deduplication happens at two levels: AssetInfo.Key() (discovery-time,
// same reference seen twice) and content hash after fetch (different
// references that happen to resolve to identical bytes — spec §8 Scenario
// B). Concurrent cache writes of the same content hash collapse through
// singleflight so each hash is written once; the fetches themselves are not
// collapsed, since the hash is known only after a fetch.
type Processor struct {
	cfg   ProcessorConfig
	fs    afero.Fs
	local LocalFetcher
	http  HTTPFetcher
	sem   *semaphore.Weighted
	group singleflight.Group

	mu         sync.Mutex
	byHash     map[string]ir.ProcessedAsset
	dedupNotes []ir.ConversionNote
}

// NewProcessor returns a Processor backed by the OS filesystem and
// http.DefaultClient.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		local:  NewLocalFetcher(),
		http:   NewHTTPFetcher(),
		sem:    semaphore.NewWeighted(cfg.MaxConcurrency),
		byHash: map[string]ir.ProcessedAsset{},
	}
}

// ProcessAll resolves every asset concurrently (bounded by
// cfg.MaxConcurrency) and returns ProcessedAssets in the same order as
// assets, preserving the discovery-order guarantee of spec §4.6 even
// though fetches complete out of order.
func (p *Processor) ProcessAll(ctx context.Context, assets []ir.AssetInfo) ([]ir.ProcessedAsset, []ir.ConversionNote, error) {
	results := make([]ir.ProcessedAsset, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			if err := p.sem.Acquire(gctx, 1); err != nil {
				return errs.Cancelled("asset.process_all")
			}
			defer p.sem.Release(1)

			processed, err := p.processOne(gctx, asset)
			if err != nil {
				return err
			}
			results[i] = processed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	p.mu.Lock()
	notes := append([]ir.ConversionNote(nil), p.dedupNotes...)
	p.mu.Unlock()

	return results, notes, nil
}

func (p *Processor) processOne(ctx context.Context, asset ir.AssetInfo) (ir.ProcessedAsset, error) {
	fetcher := ResolveFetcher(asset.Source, p.local, p.http)

	var data []byte
	err := backoff.Retry(func() error {
		b, err := fetcher.Fetch(ctx, asset.Source)
		if err != nil {
			var e *errs.Error
			if errs.IsCancelled(err) || (errors.As(err, &e) && !e.Retryable()) {
				return backoff.Permanent(err)
			}
			return err
		}
		data = b
		return nil
	}, backoff.WithMaxRetries(backoff.WithContext(backoff.NewExponentialBackOff(), ctx), p.cfg.MaxRetries))
	if err != nil {
		return ir.ProcessedAsset{}, errs.AssetFailed("asset.process", errs.AssetNetworkError, asset.Source, err)
	}

	hash := contentHash(data)

	cachedAny, _, _ := p.group.Do(hash, func() (any, error) {
		p.mu.Lock()
		if existing, ok := p.byHash[hash]; ok {
			p.mu.Unlock()
			return existing, nil
		}
		p.mu.Unlock()

		cachePath := CachePath(p.cfg.CacheRoot, hash, filepath.Ext(asset.Source))
		if err := afero.WriteFile(p.fs, cachePath, data, 0o644); err != nil {
			return nil, errs.AssetFailed("asset.process.cache_write", errs.AssetCacheWriteFailed, asset.Source, err)
		}

		processed := ir.NewProcessedAsset(asset)
		processed.ProcessedPath = cachePath
		processed.ContentHash = hash

		p.mu.Lock()
		p.byHash[hash] = processed
		p.mu.Unlock()
		return processed, nil
	})

	cached := cachedAny.(ir.ProcessedAsset)
	if cached.Original.Key() != asset.Key() {
		p.mu.Lock()
		p.dedupNotes = append(p.dedupNotes, ir.ConversionNote{
			Timestamp: time.Now().UTC(),
			Category:  ir.ConversionAssetProcessing,
			Message:   fmt.Sprintf("deduplicated asset %q against identical content from %q", asset.Source, cached.Original.Source),
		})
		p.mu.Unlock()
	}

	out := ir.NewProcessedAsset(asset)
	out.ProcessedPath = cached.ProcessedPath
	out.ContentHash = hash
	return out, nil
}

// CachePath returns the content-addressed cache location for hash:
// {cache_root}/{hash[0..2]}/{hash}{ext}.
func CachePath(cacheRoot, hash, ext string) string {
	return filepath.Join(cacheRoot, hash[:2], hash+ext)
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
