package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bdekoz/izzi/pkg/cache"
	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/observability"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/group"
)

// Runner encapsulates pipeline execution with caching. The CLI, batch
// runner and server all use it.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, pairs []radial.Pair, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{DataHash: HashPairs(pairs)}

	// Stage 1: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, pairs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats = layoutStats(pairs, layout)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"placements", result.Stats.Placements,
		"promoted", result.Stats.Promoted,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, layoutHash, renderHit, err := r.render(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.LayoutHash = layoutHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, pairs []radial.Pair, opts Options) (radial.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return radial.Layout{}, false, err
	}

	valueMax := EffectiveMax(pairs, opts.ValueMax)
	cacheKey := r.Keyer.LayoutKey(HashPairs(pairs), opts.LayoutKeyOpts(valueMax))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := io.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("layout cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(pairs))
	start := time.Now()
	layout, err := ComputeLayout(pairs, opts)
	hooks.OnLayoutComplete(ctx, observability.LayoutStats{
		Placements: len(layout.Placements),
		Promoted:   countPromoted(layout),
		Elided:     len(layout.Elided),
	}, time.Since(start), err)
	if err != nil {
		return radial.Layout{}, false, err
	}

	if data, err := io.MarshalLayout(layout); err == nil {
		r.store(ctx, "layout", cacheKey, data, r.ttl(cache.TTLLayout), opts.Logger)
	}
	return layout, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, pairs []radial.Pair, opts Options) (radial.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, pairs, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout radial.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	artifacts, _, hit, err := r.render(ctx, layout, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout radial.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, layout radial.Layout, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	layoutData, err := io.MarshalLayout(layout)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, layoutHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, layout, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, r.ttl(cache.TTLArtifact), opts.Logger)
	}
	return rendered, layoutHash, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(stage time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return stage
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashPairs identifies a dataset independent of input order.
func HashPairs(pairs []radial.Pair) string {
	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, func(a, b radial.Pair) int { return group.CompareIDs(a.ID, b.ID) })
	data, _ := json.Marshal(sorted)
	return cache.Hash(data)
}

func countPromoted(l radial.Layout) int {
	n := 0
	for _, p := range l.Placements {
		if p.Promoted {
			n++
		}
	}
	return n
}

func layoutStats(pairs []radial.Pair, l radial.Layout) Stats {
	return Stats{
		IDs:        len(pairs),
		Placements: len(l.Placements),
		Promoted:   countPromoted(l),
		Elided:     len(l.Elided),
	}
}
