package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdiagram/pkg/cache"
	"github.com/matzehuels/seqdiagram/pkg/diagram"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
	"github.com/matzehuels/seqdiagram/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, in diagram.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Validate before hashing: non-finite states cannot be encoded as JSON.
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}

	result := &Result{
		InputHash: inputHash,
		Stats:     Stats{Devices: len(in.Devices), Steps: in.MaxStep + 1},
	}

	layoutStart := time.Now()
	d, layoutHit, err := r.LayoutWithCacheInfo(ctx, in, inputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Debug("laid out diagram",
		"devices", result.Stats.Devices,
		"steps", result.Stats.Steps,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, in, inputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered diagram",
		"view", opts.View,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out in, consulting the cache first, and reports
// whether the result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, in diagram.Input, inputHash string, opts Options) (*diagram.Diagram, bool, error) {
	r.applyLogger(&opts)
	hooks := observability.Cache()
	key := r.Keyer.LayoutKey(inputHash)

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		if hit {
			if d, err := pkgio.ReadLayoutJSON(bytes.NewReader(data)); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return d, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	d, err := Layout(ctx, in)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteLayoutJSON(d, &buf); err == nil {
		r.store(ctx, opts, key, keyTypeLayout, buf.Bytes(), cache.TTLLayout)
	}
	return d, false, nil
}

// RenderWithCacheInfo renders every requested format, serving what it can
// from the cache. The bool result is true when no format had to be
// rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, in diagram.Input, inputHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "key", key, "err", err)
			}
			if hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, d, in, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts, key, keyTypeArtifact, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// store writes to the cache. Failures are logged and otherwise ignored: a
// broken cache must never fail a render.
func (r *Runner) store(ctx context.Context, opts Options, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
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
