package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/diagram"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/render/sink"
	"github.com/matzehuels/famtree/pkg/scheduler"
	"github.com/matzehuels/famtree/pkg/surface"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	root, style, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = root
	result.Style = style
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.MemberCount = len(family.NewWindow(root).Members())
	result.TreeHash = cache.Hash(family.Fingerprint(root))

	opts.Logger.Info("loaded tree",
		"source", opts.Source(),
		"members", result.Stats.MemberCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	if !opts.IsNodelink() {
		layoutStart := time.Now()
		scene, err := r.Layout(ctx, root, style, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Scene = scene
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.Stats.SegmentCount = len(scene.Result.Segments)

		opts.Logger.Info("computed layout",
			"cards", len(scene.Cards),
			"segments", result.Stats.SegmentCount,
			"duration", result.Stats.LayoutTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the tree and resolves the connector style.
func (r *Runner) Load(ctx context.Context, opts Options) (*family.Member, connector.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, connector.Config{}, err
	}
	hooks := observability.Pipeline()
	src := opts.Source()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	root, err := loadTree(opts)
	members := 0
	if root != nil {
		members = len(family.NewWindow(root).Members())
	}
	hooks.OnLoadComplete(ctx, src, members, time.Since(start), err)
	if err != nil {
		return nil, connector.Config{}, err
	}

	style, err := resolveStyle(opts)
	if err != nil {
		return nil, connector.Config{}, err
	}
	return root, style, nil
}

// Layout places the cards on a fresh surface and runs one diagram pass.
// The diagram is driven by a manual clock, so the pass is synchronous and
// no timers outlive the call.
func (r *Runner) Layout(ctx context.Context, root *family.Member, style connector.Config, opts Options) (sink.Scene, error) {
	if err := ctx.Err(); err != nil {
		return sink.Scene{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(family.NewWindow(root).Members()))
	start := time.Now()

	view := surface.New(opts.surfaceOptions()...)
	clock := scheduler.NewManualClock()
	d := diagram.New(root, style, view,
		diagram.WithClock(clock),
		diagram.WithLogger(opts.Logger))
	d.Mount()
	if opts.ScrollX != 0 || opts.ScrollY != 0 {
		d.Scroll(opts.ScrollX, opts.ScrollY)
		clock.Flush()
	}
	res := d.Result()
	d.Close()

	scene := sink.NewScene(view, res, style, opts.Preset)
	hooks.OnLayoutComplete(ctx, opts.VizType, len(res.Segments), time.Since(start), nil)
	return scene, nil
}

// RenderWithCacheInfo renders every requested format, serving cached
// artifacts where possible, and reports whether all of them were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	styleHash := hashStyle(res.Style)
	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(res.TreeHash, opts.ArtifactKeyOpts(format, styleHash))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				cacheHooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, "artifact")
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var rendered []string
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		data, err := renderFormat(ctx, res, opts, format)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		rendered = append(rendered, format)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	// Artifacts are stored only once every format has rendered.
	for _, format := range rendered {
		data := artifacts[format]
		key := r.Keyer.ArtifactKey(res.TreeHash, opts.ArtifactKeyOpts(format, styleHash))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
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

// hashStyle fingerprints a resolved style so overrides get their own
// cache entries.
func hashStyle(cfg connector.Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
