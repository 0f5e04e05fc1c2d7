package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/cache"
	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/observability"
	"github.com/matzehuels/blockgen/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
//
// Runs build their own generator, so multiple goroutines can share one
// Runner. The exception is Options.StableNames: those runs share one
// long-lived generator per language setup, whose name database carries
// identifiers from run to run, and take turns on it.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-artifact cache lifetimes when non-zero.
	TTL time.Duration

	mu     sync.Mutex
	stable map[string]*stableGenerator
}

// stableGenerator serializes passes on a generator that outlives one run.
type stableGenerator struct {
	mu  sync.Mutex
	gen *generator.Generator
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

// Execute runs the generate stage and, when opts.Graph is set, the render
// stage for ws.
func (r *Runner) Execute(ctx context.Context, ws *block.Workspace, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	hash, err := WorkspaceHash(ws)
	if err != nil {
		return nil, err
	}
	result := &Result{WorkspaceHash: hash}
	result.Stats.BlockCount = blockCount(ws)

	// Stage 1: Generate
	genStart := time.Now()
	out, genHit, err := r.generate(ctx, ws, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Code = out.Code
	result.Functions = out.Functions
	result.Stats.TopBlocks = out.TopBlocks
	result.Stats.Functions = len(out.Functions)
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.GenerateHit = genHit

	r.Logger.Info("generated code",
		"language", opts.Language,
		"top_blocks", out.TopBlocks,
		"functions", len(out.Functions),
		"cached", genHit,
		"duration", result.Stats.GenerateTime)

	if !opts.Graph {
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	graph, renderHit, err := r.render(ctx, ws, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Graph = graph
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered graph",
		"format", opts.GraphFormat,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo runs one generation pass with caching and reports
// whether the output came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, ws *block.Workspace, opts Options) (*generator.Output, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := WorkspaceHash(ws)
	if err != nil {
		return nil, false, err
	}
	return r.generate(ctx, ws, hash, opts)
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, ws *block.Workspace, opts Options) (*generator.Output, error) {
	out, _, err := r.GenerateWithCacheInfo(ctx, ws, opts)
	return out, err
}

func (r *Runner) generate(ctx context.Context, ws *block.Workspace, hash string, opts Options) (*generator.Output, bool, error) {
	// A shared name database makes output depend on earlier runs.
	cacheable := opts.NameDB == nil && !opts.StableNames
	cacheKey := r.Keyer.CodeKey(opts.Language, hash, opts.CodeKeyOpts())

	if cacheable && !opts.Refresh {
		if data, ok := r.lookup(ctx, "code", cacheKey); ok {
			var cached generator.Output
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
	}

	start := time.Now()
	topBlocks := len(ws.TopBlocks())
	observability.Pipeline().OnGenerateStart(ctx, opts.Language, topBlocks)
	out, err := r.runPass(ctx, ws, opts)
	size := 0
	if out != nil {
		size = len(out.Code)
	}
	observability.Pipeline().OnGenerateComplete(ctx, opts.Language, size, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := json.Marshal(out); err == nil {
			r.store(ctx, "code", cacheKey, data, r.ttl(cache.TTLCode))
		}
	}
	return out, false, nil
}

func (r *Runner) runPass(ctx context.Context, ws *block.Workspace, opts Options) (*generator.Output, error) {
	if opts.StableNames && opts.NameDB == nil {
		sg, err := r.stableGenerator(opts)
		if err != nil {
			return nil, err
		}
		sg.mu.Lock()
		defer sg.mu.Unlock()
		return sg.gen.Generate(ctx, ws)
	}
	g, err := opts.NewGenerator()
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, ws)
}

// stableGenerator returns the shared generator for the language setup in
// opts, creating it on first use.
func (r *Runner) stableGenerator(opts Options) (*stableGenerator, error) {
	key := strings.Join([]string{opts.Language, opts.Indent, strings.Join(opts.ReservedWords, ",")}, "\x00")

	r.mu.Lock()
	defer r.mu.Unlock()
	if sg, ok := r.stable[key]; ok {
		return sg, nil
	}
	g, err := opts.NewGenerator()
	if err != nil {
		return nil, err
	}
	if r.stable == nil {
		r.stable = make(map[string]*stableGenerator)
	}
	sg := &stableGenerator{gen: g}
	r.stable[key] = sg
	return sg, nil
}

// RenderWithCacheInfo draws the block graph of ws with caching and reports
// whether the artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ws *block.Workspace, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := WorkspaceHash(ws)
	if err != nil {
		return nil, false, err
	}
	return r.render(ctx, ws, hash, opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ws *block.Workspace, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, ws, opts)
	return data, err
}

func (r *Runner) render(ctx context.Context, ws *block.Workspace, hash string, opts Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.GraphKey(hash, opts.GraphKeyOpts())
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "graph", cacheKey); ok {
			return data, true, nil
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.GraphFormat)
	data, err := nodelink.Render(ctx, ws, opts.GraphFormat, nodelink.Options{Detailed: opts.Detailed})
	observability.Pipeline().OnRenderComplete(ctx, opts.GraphFormat, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "graph", cacheKey, data, r.ttl(cache.TTLGraph))
	return data, false, nil
}

// lookup reads key from the cache. Backend errors are logged and count as
// misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		observability.Cache().OnCacheError(ctx, keyType, err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	case !hit:
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes key to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		observability.Cache().OnCacheError(ctx, keyType, err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
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
