package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/folio-reports/folio/pkg/cache"
	"github.com/folio-reports/folio/pkg/compile"
	folioerrors "github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/ir"
	"github.com/folio-reports/folio/pkg/layout"
	"github.com/folio-reports/folio/pkg/observability"
	"github.com/folio-reports/folio/pkg/typst"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
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

// Execute runs the complete load → compile → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	source := opts.DefinitionPath
	if source == "" {
		source = "inline"
	}
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)
	def, defHash, err := r.Load(opts)
	observability.Pipeline().OnLoadComplete(ctx, source, layoutCount(def), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Definition = def
	result.DefinitionHash = defHash
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded definition",
		"layouts", len(def.Layouts),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compile
	compileStart := time.Now()
	observability.Pipeline().OnCompileStart(ctx, len(def.Layouts))
	layouts, compileHit, err := r.CompileWithCacheInfo(ctx, def, defHash, opts)
	observability.Pipeline().OnCompileComplete(ctx, len(def.Layouts), time.Since(compileStart), err)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Layouts = layouts
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.LayoutCount = len(layouts)
	result.CacheInfo.CompileHit = compileHit

	// Compute IR hash for cache keys and API responses
	if irData, err := ir.Marshal(layouts); err == nil {
		result.IRHash = cache.Hash(irData)
	}

	r.Logger.Info("compiled layouts",
		"count", len(layouts),
		"duration", result.Stats.CompileTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layouts, def, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load parses the report definition and returns it with the content hash
// of the definition bytes. Loading is not cached: parsing is cheap and the
// hash anchors the cache keys of the later stages.
func (r *Runner) Load(opts Options) (*layout.Definition, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	raw := opts.Definition
	format := opts.DefinitionFormat
	if opts.DefinitionPath != "" {
		data, err := os.ReadFile(opts.DefinitionPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, "", folioerrors.New(folioerrors.ErrCodeFileNotFound,
					"definition file not found: %s", opts.DefinitionPath)
			}
			return nil, "", folioerrors.Wrap(folioerrors.ErrCodeInvalidPath, err,
				"failed to read definition file")
		}
		raw = data
		format = strings.TrimPrefix(filepath.Ext(opts.DefinitionPath), ".")
	}

	def, err := layout.Parse(raw, format)
	if err != nil {
		return nil, "", err
	}
	return def, cache.Hash(raw), nil
}

// CompileWithCacheInfo compiles a definition into IR with caching and
// returns cache hit info.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, def *layout.Definition, defHash string, opts Options) ([]ir.Node, bool, error) {
	cacheKey := r.Keyer.IRKey(defHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			layouts, err := ir.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "ir")
				return layouts, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompile
		}
	}
	observability.Cache().OnCacheMiss(ctx, "ir")

	layouts, err := compile.Document(def)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := ir.Marshal(layouts); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLIR)
		observability.Cache().OnCacheSet(ctx, "ir", len(data))
	}

	return layouts, false, nil // Cache miss
}

// Compile is a convenience wrapper that calls CompileWithCacheInfo and discards the cache hit info.
func (r *Runner) Compile(ctx context.Context, def *layout.Definition, defHash string, opts Options) ([]ir.Node, error) {
	layouts, _, err := r.CompileWithCacheInfo(ctx, def, defHash, opts)
	return layouts, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layouts []ir.Node, def *layout.Definition, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from IR data
	irData, err := ir.Marshal(layouts)
	if err != nil {
		return nil, false, fmt.Errorf("serialize IR for cache key: %w", err)
	}
	irHash := cache.Hash(irData)

	data, dataHash, err := r.renderData(def, opts)
	if err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(irHash, artifactKeyOpts(format, dataHash, opts))
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = cached
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatTyp:
			docOpts := typst.DocumentOptions{}
			if !opts.NoPreamble && def != nil {
				docOpts = typst.OptionsFromMap(def.Options)
			}
			rendered[format] = []byte(typst.RenderDocument(layouts, data, docOpts))
		case FormatJSON:
			rendered[format] = irData
		}
	}

	// Cache each format
	for format, artifact := range rendered {
		cacheKey := r.Keyer.ArtifactKey(irHash, artifactKeyOpts(format, dataHash, opts))
		_ = r.Cache.Set(ctx, cacheKey, artifact, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layouts []ir.Node, def *layout.Definition, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layouts, def, opts)
	return artifacts, err
}

// renderData assembles the effective data context: the definition's own
// data table, overlaid by a data file, overlaid by inline data. The hash
// of the merged context feeds the artifact cache keys.
func (r *Runner) renderData(def *layout.Definition, opts Options) (map[string]any, string, error) {
	var base map[string]any
	if def != nil {
		base = def.Data
	}

	merged := base
	if opts.DataPath != "" {
		external, err := LoadData(opts.DataPath)
		if err != nil {
			return nil, "", err
		}
		merged = MergeData(merged, external)
	}
	if len(opts.Data) > 0 {
		merged = MergeData(merged, opts.Data)
	}

	// encoding/json sorts map keys, so the hash is stable.
	hashInput, err := json.Marshal(merged)
	if err != nil {
		return nil, "", fmt.Errorf("serialize data context for cache key: %w", err)
	}
	return merged, cache.Hash(hashInput), nil
}

func artifactKeyOpts(format, dataHash string, opts Options) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		DataHash: dataHash,
		Preamble: !opts.NoPreamble,
	}
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

func layoutCount(def *layout.Definition) int {
	if def == nil {
		return 0
	}
	return len(def.Layouts)
}
