package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamelink/pkg/buildinfo"
	"github.com/matzehuels/flamelink/pkg/cache"
	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/flame"
	"github.com/matzehuels/flamelink/pkg/kernel"
	"github.com/matzehuels/flamelink/pkg/library"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/observability"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

// Runner executes the pipeline with caching.
//
// The Runner keeps no per-run state, so multiple goroutines can share one
// with different options as long as Catalog and Library are frozen.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Catalog *catalog.Catalog
	Library *library.Table

	catalogOnce sync.Once
	catalogID   string
}

// NewRunner creates a runner over the built-in catalog and library.
// A nil keyer means DefaultKeyer, a nil cache disables caching.
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
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Catalog: variations.Default(),
		Library: std.Default(),
	}
}

// cachedKernel is the cache entry for an assembled kernel.
type cachedKernel struct {
	Kernel    *kernel.Kernel     `json:"kernel"`
	Validated bool               `json:"validated"`
	Conflicts []resolve.Conflict `json:"conflicts,omitempty"`
}

// Execute runs the full pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Load
	start := time.Now()
	label := opts.Path
	if label == "" || len(opts.Source) > 0 {
		label = "<inline>"
	}
	hooks.OnLoadStart(ctx, label)
	src, f, err := r.load(opts)
	if err == nil {
		result.Flame = f
		result.Request, result.Warnings, err = flame.ToRequest(f, r.Catalog, flame.Options{SkipUnknown: opts.SkipUnknown})
	}
	result.Stats.LoadTime = time.Since(start)
	hooks.OnLoadComplete(ctx, label, len(result.Request.Transforms), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		logger.Warn("skipped", "where", w.String(), "code", w.Code)
	}
	result.Stats.Transforms = len(result.Request.Transforms)
	for _, xf := range result.Request.Transforms {
		result.Stats.Placements += len(xf.Variations)
	}
	logger.Debug("loaded flame",
		"name", f.Name,
		"transforms", result.Stats.Transforms,
		"placements", result.Stats.Placements,
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2+3: Compose and assemble, or reuse a cached kernel.
	key := r.Keyer.KernelKey(cache.Hash(src), opts.KernelKeyOpts(r.CatalogID()))
	entry, hit := r.cachedKernel(ctx, key, opts)
	if hit {
		result.Kernel = entry.Kernel
		result.Conflicts = entry.Conflicts
		result.CacheInfo.KernelHit = true
		logger.Debug("kernel cache hit", "key", key)
		for _, c := range entry.Conflicts {
			logger.Warn("conflicting library order", "conflict", c.String())
		}
	} else {
		start = time.Now()
		hooks.OnComposeStart(ctx, result.Stats.Placements)
		comp, err := compose.New(r.Catalog, r.Library, compose.Options{
			Mode:   opts.mode,
			Strict: opts.Strict,
			Logger: logger,
		}).Compose(result.Request)
		var k *kernel.Kernel
		if err == nil {
			k, err = kernel.Assemble(comp, kernel.Options{
				WorkgroupSize: opts.WorkgroupSize,
				NoEntryPoint:  opts.NoEntryPoint,
			})
		}
		result.Stats.ComposeTime = time.Since(start)
		if err != nil {
			hooks.OnComposeComplete(ctx, 0, 0, result.Stats.ComposeTime, err)
			return nil, err
		}
		hooks.OnComposeComplete(ctx, len(comp.Libraries), len(comp.Blocks), result.Stats.ComposeTime, nil)
		for _, c := range comp.Conflicts {
			logger.Warn("conflicting library order", "conflict", c.String())
		}
		result.Composition = comp
		result.Conflicts = comp.Conflicts
		result.Kernel = k
		entry = cachedKernel{Kernel: k, Conflicts: comp.Conflicts}
		logger.Debug("composed kernel",
			"libraries", len(comp.Libraries),
			"blocks", len(comp.Blocks),
			"duration", result.Stats.ComposeTime)
	}
	if result.Composition != nil {
		result.Stats.Libraries = len(result.Composition.Libraries)
	}
	result.Stats.SourceBytes = len(result.Kernel.Source)

	// Stage 4: Shader checks
	shaderStart := time.Now()
	if opts.Validate && !entry.Validated {
		hooks.OnShaderStart(ctx, "validate")
		err := kernel.Validate(result.Kernel.Source)
		hooks.OnShaderComplete(ctx, "validate", len(result.Kernel.Source), time.Since(shaderStart), err)
		if err != nil {
			return nil, err
		}
		entry.Validated = true
		hit = false
	}
	if !hit {
		r.storeKernel(ctx, key, entry)
	}

	if opts.Compile {
		spirv, spirvHit, err := r.compile(ctx, result.Kernel.Source, opts)
		if err != nil {
			return nil, err
		}
		result.SPIRV = spirv
		result.CacheInfo.SPIRVHit = spirvHit
	}
	result.Stats.ShaderTime = time.Since(shaderStart)

	logger.Info("kernel ready",
		"flame", f.Name,
		"bytes", result.Stats.SourceBytes,
		"cached", result.CacheInfo.KernelHit,
		"warnings", len(result.Warnings))
	return result, nil
}

// load reads and decodes the flame, returning the raw bytes for hashing.
func (r *Runner) load(opts Options) ([]byte, *flame.Flame, error) {
	src := opts.Source
	if len(src) == 0 {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read flame").With("path", opts.Path)
		}
		src = data
	}
	f, err := flame.Decode(src, opts.format)
	if err != nil {
		return nil, nil, err
	}
	if f.Name == "" && opts.Path != "" {
		f.Name = strings.TrimSuffix(filepath.Base(opts.Path), filepath.Ext(opts.Path))
	}
	return src, f, nil
}

func (r *Runner) cachedKernel(ctx context.Context, key string, opts Options) (cachedKernel, bool) {
	if opts.Refresh {
		return cachedKernel{}, false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("kernel cache read failed", "error", err)
	}
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "kernel")
		return cachedKernel{}, false
	}
	var entry cachedKernel
	if err := json.Unmarshal(data, &entry); err != nil || entry.Kernel == nil {
		observability.Cache().OnCacheMiss(ctx, "kernel")
		return cachedKernel{}, false
	}
	observability.Cache().OnCacheHit(ctx, "kernel")
	return entry, true
}

func (r *Runner) storeKernel(ctx context.Context, key string, entry cachedKernel) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLKernel); err != nil {
		r.Logger.Debug("kernel cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "kernel", len(data))
}

// compile returns SPIR-V for src, from the cache when possible.
func (r *Runner) compile(ctx context.Context, src string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.SPIRVKey(cache.Hash([]byte(src)))
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok && len(data) > 0 {
			observability.Cache().OnCacheHit(ctx, "spirv")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "spirv")
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnShaderStart(ctx, "compile")
	spirv, err := kernel.Compile(src)
	hooks.OnShaderComplete(ctx, "compile", len(spirv), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, spirv, cache.TTLSPIRV); err == nil {
		observability.Cache().OnCacheSet(ctx, "spirv", len(spirv))
	}
	r.Logger.Debug("compiled SPIR-V", "bytes", len(spirv), "duration", time.Since(start))
	return spirv, false, nil
}

// CatalogID identifies the catalog and library contents for cache keys.
// It changes whenever anything that reaches the assembled kernel changes:
// a template, a parameter spec, a dependency list, a library function or
// the build version.
func (r *Runner) CatalogID() string {
	r.catalogOnce.Do(func() {
		var b strings.Builder
		b.WriteString(buildinfo.Version)
		for _, d := range r.Catalog.All() {
			fmt.Fprintf(&b, "\x00v\x00%s\x00%s\x00%d\x00%q\x00%s",
				d.Name, d.Kinds, d.Precalcs, d.Dependencies, d.Template.Source())
			for _, p := range d.Params {
				fmt.Fprintf(&b, "\x00p\x00%s\x00%s\x00%v\x00%t\x00%v\x00%v\x00%t\x00%q\x00%t",
					p.Name, p.Kind, p.Default, p.Bounded, p.Min, p.Max, p.NonZero, p.Choices, p.IsDerived())
			}
		}
		for _, id := range r.Library.IDs() {
			fn, _ := r.Library.Get(id)
			fmt.Fprintf(&b, "\x00f\x00%s\x00%q\x00%s\x00%s", id, fn.Requires, fn.Source, fn.Init)
		}
		r.catalogID = cache.Hash([]byte(b.String()))[:16]
	})
	return r.catalogID
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
