// Package pipeline runs the load → compose → assemble → validate chain
// shared by the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: decode a flame (TOML or flam3 XML) and convert it into a
//     composition request, collecting warnings for anything skipped
//  2. Compose: link the placements and their library functions
//  3. Assemble: wrap the composition in a WGSL kernel
//  4. Shader: optionally validate the kernel with naga and compile it to
//     SPIR-V
//
// Assembled kernels are cached by the hash of the flame source plus every
// option that changes the output; SPIR-V is cached by the hash of the
// kernel source.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Path:     "sierpinski.toml",
//	    Validate: true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Kernel.Source)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamelink/pkg/bind"
	"github.com/matzehuels/flamelink/pkg/cache"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/flame"
	"github.com/matzehuels/flamelink/pkg/kernel"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

// Options configures one pipeline run. It decodes from JSON so the server
// can accept it as query parameters.
type Options struct {
	// Path is the flame file. Ignored when Source is set.
	Path string `json:"path,omitempty"`
	// Source is the raw flame document.
	Source []byte `json:"-"`
	// Format is "toml" or "xml". Empty means detect from Path.
	Format string `json:"format,omitempty"`
	// Mode is "literal" or "buffer". Empty means literal.
	Mode        string `json:"mode,omitempty"`
	Strict      bool   `json:"strict,omitempty"`
	SkipUnknown bool   `json:"skip_unknown,omitempty"`
	// Validate runs the assembled kernel through naga's validator.
	Validate bool `json:"validate,omitempty"`
	// Compile produces SPIR-V.
	Compile       bool `json:"compile,omitempty"`
	WorkgroupSize int  `json:"workgroup_size,omitempty"`
	NoEntryPoint  bool `json:"no_entry_point,omitempty"`
	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	format    flame.Format
	mode      bind.Mode
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Flame   *flame.Flame
	Request compose.Request
	// Composition is nil when the kernel came from the cache.
	Composition *compose.Result
	Kernel      *kernel.Kernel
	// Conflicts lists tolerated library order conflicts, including those
	// recorded with a cached kernel.
	Conflicts []resolve.Conflict
	// SPIRV is set when Options.Compile was requested.
	SPIRV     []byte
	Warnings  []flame.Warning
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Transforms  int
	Placements  int
	Libraries   int
	SourceBytes int
	LoadTime    time.Duration
	ComposeTime time.Duration
	ShaderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	KernelHit bool
	SPIRVHit  bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Source) == 0 && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a flame path or source is required")
	}

	switch {
	case o.Format != "":
		f, err := flame.ParseFormat(o.Format)
		if err != nil {
			return err
		}
		o.format = f
	case o.Path != "":
		f, err := flame.DetectFormat(o.Path)
		if err != nil {
			return err
		}
		o.format = f
	default:
		o.format = flame.FormatTOML
	}
	o.Format = string(o.format)

	mode, err := bind.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.mode = mode
	o.Mode = mode.String()

	if o.WorkgroupSize == 0 {
		o.WorkgroupSize = kernel.DefaultWorkgroupSize
	}
	if o.WorkgroupSize < 1 || o.WorkgroupSize > 1024 {
		return errors.New(errors.ErrCodeInvalidInput, "workgroup size %d out of range 1..1024", o.WorkgroupSize)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KernelKeyOpts returns the cache key options for the assembled kernel.
func (o *Options) KernelKeyOpts(catalogID string) cache.KernelKeyOpts {
	return cache.KernelKeyOpts{
		Mode:          o.Mode,
		Strict:        o.Strict,
		SkipUnknown:   o.SkipUnknown,
		WorkgroupSize: o.WorkgroupSize,
		NoEntryPoint:  o.NoEntryPoint,
		Catalog:       catalogID,
	}
}
