// Package compose links a set of variation placements into one block of
// WGSL source plus the initializer statements it needs.
//
// Compose runs a fixed sequence with no branching back: look up and
// validate every placement, resolve library dependencies, bind each
// placement, then assemble the linked text. The composer keeps no state
// between calls; with a frozen catalog and library table it is safe to
// call from many goroutines at once.
//
// The linked source lists library functions first, each under a
// "// library: <id>" marker, in dependency order. One braced block per
// placement follows, under "// xform <i> variation <j>: <name>", in request
// order. A library function is emitted once however many placements need
// it; a placement is never merged with another, even one with the same
// name and parameters. The kernel package wraps these pieces in the
// per-transform scaffolding.
package compose

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamelink/pkg/bind"
	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/library"
	"github.com/matzehuels/flamelink/pkg/param"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

// TransformSlots is the number of buffer entries each transform reserves
// in buffer mode: the pre-affine a..f, the post-affine a..f, color and
// color speed.
const TransformSlots = 14

// Identity is the identity affine in a..f order.
var Identity = [6]float64{1, 0, 0, 0, 1, 0}

// Placement selects one variation on a transform.
type Placement struct {
	Variation string
	Weight    float64
	// Params overrides parameter defaults. Unknown names are rejected.
	Params param.Values
}

// Transform is one xform of a flame.
type Transform struct {
	Name string
	// Geometry is Kind2D or Kind3D. Zero means 2D.
	Geometry catalog.Kind
	// Affine is the pre-affine a..f: x' = a*x + b*y + c, y' = d*x + e*y + f.
	Affine [6]float64
	// Post is the post-affine. The zero value means identity.
	Post       [6]float64
	Color      float64
	ColorSpeed float64
	// Final marks the flame's final transform. At most one is allowed.
	Final      bool
	Variations []Placement
}

// Request is everything that shares one compiled program.
type Request struct {
	Transforms []Transform
}

// Options configures a Composer.
type Options struct {
	Mode   bind.Mode
	Strict bool
	Logger *log.Logger
}

// Block is one bound placement.
type Block struct {
	bind.Block
	// Variation is the placement's index within its transform.
	Variation int
	Weight    float64
	Pass      catalog.Pass
	// Precalcs is the closure of the precalcs the plugin reads.
	Precalcs catalog.Precalc
}

// TransformLayout describes how one transform's blocks fit together.
type TransformLayout struct {
	Index      int
	Name       string
	Geometry   catalog.Kind
	Final      bool
	Affine     [6]float64
	Post       [6]float64
	Color      float64
	ColorSpeed float64
	// Precalcs is the union of the blocks' precalc closures.
	Precalcs catalog.Precalc
	// Blocks indexes Result.Blocks, in placement order.
	Blocks []int
	// Slot is the buffer index of the transform's first entry in buffer
	// mode (see TransformSlots).
	Slot int
}

// Result is the output of one composition.
type Result struct {
	// LinkedSource holds the library section followed by every block.
	LinkedSource string
	// InitStatements must run once, in order, before any iteration.
	InitStatements []string
	// Libraries lists the emitted library ids in order.
	Libraries []string
	// LibrarySource is the library section of LinkedSource on its own.
	LibrarySource string
	Blocks        []Block
	Transforms    []TransformLayout
	// Params is the initial content of the parameter buffer in buffer
	// mode, nil in literal mode.
	Params    []float32
	Conflicts []resolve.Conflict
	Mode      bind.Mode
}

// Composer links requests against one catalog and library table.
type Composer struct {
	catalog  *catalog.Catalog
	binder   *bind.Binder
	resolver *resolve.Resolver
	mode     bind.Mode
	logger   *log.Logger
}

// New returns a composer over c and t.
func New(c *catalog.Catalog, t *library.Table, opts Options) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Composer{
		catalog:  c,
		binder:   bind.New(opts.Mode),
		resolver: resolve.New(t, resolve.Options{Strict: opts.Strict, Logger: logger}),
		mode:     opts.Mode,
		logger:   logger,
	}
}

type placed struct {
	desc   *catalog.Descriptor
	values param.Values
}

// Compose links req.
//
// Errors carry "transform" and "variation" details: UNKNOWN_VARIATION and
// INCOMPATIBLE_GEOMETRY (both recoverable by dropping the placement),
// UNKNOWN_PARAMETER and INVALID_PARAMETER from parameter merging, plus
// whatever resolve and bind report. Nothing is partially returned.
func (c *Composer) Compose(req Request) (*Result, error) {
	resolved := make([][]placed, len(req.Transforms))
	var entries []resolve.Entry
	finals := 0

	for i, xf := range req.Transforms {
		if xf.Final {
			finals++
			if finals > 1 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "transform %d: only one final transform is allowed", i).
					With("transform", strconv.Itoa(i))
			}
		}
		geom := geometry(xf)
		if geom != catalog.Kind2D && geom != catalog.Kind3D {
			return nil, errors.New(errors.ErrCodeInvalidInput, "transform %d: geometry must be 2d or 3d, got %s", i, xf.Geometry).
				With("transform", strconv.Itoa(i))
		}
		for j, p := range xf.Variations {
			d, err := c.catalog.Lookup(p.Variation)
			if err != nil {
				return nil, annotate(err, i, j, p.Variation)
			}
			if !d.Supports(geom) {
				return nil, errors.New(errors.ErrCodeIncompatibleGeometry, "variation %q does not support %s geometry", d.Name, geom).
					With("transform", strconv.Itoa(i)).
					With("position", strconv.Itoa(j)).
					With("variation", d.Name)
			}
			values, err := param.Merge(d.Params, p.Params)
			if err != nil {
				return nil, annotate(err, i, j, d.Name)
			}
			resolved[i] = append(resolved[i], placed{desc: d, values: values})
			entries = append(entries, resolve.Entry{Plugin: d.Name, Dependencies: d.Dependencies})
		}
	}

	res, err := c.resolver.Resolve(entries)
	if err != nil {
		return nil, err
	}

	out := &Result{
		InitStatements: res.Inits,
		Libraries:      res.Order,
		LibrarySource:  librarySection(res),
		Conflicts:      res.Conflicts,
		Mode:           c.mode,
	}
	if c.mode == bind.ModeBuffer {
		out.Params = []float32{}
	}

	for i, xf := range req.Transforms {
		layout := TransformLayout{
			Index:      i,
			Name:       xf.Name,
			Geometry:   geometry(xf),
			Final:      xf.Final,
			Affine:     xf.Affine,
			Post:       post(xf),
			Color:      xf.Color,
			ColorSpeed: xf.ColorSpeed,
		}
		if c.mode == bind.ModeBuffer {
			layout.Slot = len(out.Params)
			out.Params = append(out.Params, transformSlots(layout)...)
		}

		ctx := bind.Context{Index: i, Affine: xf.Affine, Slot: layout.Slot}
		for j, p := range resolved[i] {
			inst := bind.Instance{Descriptor: p.desc, Weight: xf.Variations[j].Weight, Values: p.values}
			b, err := c.binder.Bind(inst, ctx, len(out.Params))
			if err != nil {
				return nil, err
			}
			out.Params = append(out.Params, b.Params...)

			pre := p.desc.Precalcs.Closure()
			layout.Precalcs |= pre
			layout.Blocks = append(layout.Blocks, len(out.Blocks))
			out.Blocks = append(out.Blocks, Block{
				Block:     b,
				Variation: j,
				Weight:    inst.Weight,
				Pass:      p.desc.Pass(),
				Precalcs:  pre,
			})
		}
		out.Transforms = append(out.Transforms, layout)
	}

	out.LinkedSource = link(out)
	c.logger.Debug("composed",
		"transforms", len(out.Transforms),
		"blocks", len(out.Blocks),
		"libraries", len(out.Libraries),
		"inits", len(out.InitStatements),
		"mode", c.mode)
	return out, nil
}

func geometry(xf Transform) catalog.Kind {
	if xf.Geometry == 0 {
		return catalog.Kind2D
	}
	return xf.Geometry
}

func post(xf Transform) [6]float64 {
	if xf.Post == ([6]float64{}) {
		return Identity
	}
	return xf.Post
}

func transformSlots(l TransformLayout) []float32 {
	s := make([]float32, 0, TransformSlots)
	for _, v := range l.Affine {
		s = append(s, float32(v))
	}
	for _, v := range l.Post {
		s = append(s, float32(v))
	}
	return append(s, float32(l.Color), float32(l.ColorSpeed))
}

// annotate attaches placement coordinates to errors from lookup and
// parameter merging.
func annotate(err error, transform, position int, variation string) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return errors.Wrap(errors.ErrCodeInternal, err, "transform %d variation %d", transform, position)
	}
	return e.With("transform", strconv.Itoa(transform)).
		With("position", strconv.Itoa(position)).
		With("variation", variation)
}

// LibraryMarker and BlockMarker prefix the sections of the linked source.
const (
	LibraryMarker = "// library: "
	BlockMarker   = "// xform "
)

func librarySection(res *resolve.Resolution) string {
	var b strings.Builder
	for _, fn := range res.Functions {
		b.WriteString(LibraryMarker)
		b.WriteString(fn.ID)
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(fn.Source, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

func link(r *Result) string {
	var b strings.Builder
	b.WriteString(r.LibrarySource)
	for _, blk := range r.Blocks {
		b.WriteString(BlockHeader(blk))
		b.WriteString("\n{\n")
		b.WriteString(Indent(blk.Source, "    "))
		b.WriteString("}\n")
	}
	return b.String()
}

// BlockHeader is the comment line that introduces blk.
func BlockHeader(blk Block) string {
	return BlockMarker + strconv.Itoa(blk.Transform) + " variation " + strconv.Itoa(blk.Variation) + ": " + blk.Plugin
}

// Indent prefixes every non-empty line of src and guarantees a trailing
// newline.
func Indent(src, prefix string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
		if line != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
