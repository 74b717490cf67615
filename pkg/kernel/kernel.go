// Package kernel wraps a composition in the per-transform iteration
// scaffolding and produces a complete WGSL module.
//
// The module contains, in order: the prelude (constants, the Point struct
// and the random number helpers), the parameter buffer binding in buffer
// mode, the linked library functions, one xform_N function per transform,
// the final transform, an apply_xform dispatcher and, unless disabled, a
// single-step compute entry point. Each xform function applies the
// pre-affine, computes the precalcs its blocks read, runs the regular
// blocks, then the direct-color blocks, then the post-pass blocks, and
// finally applies the post-affine.
//
// Validate and Compile hand the module to naga, a pure Go WGSL compiler.
package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga"

	"github.com/matzehuels/flamelink/pkg/bind"
	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/param"
)

const (
	// DefaultWorkgroupSize is the compute workgroup size when none is set.
	DefaultWorkgroupSize = 64
	// DefaultEntryPoint is the compute entry point name.
	DefaultEntryPoint = "main"
)

const prelude = `const EPS: f32 = 1e-10;
const PI: f32 = 3.14159265358979;
const M_1_PI: f32 = 0.318309886183791;
const M_2PI: f32 = 6.28318530717959;

struct Point {
    x: f32,
    y: f32,
    z: f32,
    color: f32,
}

fn rand_next(rs: ptr<function, u32>) -> u32 {
    *rs = *rs * 1664525u + 1013904223u;
    return *rs;
}

fn rand01(rs: ptr<function, u32>) -> f32 {
    return f32(rand_next(rs) >> 8u) * (1.0 / 16777216.0);
}
`

// Options configures Assemble.
type Options struct {
	// WorkgroupSize of the entry point. Zero means DefaultWorkgroupSize.
	WorkgroupSize int
	// EntryPoint names the compute entry. Empty means DefaultEntryPoint.
	EntryPoint string
	// NoEntryPoint leaves the entry point and its point buffers out, for
	// harnesses that bring their own iteration loop.
	NoEntryPoint bool
}

// Binding describes one resource the module declares.
type Binding struct {
	Group   int    `json:"group"`
	Binding int    `json:"binding"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Access  string `json:"access"`
}

// Kernel is an assembled WGSL module.
type Kernel struct {
	Source string `json:"source"`
	// EntryPoint is empty when Options.NoEntryPoint was set.
	EntryPoint string    `json:"entry_point,omitempty"`
	Bindings   []Binding `json:"bindings"`
	// Params is the initial parameter buffer in buffer mode.
	Params []float32 `json:"params,omitempty"`
	// Inits are the one-time statements; the entry point already runs them.
	Inits []string `json:"inits,omitempty"`
	Mode  string   `json:"mode"`
}

// Assemble builds the module for res.
func Assemble(res *compose.Result, opts Options) (*Kernel, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to assemble")
	}
	if opts.WorkgroupSize == 0 {
		opts.WorkgroupSize = DefaultWorkgroupSize
	}
	if opts.WorkgroupSize < 1 || opts.WorkgroupSize > 1024 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "workgroup size %d out of range [1, 1024]", opts.WorkgroupSize)
	}
	if opts.EntryPoint == "" {
		opts.EntryPoint = DefaultEntryPoint
	}
	if err := errors.ValidateIdentifier("entry point", opts.EntryPoint); err != nil {
		return nil, err
	}

	k := &Kernel{Params: res.Params, Inits: res.InitStatements, Mode: res.Mode.String()}
	var b strings.Builder
	b.WriteString(prelude)

	if !opts.NoEntryPoint {
		k.EntryPoint = opts.EntryPoint
		k.Bindings = append(k.Bindings,
			Binding{Group: 0, Binding: 0, Name: "points", Type: "array<Point>", Access: "read_write"},
			Binding{Group: 0, Binding: 1, Name: "selectors", Type: "array<u32>", Access: "read"},
		)
	}
	if res.Mode == bind.ModeBuffer {
		k.Bindings = append(k.Bindings, Binding{Group: 0, Binding: 2, Name: bind.ParamsBuffer, Type: "array<f32>", Access: "read"})
	}
	if len(k.Bindings) > 0 {
		b.WriteString("\n")
		for _, bd := range k.Bindings {
			fmt.Fprintf(&b, "@group(%d) @binding(%d) var<storage, %s> %s: %s;\n", bd.Group, bd.Binding, bd.Access, bd.Name, bd.Type)
		}
	}

	if res.LibrarySource != "" {
		b.WriteString("\n")
		b.WriteString(res.LibrarySource)
	} else {
		b.WriteString("\n")
	}

	var dispatch []int
	final := -1
	for _, xf := range res.Transforms {
		writeTransform(&b, res, xf)
		b.WriteString("\n")
		if xf.Final {
			final = xf.Index
		} else {
			dispatch = append(dispatch, xf.Index)
		}
	}

	writeDispatcher(&b, dispatch)
	if !opts.NoEntryPoint {
		b.WriteString("\n")
		writeEntry(&b, opts, res.InitStatements, final)
	}

	k.Source = b.String()
	return k, nil
}

// FunctionName is the WGSL function emitted for transform xf.
func FunctionName(xf compose.TransformLayout) string {
	if xf.Final {
		return "xform_final"
	}
	return "xform_" + strconv.Itoa(xf.Index)
}

func writeTransform(b *strings.Builder, res *compose.Result, xf compose.TransformLayout) {
	v := values{buffer: res.Mode == bind.ModeBuffer, slot: xf.Slot}

	fmt.Fprintf(b, "// %s\n", transformLabel(xf))
	fmt.Fprintf(b, "fn %s(p: Point, rs: ptr<function, u32>) -> Point {\n", FunctionName(xf))
	fmt.Fprintf(b, "    let vIn = vec3<f32>(%s * p.x + %s * p.y + %s, %s * p.x + %s * p.y + %s, p.z);\n",
		v.at(0, xf.Affine[0]), v.at(1, xf.Affine[1]), v.at(2, xf.Affine[2]),
		v.at(3, xf.Affine[3]), v.at(4, xf.Affine[4]), v.at(5, xf.Affine[5]))
	b.WriteString("    var vOut = vec3<f32>(0.0, 0.0, 0.0);\n")
	speed := v.at(13, xf.ColorSpeed)
	fmt.Fprintf(b, "    var vColor = p.color * (1.0 - %s) + %s * %s;\n", speed, v.at(12, xf.Color), speed)

	for _, pc := range catalog.Precalcs {
		if xf.Precalcs&pc.Flag != 0 {
			fmt.Fprintf(b, "    let %s = %s;\n", pc.Name, pc.Expr)
		}
	}

	for _, pass := range []catalog.Pass{catalog.PassRegular, catalog.PassDirectColor, catalog.PassPost} {
		for _, i := range xf.Blocks {
			blk := res.Blocks[i]
			if blk.Pass != pass {
				continue
			}
			fmt.Fprintf(b, "    %s\n    {\n", compose.BlockHeader(blk))
			b.WriteString(compose.Indent(blk.Source, "        "))
			b.WriteString("    }\n")
		}
	}

	z := "p.z"
	if xf.Geometry == catalog.Kind3D {
		z = "vOut.z"
	}
	fmt.Fprintf(b, "    return Point(%s * vOut.x + %s * vOut.y + %s, %s * vOut.x + %s * vOut.y + %s, %s, vColor);\n",
		v.at(6, xf.Post[0]), v.at(7, xf.Post[1]), v.at(8, xf.Post[2]),
		v.at(9, xf.Post[3]), v.at(10, xf.Post[4]), v.at(11, xf.Post[5]), z)
	b.WriteString("}\n")
}

func transformLabel(xf compose.TransformLayout) string {
	label := "transform " + strconv.Itoa(xf.Index)
	if xf.Name != "" {
		label += " (" + xf.Name + ")"
	}
	if xf.Final {
		label += ", final"
	}
	return label + ", " + xf.Geometry.String()
}

func writeDispatcher(b *strings.Builder, indexes []int) {
	b.WriteString("fn apply_xform(i: u32, p: Point, rs: ptr<function, u32>) -> Point {\n")
	b.WriteString("    var q = p;\n")
	b.WriteString("    switch i {\n")
	for n, idx := range indexes {
		fmt.Fprintf(b, "        case %du: { q = xform_%d(p, rs); }\n", n, idx)
	}
	b.WriteString("        default: {}\n")
	b.WriteString("    }\n")
	b.WriteString("    return q;\n")
	b.WriteString("}\n")
}

func writeEntry(b *strings.Builder, opts Options, inits []string, final int) {
	fmt.Fprintf(b, "@compute @workgroup_size(%d)\n", opts.WorkgroupSize)
	fmt.Fprintf(b, "fn %s(@builtin(global_invocation_id) gid: vec3<u32>) {\n", opts.EntryPoint)
	for _, s := range inits {
		fmt.Fprintf(b, "    %s\n", s)
	}
	b.WriteString("    let idx = gid.x;\n")
	b.WriteString("    if (idx >= arrayLength(&points)) {\n        return;\n    }\n")
	b.WriteString("    var rs = idx * 747796405u + 2891336453u;\n")
	b.WriteString("    var p = apply_xform(selectors[idx], points[idx], &rs);\n")
	if final >= 0 {
		b.WriteString("    p = xform_final(p, &rs);\n")
	}
	b.WriteString("    points[idx] = p;\n")
	b.WriteString("}\n")
}

// values renders a transform slot as a literal or a buffer read.
type values struct {
	buffer bool
	slot   int
}

func (v values) at(i int, lit float64) string {
	if v.buffer {
		return bind.ParamsBuffer + "[" + strconv.Itoa(v.slot+i) + "]"
	}
	return param.FormatFloat(lit)
}

// Validate parses, lowers and validates src with naga. Failures are
// SHADER_INVALID with a "stage" detail.
func Validate(src string) error {
	ast, err := naga.Parse(src)
	if err != nil {
		return invalid("parse", err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return invalid("lower", err)
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return invalid("validate", err)
	}
	if len(problems) > 0 {
		return invalid("validate", problems[0])
	}
	return nil
}

// Compile validates src and returns SPIR-V.
func Compile(src string) ([]byte, error) {
	spirv, err := naga.CompileWithOptions(src, naga.DefaultOptions())
	if err != nil {
		return nil, invalid("compile", err)
	}
	return spirv, nil
}

func invalid(stage string, err error) error {
	return errors.Wrap(errors.ErrCodeShaderInvalid, err, "WGSL %s failed", stage).With("stage", stage)
}
