// Package bind turns one plugin placement into a finished WGSL block.
//
// Binding is pure: the same instance, context and offset always produce the
// same text. In [ModeLiteral] every placeholder becomes a numeric literal.
// In [ModeBuffer] parameters become reads from a storage buffer
// (xf_params[N]) and the values are returned alongside the text, so a
// harness can change parameters without recompiling the program.
package bind

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/param"
	"github.com/matzehuels/flamelink/pkg/template"
)

// ParamsBuffer is the WGSL name of the parameter storage buffer.
const ParamsBuffer = "xf_params"

// Mode selects how parameter values reach the program.
type Mode int

const (
	// ModeLiteral inlines every value as a literal.
	ModeLiteral Mode = iota
	// ModeBuffer reads values from the xf_params storage buffer.
	ModeBuffer
)

func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeBuffer:
		return "buffer"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode parses "literal" or "buffer". The empty string is literal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return ModeLiteral, nil
	case "buffer":
		return ModeBuffer, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown binding mode %q (want literal or buffer)", s)
	}
}

// Instance is one placement of a plugin on a transform.
type Instance struct {
	Descriptor *catalog.Descriptor
	Weight     float64
	// Values holds the user-settable parameters, already merged with
	// defaults. Derived parameters are computed during Bind.
	Values param.Values
}

// Context carries the enclosing transform's static fields.
type Context struct {
	// Index is the transform's position in the request.
	Index int
	// Affine holds the pre-affine coefficients a..f.
	Affine [6]float64
	// Slot is the buffer index of coefficient a in buffer mode; b..f
	// follow it.
	Slot int
}

// Block is one bound plugin.
type Block struct {
	Plugin    string
	Transform int
	Source    string
	// Params is the instance's buffer slice in buffer mode: the weight
	// followed by every parameter in descriptor order. Nil in literal mode.
	Params []float32
	// Offset is the buffer index of Params[0].
	Offset int
}

// Slots returns how many buffer entries a placement of d occupies.
func Slots(d *catalog.Descriptor) int { return 1 + len(d.Params) }

// Binder binds instances in one mode. The zero value binds literals.
type Binder struct {
	mode Mode
}

// New returns a binder for mode.
func New(mode Mode) *Binder { return &Binder{mode: mode} }

// Mode returns the binder's mode.
func (b *Binder) Mode() Mode { return b.mode }

// Bind renders inst. offset is the buffer index reserved for the
// instance's weight in buffer mode and is ignored in literal mode.
//
// Errors: UNBOUND_PARAMETER when the template names a parameter with no
// value, INVALID_PARAMETER when a value (derived ones included) is not a
// finite f32.
func (b *Binder) Bind(inst Instance, ctx Context, offset int) (Block, error) {
	d := inst.Descriptor
	if d == nil {
		return Block{}, errors.New(errors.ErrCodeInvalidInput, "instance has no descriptor")
	}

	values := param.Derive(d.Params, inst.Values)
	if err := checkFinite(d.Name, catalog.FieldWeight, inst.Weight); err != nil {
		return Block{}, err
	}
	for _, s := range d.Params {
		if v, ok := values[s.Name]; ok {
			if err := checkFinite(d.Name, s.Name, v); err != nil {
				return Block{}, err
			}
		}
	}

	block := Block{Plugin: d.Name, Transform: ctx.Index}
	var resolve template.Resolver
	if b.mode == ModeBuffer {
		block.Offset = offset
		block.Params = make([]float32, Slots(d))
		block.Params[0] = float32(inst.Weight)
		for i, s := range d.Params {
			block.Params[1+i] = float32(values[s.Name])
		}
		resolve = bufferResolver(d, values, ctx, offset)
	} else {
		resolve = literalResolver(d, values, ctx, inst.Weight)
	}

	src, err := d.Template.Execute(resolve)
	if err != nil {
		name := err.Error()
		if ue, ok := err.(*template.UnboundError); ok {
			name = ue.Name
		}
		return Block{}, errors.Wrap(errors.ErrCodeUnboundParameter, err, "variation %q: no value for %q", d.Name, name).
			With("plugin", d.Name).
			With("param", name).
			With("transform", strconv.Itoa(ctx.Index))
	}
	block.Source = src
	return block, nil
}

func literalResolver(d *catalog.Descriptor, values param.Values, ctx Context, weight float64) template.Resolver {
	return func(name string) (string, bool) {
		if s, ok := contextField(name, ctx); ok {
			return s, true
		}
		if name == catalog.FieldWeight {
			return param.FormatFloat(weight), true
		}
		spec, ok := d.Param(name)
		if !ok {
			return "", false
		}
		v, ok := values[name]
		if !ok {
			return "", false
		}
		return param.Format(spec.Kind, v), true
	}
}

func bufferResolver(d *catalog.Descriptor, values param.Values, ctx Context, offset int) template.Resolver {
	index := make(map[string]int, len(d.Params))
	for i, s := range d.Params {
		index[s.Name] = offset + 1 + i
	}
	return func(name string) (string, bool) {
		if name == catalog.FieldIndex {
			return param.FormatInt(float64(ctx.Index)), true
		}
		for i, f := range catalog.AffineFields {
			if name == f {
				return bufferRef(ctx.Slot + i), true
			}
		}
		if name == catalog.FieldWeight {
			return bufferRef(offset), true
		}
		if _, ok := values[name]; !ok {
			return "", false
		}
		i, ok := index[name]
		if !ok {
			return "", false
		}
		return bufferRef(i), true
	}
}

func contextField(name string, ctx Context) (string, bool) {
	if name == catalog.FieldIndex {
		return param.FormatInt(float64(ctx.Index)), true
	}
	for i, f := range catalog.AffineFields {
		if name == f {
			return param.FormatFloat(ctx.Affine[i]), true
		}
	}
	return "", false
}

func bufferRef(i int) string {
	return ParamsBuffer + "[" + strconv.Itoa(i) + "]"
}

func checkFinite(plugin, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
		return errors.New(errors.ErrCodeInvalidParameter, "variation %q: %s = %v is not a finite f32", plugin, name, v).
			With("plugin", plugin).
			With("param", name)
	}
	return nil
}
