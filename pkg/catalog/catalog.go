// Package catalog holds the variation plugin descriptors.
//
// A [Catalog] is built once at bootstrap with [Catalog.Register] (or
// [Catalog.MustRegister], which treats collisions as fatal) and frozen. After
// that it is read-only: lookups and geometry filtering need no locking.
package catalog

import (
	"slices"

	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/param"
	"github.com/matzehuels/flamelink/pkg/template"
)

// Placeholders every template may use besides its own parameters.
const (
	FieldWeight = "weight"
	FieldIndex  = "xf.index"
)

// AffineFields are the transform's pre-affine coefficients, in a..f order
// where x' = a*x + b*y + c and y' = d*x + e*y + f.
var AffineFields = []string{"xf.a", "xf.b", "xf.c", "xf.d", "xf.e", "xf.f"}

// Descriptor declares one variation plugin.
type Descriptor struct {
	Name  string
	Kinds Kind
	// Params are the plugin's parameters; the binder lays them out in this
	// order.
	Params []param.Spec
	// Dependencies are library ids the template calls into.
	Dependencies []string
	// Precalcs the template reads (precalcSumSquares, ...).
	Precalcs Precalc
	Template *template.Template
	// Doc is a one-line description shown by the CLI.
	Doc string
}

// Supports reports whether the plugin can be placed on a transform of the
// given geometry (Kind2D or Kind3D).
func (d *Descriptor) Supports(geometry Kind) bool {
	return d.Kinds.Has(geometry)
}

// Pass returns the stage the plugin's block runs in.
func (d *Descriptor) Pass() Pass {
	switch {
	case d.Kinds&KindPostPass != 0:
		return PassPost
	case d.Kinds&KindDirectColor != 0:
		return PassDirectColor
	default:
		return PassRegular
	}
}

// Param returns the named parameter spec.
func (d *Descriptor) Param(name string) (param.Spec, bool) {
	return param.Lookup(d.Params, name)
}

// Catalog maps variation names to descriptors.
type Catalog struct {
	byName map[string]*Descriptor
	frozen bool
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]*Descriptor)}
}

// Register validates d and inserts it. A name collision fails with
// DUPLICATE_VARIATION.
func (c *Catalog) Register(d Descriptor) error {
	if c.frozen {
		return errors.New(errors.ErrCodeInternal, "catalog is frozen, cannot register %q", d.Name)
	}
	if err := validate(&d); err != nil {
		return err
	}
	if _, ok := c.byName[d.Name]; ok {
		return errors.New(errors.ErrCodeDuplicateVariation, "variation %q registered twice", d.Name).
			With("variation", d.Name)
	}
	d.Params = slices.Clone(d.Params)
	d.Dependencies = slices.Clone(d.Dependencies)
	c.byName[d.Name] = &d
	return nil
}

// MustRegister is Register for bootstrap code; it panics on error.
func (c *Catalog) MustRegister(d Descriptor) {
	if err := c.Register(d); err != nil {
		panic(err)
	}
}

// Freeze ends bootstrap.
func (c *Catalog) Freeze() { c.frozen = true }

// Frozen reports whether Freeze has been called.
func (c *Catalog) Frozen() bool { return c.frozen }

// Lookup returns the descriptor for name, or UNKNOWN_VARIATION.
func (c *Catalog) Lookup(name string) (*Descriptor, error) {
	d, ok := c.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownVariation, "unknown variation %q", name).
			With("variation", name)
	}
	return d, nil
}

// Names returns every registered name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// All returns every descriptor sorted by name.
func (c *Catalog) All() []*Descriptor {
	return c.Filter(0)
}

// Filter returns the descriptors that have every capability in k, sorted
// by name. A zero k matches everything.
func (c *Catalog) Filter(k Kind) []*Descriptor {
	var out []*Descriptor
	for _, n := range c.Names() {
		d := c.byName[n]
		if k == 0 || d.Kinds.Has(k) {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered variations.
func (c *Catalog) Len() int { return len(c.byName) }

func validate(d *Descriptor) error {
	if err := errors.ValidateIdentifier("variation", d.Name); err != nil {
		return err
	}
	bad := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidInput, "variation %q: "+format, append([]any{d.Name}, args...)...).
			With("variation", d.Name)
	}

	if d.Kinds&KindBoth == 0 {
		return bad("must support 2d or 3d geometry")
	}
	if d.Kinds.Has(KindPostPass | KindDirectColor) {
		return bad("cannot be both post-pass and direct-color")
	}
	if d.Template == nil {
		return bad("missing template")
	}

	known := map[string]bool{FieldWeight: true, FieldIndex: true}
	for _, f := range AffineFields {
		known[f] = true
	}
	for _, p := range d.Params {
		if err := errors.ValidateIdentifier("parameter", p.Name); err != nil {
			return bad("%v", err)
		}
		if known[p.Name] {
			return bad("parameter %q shadows another name", p.Name)
		}
		if p.Kind == param.Number && len(p.Choices) == 0 {
			return bad("number parameter %q has no choices", p.Name)
		}
		known[p.Name] = true
	}
	for _, name := range d.Template.Placeholders() {
		if !known[name] {
			return errors.New(errors.ErrCodeInvalidTemplate, "variation %q: template references unknown name %q", d.Name, name).
				With("variation", d.Name)
		}
	}
	for _, dep := range d.Dependencies {
		if err := errors.ValidateIdentifier("library", dep); err != nil {
			return bad("%v", err)
		}
	}
	return nil
}
