package flame

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/param"
)

// Options configures ToRequest.
type Options struct {
	// SkipUnknown drops unknown variations, unknown parameters and
	// placements whose geometry does not match, reporting each as a
	// Warning. Without it the first such problem is returned as an error.
	SkipUnknown bool
}

// Warning describes something ToRequest dropped.
type Warning struct {
	// Transform is the xform index; the final xform is len(Transforms).
	Transform int    `json:"transform"`
	Final     bool   `json:"final,omitempty"`
	Variation string `json:"variation"`
	Param     string `json:"param,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (w Warning) String() string {
	where := "xform " + strconv.Itoa(w.Transform)
	if w.Final {
		where = "final xform"
	}
	return where + ": " + w.Message
}

// ToRequest converts f into a composition request against c.
//
// Within each xform, references that name a catalog variation become
// placements in document order. A remaining reference named
// "<variation>_<param>" for a variation placed on the same xform sets that
// parameter (the flam3 convention); the longest matching variation name
// wins. Parameters of variations that were themselves dropped are dropped
// silently.
func ToRequest(f *Flame, c *catalog.Catalog, opts Options) (compose.Request, []Warning, error) {
	var req compose.Request
	var warnings []Warning

	add := func(i int, xf *Xform, final bool) error {
		t, w, err := transform(i, xf, final, c, opts)
		if err != nil {
			return err
		}
		warnings = append(warnings, w...)
		req.Transforms = append(req.Transforms, t)
		return nil
	}
	for i := range f.Transforms {
		if err := add(i, &f.Transforms[i], false); err != nil {
			return compose.Request{}, nil, err
		}
	}
	if f.Final != nil {
		if err := add(len(f.Transforms), f.Final, true); err != nil {
			return compose.Request{}, nil, err
		}
	}
	return req, warnings, nil
}

type pending struct {
	desc   *catalog.Descriptor
	weight float64
	raw    map[string]any
}

func transform(i int, xf *Xform, final bool, c *catalog.Catalog, opts Options) (compose.Transform, []Warning, error) {
	geom, err := xf.geometry(c)
	if err != nil {
		return compose.Transform{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "xform %d", i).With("transform", strconv.Itoa(i))
	}
	t := compose.Transform{
		Name:       xf.Name,
		Geometry:   geom,
		Affine:     affine(xf.Affine),
		Color:      xf.Color,
		ColorSpeed: xf.ColorSpeed,
		Final:      final,
	}
	if len(xf.Post) == 6 {
		t.Post = affine(xf.Post)
	}

	var warnings []Warning
	// skip records a recoverable problem, or returns it when not skipping.
	skip := func(err *errors.Error, variation, p string) error {
		err.With("transform", strconv.Itoa(i)).With("variation", variation)
		if !opts.SkipUnknown || !errors.IsRecoverable(err) {
			return err
		}
		warnings = append(warnings, Warning{
			Transform: i, Final: final, Variation: variation, Param: p,
			Code: string(err.Code), Message: err.Message,
		})
		return nil
	}

	var placed []*pending
	byName := map[string][]*pending{}
	var rest []VariationRef
	dropped := map[string]bool{}
	for _, ref := range xf.Variations {
		d, err := c.Lookup(ref.Name)
		if err != nil {
			rest = append(rest, ref)
			continue
		}
		if !d.Supports(geom) {
			e := errors.New(errors.ErrCodeIncompatibleGeometry, "variation %q does not support %s geometry", d.Name, geom)
			if err := skip(e, d.Name, ""); err != nil {
				return compose.Transform{}, nil, err
			}
			dropped[d.Name] = true
			continue
		}
		p := &pending{desc: d, weight: ref.Weight, raw: maps.Clone(ref.Params)}
		placed = append(placed, p)
		byName[d.Name] = append(byName[d.Name], p)
	}

	unknown := map[string]bool{}
	for _, ref := range rest {
		if owner, pname := splitParam(ref.Name, byName); owner != "" {
			for _, p := range byName[owner] {
				if p.raw == nil {
					p.raw = map[string]any{}
				}
				p.raw[pname] = ref.Weight
			}
			continue
		}
		if owner, _ := splitParam(ref.Name, dropped); owner != "" {
			continue
		}
		unknown[ref.Name] = true
	}
	for _, ref := range rest {
		if !unknown[ref.Name] {
			continue
		}
		if owner, _ := splitParam(ref.Name, unknown); owner != "" {
			continue
		}
		e := errors.New(errors.ErrCodeUnknownVariation, "unknown variation %q", ref.Name)
		if err := skip(e, ref.Name, ""); err != nil {
			return compose.Transform{}, nil, err
		}
	}

	for _, p := range placed {
		values := param.Values{}
		for _, name := range slices.Sorted(maps.Keys(p.raw)) {
			spec, ok := p.desc.Param(name)
			if !ok || spec.IsDerived() {
				e := errors.New(errors.ErrCodeUnknownParameter, "variation %q has no parameter %q", p.desc.Name, name).With("param", name)
				if err := skip(e, p.desc.Name, name); err != nil {
					return compose.Transform{}, nil, err
				}
				continue
			}
			v, err := spec.Parse(p.raw[name])
			if err != nil {
				return compose.Transform{}, nil, annotate(err, i, p.desc.Name)
			}
			values[name] = v
		}
		t.Variations = append(t.Variations, compose.Placement{Variation: p.desc.Name, Weight: p.weight, Params: values})
	}
	return t, warnings, nil
}

// splitParam finds the longest key k of names such that s is "k_<param>".
func splitParam[V any](s string, names map[string]V) (string, string) {
	best := ""
	for n := range names {
		if len(n) > len(best) && strings.HasPrefix(s, n+"_") {
			best = n
		}
	}
	if best == "" {
		return "", ""
	}
	return best, s[len(best)+1:]
}

func affine(v []float64) [6]float64 {
	if len(v) != 6 {
		return compose.Identity
	}
	return [6]float64(v)
}

func annotate(err error, transform int, variation string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.With("transform", strconv.Itoa(transform)).With("variation", variation)
	}
	return err
}
