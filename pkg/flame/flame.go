// Package flame reads flame definitions and turns them into composition
// requests.
//
// Two formats are understood:
//
//   - TOML, the native format:
//
//     name = "sierpinski"
//
//     [[xform]]
//     weight = 1.0
//     color = 0.0
//     affine = [0.5, 0.0, 0.0, 0.0, 0.5, 0.0]   # a b c d e f
//
//     [[xform.variation]]
//     name = "linear"
//     weight = 1.0
//
//   - flam3 XML (.flame), where every variation is an attribute holding its
//     weight, parameters are "<variation>_<param>" attributes and coefs and
//     post are in flam3's "a d b e c f" column order.
//
// The package only reads; flames are never written back.
package flame

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/errors"
)

// Format names a flame encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatXML  Format = "xml"
)

// ParseFormat accepts "toml", "xml" and "flame".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return FormatTOML, nil
	case "xml", "flame", "flam3":
		return FormatXML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown flame format %q", s)
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Flame is a decoded flame definition.
type Flame struct {
	Name       string  `toml:"name" json:"name,omitempty"`
	Transforms []Xform `toml:"xform" json:"xforms"`
	Final      *Xform  `toml:"final" json:"final,omitempty"`
}

// Xform is one transform of a flame.
type Xform struct {
	Name       string  `toml:"name" json:"name,omitempty"`
	Weight     float64 `toml:"weight" json:"weight"`
	Color      float64 `toml:"color" json:"color"`
	ColorSpeed float64 `toml:"color_speed" json:"color_speed"`
	// Geometry is "2d", "3d" or empty to infer from the variations.
	Geometry string `toml:"geometry" json:"geometry,omitempty"`
	// Affine is the pre-affine in a..f order; empty means identity.
	Affine []float64 `toml:"affine" json:"affine,omitempty"`
	// Post is the post-affine in a..f order; empty means identity.
	Post       []float64      `toml:"post" json:"post,omitempty"`
	Variations []VariationRef `toml:"variation" json:"variations"`
}

// VariationRef places a variation on an xform. Params hold raw decoded
// values: numbers, booleans, or choice names for enumerated parameters.
type VariationRef struct {
	Name   string         `toml:"name" json:"name"`
	Weight float64        `toml:"weight" json:"weight"`
	Params map[string]any `toml:"params" json:"params,omitempty"`
}

// Decode reads data in the given format.
func Decode(data []byte, format Format) (*Flame, error) {
	switch format {
	case FormatTOML:
		return DecodeTOML(data)
	case FormatXML:
		return DecodeXML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown flame format %q", format)
}

// Load reads and decodes the file at path, choosing the format by
// extension.
func Load(path string) (*Flame, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read flame").With("path", path)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Weights returns the selection probability of every non-final xform.
// Negative and non-finite weights count as zero; if every weight is zero
// the xforms are picked uniformly.
func (f *Flame) Weights() []float64 {
	out := make([]float64, len(f.Transforms))
	var sum float64
	for i, xf := range f.Transforms {
		if w := xf.Weight; w > 0 && !math.IsInf(w, 0) {
			out[i] = w
			sum += w
		}
	}
	for i := range out {
		if sum == 0 {
			out[i] = 1 / float64(len(out))
		} else {
			out[i] /= sum
		}
	}
	return out
}

// geometry returns the xform's declared geometry, or infers it: 3D when
// any known variation on it cannot be placed on a 2D transform.
func (xf *Xform) geometry(c *catalog.Catalog) (catalog.Kind, error) {
	switch strings.ToLower(xf.Geometry) {
	case "2d":
		return catalog.Kind2D, nil
	case "3d":
		return catalog.Kind3D, nil
	case "":
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "geometry must be 2d or 3d, got %q", xf.Geometry)
	}
	for _, v := range xf.Variations {
		if d, err := c.Lookup(v.Name); err == nil && !d.Supports(catalog.Kind2D) && d.Supports(catalog.Kind3D) {
			return catalog.Kind3D, nil
		}
	}
	return catalog.Kind2D, nil
}
