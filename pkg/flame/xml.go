package flame

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/matzehuels/flamelink/pkg/errors"
)

type xmlFlame struct {
	XMLName xml.Name
	Name    string     `xml:"name,attr"`
	Xforms  []xmlXform `xml:"xform"`
	Final   *xmlXform  `xml:"finalxform"`
	Flames  []xmlFlame `xml:"flame"`
}

type xmlXform struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// xformAttrs are flam3 xform attributes that are neither variations nor
// variation parameters.
var xformAttrs = map[string]bool{
	"weight": true, "color": true, "color_speed": true, "symmetry": true,
	"coefs": true, "post": true, "name": true, "opacity": true,
	"animate": true, "chaos": true, "var_color": true, "plotmode": true,
	"motion_frequency": true, "motion_function": true,
}

// DecodeXML decodes a flam3 <flame> document, or the first flame of a
// <flames> collection.
//
// Every remaining attribute of an <xform> is kept in document order as a
// variation reference holding its weight. Attributes that turn out to be
// parameters ("julian_power") are attached to their variation by ToRequest,
// which knows the catalog.
func DecodeXML(data []byte) (*Flame, error) {
	var doc xmlFlame
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode flame XML")
	}
	switch doc.XMLName.Local {
	case "flame":
	case "flames":
		if len(doc.Flames) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "<flames> contains no <flame>")
		}
		doc = doc.Flames[0]
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected root element <%s>", doc.XMLName.Local)
	}

	f := &Flame{Name: doc.Name}
	for i, x := range doc.Xforms {
		xf, err := x.decode()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "xform %d", i)
		}
		f.Transforms = append(f.Transforms, xf)
	}
	if doc.Final != nil {
		xf, err := doc.Final.decode()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "finalxform")
		}
		f.Final = &xf
	}
	return f, nil
}

func (x xmlXform) decode() (Xform, error) {
	xf := Xform{Weight: 1}
	symmetry, hasSpeed := 0.0, false
	for _, a := range x.Attrs {
		name := a.Name.Local
		var err error
		switch name {
		case "weight":
			xf.Weight, err = number(a)
		case "color":
			// flam3 allows "c0 c1"; only the first coordinate is a palette index.
			first, _, _ := strings.Cut(strings.TrimSpace(a.Value), " ")
			xf.Color, err = strconv.ParseFloat(first, 64)
		case "color_speed":
			xf.ColorSpeed, err = number(a)
			hasSpeed = true
		case "symmetry":
			symmetry, err = number(a)
		case "name":
			xf.Name = a.Value
		case "coefs":
			xf.Affine, err = coefs(a.Value)
		case "post":
			xf.Post, err = coefs(a.Value)
		default:
			if xformAttrs[name] {
				continue
			}
			var w float64
			if w, err = number(a); err == nil {
				xf.Variations = append(xf.Variations, VariationRef{Name: name, Weight: w})
			}
		}
		if err != nil {
			return Xform{}, err
		}
	}
	if !hasSpeed {
		xf.ColorSpeed = (1 - symmetry) / 2
	}
	return xf, nil
}

func number(a xml.Attr) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "attribute %s=%q is not a number", a.Name.Local, a.Value)
	}
	return v, nil
}

// coefs converts flam3's column order "a d b e c f" to a..f.
func coefs(s string) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "coefs need 6 numbers, got %d", len(fields))
	}
	var v [6]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "bad coefficient %q", f)
		}
		v[i] = x
	}
	return []float64{v[0], v[2], v[4], v[1], v[3], v[5]}, nil
}
