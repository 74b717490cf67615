package catalog

import (
	"strings"

	"github.com/matzehuels/flamelink/pkg/errors"
)

// Kind is a capability set. A descriptor's kinds combine the geometries it
// supports (Kind2D, Kind3D) with at most one pass designation.
type Kind uint8

const (
	Kind2D Kind = 1 << iota
	Kind3D
	KindBaseShape
	KindPostPass
	KindDirectColor
)

// KindBoth is shorthand for plugins usable in 2D and 3D transforms.
const KindBoth = Kind2D | Kind3D

var kindNames = []struct {
	kind Kind
	name string
}{
	{Kind2D, "2d"},
	{Kind3D, "3d"},
	{KindBaseShape, "base"},
	{KindPostPass, "post"},
	{KindDirectColor, "dc"},
}

// Has reports whether every capability in o is present in k.
func (k Kind) Has(o Kind) bool { return o != 0 && k&o == o }

// String renders the set as "2d|3d|post".
func (k Kind) String() string {
	var parts []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			parts = append(parts, kn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseKind parses a "|" or "," separated capability list.
func ParseKind(s string) (Kind, error) {
	var k Kind
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '|' || r == ',' }) {
		f = strings.TrimSpace(f)
		found := false
		for _, kn := range kindNames {
			if f == kn.name {
				k |= kn.kind
				found = true
				break
			}
		}
		if !found {
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown kind %q", f)
		}
	}
	if k == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "empty kind")
	}
	return k, nil
}

// Pass is the stage of the per-transform function a block runs in.
type Pass int

const (
	// PassRegular blocks accumulate weighted output into vOut.
	PassRegular Pass = iota
	// PassDirectColor blocks run after regular blocks and may set vColor.
	PassDirectColor
	// PassPost blocks rewrite vOut in place after accumulation.
	PassPost
)

func (p Pass) String() string {
	switch p {
	case PassDirectColor:
		return "direct-color"
	case PassPost:
		return "post"
	default:
		return "regular"
	}
}

// Precalc is a set of per-transform values computed once from vIn and
// shared by every block of the transform.
type Precalc uint8

const (
	PrecalcSumSquares Precalc = 1 << iota
	PrecalcSqrtSumSquares
	PrecalcAtanXY
	PrecalcAtanYX
	PrecalcSinA
	PrecalcCosA
)

// PrecalcDef is the WGSL definition of one precalc value.
type PrecalcDef struct {
	Flag Precalc
	Name string
	Expr string
	Deps Precalc
}

// Precalcs lists every precalc in emission order.
var Precalcs = []PrecalcDef{
	{PrecalcSumSquares, "precalcSumSquares", "vIn.x * vIn.x + vIn.y * vIn.y", 0},
	{PrecalcSqrtSumSquares, "precalcSqrtSumSquares", "sqrt(precalcSumSquares)", PrecalcSumSquares},
	{PrecalcAtanXY, "precalcAtanXY", "atan2(vIn.x, vIn.y)", 0},
	{PrecalcAtanYX, "precalcAtanYX", "atan2(vIn.y, vIn.x)", 0},
	{PrecalcSinA, "precalcSina", "vIn.y / (precalcSqrtSumSquares + EPS)", PrecalcSqrtSumSquares},
	{PrecalcCosA, "precalcCosa", "vIn.x / (precalcSqrtSumSquares + EPS)", PrecalcSqrtSumSquares},
}

// Closure adds every precalc the set transitively depends on.
func (p Precalc) Closure() Precalc {
	for {
		next := p
		for _, d := range Precalcs {
			if p&d.Flag != 0 {
				next |= d.Deps
			}
		}
		if next == p {
			return p
		}
		p = next
	}
}
