// Package variations registers the built-in WGSL variation plugins.
//
// Templates are statement blocks spliced into a per-transform function.
// The following names are in scope:
//
//	vIn        let vec3<f32>   affine-transformed input point
//	vOut       var vec3<f32>   accumulator (regular and direct-color blocks add to it,
//	                           post-pass blocks rewrite it)
//	vColor     var f32         palette index, direct-color blocks assign it
//	rs         ptr<function, u32>  generator state for rand01(rs)
//	precalc*   let f32         per-transform precalcs the descriptor declares
//
// plus the prelude constants EPS, PI, M_1_PI and M_2PI.
package variations

import (
	"math"
	"strings"
	"sync"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/param"
	"github.com/matzehuels/flamelink/pkg/template"
)

type variation struct {
	name   string
	kinds  catalog.Kind
	pre    catalog.Precalc
	deps   []string
	params []param.Spec
	doc    string
	src    string
}

func register(c *catalog.Catalog, vs []variation) {
	for _, v := range vs {
		c.MustRegister(catalog.Descriptor{
			Name:         v.name,
			Kinds:        v.kinds,
			Params:       v.params,
			Dependencies: v.deps,
			Precalcs:     v.pre,
			Template:     template.MustParse(strings.TrimSpace(v.src)),
			Doc:          v.doc,
		})
	}
}

// Register adds every built-in variation to c. It panics on a collision.
func Register(c *catalog.Catalog) {
	register(c, classic)
	register(c, helpers)
	register(c, complexVariations)
	register(c, noiseVariations)
	register(c, threeD)
	register(c, postPass)
	register(c, directColor)
}

// Default returns the frozen process-wide catalog.
var Default = sync.OnceValue(func() *catalog.Catalog {
	c := catalog.New()
	Register(c)
	c.Freeze()
	return c
})

func scalar(name string, def float64) param.Spec {
	return param.Spec{Name: name, Kind: param.Float, Default: def}
}

func nonzero(name string, def float64) param.Spec {
	return param.Spec{Name: name, Kind: param.Float, Default: def, NonZero: true}
}

func integer(name string, def float64) param.Spec {
	return param.Spec{Name: name, Kind: param.Int, Default: def, NonZero: true}
}

func unit(name string, def float64) param.Spec {
	return param.Spec{Name: name, Kind: param.Float, Default: def, Bounded: true, Min: 0, Max: 1}
}

func derived(name string, fn func(param.Values) float64) param.Spec {
	return param.Spec{Name: name, Kind: param.Float, Derive: fn}
}

func choice(name string, def float64, choices ...string) param.Spec {
	return param.Spec{Name: name, Kind: param.Number, Default: def, Choices: choices}
}

// angleTerms derives sin and cos of a quarter-turn-scaled angle parameter.
func angleTerms(angle string) []param.Spec {
	return []param.Spec{
		derived("sin_a", func(v param.Values) float64 { return math.Sin(v[angle] * math.Pi / 2) }),
		derived("cos_a", func(v param.Values) float64 { return math.Cos(v[angle] * math.Pi / 2) }),
	}
}

// juliaTerms derives |power| and the radial exponent dist/power/2.
func juliaTerms() []param.Spec {
	return []param.Spec{
		derived("abs_n", func(v param.Values) float64 { return math.Abs(v["power"]) }),
		derived("cn", func(v param.Values) float64 { return v["dist"] / v["power"] / 2 }),
	}
}

func specs(groups ...[]param.Spec) []param.Spec {
	var out []param.Spec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
