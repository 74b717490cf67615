package variations

import (
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

var (
	complexTrans = []string{std.Complex, std.ComplexTrans}
	complexTrig  = []string{std.Complex, std.ComplexTrig}
)

// Variations that treat the point as a complex number.
var complexVariations = []variation{
	{name: "cpow", kinds: k2D, deps: complexTrans,
		params: []param.Spec{scalar("power", 2)}, doc: "complex power", src: `
let p = c_pow(Complex(vIn.x, vIn.y), {{power}});
vOut.x += {{weight}} * p.re;
vOut.y += {{weight}} * p.im;
`},
	{name: "cexp", kinds: k2D, deps: complexTrans, src: `
let e = c_exp(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * e.re;
vOut.y += {{weight}} * e.im;
`},
	{name: "clog", kinds: k2D, deps: complexTrans,
		params: []param.Spec{scalar("scale", 1)}, src: `
let l = c_log(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * {{scale}} * l.re;
vOut.y += {{weight}} * {{scale}} * l.im;
`},
	{name: "csqrt", kinds: k2D, deps: complexTrans, src: `
let q = c_sqrt(Complex(vIn.x, vIn.y));
let s = select(1.0, -1.0, rand01(rs) < 0.5);
vOut.x += {{weight}} * s * q.re;
vOut.y += {{weight}} * s * q.im;
`},
	{name: "csin", kinds: k2D, deps: complexTrig, src: `
let q = c_sin(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * q.re;
vOut.y += {{weight}} * q.im;
`},
	{name: "ccos", kinds: k2D, deps: complexTrig, src: `
let q = c_cos(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * q.re;
vOut.y += {{weight}} * q.im;
`},
	{name: "ctan", kinds: k2D, deps: complexTrig, src: `
let q = c_tan(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * q.re;
vOut.y += {{weight}} * q.im;
`},
	{name: "ctanh", kinds: k2D, deps: complexTrig, src: `
let q = c_tanh(Complex(vIn.x, vIn.y));
vOut.x += {{weight}} * q.re;
vOut.y += {{weight}} * q.im;
`},
	{name: "mobius", kinds: k2D, deps: []string{std.Complex},
		params: []param.Spec{
			scalar("re_a", 1), scalar("im_a", 0),
			scalar("re_b", 0), scalar("im_b", 0),
			scalar("re_c", 0), scalar("im_c", 0),
			scalar("re_d", 1), scalar("im_d", 0),
		}, doc: "Mobius transformation (az+b)/(cz+d)", src: `
let z = Complex(vIn.x, vIn.y);
let num = c_add(c_mul(Complex({{re_a}}, {{im_a}}), z), Complex({{re_b}}, {{im_b}}));
let den = c_add(c_mul(Complex({{re_c}}, {{im_c}}), z), Complex({{re_d}}, {{im_d}}));
let m = c_div(num, den);
vOut.x += {{weight}} * m.re;
vOut.y += {{weight}} * m.im;
`},
}
