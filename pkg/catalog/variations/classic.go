package variations

import (
	"math"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

const (
	k2D  = catalog.Kind2D
	k3D  = catalog.Kind3D
	both = catalog.KindBoth
	base = catalog.KindBaseShape

	sumSq  = catalog.PrecalcSumSquares
	sqrtSq = catalog.PrecalcSqrtSumSquares
	atanXY = catalog.PrecalcAtanXY
	atanYX = catalog.PrecalcAtanYX
	sinA   = catalog.PrecalcSinA
	cosA   = catalog.PrecalcCosA
)

var classic = []variation{
	{name: "linear", kinds: both, doc: "identity scaled by weight", src: `
vOut += {{weight}} * vIn;
`},
	{name: "sinusoidal", kinds: k2D, src: `
vOut.x += {{weight}} * sin(vIn.x);
vOut.y += {{weight}} * sin(vIn.y);
`},
	{name: "spherical", kinds: k2D, pre: sumSq, doc: "inversion in the unit circle", src: `
let r = {{weight}} / (precalcSumSquares + EPS);
vOut.x += r * vIn.x;
vOut.y += r * vIn.y;
`},
	{name: "swirl", kinds: k2D, pre: sumSq, src: `
let c1 = sin(precalcSumSquares);
let c2 = cos(precalcSumSquares);
vOut.x += {{weight}} * (c1 * vIn.x - c2 * vIn.y);
vOut.y += {{weight}} * (c2 * vIn.x + c1 * vIn.y);
`},
	{name: "horseshoe", kinds: k2D, pre: sqrtSq, src: `
let r = {{weight}} / (precalcSqrtSumSquares + EPS);
vOut.x += (vIn.x - vIn.y) * (vIn.x + vIn.y) * r;
vOut.y += 2.0 * vIn.x * vIn.y * r;
`},
	{name: "polar", kinds: k2D, pre: atanXY | sqrtSq, src: `
vOut.x += {{weight}} * precalcAtanXY * M_1_PI;
vOut.y += {{weight}} * (precalcSqrtSumSquares - 1.0);
`},
	{name: "handkerchief", kinds: k2D, pre: atanXY | sqrtSq, src: `
let a = precalcAtanXY;
let r = precalcSqrtSumSquares;
vOut.x += {{weight}} * r * sin(a + r);
vOut.y += {{weight}} * r * cos(a - r);
`},
	{name: "heart", kinds: k2D, pre: atanXY | sqrtSq, src: `
let r = precalcSqrtSumSquares;
let a = precalcAtanXY * r;
vOut.x += {{weight}} * r * sin(a);
vOut.y -= {{weight}} * r * cos(a);
`},
	{name: "disc", kinds: k2D, pre: atanXY | sqrtSq, src: `
let a = {{weight}} * precalcAtanXY * M_1_PI;
let r = PI * precalcSqrtSumSquares;
vOut.x += sin(r) * a;
vOut.y += cos(r) * a;
`},
	{name: "spiral", kinds: k2D, pre: sqrtSq | sinA | cosA, src: `
let r = precalcSqrtSumSquares + EPS;
let r1 = {{weight}} / r;
vOut.x += r1 * (precalcCosa + sin(r));
vOut.y += r1 * (precalcSina - cos(r));
`},
	{name: "hyperbolic", kinds: k2D, pre: sqrtSq | sinA | cosA, src: `
let r = precalcSqrtSumSquares + EPS;
vOut.x += {{weight}} * precalcSina / r;
vOut.y += {{weight}} * precalcCosa * r;
`},
	{name: "diamond", kinds: k2D, pre: sqrtSq | sinA | cosA, src: `
let r = precalcSqrtSumSquares;
vOut.x += {{weight}} * precalcSina * cos(r);
vOut.y += {{weight}} * precalcCosa * sin(r);
`},
	{name: "ex", kinds: k2D, pre: atanXY | sqrtSq, src: `
let a = precalcAtanXY;
let r = precalcSqrtSumSquares;
let n0 = sin(a + r);
let n1 = cos(a - r);
let m0 = n0 * n0 * n0 * r;
let m1 = n1 * n1 * n1 * r;
vOut.x += {{weight}} * (m0 + m1);
vOut.y += {{weight}} * (m0 - m1);
`},
	{name: "julia", kinds: k2D, pre: atanXY | sqrtSq, doc: "square root with random branch", src: `
var a = 0.5 * precalcAtanXY;
if (rand01(rs) < 0.5) {
    a += PI;
}
let r = {{weight}} * sqrt(precalcSqrtSumSquares);
vOut.x += r * cos(a);
vOut.y += r * sin(a);
`},
	{name: "bent", kinds: k2D, src: `
var nx = vIn.x;
var ny = vIn.y;
if (nx < 0.0) {
    nx = nx * 2.0;
}
if (ny < 0.0) {
    ny = ny * 0.5;
}
vOut.x += {{weight}} * nx;
vOut.y += {{weight}} * ny;
`},
	{name: "waves", kinds: k2D, doc: "reads the transform's b, c, e, f coefficients", src: `
vOut.x += {{weight}} * (vIn.x + {{xf.b}} * sin(vIn.y / ({{xf.c}} * {{xf.c}} + EPS)));
vOut.y += {{weight}} * (vIn.y + {{xf.e}} * sin(vIn.x / ({{xf.f}} * {{xf.f}} + EPS)));
`},
	{name: "fisheye", kinds: k2D, pre: sqrtSq, src: `
let r = 2.0 * {{weight}} / (precalcSqrtSumSquares + 1.0);
vOut.x += r * vIn.y;
vOut.y += r * vIn.x;
`},
	{name: "popcorn", kinds: k2D, doc: "reads the transform's c and f coefficients", src: `
vOut.x += {{weight}} * (vIn.x + {{xf.c}} * sin(tan(3.0 * vIn.y)));
vOut.y += {{weight}} * (vIn.y + {{xf.f}} * sin(tan(3.0 * vIn.x)));
`},
	{name: "exponential", kinds: k2D, src: `
let d = {{weight}} * exp(vIn.x - 1.0);
let a = PI * vIn.y;
vOut.x += d * cos(a);
vOut.y += d * sin(a);
`},
	{name: "power", kinds: k2D, pre: sqrtSq | sinA | cosA, src: `
let r = {{weight}} * pow(precalcSqrtSumSquares, precalcSina);
vOut.x += r * precalcCosa;
vOut.y += r * precalcSina;
`},
	{name: "cosine", kinds: k2D, src: `
let a = vIn.x * PI;
vOut.x += {{weight}} * cos(a) * cosh(vIn.y);
vOut.y -= {{weight}} * sin(a) * sinh(vIn.y);
`},
	{name: "rings", kinds: k2D, pre: sqrtSq | sinA | cosA, deps: []string{std.Fmod}, doc: "reads the transform's c coefficient", src: `
let dx = {{xf.c}} * {{xf.c}} + EPS;
let r0 = precalcSqrtSumSquares;
let r = {{weight}} * (lib_fmod(r0 + dx, 2.0 * dx) - dx + r0 * (1.0 - dx));
vOut.x += r * precalcCosa;
vOut.y += r * precalcSina;
`},
	{name: "fan", kinds: k2D, pre: atanXY | sqrtSq, deps: []string{std.Fmod}, doc: "reads the transform's c and f coefficients", src: `
let dx = PI * ({{xf.c}} * {{xf.c}} + EPS);
let dx2 = 0.5 * dx;
var a = precalcAtanXY;
a += select(dx2, -dx2, lib_fmod(a + {{xf.f}}, dx) > dx2);
let r = {{weight}} * precalcSqrtSumSquares;
vOut.x += r * cos(a);
vOut.y += r * sin(a);
`},
	{name: "blob", kinds: k2D, pre: atanXY | sqrtSq | sinA | cosA,
		params: []param.Spec{scalar("high", 1), scalar("low", 0), scalar("waves", 1)}, src: `
let r = precalcSqrtSumSquares * ({{low}} + ({{high}} - {{low}}) * (0.5 + 0.5 * sin({{waves}} * precalcAtanXY)));
vOut.x += {{weight}} * precalcSina * r;
vOut.y += {{weight}} * precalcCosa * r;
`},
	{name: "pdj", kinds: k2D,
		params: []param.Spec{scalar("a", 1), scalar("b", 1), scalar("c", 1), scalar("d", 1)}, src: `
vOut.x += {{weight}} * (sin({{a}} * vIn.y) - cos({{b}} * vIn.x));
vOut.y += {{weight}} * (sin({{c}} * vIn.x) - cos({{d}} * vIn.y));
`},
	{name: "fan2", kinds: k2D, pre: atanXY | sqrtSq,
		params: []param.Spec{scalar("x", 0.5), scalar("y", 0)}, src: `
let dx = PI * ({{x}} * {{x}} + EPS);
let dx2 = 0.5 * dx;
var a = precalcAtanXY;
let t = a + {{y}} - dx * trunc((a + {{y}}) / dx);
a += select(dx2, -dx2, t > dx2);
let r = {{weight}} * precalcSqrtSumSquares;
vOut.x += r * sin(a);
vOut.y += r * cos(a);
`},
	{name: "rings2", kinds: k2D, pre: sqrtSq | sinA | cosA,
		params: []param.Spec{scalar("val", 1)}, src: `
let dx = {{val}} * {{val}} + EPS;
var r = precalcSqrtSumSquares;
r += -2.0 * dx * trunc((r + dx) / (2.0 * dx)) + r * (1.0 - dx);
vOut.x += {{weight}} * precalcSina * r;
vOut.y += {{weight}} * precalcCosa * r;
`},
	{name: "eyefish", kinds: k2D, pre: sqrtSq, src: `
let r = 2.0 * {{weight}} / (precalcSqrtSumSquares + 1.0);
vOut.x += r * vIn.x;
vOut.y += r * vIn.y;
`},
	{name: "bubble", kinds: both, pre: sumSq, src: `
let d = 0.25 * precalcSumSquares + 1.0;
let r = {{weight}} / d;
vOut.x += r * vIn.x;
vOut.y += r * vIn.y;
vOut.z += {{weight}} * (2.0 / d - 1.0);
`},
	{name: "cylinder", kinds: both, src: `
vOut.x += {{weight}} * sin(vIn.x);
vOut.y += {{weight}} * vIn.y;
vOut.z += {{weight}} * cos(vIn.x);
`},
	{name: "perspective", kinds: k2D,
		params: []param.Spec{
			scalar("angle", 0.62),
			scalar("dist", 2.2),
			derived("vsin", func(v param.Values) float64 { return math.Sin(v["angle"] * math.Pi / 2) }),
			derived("vfcos", func(v param.Values) float64 { return v["dist"] * math.Cos(v["angle"]*math.Pi/2) }),
		}, src: `
let t = 1.0 / ({{dist}} - vIn.y * {{vsin}} + EPS);
vOut.x += {{weight}} * {{dist}} * vIn.x * t;
vOut.y += {{weight}} * {{vfcos}} * vIn.y * t;
`},
	{name: "noise", kinds: k2D, src: `
let a = rand01(rs) * M_2PI;
let r = {{weight}} * rand01(rs);
vOut.x += vIn.x * r * cos(a);
vOut.y += vIn.y * r * sin(a);
`},
	{name: "julian", kinds: k2D, pre: atanYX | sumSq,
		params: specs([]param.Spec{integer("power", 2), scalar("dist", 1)}, juliaTerms()), src: `
let t = (precalcAtanYX + M_2PI * trunc({{abs_n}} * rand01(rs))) / f32({{power}});
let r = {{weight}} * pow(precalcSumSquares, {{cn}});
vOut.x += r * cos(t);
vOut.y += r * sin(t);
`},
	{name: "juliascope", kinds: k2D, pre: atanYX | sumSq, deps: []string{std.SgnNZ},
		params: specs([]param.Spec{integer("power", 2), scalar("dist", 1)}, juliaTerms()), src: `
let rnd = trunc({{abs_n}} * rand01(rs));
let s = lib_sgnnz(rand01(rs) - 0.5);
let t = (s * precalcAtanYX + M_2PI * rnd) / f32({{power}});
let r = {{weight}} * pow(precalcSumSquares, {{cn}});
vOut.x += r * cos(t);
vOut.y += r * sin(t);
`},
	{name: "blur", kinds: k2D | base, doc: "uniform disc", src: `
let a = rand01(rs) * M_2PI;
let r = {{weight}} * rand01(rs);
vOut.x += r * cos(a);
vOut.y += r * sin(a);
`},
	{name: "gaussian_blur", kinds: k2D | base, src: `
let a = rand01(rs) * M_2PI;
let r = {{weight}} * (rand01(rs) + rand01(rs) + rand01(rs) + rand01(rs) - 2.0);
vOut.x += r * cos(a);
vOut.y += r * sin(a);
`},
	{name: "radial_blur", kinds: k2D, pre: atanYX | sqrtSq,
		params: []param.Spec{
			scalar("angle", 0.5),
			derived("spin", func(v param.Values) float64 { return math.Sin(v["angle"] * math.Pi / 2) }),
			derived("zoom", func(v param.Values) float64 { return math.Cos(v["angle"] * math.Pi / 2) }),
		}, src: `
let g = {{weight}} * (rand01(rs) + rand01(rs) + rand01(rs) + rand01(rs) - 2.0);
let a = precalcAtanYX + {{spin}} * g;
let rz = {{zoom}} * g - 1.0;
vOut.x += precalcSqrtSumSquares * cos(a) + rz * vIn.x;
vOut.y += precalcSqrtSumSquares * sin(a) + rz * vIn.y;
`},
	{name: "pie", kinds: k2D | base,
		params: []param.Spec{integer("slices", 6), scalar("rotation", 0.5), unit("thickness", 0.5)}, src: `
let sl = trunc(rand01(rs) * f32({{slices}}) + 0.5);
let a = {{rotation}} + M_2PI * (sl + rand01(rs) * {{thickness}}) / f32({{slices}});
let r = {{weight}} * rand01(rs);
vOut.x += r * cos(a);
vOut.y += r * sin(a);
`},
	{name: "ngon", kinds: k2D, pre: atanYX | sumSq,
		params: []param.Spec{
			scalar("power", 3),
			integer("sides", 5),
			scalar("corners", 2),
			scalar("circle", 1),
			derived("half_power", func(v param.Values) float64 { return v["power"] / 2 }),
			derived("step", func(v param.Values) float64 { return 2 * math.Pi / v["sides"] }),
		}, src: `
let rf = pow(precalcSumSquares + EPS, {{half_power}});
var phi = precalcAtanYX - {{step}} * floor(precalcAtanYX / {{step}});
if (phi > 0.5 * {{step}}) {
    phi -= {{step}};
}
let amp = {{weight}} * ({{corners}} * (1.0 / (cos(phi) + EPS) - 1.0) + {{circle}}) / (rf + EPS);
vOut.x += amp * vIn.x;
vOut.y += amp * vIn.y;
`},
	{name: "curl", kinds: k2D,
		params: []param.Spec{scalar("c1", 1), scalar("c2", 0)}, src: `
let re = 1.0 + {{c1}} * vIn.x + {{c2}} * (vIn.x * vIn.x - vIn.y * vIn.y);
let im = {{c1}} * vIn.y + 2.0 * {{c2}} * vIn.x * vIn.y;
let r = {{weight}} / (re * re + im * im + EPS);
vOut.x += (vIn.x * re + vIn.y * im) * r;
vOut.y += (vIn.y * re - vIn.x * im) * r;
`},
	{name: "rectangles", kinds: k2D,
		params: []param.Spec{nonzero("x", 1), nonzero("y", 1)}, src: `
vOut.x += {{weight}} * ((2.0 * floor(vIn.x / {{x}}) + 1.0) * {{x}} - vIn.x);
vOut.y += {{weight}} * ((2.0 * floor(vIn.y / {{y}}) + 1.0) * {{y}} - vIn.y);
`},
	{name: "arch", kinds: k2D | base, src: `
let a = rand01(rs) * {{weight}} * PI;
let s = sin(a);
vOut.x += {{weight}} * s;
vOut.y += {{weight}} * (s * s) / (cos(a) + EPS);
`},
	{name: "tangent", kinds: k2D, src: `
vOut.x += {{weight}} * sin(vIn.x) / (cos(vIn.y) + EPS);
vOut.y += {{weight}} * tan(vIn.y);
`},
	{name: "square", kinds: k2D | base, src: `
vOut.x += {{weight}} * (rand01(rs) - 0.5);
vOut.y += {{weight}} * (rand01(rs) - 0.5);
`},
	{name: "rays", kinds: k2D, pre: sumSq, src: `
let a = {{weight}} * rand01(rs) * PI;
let r = {{weight}} / (precalcSumSquares + EPS);
let t = {{weight}} * tan(a) * r;
vOut.x += t * cos(vIn.x);
vOut.y += t * sin(vIn.y);
`},
	{name: "blade", kinds: k2D, pre: sqrtSq, src: `
let r = rand01(rs) * {{weight}} * precalcSqrtSumSquares;
let s = sin(r);
let c = cos(r);
vOut.x += {{weight}} * vIn.x * (c + s);
vOut.y += {{weight}} * vIn.x * (c - s);
`},
	{name: "cross", kinds: k2D, src: `
let s = vIn.x * vIn.x - vIn.y * vIn.y;
let r = {{weight}} * sqrt(1.0 / (s * s + EPS));
vOut.x += vIn.x * r;
vOut.y += vIn.y * r;
`},
	{name: "secant2", kinds: k2D, pre: sqrtSq, src: `
let c = cos({{weight}} * precalcSqrtSumSquares);
let ic = 1.0 / (c + EPS);
vOut.x += {{weight}} * vIn.x;
vOut.y += {{weight}} * select(ic - 1.0, ic + 1.0, c < 0.0);
`},
}
