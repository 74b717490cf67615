package variations

import (
	"math"

	"github.com/matzehuels/flamelink/pkg/param"
)

var threeD = []variation{
	{name: "spherical3D", kinds: k3D, src: `
let r = {{weight}} / (dot(vIn, vIn) + EPS);
vOut += r * vIn;
`},
	{name: "sinusoidal3D", kinds: k3D, src: `
vOut += {{weight}} * sin(vIn);
`},
	{name: "julia3D", kinds: k3D, pre: atanYX | sumSq,
		params: []param.Spec{
			integer("power", 2),
			derived("abs_n", func(v param.Values) float64 { return math.Abs(v["power"]) }),
			derived("cn", func(v param.Values) float64 { return (1/v["power"] - 1) / 2 }),
		}, src: `
let z = vIn.z / {{abs_n}};
let r = {{weight}} * pow(precalcSumSquares + z * z, {{cn}});
let r2 = r * sqrt(precalcSumSquares);
let t = (precalcAtanYX + M_2PI * trunc(rand01(rs) * {{abs_n}})) / f32({{power}});
vOut.x += r2 * cos(t);
vOut.y += r2 * sin(t);
vOut.z += r * z;
`},
	{name: "hemisphere", kinds: k3D, pre: sumSq, src: `
let t = {{weight}} / sqrt(precalcSumSquares + 1.0);
vOut.x += vIn.x * t;
vOut.y += vIn.y * t;
vOut.z += t;
`},
	{name: "zcone", kinds: k3D, pre: sqrtSq, src: `
vOut.x += {{weight}} * vIn.x;
vOut.y += {{weight}} * vIn.y;
vOut.z += {{weight}} * precalcSqrtSumSquares;
`},
	{name: "zscale", kinds: k3D, src: `
vOut.z += {{weight}} * vIn.z;
`},
	{name: "ztranslate", kinds: k3D, src: `
vOut.z += {{weight}};
`},
	{name: "zblur", kinds: k3D | base, src: `
vOut.z += {{weight}} * (rand01(rs) + rand01(rs) + rand01(rs) + rand01(rs) - 2.0);
`},
	{name: "blur3D", kinds: k3D | base, doc: "gaussian ball", src: `
let a = rand01(rs) * M_2PI;
let u = rand01(rs) * 2.0 - 1.0;
let s = sqrt(max(1.0 - u * u, 0.0));
let r = {{weight}} * (rand01(rs) + rand01(rs) + rand01(rs) + rand01(rs) - 2.0);
vOut.x += r * s * cos(a);
vOut.y += r * s * sin(a);
vOut.z += r * u;
`},
	{name: "pie3D", kinds: k3D | base,
		params: []param.Spec{integer("slices", 6), scalar("rotation", 0.5), unit("thickness", 0.5)}, src: `
let sl = trunc(rand01(rs) * f32({{slices}}) + 0.5);
let a = {{rotation}} + M_2PI * (sl + rand01(rs) * {{thickness}}) / f32({{slices}});
let r = {{weight}} * rand01(rs);
vOut.x += r * cos(a);
vOut.y += r * sin(a);
vOut.z += {{weight}} * (rand01(rs) - 0.5);
`},
}
