package variations

import (
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

// Variations built on the scalar math helpers.
var helpers = []variation{
	{name: "stripes", kinds: k2D, deps: []string{std.RoundAway},
		params: []param.Spec{scalar("space", 0.5), scalar("warp", 0)}, src: `
let rx = lib_roundaway(vIn.x);
let ox = vIn.x - rx;
vOut.x += {{weight}} * (ox * (1.0 - {{space}}) + rx);
vOut.y += {{weight}} * (vIn.y + ox * ox * {{warp}});
`},
	{name: "bipolar", kinds: k2D, pre: sumSq, deps: []string{std.Fmod},
		params: []param.Spec{scalar("shift", 0)}, src: `
let t = precalcSumSquares + 1.0;
let x2 = 2.0 * vIn.x;
var y = 0.5 * atan2(2.0 * vIn.y, precalcSumSquares - 1.0) + {{shift}} * PI * 0.5;
y = lib_fmod(y + 0.5 * PI, PI) - 0.5 * PI;
vOut.x += {{weight}} * 0.5 * M_1_PI * log((t + x2) / (t - x2 + EPS) + EPS);
vOut.y += {{weight}} * 2.0 * M_1_PI * y;
`},
	{name: "elliptic", kinds: k2D, pre: sumSq, deps: []string{std.SgnNZ}, src: `
let tmp = precalcSumSquares + 1.0;
let x2 = 2.0 * vIn.x;
let xmax = 0.5 * (sqrt(tmp + x2) + sqrt(max(tmp - x2, 0.0)));
let a = vIn.x / xmax;
let b = sqrt(max(1.0 - a * a, 0.0));
let ssx = sqrt(max(xmax - 1.0, 0.0));
let w = {{weight}} * 2.0 * M_1_PI;
vOut.x += w * atan2(a, b);
vOut.y += w * log(xmax + ssx) * lib_sgnnz(vIn.y);
`},
	{name: "splits", kinds: k2D, deps: []string{std.SgnNZ},
		params: []param.Spec{scalar("x", 0), scalar("y", 0)}, src: `
vOut.x += {{weight}} * (vIn.x + lib_sgnnz(vIn.x) * {{x}});
vOut.y += {{weight}} * (vIn.y + lib_sgnnz(vIn.y) * {{y}});
`},
	{name: "sech", kinds: k2D, deps: []string{std.Sech}, src: `
let s = lib_sech(vIn.x);
vOut.x += {{weight}} * s * cos(vIn.y);
vOut.y -= {{weight}} * s * sin(vIn.y);
`},
	// lib_csch pulls lib_zeps in through its own prerequisites.
	{name: "csch", kinds: k2D, deps: []string{std.Csch}, src: `
let s = lib_csch(vIn.x);
vOut.x += {{weight}} * s * cos(vIn.y);
vOut.y -= {{weight}} * s * sin(vIn.y);
`},
	{name: "coth", kinds: k2D, deps: []string{std.Zeps, std.Coth}, src: `
vOut.x += {{weight}} * lib_coth(vIn.x);
vOut.y += {{weight}} * sin(vIn.y) / lib_zeps(cosh(vIn.x));
`},
	{name: "twintrian", kinds: k2D, pre: sqrtSq, deps: []string{std.Log10}, src: `
let r = rand01(rs) * {{weight}} * precalcSqrtSumSquares;
let s = sin(r);
let diff = lib_log10(s * s + EPS) + cos(r);
vOut.x += {{weight}} * vIn.x * diff;
vOut.y += {{weight}} * vIn.x * (diff - s * PI);
`},
	{name: "spread", kinds: k2D, deps: []string{std.Spread, std.Sgn},
		params: []param.Spec{scalar("amount", 0.5)}, src: `
let s = lib_spread(vIn.x, vIn.y);
vOut.x += {{weight}} * (vIn.x + {{amount}} * lib_sgn(vIn.y) * s);
vOut.y += {{weight}} * (vIn.y + {{amount}} * lib_sgn(vIn.x) * s);
`},
}
