package variations

import (
	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

const (
	post = catalog.KindPostPass
	dc   = catalog.KindDirectColor
)

// Post-pass blocks rewrite vOut after every regular block has accumulated.
var postPass = []variation{
	{name: "post_mirror", kinds: k2D | post, src: `
if (rand01(rs) < 0.5 * {{weight}}) {
    vOut.x = -vOut.x;
}
`},
	{name: "post_rotate", kinds: both | post,
		params: specs([]param.Spec{scalar("angle", 0.5)}, angleTerms("angle")), src: `
let rx = {{cos_a}} * vOut.x - {{sin_a}} * vOut.y;
let ry = {{sin_a}} * vOut.x + {{cos_a}} * vOut.y;
vOut.x = mix(vOut.x, rx, {{weight}});
vOut.y = mix(vOut.y, ry, {{weight}});
`},
	{name: "post_zspin", kinds: k3D | post,
		params: specs([]param.Spec{scalar("angle", 0.5)}, angleTerms("angle")), src: `
let ry = {{cos_a}} * vOut.y - {{sin_a}} * vOut.z;
let rz = {{sin_a}} * vOut.y + {{cos_a}} * vOut.z;
vOut.y = mix(vOut.y, ry, {{weight}});
vOut.z = mix(vOut.z, rz, {{weight}});
`},
	{name: "post_scale", kinds: both | post,
		params: []param.Spec{scalar("scale", 1)}, src: `
vOut *= mix(1.0, {{scale}}, {{weight}});
`},
}

// Direct-color blocks move the point like a regular variation and assign
// the palette index.
var directColor = []variation{
	{name: "dc_linear", kinds: k2D | dc,
		params: specs([]param.Spec{scalar("offset", 0), scalar("angle", 0), scalar("scale", 0.4)}, angleTerms("angle")), src: `
vOut.x += {{weight}} * vIn.x;
vOut.y += {{weight}} * vIn.y;
vColor = fract((vIn.x * {{cos_a}} + vIn.y * {{sin_a}} + {{offset}}) * {{scale}});
`},
	{name: "dc_cylinder", kinds: k2D | dc,
		params: []param.Spec{scalar("offset", 0), scalar("scale", 1)}, src: `
vOut.x += {{weight}} * sin(vIn.x);
vOut.y += {{weight}} * vIn.y;
vColor = fract(0.5 + 0.5 * cos(vIn.x * {{scale}} + {{offset}}));
`},
	{name: "dc_bubble", kinds: both | dc, pre: sumSq,
		params: []param.Spec{scalar("center_x", 0), scalar("center_y", 0), scalar("scale", 1)}, src: `
let d = 0.25 * precalcSumSquares + 1.0;
vOut.x += {{weight}} * vIn.x / d;
vOut.y += {{weight}} * vIn.y / d;
vOut.z += {{weight}} * (2.0 / d - 1.0);
let dx = vIn.x / d - {{center_x}};
let dy = vIn.y / d - {{center_y}};
vColor = clamp((dx * dx + dy * dy) * {{scale}}, 0.0, 1.0);
`},
	{name: "dc_perlin", kinds: both | dc, deps: []string{std.NoiseBase, std.NoisePerlin},
		params: []param.Spec{scalar("freq", 2), scalar("offset", 0)}, src: `
vOut += {{weight}} * vIn;
vColor = clamp(0.5 + 0.5 * noise_perlin3(vIn * {{freq}}) + {{offset}}, 0.0, 1.0);
`},
	{name: "dc_ztransl", kinds: k3D | dc,
		params: []param.Spec{scalar("x0", 0), scalar("x1", 1), scalar("factor", 1)}, src: `
vOut.x += {{weight}} * vIn.x;
vOut.y += {{weight}} * vIn.y;
vOut.z += {{weight}} * vIn.z * {{factor}};
vColor = clamp((vIn.z - {{x0}}) / ({{x1}} - {{x0}} + EPS), 0.0, 1.0);
`},
}
