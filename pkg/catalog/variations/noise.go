package variations

import (
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

// Variations built on the procedural noise library.
var noiseVariations = []variation{
	{name: "perlin", kinds: both, deps: []string{std.NoiseBase, std.NoisePerlin},
		params: []param.Spec{scalar("freq", 2), scalar("amp", 0.5)}, doc: "radial displacement by gradient noise", src: `
let s = 1.0 + {{amp}} * noise_perlin3(vIn * {{freq}});
vOut += {{weight}} * s * vIn;
`},
	{name: "value_warp3D", kinds: k3D, deps: []string{std.NoiseBase, std.NoiseValue},
		params: []param.Spec{scalar("freq", 1), scalar("amp", 0.3), scalar("seed", 0)}, src: `
let p = vIn * {{freq}} + vec3<f32>({{seed}}, 0.0, 0.0);
vOut.x += {{weight}} * (vIn.x + {{amp}} * noise_value3(p));
vOut.y += {{weight}} * (vIn.y + {{amp}} * noise_value3(p.yzx));
vOut.z += {{weight}} * (vIn.z + {{amp}} * noise_value3(p.zxy));
`},
	{name: "simplex_warp", kinds: k2D, deps: []string{std.NoiseBase, std.NoiseSimplex},
		params: []param.Spec{scalar("freq", 1), scalar("amp", 0.25)}, src: `
let p = vIn.xy * {{freq}};
vOut.x += {{weight}} * (vIn.x + {{amp}} * noise_simplex2(p));
vOut.y += {{weight}} * (vIn.y + {{amp}} * noise_simplex2(p + vec2<f32>(31.7, 17.3)));
`},
	// Declares only the top of its chain; noise_simplex and noise_base come
	// in through library prerequisites.
	{name: "fbm_warp", kinds: k2D, deps: []string{std.NoiseFBM},
		params: []param.Spec{
			scalar("freq", 1),
			scalar("amp", 0.25),
			integer("octaves", 4),
			scalar("lacunarity", 2),
			unit("gain", 0.5),
		}, src: `
let p = vIn.xy * {{freq}};
let n = noise_fbm2(p, i32({{octaves}}), {{lacunarity}}, {{gain}});
let m = noise_fbm2(p + vec2<f32>(5.2, 1.3), i32({{octaves}}), {{lacunarity}}, {{gain}});
vOut.x += {{weight}} * (vIn.x + {{amp}} * n);
vOut.y += {{weight}} * (vIn.y + {{amp}} * m);
`},
	{name: "crackle", kinds: k2D, deps: []string{std.NoiseBase, std.NoiseCellular},
		params: []param.Spec{
			nonzero("cellsize", 1),
			scalar("power", 0.2),
			choice("distance", 0, "euclidean", "manhattan", "chebyshev"),
		}, doc: "cellular noise scaling", src: `
let d = noise_cellular2(vIn.xy / {{cellsize}}, i32({{distance}}));
let s = {{weight}} * (1.0 + {{power}} * d);
vOut.x += s * vIn.x;
vOut.y += s * vIn.y;
`},
}
