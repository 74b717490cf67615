package std

import "github.com/matzehuels/flamelink/pkg/library"

// The noise core keeps its permutation table in private storage, so every
// invocation must run noise_init() before sampling.
const noiseInit = "noise_init();"

func registerNoise(t *library.Table) {
	t.Register(library.Function{ID: NoiseBase, Init: noiseInit, Source: `var<private> noise_perm: array<u32, 512>;

fn noise_init() {
    var seed = 1337u;
    for (var i = 0u; i < 256u; i = i + 1u) {
        noise_perm[i] = i;
    }
    for (var i = 255u; i > 0u; i = i - 1u) {
        seed = seed * 1664525u + 1013904223u;
        let j = seed % (i + 1u);
        let t = noise_perm[i];
        noise_perm[i] = noise_perm[j];
        noise_perm[j] = t;
    }
    for (var i = 0u; i < 256u; i = i + 1u) {
        noise_perm[i + 256u] = noise_perm[i];
    }
}

fn noise_fade(t: f32) -> f32 {
    return t * t * t * (t * (t * 6.0 - 15.0) + 10.0);
}

fn noise_grad(h: u32, x: f32, y: f32, z: f32) -> f32 {
    let k = h & 15u;
    let u = select(y, x, k < 8u);
    let v = select(select(z, x, k == 12u || k == 14u), y, k < 4u);
    return select(-u, u, (k & 1u) == 0u) + select(-v, v, (k & 2u) == 0u);
}
`})

	t.Register(library.Function{ID: NoiseValue, Requires: []string{NoiseBase}, Source: `fn noise_lattice(x: i32, y: i32, z: i32) -> f32 {
    let h = noise_perm[noise_perm[noise_perm[u32(x & 255)] + u32(y & 255)] + u32(z & 255)];
    return f32(h) / 255.0 * 2.0 - 1.0;
}

fn noise_value3(p: vec3<f32>) -> f32 {
    let c = vec3<i32>(floor(p));
    let f = p - floor(p);
    let u = noise_fade(f.x);
    let v = noise_fade(f.y);
    let w = noise_fade(f.z);
    let x00 = mix(noise_lattice(c.x, c.y, c.z), noise_lattice(c.x + 1, c.y, c.z), u);
    let x10 = mix(noise_lattice(c.x, c.y + 1, c.z), noise_lattice(c.x + 1, c.y + 1, c.z), u);
    let x01 = mix(noise_lattice(c.x, c.y, c.z + 1), noise_lattice(c.x + 1, c.y, c.z + 1), u);
    let x11 = mix(noise_lattice(c.x, c.y + 1, c.z + 1), noise_lattice(c.x + 1, c.y + 1, c.z + 1), u);
    return mix(mix(x00, x10, v), mix(x01, x11, v), w);
}
`})

	t.Register(library.Function{ID: NoisePerlin, Requires: []string{NoiseBase}, Source: `fn noise_perlin3(p: vec3<f32>) -> f32 {
    let c = vec3<i32>(floor(p)) & vec3<i32>(255);
    let f = p - floor(p);
    let u = noise_fade(f.x);
    let v = noise_fade(f.y);
    let w = noise_fade(f.z);
    let a = noise_perm[u32(c.x)] + u32(c.y);
    let aa = noise_perm[a] + u32(c.z);
    let ab = noise_perm[a + 1u] + u32(c.z);
    let b = noise_perm[u32(c.x + 1)] + u32(c.y);
    let ba = noise_perm[b] + u32(c.z);
    let bb = noise_perm[b + 1u] + u32(c.z);
    let n0 = mix(
        mix(noise_grad(noise_perm[aa], f.x, f.y, f.z), noise_grad(noise_perm[ba], f.x - 1.0, f.y, f.z), u),
        mix(noise_grad(noise_perm[ab], f.x, f.y - 1.0, f.z), noise_grad(noise_perm[bb], f.x - 1.0, f.y - 1.0, f.z), u),
        v);
    let n1 = mix(
        mix(noise_grad(noise_perm[aa + 1u], f.x, f.y, f.z - 1.0), noise_grad(noise_perm[ba + 1u], f.x - 1.0, f.y, f.z - 1.0), u),
        mix(noise_grad(noise_perm[ab + 1u], f.x, f.y - 1.0, f.z - 1.0), noise_grad(noise_perm[bb + 1u], f.x - 1.0, f.y - 1.0, f.z - 1.0), u),
        v);
    return mix(n0, n1, w);
}
`})

	t.Register(library.Function{ID: NoiseSimplex, Requires: []string{NoiseBase}, Source: `fn noise_simplex2(p: vec2<f32>) -> f32 {
    let F2 = 0.36602540;
    let G2 = 0.21132487;
    let s = (p.x + p.y) * F2;
    let i = floor(p.x + s);
    let j = floor(p.y + s);
    let t = (i + j) * G2;
    let x0 = p.x - (i - t);
    let y0 = p.y - (j - t);
    var i1 = 0;
    var j1 = 1;
    if (x0 > y0) {
        i1 = 1;
        j1 = 0;
    }
    let x1 = x0 - f32(i1) + G2;
    let y1 = y0 - f32(j1) + G2;
    let x2 = x0 - 1.0 + 2.0 * G2;
    let y2 = y0 - 1.0 + 2.0 * G2;
    let ii = i32(i) & 255;
    let jj = i32(j) & 255;
    let g0 = noise_perm[u32(ii) + noise_perm[u32(jj)]];
    let g1 = noise_perm[u32(ii + i1) + noise_perm[u32(jj + j1)]];
    let g2 = noise_perm[u32(ii + 1) + noise_perm[u32(jj + 1)]];
    var n = 0.0;
    let t0 = 0.5 - x0 * x0 - y0 * y0;
    if (t0 > 0.0) {
        n = n + t0 * t0 * t0 * t0 * noise_grad(g0, x0, y0, 0.0);
    }
    let t1 = 0.5 - x1 * x1 - y1 * y1;
    if (t1 > 0.0) {
        n = n + t1 * t1 * t1 * t1 * noise_grad(g1, x1, y1, 0.0);
    }
    let t2 = 0.5 - x2 * x2 - y2 * y2;
    if (t2 > 0.0) {
        n = n + t2 * t2 * t2 * t2 * noise_grad(g2, x2, y2, 0.0);
    }
    return 70.0 * n;
}
`})

	t.Register(library.Function{ID: NoiseCellular, Requires: []string{NoiseBase}, Source: `fn noise_cellular2(p: vec2<f32>, metric: i32) -> f32 {
    let cell = floor(p);
    var best = 1e10;
    for (var dy = -1; dy <= 1; dy = dy + 1) {
        for (var dx = -1; dx <= 1; dx = dx + 1) {
            let c = cell + vec2<f32>(f32(dx), f32(dy));
            let h = noise_perm[noise_perm[u32(i32(c.x) & 255)] + u32(i32(c.y) & 255)];
            let d = c + vec2<f32>(f32(h & 15u), f32(h >> 4u)) / 15.0 - p;
            var dist = length(d);
            if (metric == 1) {
                dist = abs(d.x) + abs(d.y);
            } else if (metric == 2) {
                dist = max(abs(d.x), abs(d.y));
            }
            best = min(best, dist);
        }
    }
    return best;
}
`})

	t.Register(library.Function{ID: NoiseFBM, Requires: []string{NoiseSimplex}, Source: `fn noise_fbm2(p: vec2<f32>, octaves: i32, lacunarity: f32, gain: f32) -> f32 {
    var sum = 0.0;
    var amp = 1.0;
    var q = p;
    for (var i = 0; i < octaves; i = i + 1) {
        sum = sum + amp * noise_simplex2(q);
        q = q * lacunarity;
        amp = amp * gain;
    }
    return sum;
}
`})
}
