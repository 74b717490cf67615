package std

import "github.com/matzehuels/flamelink/pkg/library"

func registerMath(t *library.Table) {
	t.Register(library.Function{ID: Zeps, Source: `fn lib_zeps(x: f32) -> f32 {
    if (x == 0.0) {
        return EPS;
    }
    return x;
}
`})

	// C fmod semantics: the result takes the sign of x.
	t.Register(library.Function{ID: Fmod, Source: `fn lib_fmod(x: f32, y: f32) -> f32 {
    return x - y * trunc(x / y);
}
`})

	t.Register(library.Function{ID: RoundAway, Source: `fn lib_roundaway(x: f32) -> f32 {
    if (x < 0.0) {
        return -floor(-x + 0.5);
    }
    return floor(x + 0.5);
}
`})

	t.Register(library.Function{ID: Sgn, Source: `fn lib_sgn(x: f32) -> f32 {
    if (x < 0.0) {
        return -1.0;
    }
    if (x > 0.0) {
        return 1.0;
    }
    return 0.0;
}
`})

	t.Register(library.Function{ID: SgnNZ, Source: `fn lib_sgnnz(x: f32) -> f32 {
    if (x < 0.0) {
        return -1.0;
    }
    return 1.0;
}
`})

	t.Register(library.Function{ID: Hypot, Source: `fn lib_hypot(x: f32, y: f32) -> f32 {
    return sqrt(x * x + y * y);
}
`})

	t.Register(library.Function{ID: Spread, Requires: []string{Hypot}, Source: `fn lib_spread(x: f32, y: f32) -> f32 {
    return lib_hypot(x, y) * select(-1.0, 1.0, x > y);
}
`})

	t.Register(library.Function{ID: Sech, Source: `fn lib_sech(x: f32) -> f32 {
    return 1.0 / cosh(x);
}
`})

	t.Register(library.Function{ID: Csch, Requires: []string{Zeps}, Source: `fn lib_csch(x: f32) -> f32 {
    return 1.0 / lib_zeps(sinh(x));
}
`})

	t.Register(library.Function{ID: Coth, Requires: []string{Zeps}, Source: `fn lib_coth(x: f32) -> f32 {
    return cosh(x) / lib_zeps(sinh(x));
}
`})

	t.Register(library.Function{ID: Log10, Source: `fn lib_log10(x: f32) -> f32 {
    return log(x) * 0.4342945;
}
`})
}
