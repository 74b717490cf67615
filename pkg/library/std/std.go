// Package std registers the standard WGSL helper library used by the
// built-in variation catalog.
//
// Sources assume the kernel prelude is in scope: the constants EPS, PI,
// M_1_PI and M_2PI, the Point struct and the rand01 generator.
package std

import (
	"sync"

	"github.com/matzehuels/flamelink/pkg/library"
)

// Math helpers.
const (
	Zeps      = "lib_zeps"
	Fmod      = "lib_fmod"
	RoundAway = "lib_roundaway"
	Sgn       = "lib_sgn"
	SgnNZ     = "lib_sgnnz"
	Hypot     = "lib_hypot"
	Spread    = "lib_spread"
	Sech      = "lib_sech"
	Csch      = "lib_csch"
	Coth      = "lib_coth"
	Log10     = "lib_log10"
)

// Complex algebra.
const (
	Complex      = "complex"
	ComplexTrans = "complex_trans"
	ComplexTrig  = "complex_trig"
)

// Procedural noise.
const (
	NoiseBase     = "noise_base"
	NoiseValue    = "noise_value"
	NoisePerlin   = "noise_perlin"
	NoiseSimplex  = "noise_simplex"
	NoiseCellular = "noise_cellular"
	NoiseFBM      = "noise_fbm"
)

// Register adds every standard helper to t.
func Register(t *library.Table) {
	registerMath(t)
	registerComplex(t)
	registerNoise(t)
}

// Default returns the frozen process-wide standard table.
var Default = sync.OnceValue(func() *library.Table {
	t := library.NewTable()
	Register(t)
	t.Freeze()
	return t
})
