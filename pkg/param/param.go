// Package param models the typed, named, defaulted parameters a variation
// plugin exposes.
//
// A [Spec] belongs to exactly one plugin descriptor. Each placement of the
// plugin on a transform carries its own [Values], which are merged over the
// spec defaults with [Merge] and normalized per [Kind] before binding.
//
// Derived parameters (a non-nil [Spec.Derive]) are computed from the other
// values of the same placement and are never settable from a flame file.
// They let a template use a precalculated term such as sin(angle*pi/2)
// without recomputing it per point.
package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/flamelink/pkg/errors"
)

// Kind is the value type of a parameter.
type Kind int

const (
	// Float is a real-valued parameter emitted as an f32 literal.
	Float Kind = iota
	// Int is an integral parameter emitted as an integer literal.
	Int
	// Number is an enumerated parameter: an integer index into Spec.Choices.
	Number
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NonZeroFloat replaces a zero value of a NonZero float parameter.
const NonZeroFloat = 1e-6

// Spec describes one parameter of a plugin.
type Spec struct {
	Name    string
	Kind    Kind
	Default float64

	// Bounded clamps values into [Min, Max].
	Bounded  bool
	Min, Max float64

	// NonZero replaces zero with NonZeroFloat (Float) or 1 (Int).
	NonZero bool

	// Choices names the values of a Number parameter, by index.
	Choices []string

	// Derive computes a derived parameter from the placement's other values.
	Derive func(Values) float64
}

// Values maps parameter names to concrete values for one placement.
type Values map[string]float64

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// IsDerived reports whether the parameter is computed rather than set.
func (s Spec) IsDerived() bool {
	return s.Derive != nil
}

// ChoiceIndex returns the index of a named choice of a Number parameter.
func (s Spec) ChoiceIndex(name string) (int, bool) {
	for i, c := range s.Choices {
		if strings.EqualFold(c, name) {
			return i, true
		}
	}
	return 0, false
}

// Normalize validates v against the spec and returns the value to bind.
// Int and Number values are rounded to the nearest integer.
func (s Spec) Normalize(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(s.Name, "value %v is not finite", v)
	}
	if math.Abs(v) > math.MaxFloat32 {
		return 0, invalid(s.Name, "value %v overflows f32", v)
	}

	if s.Kind != Float {
		v = math.Round(v)
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, invalid(s.Name, "value %v overflows i32", v)
		}
	}
	if s.Kind == Number && (v < 0 || int(v) >= len(s.Choices)) {
		return 0, invalid(s.Name, "choice %v out of range [0, %d)", v, len(s.Choices))
	}

	if s.Bounded {
		v = math.Min(math.Max(v, s.Min), s.Max)
	}
	if s.NonZero && v == 0 {
		if s.Kind == Float {
			v = NonZeroFloat
		} else {
			v = 1
		}
	}
	return v, nil
}

// Parse converts a decoded configuration value (number, bool, or choice
// name) into a normalized parameter value.
func (s Spec) Parse(raw any) (float64, error) {
	switch x := raw.(type) {
	case float64:
		return s.Normalize(x)
	case float32:
		return s.Normalize(float64(x))
	case int:
		return s.Normalize(float64(x))
	case int64:
		return s.Normalize(float64(x))
	case bool:
		if x {
			return s.Normalize(1)
		}
		return s.Normalize(0)
	case string:
		if i, ok := s.ChoiceIndex(x); ok {
			return float64(i), nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, invalid(s.Name, "cannot parse %q", x)
		}
		return s.Normalize(f)
	default:
		return 0, invalid(s.Name, "unsupported value type %T", raw)
	}
}

// Defaults returns the default value of every settable parameter.
func Defaults(specs []Spec) Values {
	out := make(Values, len(specs))
	for _, s := range specs {
		if !s.IsDerived() {
			out[s.Name] = s.Default
		}
	}
	return out
}

// Lookup finds the spec named name.
func Lookup(specs []Spec, name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Merge overlays overrides on the spec defaults and normalizes every value.
// Unknown names fail with UNKNOWN_PARAMETER; derived names cannot be set.
func Merge(specs []Spec, overrides Values) (Values, error) {
	out := Defaults(specs)
	for name, v := range overrides {
		s, ok := Lookup(specs, name)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownParameter, "unknown parameter %q", name).
				With("param", name)
		}
		if s.IsDerived() {
			return nil, invalid(name, "derived parameter cannot be set")
		}
		out[name] = v
	}
	for _, s := range specs {
		if s.IsDerived() {
			continue
		}
		v, err := s.Normalize(out[s.Name])
		if err != nil {
			return nil, err
		}
		out[s.Name] = v
	}
	return out, nil
}

// Derive returns a copy of values with every derived parameter computed.
// Derived specs are evaluated in declaration order, so a later derived value
// may read an earlier one.
func Derive(specs []Spec, values Values) Values {
	out := values.Clone()
	for _, s := range specs {
		if s.IsDerived() {
			out[s.Name] = s.Derive(out)
		}
	}
	return out
}

func invalid(name, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidParameter, "parameter %q: %s", name, fmt.Sprintf(format, args...)).
		With("param", name)
}
