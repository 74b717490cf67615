package param

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/flamelink/pkg/errors"
)

var juliaN = []Spec{
	{Name: "power", Kind: Int, Default: 2, NonZero: true},
	{Name: "dist", Kind: Float, Default: 1},
	{Name: "abs_n", Kind: Float, Derive: func(v Values) float64 { return math.Abs(v["power"]) }},
	{Name: "cn", Kind: Float, Derive: func(v Values) float64 { return v["dist"] / v["power"] / 2 }},
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{-0.5, "(-0.5)"},
		{0.1, "0.1"},
		{100000, "100000.0"},
		{1e7, "1e+07"},
		{1e-7, "1e-07"},
		{math.Pi, "3.1415927"},
		{-2, "(-2.0)"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{2.6, "3"},
		{-4, "(-4)"},
	}

	for _, tt := range tests {
		if got := FormatInt(tt.in); got != tt.want {
			t.Errorf("FormatInt(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Format(Number, 2); got != "2" {
		t.Errorf("Format(Number, 2) = %q, want 2", got)
	}
}

func TestFormatFloatRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("f32 literal parses back to the same value", prop.ForAll(
		func(f float32) bool {
			got, err := ParseLiteral(FormatFloat(float64(f)))
			if err != nil {
				return false
			}
			return float32(got) == f
		},
		gen.Float32(),
	))

	properties.Property("f32 literal is never an integer literal", prop.ForAll(
		func(f float32) bool {
			s := FormatFloat(float64(f))
			for _, c := range s {
				if c == '.' || c == 'e' {
					return true
				}
			}
			return false
		},
		gen.Float32(),
	))

	properties.TestingRun(t)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		in      float64
		want    float64
		wantErr bool
	}{
		{"float passthrough", Spec{Name: "x", Kind: Float}, 0.25, 0.25, false},
		{"int rounds", Spec{Name: "n", Kind: Int}, 2.6, 3, false},
		{"bounded clamps high", Spec{Name: "x", Bounded: true, Min: -1, Max: 1}, 5, 1, false},
		{"bounded clamps low", Spec{Name: "x", Bounded: true, Min: -1, Max: 1}, -5, -1, false},
		{"nonzero float", Spec{Name: "x", NonZero: true}, 0, NonZeroFloat, false},
		{"nonzero int", Spec{Name: "n", Kind: Int, NonZero: true}, 0, 1, false},
		{"choice in range", Spec{Name: "m", Kind: Number, Choices: []string{"a", "b"}}, 1, 1, false},
		{"choice out of range", Spec{Name: "m", Kind: Number, Choices: []string{"a", "b"}}, 2, 0, true},
		{"negative choice", Spec{Name: "m", Kind: Number, Choices: []string{"a"}}, -1, 0, true},
		{"nan", Spec{Name: "x"}, math.NaN(), 0, true},
		{"inf", Spec{Name: "x"}, math.Inf(1), 0, true},
		{"f32 overflow", Spec{Name: "x"}, 1e300, 0, true},
		{"int overflows i32", Spec{Name: "n", Kind: Int}, 1e20, 0, true},
		{"int just past i32", Spec{Name: "n", Kind: Int}, 3e9, 0, true},
		{"int below i32", Spec{Name: "n", Kind: Int}, -3e9, 0, true},
		{"int at i32 max", Spec{Name: "n", Kind: Int}, math.MaxInt32, math.MaxInt32, false},
		{"choice overflows i32", Spec{Name: "m", Kind: Number, Choices: []string{"a"}}, 1e20, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidParameter) {
					t.Errorf("error code = %v, want INVALID_PARAMETER", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	spec := Spec{Name: "metric", Kind: Number, Choices: []string{"euclidean", "manhattan", "chebyshev"}}

	tests := []struct {
		raw     any
		want    float64
		wantErr bool
	}{
		{"manhattan", 1, false},
		{"Chebyshev", 2, false},
		{int64(0), 0, false},
		{float64(2), 2, false},
		{"2", 2, false},
		{"taxicab", 0, true},
		{[]int{1}, 0, true},
	}

	for _, tt := range tests {
		got, err := spec.Parse(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%v) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		got, err := Merge(juliaN, nil)
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if got["power"] != 2 || got["dist"] != 1 {
			t.Errorf("Merge defaults = %v", got)
		}
		if _, ok := got["cn"]; ok {
			t.Error("derived parameter present before Derive")
		}
	})

	t.Run("overrides normalized", func(t *testing.T) {
		got, err := Merge(juliaN, Values{"power": 4.4, "dist": 0.5})
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if got["power"] != 4 || got["dist"] != 0.5 {
			t.Errorf("Merge = %v", got)
		}
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := Merge(juliaN, Values{"powr": 3})
		if !errors.Is(err, errors.ErrCodeUnknownParameter) {
			t.Fatalf("Merge error = %v, want UNKNOWN_PARAMETER", err)
		}
		if errors.Detail(err, "param") != "powr" {
			t.Errorf("detail param = %q", errors.Detail(err, "param"))
		}
		if !errors.IsRecoverable(err) {
			t.Error("unknown parameter should be recoverable")
		}
	})

	t.Run("derived cannot be set", func(t *testing.T) {
		_, err := Merge(juliaN, Values{"cn": 3})
		if !errors.Is(err, errors.ErrCodeInvalidParameter) {
			t.Fatalf("Merge error = %v, want INVALID_PARAMETER", err)
		}
	})
}

func TestDerive(t *testing.T) {
	values := Values{"power": -4, "dist": 2}
	got := Derive(juliaN, values)

	if got["abs_n"] != 4 {
		t.Errorf("abs_n = %v, want 4", got["abs_n"])
	}
	if got["cn"] != -0.25 {
		t.Errorf("cn = %v, want -0.25", got["cn"])
	}
	if _, ok := values["cn"]; ok {
		t.Error("Derive mutated its input")
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Float: "float", Int: "int", Number: "number", Kind(9): "kind(9)"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
