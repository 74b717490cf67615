package variations

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
)

func TestDefaultFrozen(t *testing.T) {
	c := Default()
	if !c.Frozen() {
		t.Fatal("Default catalog should be frozen")
	}
	if Default() != c {
		t.Error("Default should return the same catalog")
	}
	if c.Len() < 80 {
		t.Errorf("Len() = %d, want the full built-in set", c.Len())
	}
}

func TestDependenciesResolve(t *testing.T) {
	lib := std.Default()
	for _, d := range Default().All() {
		for _, id := range d.Dependencies {
			if !lib.Has(id) {
				t.Errorf("%s depends on %q, not in the standard library", d.Name, id)
			}
		}
	}
}

func TestGeometry(t *testing.T) {
	for _, d := range Default().All() {
		if !d.Kinds.Has(catalog.Kind2D) && !d.Kinds.Has(catalog.Kind3D) {
			t.Errorf("%s supports no geometry", d.Name)
		}
		if strings.HasSuffix(d.Name, "3D") && d.Kinds.Has(catalog.Kind2D) && d.Name != "value_warp3D" {
			t.Errorf("%s looks 3D only but advertises 2D", d.Name)
		}
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name string
		want catalog.Pass
	}{
		{"linear", catalog.PassRegular},
		{"julia", catalog.PassRegular},
		{"post_rotate", catalog.PassPost},
		{"post_mirror", catalog.PassPost},
		{"dc_linear", catalog.PassDirectColor},
		{"dc_perlin", catalog.PassDirectColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Default().Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got := d.Pass(); got != tt.want {
				t.Errorf("Pass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueWarpDependencies(t *testing.T) {
	d, err := Default().Lookup("value_warp3D")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{std.NoiseBase, std.NoiseValue}
	if !slices.Equal(d.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", d.Dependencies, want)
	}
	if d.Supports(catalog.Kind2D) {
		t.Error("value_warp3D should be 3D only")
	}
}

func TestDerivedParams(t *testing.T) {
	d, err := Default().Lookup("julian")
	if err != nil {
		t.Fatal(err)
	}
	vals, err := param.Merge(d.Params, param.Values{"power": -3, "dist": 1.5})
	if err != nil {
		t.Fatal(err)
	}
	vals = param.Derive(d.Params, vals)
	if vals["abs_n"] != 3 {
		t.Errorf("abs_n = %v, want 3", vals["abs_n"])
	}
	if vals["cn"] != 1.5/-3.0/2 {
		t.Errorf("cn = %v, want %v", vals["cn"], 1.5/-3.0/2)
	}
}

func TestChoiceParam(t *testing.T) {
	d, err := Default().Lookup("crackle")
	if err != nil {
		t.Fatal(err)
	}
	spec, ok := d.Param("distance")
	if !ok {
		t.Fatal("crackle has no distance parameter")
	}
	v, err := spec.Parse("manhattan")
	if err != nil || v != 1 {
		t.Errorf("Parse(manhattan) = %v, %v; want 1", v, err)
	}
}

func TestPlaceholdersKnown(t *testing.T) {
	for _, d := range Default().All() {
		for _, name := range d.Template.Placeholders() {
			if name == catalog.FieldWeight || name == catalog.FieldIndex || strings.HasPrefix(name, "xf.") {
				continue
			}
			if _, ok := d.Param(name); !ok {
				t.Errorf("%s uses undeclared placeholder %q", d.Name, name)
			}
		}
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering the built-ins twice should panic")
		}
	}()
	c := catalog.New()
	Register(c)
	Register(c)
}
