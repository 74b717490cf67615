package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/flamelink/pkg/dag"
)

func sample() *dag.DAG {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "crackle", Kind: dag.NodeKindPlugin, Row: 0, Meta: dag.Metadata{"label": "crackle", "kinds": "2d"}})
	_ = g.AddNode(dag.Node{ID: "noise_cellular", Kind: dag.NodeKindFunction, Row: 1, Meta: dag.Metadata{"label": "noise_cellular"}})
	_ = g.AddNode(dag.Node{ID: "noise_base", Kind: dag.NodeKindFunction, Row: 2, Meta: dag.Metadata{"label": "noise_base", "init": "noise_init();"}})
	_ = g.AddNode(dag.Node{ID: "lib_gone", Kind: dag.NodeKindFunction, Row: 1, Meta: dag.Metadata{"label": "lib_gone", "missing": true}})
	_ = g.AddEdge(dag.Edge{From: "crackle", To: "noise_cellular"})
	_ = g.AddEdge(dag.Edge{From: "noise_cellular", To: "noise_base"})
	_ = g.AddEdge(dag.Edge{From: "crackle", To: "lib_gone"})
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})
	for _, want := range []string{
		"digraph G {",
		`"crackle" [label="crackle", shape=ellipse`,
		`"lib_gone" [label="lib_gone", style="rounded,filled,dashed"`,
		`"crackle" -> "noise_cellular";`,
		`"noise_cellular" -> "noise_base";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("unranked DOT has rank constraints")
	}
}

func TestToDOTDetailedRanked(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true, Ranked: true})
	if !strings.Contains(dot, `init: noise_init();`) {
		t.Error("detailed label missing init statement")
	}
	if !strings.Contains(dot, `{ rank=same; "noise_cellular"; "lib_gone"; }`) {
		t.Errorf("missing row 1 rank:\n%s", dot)
	}
	if strings.Contains(dot, "missing: true") {
		t.Error("missing flag leaked into label")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("noise_base")) {
		t.Error("SVG output incomplete")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(ToDOT(sample(), Options{}), 1)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("no viewBox should be unchanged, got %s", got)
	}
}
