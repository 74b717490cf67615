package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/dag"
	"github.com/matzehuels/flamelink/pkg/dag/transform"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

func TestGraphRoundTrip(t *testing.T) {
	g, err := resolve.Graph(variations.Default(), std.Default(), []string{"crackle", "csch"})
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	transform.Normalize(g)

	var buf bytes.Buffer
	if err := WriteGraphJSON(g, &buf); err != nil {
		t.Fatalf("WriteGraphJSON: %v", err)
	}
	got, err := ReadGraphJSON(&buf)
	if err != nil {
		t.Fatalf("ReadGraphJSON: %v", err)
	}

	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Fatalf("got %d nodes %d edges, want %d and %d",
			got.NodeCount(), got.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	for _, want := range g.Nodes() {
		n, ok := got.Node(want.ID)
		if !ok {
			t.Errorf("node %s lost", want.ID)
			continue
		}
		if n.Kind != want.Kind || n.Row != want.Row {
			t.Errorf("node %s = %v row %d, want %v row %d", want.ID, n.Kind, n.Row, want.Kind, want.Row)
		}
		if n.Meta["label"] != want.Meta["label"] || n.Meta["init"] != want.Meta["init"] {
			t.Errorf("node %s meta = %v, want %v", want.ID, n.Meta, want.Meta)
		}
	}
	for _, e := range g.Edges() {
		if !got.HasEdge(e.From, e.To) {
			t.Errorf("edge %s->%s lost", e.From, e.To)
		}
	}
	if v, _ := got.Meta()["variations"].(float64); v != 2 {
		t.Errorf("graph meta variations = %v", got.Meta()["variations"])
	}
}

func TestWriteGraphJSONKinds(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "fan", Kind: dag.NodeKindPlugin})
	_ = g.AddNode(dag.Node{ID: "lib_fmod", Kind: dag.NodeKindFunction, Row: 1})
	_ = g.AddEdge(dag.Edge{From: "fan", To: "lib_fmod"})

	var buf bytes.Buffer
	if err := WriteGraphJSON(g, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"kind": "plugin"`, `"kind": "function"`, `"row": 1`, `"from": "fan"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestReadGraphJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"nodes": [`},
		{"duplicate", `{"nodes": [{"id": "a"}, {"id": "a"}], "edges": []}`},
		{"unknown kind", `{"nodes": [{"id": "a", "kind": "tower"}], "edges": []}`},
		{"unknown target", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`},
		{"cycle", `{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGraphJSON(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadGraphJSONDefaultKind(t *testing.T) {
	g, err := ReadGraphJSON(strings.NewReader(`{"nodes": [{"id": "lib_sgn"}], "edges": []}`))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node("lib_sgn")
	if n.Kind != dag.NodeKindFunction {
		t.Errorf("kind = %v, want function", n.Kind)
	}
}
