package transform_test

import (
	"fmt"

	"github.com/matzehuels/flamelink/pkg/dag"
	"github.com/matzehuels/flamelink/pkg/dag/transform"
)

func ExampleNormalize() {
	// fbm_warp declares both noise_fbm and noise_base, but noise_base is
	// already reachable through noise_fbm.
	g := dag.New(nil)
	for _, id := range []string{"fbm_warp", "noise_fbm", "noise_simplex", "noise_base"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "fbm_warp", To: "noise_fbm"})
	_ = g.AddEdge(dag.Edge{From: "fbm_warp", To: "noise_base"})
	_ = g.AddEdge(dag.Edge{From: "noise_fbm", To: "noise_simplex"})
	_ = g.AddEdge(dag.Edge{From: "noise_simplex", To: "noise_base"})

	fmt.Println("Before:", g.EdgeCount(), "edges")
	transform.Normalize(g)
	fmt.Println("After:", g.EdgeCount(), "edges")
	fmt.Println("Rows:", g.RowIDs())
	// Output:
	// Before: 4 edges
	// After: 3 edges
	// Rows: [0 1 2 3]
}

func ExampleBreakCycles() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "lib_a"})
	_ = g.AddNode(dag.Node{ID: "lib_b"})
	_ = g.AddEdge(dag.Edge{From: "lib_a", To: "lib_b"})
	_ = g.AddEdge(dag.Edge{From: "lib_b", To: "lib_a"})

	fmt.Println(transform.BreakCycles(g))
	// Output:
	// [[lib_b lib_a]]
}
