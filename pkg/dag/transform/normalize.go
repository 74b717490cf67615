package transform

import "github.com/matzehuels/flamelink/pkg/dag"

// Normalize prepares a dependency graph for drawing: it breaks any cycles,
// drops edges implied by longer paths and assigns rows. It returns the
// edges BreakCycles had to remove.
func Normalize(g *dag.DAG) [][2]string {
	removed := BreakCycles(g)
	TransitiveReduction(g)
	AssignLayers(g)
	return removed
}
