package transform

import "github.com/matzehuels/flamelink/pkg/dag"

// BreakCycles removes back edges found by a depth-first search from the
// graph's sources and returns them as [from, to] pairs.
//
// The resolver never does this: a cycle among library functions is a hard
// error. BreakCycles exists so a broken library can still be drawn, with
// the removed edges reported next to the picture.
func BreakCycles(g *dag.DAG) [][2]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return backEdges
}
