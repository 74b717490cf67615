package transform

import "github.com/matzehuels/flamelink/pkg/dag"

// TransitiveReduction removes any edge (u, v) where v is also reachable
// from u through another dependency. If fbm_warp depends on noise_fbm and
// noise_base, and noise_fbm reaches noise_base through noise_simplex, the
// direct fbm_warp -> noise_base edge is dropped.
//
// Only drawings use this. The resolver keeps every declared edge because
// the declared order is what its conflict check compares.
//
// # Performance
//
// Reachability is computed per node with a DFS, so the cost is O(V·E) time
// and O(V²) space. Catalog graphs have a few hundred nodes at most.
func TransitiveReduction(g *dag.DAG) {
	ids := g.IDs()
	if len(ids) == 0 {
		return
	}

	index := dag.PosMap(ids)
	adjacency := make([][]int, len(ids))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachable := computeReachability(adjacency)

	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, mid := range adjacency[src] {
			if mid != dst && reachable[mid][dst] {
				g.RemoveEdge(e.From, e.To)
				break
			}
		}
	}
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
