package transform

import "github.com/matzehuels/flamelink/pkg/dag"

// AssignLayers places every node one row below its deepest dependent, so
// requested plugins sit on row 0 and the library functions they need hang
// beneath them in dependency order.
//
// It is a longest-path layering over Kahn's algorithm. Nodes on a cycle
// never reach zero in-degree and stay on row 0; run [BreakCycles] first.
// Existing rows are overwritten.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		inDegree[n.ID] = g.InDegree(n.ID)
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
