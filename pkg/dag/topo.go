package dag

import (
	"container/heap"
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Path is closed: its first and last
// elements are the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrGraphHasCycle, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrGraphHasCycle) hold for cycle errors.
func (e *CycleError) Is(target error) bool { return target == ErrGraphHasCycle }

// TopoSort orders the graph so every node comes after all of its
// dependencies (the targets of its outgoing edges).
//
// Among nodes whose dependencies are already placed, the one with the
// lowest rank goes first; ties fall back to insertion order. A nil rank
// uses insertion order alone. The result is therefore fully determined by
// the graph and the rank function.
//
// If the graph has a cycle, TopoSort returns a [*CycleError] naming one.
func TopoSort(d *DAG, rank func(id string) int) ([]string, error) {
	pos := PosMap(d.order)
	if rank == nil {
		rank = func(id string) int { return pos[id] }
	}

	pending := make(map[string]int, len(d.nodes))
	ready := &readyQueue{rank: rank, pos: pos}
	for _, id := range d.order {
		pending[id] = len(d.outgoing[id])
		if pending[id] == 0 {
			ready.ids = append(ready.ids, id)
		}
	}
	heap.Init(ready)

	out := make([]string, 0, len(d.order))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		out = append(out, id)
		for _, parent := range d.incoming[id] {
			pending[parent]--
			if pending[parent] == 0 {
				heap.Push(ready, parent)
			}
		}
	}

	if len(out) < len(d.order) {
		return nil, &CycleError{Path: d.FindCycle()}
	}
	return out, nil
}

type readyQueue struct {
	ids  []string
	rank func(string) int
	pos  map[string]int
}

func (q *readyQueue) Len() int { return len(q.ids) }

func (q *readyQueue) Less(i, j int) bool {
	ri, rj := q.rank(q.ids[i]), q.rank(q.ids[j])
	if ri != rj {
		return ri < rj
	}
	return q.pos[q.ids[i]] < q.pos[q.ids[j]]
}

func (q *readyQueue) Swap(i, j int) { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }

func (q *readyQueue) Push(x any) { q.ids = append(q.ids, x.(string)) }

func (q *readyQueue) Pop() any {
	n := len(q.ids)
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	return id
}
