// Package dag provides the directed graph the dependency resolver works on.
//
// # Overview
//
// A composition requests variation plugins; each plugin depends on shared
// library functions, and library functions can depend on each other. This
// package holds that relation as a graph whose edges point from a dependent
// to its dependency:
//
//	julian ──▶ lib_sgnnz
//	fbm_warp ──▶ noise_fbm ──▶ noise_simplex ──▶ noise_base
//
// The graph remembers node insertion order and every listing method honors
// it, so two runs over the same input produce the same output.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "julian", Kind: dag.NodeKindPlugin})
//	g.AddNode(dag.Node{ID: "lib_sgnnz", Kind: dag.NodeKindFunction})
//	g.AddEdge(dag.Edge{From: "julian", To: "lib_sgnnz"})
//
// # Ordering
//
// [TopoSort] emits dependencies before dependents using Kahn's algorithm.
// A rank function breaks ties between nodes that are ready at the same
// time; the resolver passes first-seen rank so the output follows the order
// in which plugins declared their dependencies wherever the graph allows.
//
// # Cycles
//
// [DAG.FindCycle], [DAG.Validate] and [TopoSort] report cycles as a
// [*CycleError] carrying the offending path. The error matches
// [ErrGraphHasCycle] under errors.Is.
//
// # Layout
//
// Rows are a rendering concern. The transform subpackage assigns them
// (see transform.AssignLayers) before the graph is drawn by the nodelink
// renderer.
package dag
