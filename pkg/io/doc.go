// Package io reads and writes library dependency graphs as JSON.
//
// The format mirrors [dag.DAG]:
//
//	{
//	  "meta": {"variations": 1},
//	  "nodes": [
//	    {"id": "crackle", "kind": "plugin", "meta": {"label": "crackle", "kinds": "2d"}},
//	    {"id": "noise_cellular", "kind": "function", "row": 1},
//	    {"id": "noise_base", "kind": "function", "row": 2, "meta": {"init": "noise_init();"}}
//	  ],
//	  "edges": [
//	    {"from": "crackle", "to": "noise_cellular"},
//	    {"from": "noise_cellular", "to": "noise_base"}
//	  ]
//	}
//
// An edge means From depends on To. Rows are only present once the graph
// has been layered with transform.AssignLayers. Metadata values survive a
// round trip as JSON values, so integers come back as float64.
//
// [dag.DAG]: github.com/matzehuels/flamelink/pkg/dag.DAG
package io
