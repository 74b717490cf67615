package resolve

import (
	"fmt"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/dag"
	"github.com/matzehuels/flamelink/pkg/library"
)

// pluginNodeID keeps plugin nodes apart from library nodes that happen to
// share a name.
func pluginNodeID(name string, fns func(string) bool) string {
	if fns(name) {
		return name + " (variation)"
	}
	return name
}

// displayGraph lays out plugins first, then functions in resolved order.
// Every id in order and every Requires entry is a key of fns, so node and
// edge insertion cannot fail.
func displayGraph(entries []Entry, order []string, fns map[string]library.Function) *dag.DAG {
	g := dag.New(nil)
	has := func(id string) bool { _, ok := fns[id]; return ok }

	for _, e := range entries {
		id := pluginNodeID(e.Plugin, has)
		if _, ok := g.Node(id); !ok {
			_ = g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindPlugin, Meta: dag.Metadata{"label": e.Plugin}})
		}
	}
	for _, id := range order {
		meta := dag.Metadata{"label": id}
		if init := fns[id].Init; init != "" {
			meta["init"] = init
		}
		_ = g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindFunction, Meta: meta})
	}
	for _, e := range entries {
		from := pluginNodeID(e.Plugin, has)
		for _, dep := range e.Dependencies {
			_ = g.AddEdge(dag.Edge{From: from, To: dep})
		}
	}
	for _, id := range order {
		for _, req := range fns[id].Requires {
			_ = g.AddEdge(dag.Edge{From: id, To: req})
		}
	}
	return g
}

// Graph builds the dependency graph of the named variations, or of the
// whole catalog when names is empty. Unlike Resolve it tolerates a broken
// library: unregistered ids appear as nodes with Meta["missing"] set, and
// cycles are kept for the renderer to break.
func Graph(c *catalog.Catalog, t *library.Table, names []string) (*dag.DAG, error) {
	var descs []*catalog.Descriptor
	if len(names) == 0 {
		descs = c.All()
	} else {
		for _, name := range names {
			d, err := c.Lookup(name)
			if err != nil {
				return nil, err
			}
			descs = append(descs, d)
		}
	}

	g := dag.New(dag.Metadata{"variations": len(descs)})
	for _, d := range descs {
		id := pluginNodeID(d.Name, t.Has)
		if _, ok := g.Node(id); ok {
			continue
		}
		_ = g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindPlugin, Meta: dag.Metadata{
			"label": d.Name,
			"kinds": d.Kinds.String(),
		}})
	}

	// Nodes are added before any edge that touches them, so AddEdge cannot
	// fail; AddNode is guarded by the g.Node lookups.
	var addFunction func(id string)
	addFunction = func(id string) {
		if _, ok := g.Node(id); ok {
			return
		}
		meta := dag.Metadata{"label": id}
		fn, err := t.Get(id)
		if err != nil {
			meta["missing"] = true
			_ = g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindFunction, Meta: meta})
			return
		}
		if fn.Init != "" {
			meta["init"] = fn.Init
		}
		_ = g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindFunction, Meta: meta})
		for _, req := range fn.Requires {
			addFunction(req)
			_ = g.AddEdge(dag.Edge{From: id, To: req})
		}
	}

	for _, d := range descs {
		from := pluginNodeID(d.Name, t.Has)
		for _, dep := range d.Dependencies {
			addFunction(dep)
			_ = g.AddEdge(dag.Edge{From: from, To: dep})
		}
	}
	return g, nil
}

// CheckCatalog resolves every variation in c on its own and returns one
// error per variation whose dependencies do not resolve. Bootstrap code
// runs it once after both tables are frozen.
func CheckCatalog(c *catalog.Catalog, t *library.Table) []error {
	r := New(t, Options{})
	var errs []error
	for _, d := range c.All() {
		if _, err := r.Resolve([]Entry{{Plugin: d.Name, Dependencies: d.Dependencies}}); err != nil {
			errs = append(errs, fmt.Errorf("variation %s: %w", d.Name, err))
		}
	}
	return errs
}
