// Package resolve computes which library functions a composition needs and
// the order they must be emitted in.
//
// Every plugin declares the library ids it uses. Library functions declare
// their own prerequisites (library.Function.Requires), so the resolver can
// expand the full transitive closure and sort it topologically instead of
// trusting the order plugin authors wrote their lists in. Declared order
// still matters: it breaks ties, so a request whose ids have no
// prerequisite relations resolves to the plain first-seen, deduplicated
// sequence.
//
// The resolver also compares the declared lists against each other. Two
// plugins that list the same pair of ids in opposite order, where no
// prerequisite chain settles which comes first, are reported as a
// [Conflict]: a warning by default, a CONFLICTING_ORDER error in strict
// mode.
package resolve

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamelink/pkg/dag"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/library"
)

// Entry is one plugin placement as the resolver sees it.
type Entry struct {
	Plugin       string
	Dependencies []string
}

// Options configures a Resolver.
type Options struct {
	// Strict turns order conflicts into CONFLICTING_ORDER errors.
	Strict bool
	// Logger receives conflict warnings and debug output. Nil discards.
	Logger *log.Logger
}

// Conflict records two plugins that declared a pair of library ids in
// opposite order with nothing in the library forcing either order.
type Conflict struct {
	// First and Second are the ids in the order that won (First's plugin
	// was seen earlier).
	First, Second string
	// Plugin declared First before Second; Other declared the reverse.
	Plugin, Other string
}

func (c Conflict) String() string {
	return c.Plugin + " orders " + c.First + " before " + c.Second + ", " + c.Other + " orders the reverse"
}

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	// Order lists every required library id, dependencies first.
	Order []string
	// Functions holds the definitions for Order, index for index.
	Functions []library.Function
	// Inits lists distinct init statements in resolved order.
	Inits []string
	// RequiredBy maps each id to the plugins whose closure contains it, in
	// request order.
	RequiredBy map[string][]string
	// Conflicts lists order conflicts found in non-strict mode.
	Conflicts []Conflict
	// Graph is the plugin and function dependency graph behind Order.
	Graph *dag.DAG
}

// Source concatenates the function sources in resolved order.
func (r *Resolution) Source() string {
	var b strings.Builder
	for i, fn := range r.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimRight(fn.Source, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// Resolver resolves entries against one library table. It holds no state
// between calls and is safe for concurrent use once the table is frozen.
type Resolver struct {
	table  *library.Table
	strict bool
	logger *log.Logger
}

// New returns a resolver over t.
func New(t *library.Table, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{table: t, strict: opts.Strict, logger: logger}
}

// Resolve computes the library order for entries, walked in slice order.
//
// Errors: DEPENDENCY_RESOLUTION (wrapping MISSING_LIBRARY_FUNCTION, with
// "plugin" and "id" details) when an id is not registered,
// DEPENDENCY_CYCLE when prerequisites form a cycle, and in strict mode
// CONFLICTING_ORDER.
func (r *Resolver) Resolve(entries []Entry) (*Resolution, error) {
	w := walk{
		table: r.table,
		graph: dag.New(nil),
		fns:   make(map[string]library.Function),
		rank:  make(map[string]int),
	}
	for _, e := range entries {
		for _, id := range e.Dependencies {
			if err := w.visit(e.Plugin, "", id); err != nil {
				return nil, err
			}
		}
	}

	order, err := dag.TopoSort(w.graph, func(id string) int { return w.rank[id] })
	if err != nil {
		var cycle []string
		if ce, ok := err.(*dag.CycleError); ok {
			cycle = ce.Path
		}
		return nil, errors.Wrap(errors.ErrCodeDependencyCycle, err, "library prerequisites form a cycle").
			With("cycle", strings.Join(cycle, " -> "))
	}

	conflicts := findConflicts(entries, w.graph)
	if len(conflicts) > 0 && r.strict {
		c := conflicts[0]
		return nil, errors.New(errors.ErrCodeConflictingOrder, "conflicting library order: %s", c).
			With("plugin", c.Other).
			With("id", c.First).
			With("other", c.Second)
	}
	for _, c := range conflicts {
		r.logger.Warn("conflicting library order", "first", c.First, "second", c.Second, "plugin", c.Plugin, "other", c.Other)
	}

	res := &Resolution{
		Order:      order,
		Functions:  make([]library.Function, len(order)),
		RequiredBy: requiredBy(entries, w.graph),
		Conflicts:  conflicts,
		Graph:      displayGraph(entries, order, w.fns),
	}
	seenInit := make(map[string]bool)
	for i, id := range order {
		fn := w.fns[id]
		res.Functions[i] = fn
		if fn.Init != "" && !seenInit[fn.Init] {
			seenInit[fn.Init] = true
			res.Inits = append(res.Inits, fn.Init)
		}
	}

	r.logger.Debug("resolved library functions", "plugins", len(entries), "functions", len(order), "inits", len(res.Inits))
	return res, nil
}

// walk expands the prerequisite closure depth-first. A function's rank is
// assigned after its prerequisites, so ranks follow first-seen order with
// prerequisites pulled ahead of the ids that need them.
type walk struct {
	table *library.Table
	graph *dag.DAG
	fns   map[string]library.Function
	rank  map[string]int
}

func (w *walk) visit(plugin, parent, id string) error {
	if _, ok := w.fns[id]; ok {
		return nil
	}
	fn, err := w.table.Get(id)
	if err != nil {
		e := errors.Wrap(errors.ErrCodeDependencyResolution, err, "plugin %q depends on unregistered library function %q", plugin, id).
			With("plugin", plugin).
			With("id", id)
		if parent != "" {
			e = e.With("required_by", parent)
		}
		return e
	}
	w.fns[id] = fn
	if err := w.graph.AddNode(dag.Node{ID: id, Kind: dag.NodeKindFunction}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add library node %q", id)
	}

	for _, req := range fn.Requires {
		if err := w.visit(plugin, id, req); err != nil {
			return err
		}
		if err := w.graph.AddEdge(dag.Edge{From: id, To: req}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "add library edge %q -> %q", id, req)
		}
	}
	w.rank[id] = len(w.rank)
	return nil
}

// findConflicts compares every plugin's declared pairs against the pairs
// declared by plugins seen before it.
func findConflicts(entries []Entry, g *dag.DAG) []Conflict {
	type pair struct{ a, b string }
	declared := make(map[pair]string)
	reported := make(map[pair]bool)
	var out []Conflict

	for _, e := range entries {
		ids := dedupe(e.Dependencies)
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				if first, ok := declared[pair{b, a}]; ok && first != e.Plugin && !reported[pair{b, a}] {
					if !g.HasPath(a, b) && !g.HasPath(b, a) {
						reported[pair{b, a}] = true
						out = append(out, Conflict{First: b, Second: a, Plugin: first, Other: e.Plugin})
					}
				}
				if _, ok := declared[pair{a, b}]; !ok {
					declared[pair{a, b}] = e.Plugin
				}
			}
		}
	}
	return out
}

func requiredBy(entries []Entry, g *dag.DAG) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entries {
		seen := make(map[string]bool)
		stack := slices.Clone(e.Dependencies)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			if !slices.Contains(out[id], e.Plugin) {
				out[id] = append(out[id], e.Plugin)
			}
			stack = append(stack, g.Children(id)...)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
