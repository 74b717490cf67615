// Package library holds the shared helper functions variation plugins depend
// on: math helpers, the complex-number algebra, procedural noise.
//
// A [Table] is populated once during bootstrap and frozen; after [Table.Freeze]
// it is read-only and safe for concurrent use without locking. Each
// [Function] lists the ids it needs emitted before it (Requires), which lets
// the resolver compute a real dependency order instead of trusting the order
// plugin authors happened to write.
package library

import (
	"slices"

	"github.com/matzehuels/flamelink/pkg/errors"
)

// Function is one shared helper.
type Function struct {
	// ID identifies the function in plugin dependency lists.
	ID string
	// Source is the WGSL text, self-contained once Requires are emitted.
	Source string
	// Init is an optional one-time initializer statement, such as a call
	// that populates a lookup table. Empty when none is needed.
	Init string
	// Requires lists library ids that must be emitted before Source.
	Requires []string
}

// Table maps function ids to their definitions.
type Table struct {
	fns    map[string]Function
	frozen bool
}

// NewTable returns an empty, writable table.
func NewTable() *Table {
	return &Table{fns: make(map[string]Function)}
}

// Register inserts fn, replacing any earlier entry with the same id.
// Registration after Freeze panics: the table is shared read-only state.
func (t *Table) Register(fn Function) {
	if t.frozen {
		panic("library: Register called on frozen table (" + fn.ID + ")")
	}
	fn.Requires = slices.Clone(fn.Requires)
	t.fns[fn.ID] = fn
}

// Freeze ends bootstrap. The table is immutable afterwards.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether Freeze has been called.
func (t *Table) Frozen() bool { return t.frozen }

// Get returns the function registered under id.
func (t *Table) Get(id string) (Function, error) {
	fn, ok := t.fns[id]
	if !ok {
		return Function{}, errors.New(errors.ErrCodeMissingLibraryFunction, "library function %q is not registered", id).
			With("id", id)
	}
	return fn, nil
}

// Has reports whether id is registered.
func (t *Table) Has(id string) bool {
	_, ok := t.fns[id]
	return ok
}

// IDs returns all registered ids in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.fns))
	for id := range t.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered functions.
func (t *Table) Len() int { return len(t.fns) }
