package targets

import "github.com/roach88/inferc/internal/ast"

// Table maps target names to the binding most recently recorded for them.
//
// A Table belongs to a single inference check. It references nodes of the
// module being analyzed and must not be kept after that check returns.
type Table struct {
	entries map[string]ast.DeductionTarget
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]ast.DeductionTarget)}
}

// Lookup returns the binding recorded for name.
func (tb *Table) Lookup(name string) (ast.DeductionTarget, bool) {
	t, ok := tb.entries[name]
	return t, ok
}

// Len returns the number of bound names.
func (tb *Table) Len() int {
	return len(tb.entries)
}

// AddToTable records t under its name, replacing any earlier binding.
// Computed targets are not recorded.
func AddToTable(t ast.DeductionTarget, table *Table) {
	switch ast.ShapeOf(t) {
	case ast.ShapeSingular, ast.ShapeArray:
		table.entries[t.TargetName()] = t
	case ast.ShapeComputed:
	}
}

// HasCompatibleEntry reports whether t's name is bound in table to a target
// of agreeing shape. Two sized arrays agree only when their sizes are equal.
// A computed t is always compatible; an unbound name never is.
func HasCompatibleEntry(t ast.DeductionTarget, table *Table) bool {
	if ast.ShapeOf(t) == ast.ShapeComputed {
		return true
	}
	prior, ok := table.Lookup(t.TargetName())
	if !ok {
		return false
	}
	return compatible(t, prior, true)
}

// HasIncompatibleEntry reports whether t's name is bound in table to a
// target of clashing shape. A computed t is never incompatible and an
// unbound name never clashes.
func HasIncompatibleEntry(t ast.DeductionTarget, table *Table) bool {
	if ast.ShapeOf(t) == ast.ShapeComputed {
		return false
	}
	prior, ok := table.Lookup(t.TargetName())
	if !ok {
		return false
	}
	return !compatible(t, prior, true)
}
