// Package walk traverses a rule module depth first, calling a Visitor before
// and after each node.
//
// Every hook returns a continue flag. When a hook returns false the walk
// unwinds at once: no further siblings are visited and no post hooks run for
// the nodes being unwound. Module returns false in that case.
package walk

import "github.com/roach88/inferc/internal/ast"

// Visitor receives a pre and post call for each node kind. The parent is the
// node that owns the visited node in the tree.
type Visitor interface {
	PreModule(m *ast.Module) bool
	PostModule(m *ast.Module) bool

	PreGroup(g *ast.InferenceGroup, parent *ast.Module) bool
	PostGroup(g *ast.InferenceGroup, parent *ast.Module) bool

	PreEnvironment(e *ast.EnvironmentDefn, parent *ast.InferenceGroup) bool
	PostEnvironment(e *ast.EnvironmentDefn, parent *ast.InferenceGroup) bool

	PreInference(d *ast.InferenceDefn, parent *ast.InferenceGroup) bool
	PostInference(d *ast.InferenceDefn, parent *ast.InferenceGroup) bool

	PreGlobal(g *ast.GlobalDecl, parent *ast.InferenceDefn) bool
	PostGlobal(g *ast.GlobalDecl, parent *ast.InferenceDefn) bool

	PreArgument(a *ast.InferenceArgument, parent *ast.InferenceDefn) bool
	PostArgument(a *ast.InferenceArgument, parent *ast.InferenceDefn) bool

	// Premises are owned by an inference definition or a while clause.
	PrePremise(p ast.PremiseDefn, parent ast.Node) bool
	PostPremise(p ast.PremiseDefn, parent ast.Node) bool

	PreWhile(w *ast.WhileClause, parent *ast.InferencePremiseDefn) bool
	PostWhile(w *ast.WhileClause, parent *ast.InferencePremiseDefn) bool

	PreRange(r *ast.RangeClause, parent *ast.InferenceEqualityDefn) bool
	PostRange(r *ast.RangeClause, parent *ast.InferenceEqualityDefn) bool

	PreProposition(p *ast.PropositionDefn, parent *ast.InferenceDefn) bool
	PostProposition(p *ast.PropositionDefn, parent *ast.InferenceDefn) bool

	// Targets are owned by premises, range clauses, propositions and
	// computed targets.
	PreTarget(t ast.DeductionTarget, parent ast.Node) bool
	PostTarget(t ast.DeductionTarget, parent ast.Node) bool
}

// Module walks m with v and reports whether the walk ran to completion.
func Module(m *ast.Module, v Visitor) bool {
	if !v.PreModule(m) {
		return false
	}
	for _, g := range m.Groups {
		if !group(g, m, v) {
			return false
		}
	}
	return v.PostModule(m)
}

func group(g *ast.InferenceGroup, parent *ast.Module, v Visitor) bool {
	if !v.PreGroup(g, parent) {
		return false
	}
	for _, e := range g.Environment {
		if !v.PreEnvironment(e, g) || !v.PostEnvironment(e, g) {
			return false
		}
	}
	for _, d := range g.Inferences {
		if !inference(d, g, v) {
			return false
		}
	}
	return v.PostGroup(g, parent)
}

func inference(d *ast.InferenceDefn, parent *ast.InferenceGroup, v Visitor) bool {
	if !v.PreInference(d, parent) {
		return false
	}
	for _, g := range d.Globals {
		if !v.PreGlobal(g, d) || !v.PostGlobal(g, d) {
			return false
		}
	}
	for _, a := range d.Arguments {
		if !v.PreArgument(a, d) || !v.PostArgument(a, d) {
			return false
		}
	}
	if !premises(d.Premises, d, v) {
		return false
	}
	if d.Proposition != nil {
		p := d.Proposition
		if !v.PreProposition(p, d) {
			return false
		}
		if present(p.Target) && !target(p.Target, p, v) {
			return false
		}
		if !v.PostProposition(p, d) {
			return false
		}
	}
	return v.PostInference(d, parent)
}

func premises(list []ast.PremiseDefn, parent ast.Node, v Visitor) bool {
	for _, p := range list {
		if !premise(p, parent, v) {
			return false
		}
	}
	return true
}

func premise(p ast.PremiseDefn, parent ast.Node, v Visitor) bool {
	if !v.PrePremise(p, parent) {
		return false
	}
	switch n := p.(type) {
	case *ast.InferencePremiseDefn:
		if present(n.Target) && !target(n.Target, n, v) {
			return false
		}
		if w := n.While; w != nil {
			if !v.PreWhile(w, n) || !premises(w.Premises, w, v) || !v.PostWhile(w, n) {
				return false
			}
		}
	case *ast.InferenceEqualityDefn:
		if present(n.LHS) && !target(n.LHS, n, v) {
			return false
		}
		if present(n.RHS) && !target(n.RHS, n, v) {
			return false
		}
		if r := n.Range; r != nil {
			if !v.PreRange(r, n) {
				return false
			}
			if present(r.Bound) && !target(r.Bound, r, v) {
				return false
			}
			if !v.PostRange(r, n) {
				return false
			}
		}
	default:
		ast.Defect("walk.premise", p)
	}
	return v.PostPremise(p, parent)
}

func target(t ast.DeductionTarget, parent ast.Node, v Visitor) bool {
	if !v.PreTarget(t, parent) {
		return false
	}
	if c, ok := t.(*ast.ComputedTarget); ok {
		for _, arg := range c.Args {
			if present(arg) && !target(arg, c, v) {
				return false
			}
		}
	}
	return v.PostTarget(t, parent)
}

// present reports whether t is there to visit. Nil and typed-nil targets are
// skipped; a variant outside the closed set is a defect.
func present(t ast.DeductionTarget) bool {
	if ast.IsKnownTarget(t) {
		return true
	}
	switch t.(type) {
	case nil, *ast.SingularTarget, *ast.ArrayTarget, *ast.ComputedTarget:
		return false
	default:
		ast.Defect("walk.present", t)
		return false
	}
}
