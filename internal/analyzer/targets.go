package analyzer

import (
	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/targets"
)

// checkTargets verifies that every target in d keeps one shape. The table
// lives only for this call.
func (a *Analyzer) checkTargets(d *ast.InferenceDefn) bool {
	table := targets.NewTable()
	if !a.checkPremises(d, d.Premises, table) {
		return false
	}
	return a.checkProposition(d, table)
}

// checkPremises checks premises in order. While clauses share table with the
// premise that owns them.
func (a *Analyzer) checkPremises(d *ast.InferenceDefn, premises []ast.PremiseDefn, table *targets.Table) bool {
	for _, p := range premises {
		var ok bool
		switch n := p.(type) {
		case *ast.InferencePremiseDefn:
			ok = a.checkInferencePremise(d, n, table)
		case *ast.InferenceEqualityDefn:
			ok = a.checkEquality(d, n)
		default:
			ast.Defect("analyzer.checkPremises", p)
		}
		if !ok {
			return false
		}
	}
	return true
}

func (a *Analyzer) checkInferencePremise(d *ast.InferenceDefn, p *ast.InferencePremiseDefn, table *targets.Table) bool {
	a.logger.Debug("checking premise",
		"inference", d.Name,
		"source", ast.Canonicalize(p.Source),
		"bound", table.Len())

	switch {
	case !usable(p.Target):
		if !a.report(SeverityError, CodeInvalidTargetType, d.Name, p.Pos,
			"Invalid target type in inference %q.", d.Name) {
			return false
		}
	case targets.HasIncompatibleEntry(p.Target, table):
		if !a.report(SeverityError, CodeIncompatibleTarget, d.Name, p.Target.Position(),
			"Found duplicate and incompatible target in inference %q.", d.Name) {
			return false
		}
	default:
		targets.AddToTable(p.Target, table)
	}

	if p.While != nil {
		return a.checkPremises(d, p.While.Premises, table)
	}
	return true
}

// checkEquality validates the operands of a comparison. Comparisons never
// bind names. Shape agreement is only required under a range clause, where
// both sides are walked element by element.
func (a *Analyzer) checkEquality(d *ast.InferenceDefn, p *ast.InferenceEqualityDefn) bool {
	a.logger.Debug("checking comparison",
		"inference", d.Name,
		"op", string(p.Op),
		"range", p.Range != nil)

	if !usable(p.LHS) || !usable(p.RHS) {
		return a.report(SeverityError, CodeInvalidTargetType, d.Name, p.Pos,
			"Invalid target type in inference %q.", d.Name)
	}
	if p.Range == nil {
		return true
	}

	if !indexable(p.Range.Bound) {
		return a.report(SeverityError, CodeInvalidRangeTarget, d.Name, p.Range.Pos,
			"Invalid target in range clause in inference %q.", d.Name)
	}
	if !targets.AreCompatible(p.LHS, p.RHS) || !indexable(p.LHS) || !indexable(p.RHS) {
		return a.report(SeverityError, CodeIncompatibleExpression, d.Name, p.Pos,
			"Incompatible targets in expression in inference %q.", d.Name)
	}
	return true
}

// checkProposition accepts a computed target or one whose name is bound to
// an agreeing shape.
func (a *Analyzer) checkProposition(d *ast.InferenceDefn, table *targets.Table) bool {
	var t ast.DeductionTarget
	pos := d.Pos
	if d.Proposition != nil {
		t = d.Proposition.Target
		pos = d.Proposition.Pos
	}
	if usable(t) && targets.HasCompatibleEntry(t, table) {
		return true
	}
	return a.report(SeverityError, CodeInvalidProposition, d.Name, pos,
		"Invalid proposition target type in inference %q.", d.Name)
}

// usable reports whether t is a non-nil target. A type outside the closed
// set is a defect.
func usable(t ast.DeductionTarget) bool {
	if ast.IsKnownTarget(t) {
		return true
	}
	switch t.(type) {
	case nil, *ast.SingularTarget, *ast.ArrayTarget, *ast.ComputedTarget:
		return false
	default:
		ast.Defect("analyzer.usable", t)
		return false
	}
}

// indexable reports whether t can be iterated element-wise.
func indexable(t ast.DeductionTarget) bool {
	if !usable(t) {
		return false
	}
	switch ast.ShapeOf(t) {
	case ast.ShapeArray, ast.ShapeComputed:
		return true
	default:
		return false
	}
}
