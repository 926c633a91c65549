package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/inferc/internal/ast"
)

func compilePremises(v cue.Value, path string) ([]ast.PremiseDefn, error) {
	var out []ast.PremiseDefn
	err := eachElem(v, path, func(elem cue.Value, p string) error {
		premise, err := compilePremise(elem, p)
		if err != nil {
			return err
		}
		out = append(out, premise)
		return nil
	})
	return out, err
}

// compilePremise accepts either {prove, target, while?} or
// {lhs, op, rhs, range?}.
func compilePremise(v cue.Value, path string) (ast.PremiseDefn, error) {
	if err := onlyFields(v, FieldPremise, path,
		"prove", "target", "while", "lhs", "op", "rhs", "range"); err != nil {
		return nil, err
	}

	isProve := v.LookupPath(cue.ParsePath("prove")).Exists()
	isCompare := v.LookupPath(cue.ParsePath("op")).Exists()
	switch {
	case isProve && isCompare:
		return nil, errorAt(FieldPremise, v.Pos(), path, "premise cannot have both prove and op")
	case isProve:
		return compileProve(v, path)
	case isCompare:
		return compileCompare(v, path)
	default:
		return nil, errorAt(FieldPremise, v.Pos(), path, "premise requires prove or op")
	}
}

func compileProve(v cue.Value, path string) (*ast.InferencePremiseDefn, error) {
	for _, f := range []string{"lhs", "rhs", "range"} {
		if v.LookupPath(cue.ParsePath(f)).Exists() {
			return nil, errorAt(FieldPremise, v.Pos(), path, "%s is not allowed with prove", f)
		}
	}
	source, err := requiredString(v, "prove", FieldPremise, path)
	if err != nil {
		return nil, err
	}
	targetVal := v.LookupPath(cue.ParsePath("target"))
	if !targetVal.Exists() {
		return nil, errorAt(FieldPremise, v.Pos(), path, "target is required")
	}
	target, err := compileTarget(targetVal, path+".target")
	if err != nil {
		return nil, err
	}

	sourceVal := v.LookupPath(cue.ParsePath("prove"))
	id := ast.ParseIdentifiable(source)
	id.Pos = position(sourceVal.Pos())
	p := &ast.InferencePremiseDefn{Source: id, Target: target, Pos: position(v.Pos())}

	whileVal := v.LookupPath(cue.ParsePath("while"))
	if whileVal.Exists() {
		nested, err := compilePremises(whileVal, path+".while")
		if err != nil {
			return nil, err
		}
		p.While = &ast.WhileClause{Premises: nested, Pos: position(whileVal.Pos())}
	}
	return p, nil
}

func compileCompare(v cue.Value, path string) (*ast.InferenceEqualityDefn, error) {
	for _, f := range []string{"target", "while"} {
		if v.LookupPath(cue.ParsePath(f)).Exists() {
			return nil, errorAt(FieldPremise, v.Pos(), path, "%s is not allowed with op", f)
		}
	}
	opStr, err := requiredString(v, "op", FieldPremise, path)
	if err != nil {
		return nil, err
	}
	op, err := ast.ParseEqualityOp(opStr)
	if err != nil {
		return nil, errorAt(FieldPremise, v.LookupPath(cue.ParsePath("op")).Pos(), path, "%v", err)
	}

	p := &ast.InferenceEqualityDefn{Op: op, Pos: position(v.Pos())}
	for _, side := range []struct {
		name string
		dst  *ast.DeductionTarget
	}{{"lhs", &p.LHS}, {"rhs", &p.RHS}} {
		sv := v.LookupPath(cue.ParsePath(side.name))
		if !sv.Exists() {
			return nil, errorAt(FieldPremise, v.Pos(), path, "%s is required", side.name)
		}
		t, err := compileTarget(sv, path+"."+side.name)
		if err != nil {
			return nil, err
		}
		*side.dst = t
	}

	rangeVal := v.LookupPath(cue.ParsePath("range"))
	if rangeVal.Exists() {
		r, err := compileRange(rangeVal, path+".range")
		if err != nil {
			return nil, err
		}
		p.Range = r
	}
	return p, nil
}

func compileRange(v cue.Value, path string) (*ast.RangeClause, error) {
	if err := onlyFields(v, FieldRange, path, "lhs_idx", "rhs_idx", "bound"); err != nil {
		return nil, err
	}
	lhsIdx, err := requiredString(v, "lhs_idx", FieldRange, path)
	if err != nil {
		return nil, err
	}
	rhsIdx, err := requiredString(v, "rhs_idx", FieldRange, path)
	if err != nil {
		return nil, err
	}
	boundVal := v.LookupPath(cue.ParsePath("bound"))
	if !boundVal.Exists() {
		return nil, errorAt(FieldRange, v.Pos(), path, "bound is required")
	}
	bound, err := compileTarget(boundVal, path+".bound")
	if err != nil {
		return nil, err
	}
	return &ast.RangeClause{LHSIndex: lhsIdx, RHSIndex: rhsIdx, Bound: bound, Pos: position(v.Pos())}, nil
}
