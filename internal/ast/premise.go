package ast

import "fmt"

// PremiseDefn is one step of an inference rule.
//
// Implemented only by *InferencePremiseDefn and *InferenceEqualityDefn.
type PremiseDefn interface {
	Node
	premise()
}

// InferencePremiseDefn binds Target to the value obtained by proving Source.
// While, when present, is evaluated per element under the same source.
type InferencePremiseDefn struct {
	Source Identifiable
	Target DeductionTarget
	While  *WhileClause
	Pos    Pos
}

// InferenceEqualityDefn compares two targets. With a Range clause the
// comparison is element-wise over a generated index range.
type InferenceEqualityDefn struct {
	LHS   DeductionTarget
	Op    EqualityOp
	RHS   DeductionTarget
	Range *RangeClause
	Pos   Pos
}

// WhileClause is a nested premise list sharing the enclosing bindings.
type WhileClause struct {
	Premises []PremiseDefn
	Pos      Pos
}

// RangeClause names the indices used on each side and the target that
// bounds the iteration.
type RangeClause struct {
	LHSIndex string
	RHSIndex string
	Bound    DeductionTarget
	Pos      Pos
}

func (*InferencePremiseDefn) premise()  {}
func (*InferenceEqualityDefn) premise() {}

func (*InferencePremiseDefn) Kind() Kind  { return KindPremise }
func (*InferenceEqualityDefn) Kind() Kind { return KindPremise }
func (*WhileClause) Kind() Kind           { return KindWhile }
func (*RangeClause) Kind() Kind           { return KindRange }

func (p *InferencePremiseDefn) Position() Pos  { return p.Pos }
func (p *InferenceEqualityDefn) Position() Pos { return p.Pos }
func (w *WhileClause) Position() Pos           { return w.Pos }
func (r *RangeClause) Position() Pos           { return r.Pos }

// EqualityOp is the operator of an equality premise.
type EqualityOp string

const (
	OpEqual     EqualityOp = "="
	OpNotEqual  EqualityOp = "≠"
	OpLess      EqualityOp = "<"
	OpLessEqual EqualityOp = "≤"
)

// ParseEqualityOp accepts the operator glyphs and their ASCII spellings.
func ParseEqualityOp(s string) (EqualityOp, error) {
	switch s {
	case "=", "==":
		return OpEqual, nil
	case "≠", "!=":
		return OpNotEqual, nil
	case "<":
		return OpLess, nil
	case "≤", "<=":
		return OpLessEqual, nil
	default:
		return "", fmt.Errorf("unknown equality operator %q", s)
	}
}

// Prove builds an inference premise from a dotted source.
func Prove(source string, target DeductionTarget, while ...PremiseDefn) *InferencePremiseDefn {
	p := &InferencePremiseDefn{Source: ParseIdentifiable(source), Target: target}
	if len(while) > 0 {
		p.While = &WhileClause{Premises: while}
	}
	return p
}

// Compare builds an equality premise without a range clause.
func Compare(lhs DeductionTarget, op EqualityOp, rhs DeductionTarget) *InferenceEqualityDefn {
	return &InferenceEqualityDefn{LHS: lhs, Op: op, RHS: rhs}
}

// Over attaches a range clause to an equality premise and returns it.
func (p *InferenceEqualityDefn) Over(lhsIdx, rhsIdx string, bound DeductionTarget) *InferenceEqualityDefn {
	p.Range = &RangeClause{LHSIndex: lhsIdx, RHSIndex: rhsIdx, Bound: bound}
	return p
}
