package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/inferc/internal/ast"
)

// Structural validation codes (E100-E199). Semantic checks such as
// duplicate names and target shapes belong to the analyzer.
const (
	ErrEmptyGroupName     = "E101" // group name is required
	ErrEmptyInferenceName = "E102" // inference name is required
	ErrInvalidIdentifier  = "E103" // name is not an identifier
	ErrInvalidSource      = "E104" // prove source is not a dotted identifier chain
	ErrEmptyTargetName    = "E105" // target name is required
	ErrEmptyRangeIndex    = "E106" // range index is required
	ErrEmptyArgumentType  = "E107" // argument type is required
)

// identPattern matches a single rule-language identifier.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a structural problem in a compiled module.
type ValidationError struct {
	Field   string  `json:"field"`
	Message string  `json:"message"`
	Code    string  `json:"code"`
	Pos     ast.Pos `json:"pos,omitzero"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Pos, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks that every name in m is well formed.
// Returns all errors found (does not fail-fast).
func Validate(m *ast.Module) []ValidationError {
	var v validator
	for i, g := range m.Groups {
		v.group(g, fmt.Sprintf("groups[%d]", i))
	}
	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(code, field string, pos ast.Pos, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
		Pos:     pos,
	})
}

func (v *validator) group(g *ast.InferenceGroup, path string) {
	if strings.TrimSpace(g.Name) == "" {
		v.add(ErrEmptyGroupName, path+".name", g.Pos, "group name is required and must be non-empty")
	}
	for i, e := range g.Environment {
		if strings.TrimSpace(e.Key) == "" {
			v.add(ErrInvalidIdentifier, fmt.Sprintf("%s.environment[%d].key", path, i), e.Pos,
				"environment key is required and must be non-empty")
		}
	}
	for i, d := range g.Inferences {
		v.inference(d, fmt.Sprintf("%s.inferences[%d]", path, i))
	}
}

func (v *validator) inference(d *ast.InferenceDefn, path string) {
	if strings.TrimSpace(d.Name) == "" {
		v.add(ErrEmptyInferenceName, path+".name", d.Pos, "inference name is required and must be non-empty")
	}
	for i, g := range d.Globals {
		v.ident(g.Name, fmt.Sprintf("%s.globals[%d]", path, i), g.Pos)
	}
	for i, a := range d.Arguments {
		field := fmt.Sprintf("%s.arguments[%d]", path, i)
		v.ident(a.Name, field+".name", a.Pos)
		if strings.TrimSpace(a.TypeName) == "" {
			v.add(ErrEmptyArgumentType, field+".type", a.Pos, "argument %q needs a type", a.Name)
		}
	}
	v.premises(d.Premises, path+".premises")
	if d.Proposition != nil && d.Proposition.Target != nil {
		v.target(d.Proposition.Target, path+".proposition")
	}
}

func (v *validator) premises(list []ast.PremiseDefn, path string) {
	for i, p := range list {
		field := fmt.Sprintf("%s[%d]", path, i)
		switch n := p.(type) {
		case *ast.InferencePremiseDefn:
			v.source(n.Source, field+".prove")
			if n.Target != nil {
				v.target(n.Target, field+".target")
			}
			if n.While != nil {
				v.premises(n.While.Premises, field+".while")
			}
		case *ast.InferenceEqualityDefn:
			if n.LHS != nil {
				v.target(n.LHS, field+".lhs")
			}
			if n.RHS != nil {
				v.target(n.RHS, field+".rhs")
			}
			if r := n.Range; r != nil {
				if r.LHSIndex == "" || r.RHSIndex == "" {
					v.add(ErrEmptyRangeIndex, field+".range", r.Pos, "range needs both lhs_idx and rhs_idx")
				}
				if r.Bound != nil {
					v.target(r.Bound, field+".range.bound")
				}
			}
		default:
			ast.Defect("compiler.validator.premises", p)
		}
	}
}

func (v *validator) source(id ast.Identifiable, field string) {
	if len(id.Parts) == 0 {
		v.add(ErrInvalidSource, field, id.Pos, "prove source is required and must be non-empty")
		return
	}
	for _, part := range id.Parts {
		if !identPattern.MatchString(part) {
			v.add(ErrInvalidSource, field, id.Pos, "invalid segment %q in %q", part, ast.Canonicalize(id))
			return
		}
	}
}

func (v *validator) target(t ast.DeductionTarget, field string) {
	name := t.TargetName()
	if name == "" {
		v.add(ErrEmptyTargetName, field, t.Position(), "%s target needs a name", ast.ShapeOf(t))
	} else {
		v.ident(name, field, t.Position())
	}
	if c, ok := t.(*ast.ComputedTarget); ok {
		for i, arg := range c.Args {
			v.target(arg, fmt.Sprintf("%s.args[%d]", field, i))
		}
	}
}

func (v *validator) ident(name, field string, pos ast.Pos) {
	if !identPattern.MatchString(name) {
		v.add(ErrInvalidIdentifier, field, pos, "%q is not a valid identifier", name)
	}
}
