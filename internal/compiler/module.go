package compiler

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"

	"github.com/roach88/inferc/internal/ast"
)

// CompileModule converts a CUE value holding a rule file into an AST module.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value must have a top-level groups list:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`groups: [{name: "Calls", inferences: [...]}]`)
//	m, err := CompileModule(v)
//
// Lists are used throughout so that declaration order and duplicate names
// reach the analyzer unchanged.
func CompileModule(v cue.Value) (*ast.Module, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	groupsVal := v.LookupPath(cue.ParsePath("groups"))
	if !groupsVal.Exists() {
		return nil, &CompileError{
			Field:   FieldModule,
			Message: "groups is required",
			Pos:     v.Pos(),
		}
	}

	m := &ast.Module{Pos: position(v.Pos())}
	err := eachElem(groupsVal, "groups", func(elem cue.Value, path string) error {
		g, err := compileGroup(elem, path)
		if err != nil {
			return err
		}
		m.Groups = append(m.Groups, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func compileGroup(v cue.Value, path string) (*ast.InferenceGroup, error) {
	if err := onlyFields(v, FieldGroup, path, "name", "environment", "inferences"); err != nil {
		return nil, err
	}
	name, err := requiredString(v, "name", FieldGroup, path)
	if err != nil {
		return nil, err
	}
	g := &ast.InferenceGroup{Name: name, Pos: position(v.Pos())}

	err = eachElem(v.LookupPath(cue.ParsePath("environment")), path+".environment", func(elem cue.Value, p string) error {
		if err := onlyFields(elem, FieldEnvironment, p, "key", "value"); err != nil {
			return err
		}
		key, err := requiredString(elem, "key", FieldEnvironment, p)
		if err != nil {
			return err
		}
		value, err := requiredString(elem, "value", FieldEnvironment, p)
		if err != nil {
			return err
		}
		g.Environment = append(g.Environment, &ast.EnvironmentDefn{Key: key, Value: value, Pos: position(elem.Pos())})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v.LookupPath(cue.ParsePath("inferences")), path+".inferences", func(elem cue.Value, p string) error {
		d, err := compileInference(elem, p)
		if err != nil {
			return err
		}
		g.Inferences = append(g.Inferences, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func compileInference(v cue.Value, path string) (*ast.InferenceDefn, error) {
	if err := onlyFields(v, FieldInference, path,
		"name", "globals", "arguments", "premises", "proposition"); err != nil {
		return nil, err
	}
	name, err := requiredString(v, "name", FieldInference, path)
	if err != nil {
		return nil, err
	}
	d := &ast.InferenceDefn{Name: name, Pos: position(v.Pos())}

	err = eachElem(v.LookupPath(cue.ParsePath("globals")), path+".globals", func(elem cue.Value, p string) error {
		s, err := elem.String()
		if err != nil {
			return errorAt(FieldGlobal, elem.Pos(), p, "global must be a string")
		}
		d.Globals = append(d.Globals, &ast.GlobalDecl{Name: s, Pos: position(elem.Pos())})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v.LookupPath(cue.ParsePath("arguments")), path+".arguments", func(elem cue.Value, p string) error {
		if err := onlyFields(elem, FieldArgument, p, "name", "type"); err != nil {
			return err
		}
		argName, err := requiredString(elem, "name", FieldArgument, p)
		if err != nil {
			return err
		}
		typeName, err := requiredString(elem, "type", FieldArgument, p)
		if err != nil {
			return err
		}
		d.Arguments = append(d.Arguments, &ast.InferenceArgument{Name: argName, TypeName: typeName, Pos: position(elem.Pos())})
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.Premises, err = compilePremises(v.LookupPath(cue.ParsePath("premises")), path+".premises")
	if err != nil {
		return nil, err
	}

	propVal := v.LookupPath(cue.ParsePath("proposition"))
	if !propVal.Exists() {
		return nil, errorAt(FieldProposition, v.Pos(), path, "proposition is required")
	}
	target, err := compileTarget(propVal, path+".proposition")
	if err != nil {
		return nil, err
	}
	d.Proposition = &ast.PropositionDefn{Target: target, Pos: position(propVal.Pos())}
	return d, nil
}

// eachElem calls fn for every element of a list value. A missing value is an
// empty list.
func eachElem(v cue.Value, path string, fn func(elem cue.Value, path string) error) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(iter.Value(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// onlyFields rejects struct fields outside allowed.
func onlyFields(v cue.Value, field, path string, allowed ...string) error {
	if v.IncompleteKind() != cue.StructKind {
		return errorAt(field, v.Pos(), path, "must be a struct, got %v", v.IncompleteKind())
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if !slices.Contains(allowed, iter.Label()) {
			return errorAt(field, iter.Value().Pos(), path, "unknown field %q", iter.Label())
		}
	}
	return nil
}

func requiredString(v cue.Value, name, field, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", errorAt(field, v.Pos(), path, "%s is required", name)
	}
	s, err := fv.String()
	if err != nil {
		return "", errorAt(field, fv.Pos(), path, "%s must be a string", name)
	}
	return s, nil
}

func optionalString(v cue.Value, name, field, path string) (string, bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", false, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", false, errorAt(field, fv.Pos(), path, "%s must be a string", name)
	}
	return s, true, nil
}
