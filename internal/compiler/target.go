package compiler

import (
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/inferc/internal/ast"
)

// compileTarget accepts exactly one of {singular}, {array, size?} or
// {computed, args?}.
func compileTarget(v cue.Value, path string) (ast.DeductionTarget, error) {
	if err := onlyFields(v, FieldTarget, path, "singular", "array", "size", "computed", "args"); err != nil {
		return nil, err
	}

	var shapes []string
	for _, s := range []string{"singular", "array", "computed"} {
		if v.LookupPath(cue.ParsePath(s)).Exists() {
			shapes = append(shapes, s)
		}
	}
	if len(shapes) != 1 {
		return nil, errorAt(FieldTarget, v.Pos(), path,
			"target needs exactly one of singular, array or computed, got [%s]", strings.Join(shapes, ", "))
	}

	hasSize := v.LookupPath(cue.ParsePath("size")).Exists()
	hasArgs := v.LookupPath(cue.ParsePath("args")).Exists()
	pos := position(v.Pos())

	switch shapes[0] {
	case "singular":
		if hasSize || hasArgs {
			return nil, errorAt(FieldTarget, v.Pos(), path, "singular target takes no size or args")
		}
		name, _, err := optionalString(v, "singular", FieldTarget, path)
		if err != nil {
			return nil, err
		}
		return &ast.SingularTarget{Name: name, Pos: pos}, nil

	case "array":
		if hasArgs {
			return nil, errorAt(FieldTarget, v.Pos(), path, "array target takes no args")
		}
		name, _, err := optionalString(v, "array", FieldTarget, path)
		if err != nil {
			return nil, err
		}
		t := &ast.ArrayTarget{Name: name, Pos: pos}
		if hasSize {
			sizeVal := v.LookupPath(cue.ParsePath("size"))
			n, err := sizeVal.Int64()
			if err != nil {
				return nil, errorAt(FieldTarget, sizeVal.Pos(), path, "size must be an int")
			}
			if n < 0 {
				return nil, errorAt(FieldTarget, sizeVal.Pos(), path, "size must not be negative, got %d", n)
			}
			size := int(n)
			t.Size = &size
		}
		return t, nil

	default:
		if hasSize {
			return nil, errorAt(FieldTarget, v.Pos(), path, "computed target takes no size")
		}
		name, _, err := optionalString(v, "computed", FieldTarget, path)
		if err != nil {
			return nil, err
		}
		t := &ast.ComputedTarget{Name: name, Pos: pos}
		err = eachElem(v.LookupPath(cue.ParsePath("args")), path+".args", func(elem cue.Value, p string) error {
			arg, err := compileTarget(elem, p)
			if err != nil {
				return err
			}
			t.Args = append(t.Args, arg)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}
