package ast

import (
	"errors"
	"fmt"
)

// DefectError reports a broken internal invariant, such as a switch reaching
// a variant it does not know. It is raised with panic and never describes a
// problem in user input.
type DefectError struct {
	Where string
	Value any
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("internal defect in %s: unhandled value %T", e.Where, e.Value)
}

// Defect panics with a *DefectError.
func Defect(where string, v any) {
	panic(&DefectError{Where: where, Value: v})
}

// IsDefect reports whether err is a *DefectError.
func IsDefect(err error) bool {
	var de *DefectError
	return errors.As(err, &de)
}
