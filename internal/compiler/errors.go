package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/inferc/internal/ast"
)

// Field categories carried by CompileError.
const (
	FieldCUE         = "cue"
	FieldModule      = "groups"
	FieldGroup       = "group"
	FieldEnvironment = "environment"
	FieldInference   = "inference"
	FieldGlobal      = "global"
	FieldArgument    = "argument"
	FieldPremise     = "premise"
	FieldTarget      = "target"
	FieldRange       = "range"
	FieldProposition = "proposition"
)

// CompileError represents a structural problem in a rule file, with the
// source position when CUE provides one.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errorAt(field string, pos token.Pos, path, format string, args ...any) *CompileError {
	return &CompileError{
		Field:   field,
		Message: path + ": " + fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   FieldCUE,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// position converts a CUE position to an AST position.
func position(p token.Pos) ast.Pos {
	if !p.IsValid() {
		return ast.Pos{}
	}
	return ast.Pos{File: p.Filename(), Line: p.Line(), Column: p.Column()}
}
