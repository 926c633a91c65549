package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/compiler"
)

// LoadResult is a compiled rule module with what was read to build it.
type LoadResult struct {
	Module    *ast.Module
	Files     []string // .cue files read
	FileCount int      // Number of CUE files found
}

// LoadError represents an error that occurred while loading rules.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadRules compiles the rule file or package directory at path.
func LoadRules(path string) (*LoadResult, *LoadError) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules: %v", err)}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
	} else if filepath.Ext(path) != ".cue" {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a .cue file: %s", path)}
	}

	m, err := compiler.Compile(path)
	if err != nil {
		return nil, convertCompileError(err, path)
	}

	return &LoadResult{Module: m, Files: files, FileCount: len(files)}, nil
}

// FindCUEFiles returns the .cue files directly inside dir. Subdirectories
// hold other packages and are not part of the rule set.
func FindCUEFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.cue"))
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
// Structural rule errors use the compiler's E1xx codes and analyzer
// diagnostics use E2xx.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeMissingGroups = "E008" // No top-level groups list
	ErrCodeInvalidRule   = "E009" // Rule does not match the expected shape
	ErrCodeStoreFailed   = "E010" // History database error
	ErrCodeTestFailed    = "E011" // One or more scenarios failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case compiler.FieldCUE:
		return ErrCodeBuildFailed
	case compiler.FieldModule:
		return ErrCodeMissingGroups
	case compiler.FieldGroup, compiler.FieldEnvironment, compiler.FieldInference,
		compiler.FieldGlobal, compiler.FieldArgument, compiler.FieldPremise,
		compiler.FieldTarget, compiler.FieldRange, compiler.FieldProposition:
		return ErrCodeInvalidRule
	default:
		return ErrCodeGeneric
	}
}
