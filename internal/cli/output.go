package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/inferc/internal/analyzer"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Rules valid, scenarios passed
	ExitFailure      = 1 // Errors reported or scenarios failed
	ExitCommandError = 2 // Bad flags, missing paths, store or write failures
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope written by every command.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // command payload
	Error  *CLIError `json:"error,omitempty"`  // first error, when failing
	RunID  string    `json:"run_id,omitempty"` // recorded run, when a history DB is set
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // E0xx for command errors, E1xx/E2xx for rule errors
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Respond writes resp as indented JSON.
func (f *OutputFormatter) Respond(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Success writes data in an "ok" envelope, or its default text form.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.Respond(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a command-level error.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.Respond(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes the error and returns the matching ExitError.
func (f *OutputFormatter) Fail(exit int, code, message string) error {
	_ = f.Error(code, message, nil)
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}

// VerboseLog writes a line to ErrWriter when verbose, so JSON on Writer
// stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// WriteDiagnostics prints one diagnostic per line after indent.
func (f *OutputFormatter) WriteDiagnostics(indent string, diags []analyzer.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(f.Writer, "%s%s\n", indent, d)
	}
}

// mark renders a pass flag.
func mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

// diagnosticResponse wraps v. A failing result carries its first error
// diagnostic as the envelope error.
func diagnosticResponse(v ValidationResult, runID string) CLIResponse {
	resp := CLIResponse{Status: "ok", Data: v, RunID: runID}
	if !v.Valid {
		first := firstError(v.Diagnostics)
		resp.Status = "error"
		resp.Error = &CLIError{Code: string(first.Code), Message: first.Message}
	}
	return resp
}

// firstError returns the first error-severity diagnostic.
func firstError(diags []analyzer.Diagnostic) analyzer.Diagnostic {
	for _, d := range diags {
		if d.Severity == analyzer.SeverityError {
			return d
		}
	}
	return analyzer.Diagnostic{}
}
