package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	AnalyzerFlags
	Record string // history database path
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Digest      string                     `json:"digest,omitempty"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
	Diagnostics []analyzer.Diagnostic      `json:"diagnostics"`
	ErrorCount  int                        `json:"error_count"`
	Warnings    int                        `json:"warning_count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <rules>",
		Short: "Check inference rules for consistency",
		Long: `Compile CUE inference rules and run the consistency checks.

<rules> is a .cue file or a directory holding one CUE package.
Reports duplicate names, clashing target shapes, bad range bounds and
unbound propositions. With --record the run is stored in a history
database for the history command.

Exit codes:
  0 - Rules valid (warnings allowed)
  1 - Errors reported
  2 - Command error (rules not found, unreadable CUE, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	opts.AnalyzerFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Record, "record", "", "record the run in this history database")

	return cmd
}

func runValidate(opts *ValidateOptions, rulesPath string, cmd *cobra.Command) error {
	if err := opts.checkFormat(); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	a, loadErr := analyzeRules(rulesPath, opts.analyzerOptions(opts.AnalyzerFlags), formatter)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}
	if len(a.Structural) > 0 {
		return outputValidationErrors(formatter, a.Structural)
	}

	var runID string
	if db := opts.historyDB(opts.Record); db != "" {
		id, err := recordRun(cmd.Context(), db, rulesPath, opts.runIDs(), a)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error())
		}
		runID = id
		formatter.VerboseLog("Recorded run %s in %s", runID, db)
	}

	return outputDiagnostics(formatter, a, runID)
}

// outputLoadError outputs a load failure. Missing paths are command errors;
// rules that fail to compile are validation failures.
func outputLoadError(formatter *OutputFormatter, loadErr *LoadError) error {
	switch loadErr.Code {
	case ErrCodeNotFound, ErrCodeScanError, ErrCodeNoFiles:
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message)
	}

	_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
}

// outputValidationErrors outputs structural rule errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		err := formatter.Respond(CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:       false,
				Errors:      errs,
				Diagnostics: []analyzer.Diagnostic{},
				ErrorCount:  len(errs),
			},
			Error: &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		})
		if err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s\n", err.Pos)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return failure
}

// outputDiagnostics outputs the analyzer result. A failed analysis is exit
// code 1.
func outputDiagnostics(formatter *OutputFormatter, a *Analysis, runID string) error {
	res := a.Result
	var failure error
	if !res.Pass {
		failure = NewExitError(ExitFailure,
			fmt.Sprintf("validation failed with %d error(s)", res.Errors()))
	}

	if formatter.Format == "json" {
		v := ValidationResult{
			Valid:       res.Pass,
			Digest:      a.Digest,
			Diagnostics: res.Diagnostics,
			ErrorCount:  res.Errors(),
			Warnings:    res.Warnings(),
		}
		if err := formatter.Respond(diagnosticResponse(v, runID)); err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	if res.Pass {
		fmt.Fprintln(w, "✓ Rules valid")
	} else {
		fmt.Fprintln(w, "✗ Validation failed")
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w)
		formatter.WriteDiagnostics("  ", res.Diagnostics)
	}
	fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", res.Errors(), res.Warnings())
	if runID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", runID)
	}
	return failure
}
