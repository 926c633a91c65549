package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	AnalyzerFlags
	Output string // output file path
}

// CompilationResult summarizes a compiled rule set.
type CompilationResult struct {
	Digest          string          `json:"digest"`
	AnalyzerVersion string          `json:"analyzer_version"`
	Groups          int             `json:"groups"`
	Inferences      int             `json:"inferences"`
	Warnings        int             `json:"warning_count"`
	Output          string          `json:"output,omitempty"`
	Module          json.RawMessage `json:"module,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rules>",
		Short: "Compile checked rules to canonical JSON",
		Long: `Check CUE inference rules and emit the canonical JSON module.

The rules are validated first; nothing is written if any error is
reported. The output carries the module digest and the analyzer
version, and is the input for code synthesis.

Without --output the canonical JSON is written to stdout.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	opts.AnalyzerFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, rulesPath string, cmd *cobra.Command) error {
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
	if !a.Result.Pass {
		return outputDiagnostics(formatter, a, "")
	}

	data, err := CanonicalOutput(a.Load.Module, a.Digest)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encoding module: %v", err))
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	result := &CompilationResult{
		Digest:          a.Digest,
		AnalyzerVersion: analyzer.Version,
		Groups:          len(a.Load.Module.Groups),
		Warnings:        a.Result.Warnings(),
		Output:          opts.Output,
	}
	for _, g := range a.Load.Module.Groups {
		result.Inferences += len(g.Inferences)
	}
	if opts.Output == "" {
		result.Module = data
	}

	return outputCompileSuccess(formatter, result, data)
}

// CanonicalOutput encodes m for code synthesis: the canonical module with
// its digest and the analyzer version that checked it.
func CanonicalOutput(m *ast.Module, digest string) ([]byte, error) {
	return ast.MarshalCanonical(map[string]any{
		"analyzer_version": analyzer.Version,
		"digest":           digest,
		"module":           ast.ToCanonicalMap(m),
	})
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, data []byte) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Output == "" {
		_, err := fmt.Fprintf(formatter.Writer, "%s\n", data)
		return err
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d group(s), %d inference(s)\n",
		result.Groups, result.Inferences)
	if result.Warnings > 0 {
		fmt.Fprintf(formatter.Writer, "  %d warning(s)\n", result.Warnings)
	}
	fmt.Fprintf(formatter.Writer, "Digest: %s\n", result.Digest)
	fmt.Fprintf(formatter.Writer, "Wrote canonical module to %s\n", result.Output)

	return nil
}
