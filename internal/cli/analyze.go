package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/compiler"
	"github.com/roach88/inferc/internal/store"
)

// AnalyzerFlags are the analyzer settings shared by validate and compile.
type AnalyzerFlags struct {
	BailOnFirstError bool
	WarningsAsErrors bool
}

func (f *AnalyzerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.BailOnFirstError, "bail-on-first-error", false, "stop at the first error")
	cmd.Flags().BoolVar(&f.WarningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
}

// analyzerOptions returns the effective analyzer settings. The resolved
// config wins when present; otherwise the command's own flags apply.
func (o *RootOptions) analyzerOptions(f AnalyzerFlags) analyzer.Options {
	opts := analyzer.Options{
		BailOnFirstError: f.BailOnFirstError,
		WarningsAsErrors: f.WarningsAsErrors,
		Verbose:          o.Verbose,
	}
	if o.Config != nil {
		opts = o.Config.AnalyzerOptions()
	}
	opts.Logger = o.logger()
	return opts
}

// Analysis is one rule set taken through every check.
type Analysis struct {
	Load       *LoadResult
	Structural []compiler.ValidationError
	Digest     string
	Options    analyzer.Options
	Result     analyzer.Result
}

// Pass reports whether the rules are structurally sound and the analyzer
// passed.
func (a *Analysis) Pass() bool {
	return len(a.Structural) == 0 && a.Result.Pass
}

// analyzeRules loads path and runs the structural and semantic checks.
// Structural errors skip the analyzer.
func analyzeRules(path string, opts analyzer.Options, formatter *OutputFormatter) (*Analysis, *LoadError) {
	load, loadErr := LoadRules(path)
	if loadErr != nil {
		return nil, loadErr
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", load.FileCount, path)

	a := &Analysis{Load: load, Options: opts}
	if a.Structural = compiler.Validate(load.Module); len(a.Structural) > 0 {
		return a, nil
	}

	digest, err := ast.ModuleDigest(load.Module)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	a.Digest = digest

	opts.Handler = func(d analyzer.Diagnostic) {
		formatter.VerboseLog("%s", d)
	}
	a.Result = analyzer.Analyze(load.Module, opts)
	return a, nil
}

// recordRun writes the analysis to the history database at path and
// returns the new run ID.
func recordRun(ctx context.Context, path, source string, ids store.RunIDGenerator, a *Analysis) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening history database: %w", err)
	}
	defer st.Close()

	run := store.NewRun(ids.Generate(), source, a.Digest, a.Options, a.Result)
	if err := st.WriteRun(ctx, run); err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// runIDs returns the configured run ID source, UUIDv7 by default.
func (o *RootOptions) runIDs() store.RunIDGenerator {
	if o.RunIDs != nil {
		return o.RunIDs
	}
	return store.UUIDv7Generator{}
}

// historyDB returns the history database path. The resolved config already
// carries the flag value, so flag is only used without one.
func (o *RootOptions) historyDB(flag string) string {
	if o.Config != nil {
		return o.Config.HistoryDB
	}
	return flag
}
