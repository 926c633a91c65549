package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/compiler"
	"github.com/roach88/inferc/internal/store"
)

// Harness executes scenarios against a store with a fixed run ID source.
type Harness struct {
	store  *store.Store
	ids    store.RunIDGenerator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile and structurally validate the rules
// 2. Analyze with the scenario options
// 3. Record the run and read it back
// 4. Compare the stored run with the expectation and assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	id := scenario.RunID
	if id == "" {
		id = DefaultRunID
	}
	h := &Harness{
		store:  st,
		ids:    fixedRunID(id),
		logger: slog.New(slog.DiscardHandler),
	}
	return h.Run(context.Background(), scenario)
}

// Run executes scenario against the harness store.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	m, err := compiler.Compile(scenario.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}
	if verrs := compiler.Validate(m); len(verrs) > 0 {
		return nil, fmt.Errorf("rules failed validation: %w", verrs[0])
	}

	opts := scenario.Options.AnalyzerOptions()
	opts.Logger = h.logger
	analysis := analyzer.Analyze(m, opts)

	digest, err := ast.ModuleDigest(m)
	if err != nil {
		return nil, fmt.Errorf("failed to digest module: %w", err)
	}

	run := store.NewRun(h.ids.Generate(), scenario.Rules, digest, opts, analysis)
	if err := h.store.WriteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	stored, err := h.store.ReadRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run back: %w", err)
	}

	result := NewResult(stored)
	checkExpectation(scenario.Expect, stored.Pass, stored.Diagnostics, result)
	for _, msg := range EvaluateAssertions(stored.Diagnostics, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// checkExpectation compares the verdict and the ordered diagnostics.
func checkExpectation(exp Expectation, pass bool, diags []analyzer.Diagnostic, result *Result) {
	if exp.Pass != nil && *exp.Pass != pass {
		result.AddError(fmt.Sprintf("pass mismatch: expected %t, got %t", *exp.Pass, pass))
	}

	if len(exp.Diagnostics) != len(diags) {
		result.AddError(fmt.Sprintf("diagnostic count mismatch: expected %d, got %d%s",
			len(exp.Diagnostics), len(diags), listDiagnostics(diags)))
		return
	}
	for i, want := range exp.Diagnostics {
		got := diags[i]
		if want.Severity != got.Severity.String() {
			result.AddError(fmt.Sprintf("diagnostics[%d]: severity mismatch: expected %s, got %s",
				i, want.Severity, got.Severity))
		}
		if want.Code != "" && want.Code != string(got.Code) {
			result.AddError(fmt.Sprintf("diagnostics[%d]: code mismatch: expected %s, got %s",
				i, want.Code, got.Code))
		}
		if want.Message != got.Message {
			result.AddError(fmt.Sprintf("diagnostics[%d]: message mismatch: expected %q, got %q",
				i, want.Message, got.Message))
		}
	}
}
