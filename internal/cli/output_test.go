package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
)

func jsonFormatter(buf *bytes.Buffer) *OutputFormatter {
	return &OutputFormatter{Format: "json", Writer: buf}
}

func duplicateDiagnostics() []analyzer.Diagnostic {
	return []analyzer.Diagnostic{
		{
			Severity: analyzer.SeverityWarning,
			Code:     analyzer.CodeDuplicateGlobal,
			Message:  `Found duplicate symbol (global) with name "Ctx".`,
			Group:    "Calls",
			Pos:      ast.Pos{File: "rules.cue", Line: 7, Column: 4},
		},
		{
			Severity:  analyzer.SeverityError,
			Code:      analyzer.CodeDuplicateArgument,
			Message:   `Found duplicate symbol (argument) with name "Arg1".`,
			Group:     "Calls",
			Inference: "CallExpr",
		},
	}
}

func TestRespondIncludesRunID(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, jsonFormatter(buf).Respond(CLIResponse{Status: "ok", RunID: "run-0001"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "run-0001", resp.RunID)
	assert.Contains(t, buf.String(), `"run_id": "run-0001"`)
}

func TestRespondOmitsEmptyRunID(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, jsonFormatter(buf).Respond(CLIResponse{Status: "ok"}))
	assert.NotContains(t, buf.String(), "run_id")
}

func TestDiagnosticResponsePassing(t *testing.T) {
	v := ValidationResult{
		Valid:       true,
		Digest:      "abc",
		Diagnostics: duplicateDiagnostics()[:1],
		Warnings:    1,
	}

	resp := diagnosticResponse(v, "run-0002")

	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "run-0002", resp.RunID)
	assert.Equal(t, v, resp.Data)
}

func TestDiagnosticResponseFailingUsesFirstError(t *testing.T) {
	v := ValidationResult{
		Valid:       false,
		Diagnostics: duplicateDiagnostics(),
		ErrorCount:  1,
		Warnings:    1,
	}

	buf := &bytes.Buffer{}
	require.NoError(t, jsonFormatter(buf).Respond(diagnosticResponse(v, "")))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E205", resp.Error.Code)
	assert.Equal(t, `Found duplicate symbol (argument) with name "Arg1".`, resp.Error.Message)
	require.Len(t, resp.Data.Diagnostics, 2)
	assert.Equal(t, analyzer.SeverityWarning, resp.Data.Diagnostics[0].Severity)
	assert.Equal(t, "CallExpr", resp.Data.Diagnostics[1].Inference)
}

func TestFirstErrorSkipsWarnings(t *testing.T) {
	assert.Equal(t, analyzer.CodeDuplicateArgument, firstError(duplicateDiagnostics()).Code)
	assert.Equal(t, analyzer.Diagnostic{}, firstError(duplicateDiagnostics()[:1]))
}

func TestWriteDiagnostics(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	f.WriteDiagnostics("  ", duplicateDiagnostics())

	want := fmt.Sprintf("  %s\n  %s\n", duplicateDiagnostics()[0], duplicateDiagnostics()[1])
	assert.Equal(t, want, buf.String())
	assert.Contains(t, buf.String(), "rules.cue:7:4")
	assert.Contains(t, buf.String(), "E205")
}

func TestFailWritesEnvelopeAndExitCode(t *testing.T) {
	buf := &bytes.Buffer{}

	err := jsonFormatter(buf).Fail(ExitCommandError, ErrCodeStoreFailed, "opening history: locked")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E010: opening history: locked", err.Error())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeStoreFailed, resp.Error.Code)
}

func TestErrorTextVerboseDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error(ErrCodeInvalidRule, "premise: unknown operator", "op=~"))

	assert.Equal(t, "Error [E009]: premise: unknown operator\nDetails: op=~\n", buf.String())
}

func TestVerboseLogUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	f.VerboseLog("Found %d CUE file(s) in %s", 2, "rules")

	assert.Empty(t, out.String())
	assert.Equal(t, "Found 2 CUE file(s) in rules\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("ignored")
	assert.Equal(t, "Found 2 CUE file(s) in rules\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))
	assert.Equal(t, "validation failed", NewExitError(ExitFailure, "validation failed").Error())
}

func TestMark(t *testing.T) {
	assert.Equal(t, "✓", mark(true))
	assert.Equal(t, "✗", mark(false))
}
