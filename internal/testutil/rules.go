package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/compiler"
)

// MustCompile compiles CUE rule source and fails the test on any error.
func MustCompile(t testing.TB, src string) *ast.Module {
	t.Helper()
	m, err := compiler.CompileSource("test.cue", []byte(src))
	require.NoError(t, err, "compiling rule source")
	return m
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
