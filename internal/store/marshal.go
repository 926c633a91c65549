package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
)

// marshalOptions converts RunOptions to canonical JSON TEXT for storage.
func marshalOptions(opts RunOptions) (string, error) {
	data, err := ast.MarshalCanonical(map[string]any{
		"bail_on_first_error": opts.BailOnFirstError,
		"warnings_as_errors":  opts.WarningsAsErrors,
	})
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

// unmarshalOptions parses options TEXT.
func unmarshalOptions(data string) (RunOptions, error) {
	var opts RunOptions
	if data == "" || data == "{}" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return opts, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseSeverity(s string) (analyzer.Severity, error) {
	sev, err := analyzer.ParseSeverity(s)
	if err != nil {
		return 0, fmt.Errorf("scan diagnostic: %w", err)
	}
	return sev, nil
}
