package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/inferc/internal/analyzer"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type        string // Assertion type for categorization
	Expected    string // Human-readable expected outcome
	Actual      string // Human-readable actual outcome
	Diagnostics []analyzer.Diagnostic
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	buf.WriteString(listDiagnostics(e.Diagnostics))

	return buf.String()
}

// listDiagnostics renders diags for failure messages.
func listDiagnostics(diags []analyzer.Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "\nDiagnostics:\n")
	for i, d := range diags {
		fmt.Fprintf(&buf, "  [%d] %s[%s]: %s\n", i+1, d.Severity, d.Code, d.Message)
	}
	return buf.String()
}

// assertDiagnosticContains checks for a diagnostic with the code whose
// message contains the given text. Either filter may be empty.
func assertDiagnosticContains(diags []analyzer.Diagnostic, assertion Assertion) error {
	for _, d := range diags {
		if assertion.Code != "" && string(d.Code) != assertion.Code {
			continue
		}
		if strings.Contains(d.Message, assertion.Message) {
			return nil
		}
	}

	return &AssertionError{
		Type:        AssertDiagnosticContains,
		Expected:    fmt.Sprintf("diagnostic %s containing %q", assertion.Code, assertion.Message),
		Actual:      "not found",
		Diagnostics: diags,
	}
}

// assertDiagnosticOrder checks that the codes first appear in the given
// order. Other diagnostics may appear in between.
func assertDiagnosticOrder(diags []analyzer.Diagnostic, assertion Assertion) error {
	positions := make(map[string]int)
	for i, d := range diags {
		if _, seen := positions[string(d.Code)]; !seen {
			positions[string(d.Code)] = i + 1 // 1-indexed for readability
		}
	}

	for _, code := range assertion.Codes {
		if positions[code] == 0 {
			return &AssertionError{
				Type:        AssertDiagnosticOrder,
				Expected:    fmt.Sprintf("all codes present: %v", assertion.Codes),
				Actual:      fmt.Sprintf("missing code: %s", code),
				Diagnostics: diags,
			}
		}
	}

	for i := 1; i < len(assertion.Codes); i++ {
		prev := assertion.Codes[i-1]
		curr := assertion.Codes[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertDiagnosticOrder,
				Expected: fmt.Sprintf("codes in order: %v", assertion.Codes),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Diagnostics: diags,
			}
		}
	}

	return nil
}

// assertDiagnosticCount checks that the code appears exactly Count times.
func assertDiagnosticCount(diags []analyzer.Diagnostic, assertion Assertion) error {
	count := 0
	for _, d := range diags {
		if string(d.Code) == assertion.Code {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:        AssertDiagnosticCount,
			Expected:    fmt.Sprintf("%s appears %d times", assertion.Code, assertion.Count),
			Actual:      fmt.Sprintf("%s appears %d times", assertion.Code, count),
			Diagnostics: diags,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(diags []analyzer.Diagnostic, assertions []Assertion) []string {
	var failures []string
	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertDiagnosticContains:
			err = assertDiagnosticContains(diags, assertion)
		case AssertDiagnosticOrder:
			err = assertDiagnosticOrder(diags, assertion)
		case AssertDiagnosticCount:
			err = assertDiagnosticCount(diags, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertion[%d]: %s", i, err))
		}
	}
	return failures
}
