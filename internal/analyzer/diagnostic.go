package analyzer

import (
	"fmt"

	"github.com/roach88/inferc/internal/ast"
)

// Severity is the level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SeverityWarning, SeverityError:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity converts "warning" or "error" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// Code identifies the check that produced a diagnostic.
type Code string

const (
	// CodeDuplicateGroup: two groups in a module share a name.
	CodeDuplicateGroup Code = "E201"

	// CodeDuplicateEnvironment: an environment key repeats within a group.
	CodeDuplicateEnvironment Code = "E202"

	// CodeDuplicateInference: two inference definitions in a group share a name.
	CodeDuplicateInference Code = "E203"

	// CodeDuplicateGlobal: a global is declared twice in one inference.
	CodeDuplicateGlobal Code = "E204"

	// CodeDuplicateArgument: an argument is declared twice in one inference.
	CodeDuplicateArgument Code = "E205"

	// CodeIncompatibleTarget: a target is rebound with a clashing shape.
	CodeIncompatibleTarget Code = "E206"

	// CodeInvalidTargetType: an equality operand is missing or malformed.
	CodeInvalidTargetType Code = "E207"

	// CodeInvalidRangeTarget: a range clause is not bounded by an array.
	CodeInvalidRangeTarget Code = "E208"

	// CodeIncompatibleExpression: the operands of a comparison disagree.
	CodeIncompatibleExpression Code = "E209"

	// CodeInvalidProposition: the proposition target is unbound or clashes.
	CodeInvalidProposition Code = "E210"
)

// Diagnostic is one problem found in a module.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Code      Code     `json:"code"`
	Message   string   `json:"message"`
	Group     string   `json:"group,omitempty"`
	Inference string   `json:"inference,omitempty"`
	Pos       ast.Pos  `json:"pos,omitzero"`
}

// String renders the diagnostic as "pos: severity[code]: message".
func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Pos, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}

// Handler is called once for every diagnostic as it is recorded.
type Handler func(Diagnostic)

// Result is the outcome of one analysis.
type Result struct {
	Pass        bool         `json:"pass"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Errors returns the number of error diagnostics.
func (r Result) Errors() int {
	return r.count(SeverityError)
}

// Warnings returns the number of warning diagnostics.
func (r Result) Warnings() int {
	return r.count(SeverityWarning)
}

func (r Result) count(s Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}
