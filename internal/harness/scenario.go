package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/inferc/internal/analyzer"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is the .cue file or package directory to analyze.
	// LoadScenario resolves it relative to the scenario file.
	Rules string `yaml:"rules"`

	// Options are the analyzer settings for this run.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Expect is the outcome the run must produce.
	Expect Expectation `yaml:"expect"`

	// Assertions are extra checks over the recorded diagnostics.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is the fixed ID the run is recorded under.
	// Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`
}

// ScenarioOptions mirror the analyzer options that change its outcome.
type ScenarioOptions struct {
	BailOnFirstError bool `yaml:"bail_on_first_error"`
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

// AnalyzerOptions converts o for the analyzer.
func (o ScenarioOptions) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		BailOnFirstError: o.BailOnFirstError,
		WarningsAsErrors: o.WarningsAsErrors,
	}
}

// Expectation is the expected result of a scenario run.
type Expectation struct {
	// Pass is the expected analyzer verdict. Required.
	Pass *bool `yaml:"pass"`

	// Diagnostics is the full ordered diagnostic list. Absent means none.
	Diagnostics []ExpectedDiagnostic `yaml:"diagnostics,omitempty"`
}

// ExpectedDiagnostic matches one recorded diagnostic.
type ExpectedDiagnostic struct {
	Severity string `yaml:"severity"`

	// Code is optional; an empty code matches any.
	Code string `yaml:"code,omitempty"`

	Message string `yaml:"message"`
}

// Assertion is an extra check over the recorded diagnostics.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Code selects diagnostics (diagnostic_contains, diagnostic_count).
	Code string `yaml:"code,omitempty"`

	// Message is a substring the message must contain (diagnostic_contains).
	Message string `yaml:"message,omitempty"`

	// Count is the expected number of occurrences (diagnostic_count).
	Count int `yaml:"count,omitempty"`

	// Codes is the expected code order (diagnostic_order).
	Codes []string `yaml:"codes,omitempty"`
}

// Assertion type constants.
const (
	AssertDiagnosticContains = "diagnostic_contains"
	AssertDiagnosticOrder    = "diagnostic_order"
	AssertDiagnosticCount    = "diagnostic_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rules == "" {
		return fmt.Errorf("rules is required")
	}
	if _, err := os.Stat(s.Rules); os.IsNotExist(err) {
		return fmt.Errorf("rules not found: %s", s.Rules)
	}

	if s.Expect.Pass == nil {
		return fmt.Errorf("expect.pass is required")
	}

	for i, d := range s.Expect.Diagnostics {
		if _, err := analyzer.ParseSeverity(d.Severity); err != nil {
			return fmt.Errorf("expect.diagnostics[%d]: %w", i, err)
		}
		if d.Message == "" {
			return fmt.Errorf("expect.diagnostics[%d]: message is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertDiagnosticContains:
		if a.Code == "" && a.Message == "" {
			return fmt.Errorf("assertions[%d]: code or message is required for diagnostic_contains", index)
		}
	case AssertDiagnosticOrder:
		if len(a.Codes) == 0 {
			return fmt.Errorf("assertions[%d]: codes list is required for diagnostic_order", index)
		}
	case AssertDiagnosticCount:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for diagnostic_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
