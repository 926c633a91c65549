package harness

import "github.com/roach88/inferc/internal/store"

// DefaultRunID names the stored run of a scenario without run_id.
const DefaultRunID = "scenario-run"

// fixedRunID records every run under one ID, so a scenario's stored run is
// the same on every execution.
type fixedRunID string

func (id fixedRunID) Generate() string { return string(id) }

// Result is the outcome of a scenario run.
type Result struct {
	// Pass reports whether the run matched every expectation and assertion.
	Pass bool `json:"pass"`

	// Run is the analysis as read back from the store.
	Run store.Run `json:"run"`

	// Errors lists every mismatch. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for run.
func NewResult(run store.Run) *Result {
	return &Result{
		Pass:   true,
		Run:    run,
		Errors: []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
