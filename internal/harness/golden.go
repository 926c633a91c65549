package harness

import (
	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
)

// Snapshot captures the part of a run that golden files compare.
// Positions, the source path and the digest are left out.
type Snapshot struct {
	ScenarioName string                `json:"scenario_name"`
	Pass         bool                  `json:"pass"`
	Diagnostics  []analyzer.Diagnostic `json:"diagnostics"`
}

// NewSnapshot builds the snapshot of result under name.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: name,
		Pass:         result.Run.Pass,
		Diagnostics:  result.Run.Diagnostics,
	}
}

// toCanonicalMap converts s for canonical JSON serialization.
func (s Snapshot) toCanonicalMap() map[string]any {
	diags := make([]any, len(s.Diagnostics))
	for i, d := range s.Diagnostics {
		entry := map[string]any{
			"severity": d.Severity.String(),
			"code":     string(d.Code),
			"message":  d.Message,
		}
		if d.Group != "" {
			entry["group"] = d.Group
		}
		if d.Inference != "" {
			entry["inference"] = d.Inference
		}
		diags[i] = entry
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"pass":          s.Pass,
		"diagnostics":   diags,
	}
}

// MarshalCanonical returns the canonical JSON form of s. Equal snapshots
// always produce identical bytes.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	return ast.MarshalCanonical(s.toCanonicalMap())
}
