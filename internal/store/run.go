package store

import (
	"github.com/google/uuid"

	"github.com/roach88/inferc/internal/analyzer"
)

// Run is one recorded analyzer invocation.
type Run struct {
	ID              string                `json:"id"`
	Seq             int64                 `json:"seq"`
	Source          string                `json:"source"`
	Digest          string                `json:"digest"`
	AnalyzerVersion string                `json:"analyzer_version"`
	Options         RunOptions            `json:"options"`
	Pass            bool                  `json:"pass"`
	Diagnostics     []analyzer.Diagnostic `json:"diagnostics"`
}

// RunOptions are the analyzer settings that affect a run's outcome.
type RunOptions struct {
	BailOnFirstError bool `json:"bail_on_first_error"`
	WarningsAsErrors bool `json:"warnings_as_errors"`
}

// NewRun builds a Run from an analysis result. Seq is assigned when the run
// is written.
func NewRun(id, source, digest string, opts analyzer.Options, res analyzer.Result) Run {
	diags := res.Diagnostics
	if diags == nil {
		diags = []analyzer.Diagnostic{}
	}
	return Run{
		ID:              id,
		Source:          source,
		Digest:          digest,
		AnalyzerVersion: analyzer.Version,
		Options: RunOptions{
			BailOnFirstError: opts.BailOnFirstError,
			WarningsAsErrors: opts.WarningsAsErrors,
		},
		Pass:        res.Pass,
		Diagnostics: diags,
	}
}

// RunIDGenerator produces identifiers for new runs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by creation time. Ordering in the store still uses seq.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
