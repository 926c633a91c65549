package analyzer

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/walk"
)

// Options configures an Analyzer.
type Options struct {
	// BailOnFirstError stops the analysis at the first error.
	BailOnFirstError bool

	// WarningsAsErrors records every warning as an error and stops at it.
	WarningsAsErrors bool

	// Verbose logs a summary at Info level when the analysis finishes.
	Verbose bool

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// Handler, if set, is called for each diagnostic as it is recorded.
	Handler Handler
}

// Analyzer runs the consistency checks over a module. It embeds walk.Base
// and overrides PreModule, PreGroup and PreInference.
//
// An Analyzer is not safe for concurrent use. Each call to Analyze starts
// from empty state, so one Analyzer may be reused for several modules.
type Analyzer struct {
	walk.Base

	opts   Options
	logger *slog.Logger

	diags  []Diagnostic
	failed bool
	group  string
}

var _ walk.Visitor = (*Analyzer)(nil)

// New creates an Analyzer with the given options.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{opts: opts, logger: logger}
}

// Analyze checks m and returns the pass flag with every recorded diagnostic
// in the order found.
func Analyze(m *ast.Module, opts Options) Result {
	return New(opts).Analyze(m)
}

// Analyze checks m. See the package-level Analyze.
func (a *Analyzer) Analyze(m *ast.Module) Result {
	a.diags = nil
	a.failed = false
	a.group = ""

	completed := walk.Module(m, a)
	res := Result{
		Pass:        completed && !a.failed,
		Diagnostics: slices.Clone(a.diags),
	}
	if res.Diagnostics == nil {
		res.Diagnostics = []Diagnostic{}
	}

	if a.opts.Verbose {
		a.logger.Info("analysis finished",
			"pass", res.Pass,
			"groups", len(m.Groups),
			"errors", res.Errors(),
			"warnings", res.Warnings(),
			"completed", completed)
	}
	return res
}

// report records a diagnostic and returns whether the walk should continue.
func (a *Analyzer) report(sev Severity, code Code, inference string, pos ast.Pos, format string, args ...any) bool {
	escalated := sev == SeverityWarning && a.opts.WarningsAsErrors
	if escalated {
		sev = SeverityError
	}

	d := Diagnostic{
		Severity:  sev,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Group:     a.group,
		Inference: inference,
		Pos:       pos,
	}
	a.diags = append(a.diags, d)
	if a.opts.Handler != nil {
		a.opts.Handler(d)
	}

	a.logger.Debug("diagnostic recorded",
		"severity", d.Severity.String(),
		"code", string(d.Code),
		"message", d.Message,
		"pos", pos.String())

	switch {
	case escalated:
		a.failed = true
		return false
	case sev == SeverityWarning:
		return true
	default:
		a.failed = true
		return !a.opts.BailOnFirstError
	}
}

// PreModule reports group names declared more than once.
func (a *Analyzer) PreModule(m *ast.Module) bool {
	a.logger.Debug("checking module", "groups", len(m.Groups))

	dup := newDuplicates()
	for _, g := range m.Groups {
		if dup.repeated(g.Name) {
			if !a.report(SeverityError, CodeDuplicateGroup, "", g.Pos,
				"Found multiple inference group with name %q.", g.Name) {
				return false
			}
		}
	}
	return walk.Continue
}

// PreGroup reports repeated environment keys and inference names.
func (a *Analyzer) PreGroup(g *ast.InferenceGroup, _ *ast.Module) bool {
	a.group = g.Name
	a.logger.Debug("checking group",
		"group", g.Name,
		"environment", len(g.Environment),
		"inferences", len(g.Inferences))

	envs := newDuplicates()
	for _, e := range g.Environment {
		if envs.repeated(e.Key) {
			if !a.report(SeverityWarning, CodeDuplicateEnvironment, "", e.Pos,
				"Found duplicate environment field with name %q.", e.Key) {
				return false
			}
		}
	}

	defs := newDuplicates()
	for _, d := range g.Inferences {
		if defs.repeated(d.Name) {
			if !a.report(SeverityError, CodeDuplicateInference, d.Name, d.Pos,
				"Found multiple inference definition with name %q.", d.Name) {
				return false
			}
		}
	}
	return walk.Continue
}

// PreInference reports repeated globals and arguments, then checks target
// consistency across the premises and the proposition.
func (a *Analyzer) PreInference(d *ast.InferenceDefn, _ *ast.InferenceGroup) bool {
	a.logger.Debug("checking inference",
		"group", a.group,
		"inference", d.Name,
		"premises", len(d.Premises))

	globals := newDuplicates()
	for _, g := range d.Globals {
		if globals.repeated(g.Name) {
			if !a.report(SeverityWarning, CodeDuplicateGlobal, d.Name, g.Pos,
				"Found duplicate symbol (global) with name %q.", g.Name) {
				return false
			}
		}
	}

	args := newDuplicates()
	for _, arg := range d.Arguments {
		if args.repeated(arg.Name) {
			if !a.report(SeverityError, CodeDuplicateArgument, d.Name, arg.Pos,
				"Found duplicate symbol (argument) with name %q.", arg.Name) {
				return false
			}
		}
	}

	return a.checkTargets(d)
}

// duplicates tracks names in one scope. A name is repeated on its second
// occurrence only, so each duplicated name is reported once.
type duplicates struct {
	seen map[string]int
}

func newDuplicates() *duplicates {
	return &duplicates{seen: make(map[string]int)}
}

func (d *duplicates) repeated(name string) bool {
	d.seen[name]++
	return d.seen[name] == 2
}
