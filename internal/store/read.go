package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, seq, source, digest, analyzer_version, options, pass`

// ReadRun returns the run with the given ID and its diagnostics.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Diagnostics, err = s.readDiagnostics(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
// Results are ordered deterministically: ORDER BY seq DESC.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// RunsForDigest returns every run of the module with the given digest,
// oldest first.
func (s *Store) RunsForDigest(ctx context.Context, digest string) ([]Run, error) {
	return s.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs WHERE digest = ? ORDER BY seq ASC`, digest)
}

// RunsWithCode returns the runs that reported a diagnostic with the given
// code, newest first. limit <= 0 means all.
func (s *Store) RunsWithCode(ctx context.Context, code analyzer.Code, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE id IN (SELECT run_id FROM diagnostics WHERE code = ?)
		ORDER BY seq DESC`
	args := []any{string(code)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	// Diagnostics are read after the runs cursor is closed; the pool has a
	// single connection.
	for i := range runs {
		runs[i].Diagnostics, err = s.readDiagnostics(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

func (s *Store) readDiagnostics(ctx context.Context, runID string) ([]analyzer.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, code, message, grp, inference, file, line, col
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []analyzer.Diagnostic{}
	for rows.Next() {
		var (
			d        analyzer.Diagnostic
			severity string
			code     string
			pos      ast.Pos
		)
		if err := rows.Scan(&severity, &code, &d.Message, &d.Group, &d.Inference,
			&pos.File, &pos.Line, &pos.Column); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		if d.Severity, err = parseSeverity(severity); err != nil {
			return nil, err
		}
		d.Code = analyzer.Code(code)
		d.Pos = pos
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		optsJSON string
		pass     int
	)
	if err := row.Scan(&run.ID, &run.Seq, &run.Source, &run.Digest,
		&run.AnalyzerVersion, &optsJSON, &pass); err != nil {
		return Run{}, err
	}
	opts, err := unmarshalOptions(optsJSON)
	if err != nil {
		return Run{}, err
	}
	run.Options = opts
	run.Pass = pass == 1
	return run, nil
}
