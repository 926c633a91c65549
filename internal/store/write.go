package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run and its diagnostics in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a run whose ID is already
// stored is silently ignored along with its diagnostics.
//
// The run's Seq field is ignored; the store assigns the next logical seq.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	optsJSON, err := marshalOptions(run.Options)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, source, digest, analyzer_version, options, pass)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Source,
		run.Digest,
		run.AnalyzerVersion,
		optsJSON,
		boolToInt(run.Pass),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	for i, d := range run.Diagnostics {
		sev, err := d.Severity.MarshalText()
		if err != nil {
			return fmt.Errorf("write diagnostic %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO diagnostics
			(run_id, idx, severity, code, message, grp, inference, file, line, col)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			string(sev),
			string(d.Code),
			d.Message,
			d.Group,
			d.Inference,
			d.Pos.File,
			d.Pos.Line,
			d.Pos.Column,
		)
		if err != nil {
			return fmt.Errorf("write diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
