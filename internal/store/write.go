package store

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/zatoshilabs/zord/internal/report"
)

// WriteRun inserts a run and its failures in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same run
// twice leaves the first copy untouched.
func (s *Store) WriteRun(ctx context.Context, r *report.RunReport) error {
	var doc bytes.Buffer
	if err := report.RenderJSON(&doc, r); err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	var probes, passed, drift, problems int
	if r.Smoke != nil {
		probes = len(r.Smoke.Outcomes)
		passed = r.Smoke.Passed()
	}
	if r.Integrity != nil {
		drift = len(r.Integrity.Drift)
	}
	if r.Validation != nil {
		problems = len(r.Validation.Problems)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, command, base_url, started_at, elapsed_ms, exit_code, probes, probes_passed, drift, problems, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.RunID,
		r.Command,
		r.BaseURL,
		r.Started.UTC().Format(time.RFC3339Nano),
		r.Elapsed.Milliseconds(),
		r.ExitCode(),
		probes,
		passed,
		drift,
		problems,
		doc.String(),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if n == 0 {
		return nil
	}

	for i, reason := range r.Failures() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, seq, reason) VALUES (?, ?, ?)
		`, r.RunID, i, reason); err != nil {
			return fmt.Errorf("write run: failure %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
