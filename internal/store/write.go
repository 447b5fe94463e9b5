package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yardstick-io/yardstick/internal/results"
)

// WriteRun inserts a run record with its history and telemetry in one
// transaction. A run without an id is assigned one; the assigned record is
// returned. Uses ON CONFLICT(id) DO NOTHING for idempotency - re-importing
// the same run is silently ignored.
func (s *Store) WriteRun(ctx context.Context, integration string, run results.RunRecord) (results.RunRecord, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	configJSON, err := marshalJSONMap(run.Config)
	if err != nil {
		return run, fmt.Errorf("write run: config: %w", err)
	}
	summaryJSON, err := marshalJSONMap(run.Summary)
	if err != nil {
		return run, fmt.Errorf("write run: summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, integration, exitcode, config, summary, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scenario, integration, run.ExitCode, configJSON, summaryJSON, run.Seq)
	if err != nil {
		return run, fmt.Errorf("write run: %w", err)
	}

	// Child rows only on first insert; a re-import must not duplicate or
	// reorder history.
	inserted, err := res.RowsAffected()
	if err != nil {
		return run, fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted > 0 {
		if err := writeHistory(ctx, tx, run); err != nil {
			return run, err
		}
		if err := writeTelemetry(ctx, tx, run); err != nil {
			return run, err
		}
	}

	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// ImportResults writes every run from a results file. Returns the number of
// runs written.
func (s *Store) ImportResults(ctx context.Context, f *results.File) (int, error) {
	count := 0
	for i, run := range f.Runs {
		if run.Seq == 0 {
			run.Seq = int64(i + 1)
		}
		if _, err := s.WriteRun(ctx, f.Integration, run); err != nil {
			return count, fmt.Errorf("run %d: %w", i, err)
		}
		count++
	}
	return count, nil
}

func writeHistory(ctx context.Context, tx *sql.Tx, run results.RunRecord) error {
	for step, row := range run.History {
		metricsJSON, err := marshalJSONMap(row)
		if err != nil {
			return fmt.Errorf("write history step %d: %w", step, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO history (run_id, step, metrics)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, step) DO NOTHING
		`, run.ID, step, metricsJSON)
		if err != nil {
			return fmt.Errorf("write history step %d: %w", step, err)
		}
	}
	return nil
}

func writeTelemetry(ctx context.Context, tx *sql.Tx, run results.RunRecord) error {
	for section, codes := range run.Telemetry {
		if len(codes) == 0 {
			continue
		}
		codesJSON, err := json.Marshal(codes)
		if err != nil {
			return fmt.Errorf("write telemetry section %d: %w", section, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO telemetry (run_id, section, codes)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, section) DO NOTHING
		`, run.ID, section, string(codesJSON))
		if err != nil {
			return fmt.Errorf("write telemetry section %d: %w", section, err)
		}
	}
	return nil
}

// marshalJSONMap serializes a map column. Nil maps store as empty objects so
// reads never see SQL NULL.
func marshalJSONMap(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
