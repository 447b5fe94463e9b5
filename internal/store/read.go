package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yardstick-io/yardstick/internal/results"
)

// ReadRuns returns the recorded runs for an integration, ordered
// deterministically by recording seq then id. Scenario narrows the result to
// one fixture's runs; empty selects everything the integration recorded.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ReadRuns(ctx context.Context, integration, scenario string) ([]results.RunRecord, error) {
	query := `
		SELECT id, scenario, exitcode, config, summary, seq
		FROM runs
		WHERE integration = ?
	`
	args := []any{integration}
	if scenario != "" {
		query += " AND scenario = ?"
		args = append(args, scenario)
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []results.RunRecord{}
	for rows.Next() {
		var run results.RunRecord
		var configJSON, summaryJSON string
		if err := rows.Scan(&run.ID, &run.Scenario, &run.ExitCode, &configJSON, &summaryJSON, &run.Seq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := unmarshalJSONMap(configJSON, &run.Config); err != nil {
			return nil, fmt.Errorf("run %s: config: %w", run.ID, err)
		}
		if err := unmarshalJSONMap(summaryJSON, &run.Summary); err != nil {
			return nil, fmt.Errorf("run %s: summary: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if err := s.readHistory(ctx, &runs[i]); err != nil {
			return nil, err
		}
		if err := s.readTelemetry(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// readHistory loads a run's metric snapshots ordered by step.
func (s *Store) readHistory(ctx context.Context, run *results.RunRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metrics FROM history
		WHERE run_id = ?
		ORDER BY step ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	run.History = []map[string]any{}
	for rows.Next() {
		var metricsJSON string
		if err := rows.Scan(&metricsJSON); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		var metrics map[string]any
		if err := json.Unmarshal([]byte(metricsJSON), &metrics); err != nil {
			return fmt.Errorf("run %s: history: %w", run.ID, err)
		}
		run.History = append(run.History, metrics)
	}
	return rows.Err()
}

// readTelemetry reconstructs a run's dense telemetry slice from stored
// sections. Sections never written come back empty.
func (s *Store) readTelemetry(ctx context.Context, run *results.RunRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, codes FROM telemetry
		WHERE run_id = ?
		ORDER BY section ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("query telemetry: %w", err)
	}
	defer rows.Close()

	sections := make(map[int][]int)
	maxSection := -1
	for rows.Next() {
		var section int
		var codesJSON string
		if err := rows.Scan(&section, &codesJSON); err != nil {
			return fmt.Errorf("scan telemetry: %w", err)
		}
		var codes []int
		if err := json.Unmarshal([]byte(codesJSON), &codes); err != nil {
			return fmt.Errorf("run %s: telemetry section %d: %w", run.ID, section, err)
		}
		sections[section] = codes
		if section > maxSection {
			maxSection = section
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	run.Telemetry = make([][]int, maxSection+1)
	for i := range run.Telemetry {
		if codes, ok := sections[i]; ok {
			run.Telemetry[i] = codes
		} else {
			run.Telemetry[i] = []int{}
		}
	}
	return nil
}

// unmarshalJSONMap deserializes a JSON map column, leaving the target nil
// for empty objects so records round-trip.
func unmarshalJSONMap(data string, target *map[string]any) error {
	if data == "" || data == "{}" {
		return nil
	}
	return json.Unmarshal([]byte(data), target)
}
