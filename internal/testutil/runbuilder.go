// Package testutil provides deterministic helpers for fabricating recorded
// runs in tests: fixed sequence numbers and run records with predictable
// history and telemetry.
package testutil

import (
	"github.com/yardstick-io/yardstick/internal/results"
)

// RunBuilder fabricates a run record with predictable contents. Builders are
// single-use; Build returns the accumulated record.
type RunBuilder struct {
	run results.RunRecord
}

// NewRunBuilder starts a clean run (exit code 0) for the given scenario.
func NewRunBuilder(id, scenario string) *RunBuilder {
	return &RunBuilder{run: results.RunRecord{
		ID:        id,
		Scenario:  scenario,
		Telemetry: [][]int{},
	}}
}

// ExitCode sets the run's exit status.
func (b *RunBuilder) ExitCode(code int) *RunBuilder {
	b.run.ExitCode = code
	return b
}

// Seq sets the run's recording order.
func (b *RunBuilder) Seq(seq int64) *RunBuilder {
	b.run.Seq = seq
	return b
}

// History appends n metric snapshots of the form {"step": i, "loss": ...},
// with loss decreasing linearly so rows are distinguishable.
func (b *RunBuilder) History(n int) *RunBuilder {
	for i := 0; i < n; i++ {
		b.run.History = append(b.run.History, map[string]any{
			"step": i,
			"loss": float64(n-i) / float64(n),
		})
	}
	return b
}

// Telemetry records the given feature codes at a section index, growing the
// section list as needed.
func (b *RunBuilder) Telemetry(section int, codes ...int) *RunBuilder {
	for len(b.run.Telemetry) <= section {
		b.run.Telemetry = append(b.run.Telemetry, []int{})
	}
	b.run.Telemetry[section] = codes
	return b
}

// Media logs a file-backed media value under a history key at the given
// step. The step's row must already exist (call History first).
func (b *RunBuilder) Media(step int, key string, ref results.MediaRef) *RunBuilder {
	b.run.History[step][key] = ref.Value()
	return b
}

// Config sets a config key.
func (b *RunBuilder) Config(key string, value any) *RunBuilder {
	if b.run.Config == nil {
		b.run.Config = make(map[string]any)
	}
	b.run.Config[key] = value
	return b
}

// Summary sets a summary key.
func (b *RunBuilder) Summary(key string, value any) *RunBuilder {
	if b.run.Summary == nil {
		b.run.Summary = make(map[string]any)
	}
	b.run.Summary[key] = value
	return b
}

// Build returns the accumulated record.
func (b *RunBuilder) Build() results.RunRecord {
	return b.run
}

// TorchImportRun fabricates the canonical import-tracking run: clean exit,
// n history rows, torch observed at both the init and finish import
// sections.
func TorchImportRun(scenario string, n int) results.RunRecord {
	return NewRunBuilder("run-"+scenario, scenario).
		Seq(1).
		History(n).
		Telemetry(results.TelemetryImportsInit, results.ImportTorch, results.ImportTorchvision).
		Telemetry(results.TelemetryImportsFinish, results.ImportTorch).
		Build()
}
