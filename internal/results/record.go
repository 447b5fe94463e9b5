// Package results models the data an experiment-tracking integration records
// about scenario runs: exit codes, logged metric history, config, summary,
// and usage telemetry. The harness evaluates fixture assertions against the
// namespace tree built from these records.
package results

// Telemetry section indices. Each section holds the integer feature codes
// the integration observed at that point of the run lifecycle.
const (
	// TelemetryImportsInit is the section recording libraries that were
	// already imported when the integration initialized.
	TelemetryImportsInit = 1

	// TelemetryImportsFinish is the section recording libraries imported
	// by the time the run finished.
	TelemetryImportsFinish = 2
)

// Import feature codes recorded in the telemetry import sections.
const (
	ImportTorch       = 1
	ImportTorchvision = 2
	ImportKeras       = 3
	ImportTensorflow  = 4
	ImportSklearn     = 5
)

// RunRecord is one execution instance of a scenario script as recorded by
// the tracking integration.
type RunRecord struct {
	// ID is the run's identifier. Assigned on import when absent.
	ID string `json:"id"`

	// Scenario is the fixture id the run was produced for.
	Scenario string `json:"scenario,omitempty"`

	// ExitCode is the script's exit status.
	ExitCode int `json:"exitcode"`

	// Config holds the run configuration key-values.
	Config map[string]any `json:"config,omitempty"`

	// Summary holds the final summary key-values.
	Summary map[string]any `json:"summary,omitempty"`

	// History is the ordered sequence of logged metric snapshots.
	History []map[string]any `json:"history"`

	// Telemetry maps section index to the feature codes recorded there.
	// Unused sections are empty.
	Telemetry [][]int `json:"telemetry"`

	// Seq is the recording order across runs of one scenario execution.
	Seq int64 `json:"seq"`
}

// TelemetrySection returns the codes recorded at the given section index,
// or nil if the section was never written.
func (r *RunRecord) TelemetrySection(section int) []int {
	if section < 0 || section >= len(r.Telemetry) {
		return nil
	}
	return r.Telemetry[section]
}
