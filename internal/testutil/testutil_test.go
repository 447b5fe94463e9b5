package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardstick-io/yardstick/internal/results"
)

func TestSeqClock(t *testing.T) {
	c := NewSeqClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	c.Reset()
	assert.Equal(t, int64(1), c.Next())
}

func TestRunBuilder(t *testing.T) {
	run := NewRunBuilder("run-1", "0.0.4").
		ExitCode(1).
		Seq(3).
		History(2).
		Telemetry(results.TelemetryImportsInit, results.ImportTorch).
		Config("lr", 0.01).
		Summary("loss", 0.1).
		Build()

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "0.0.4", run.Scenario)
	assert.Equal(t, 1, run.ExitCode)
	assert.Equal(t, int64(3), run.Seq)
	require.Len(t, run.History, 2)
	assert.Equal(t, 0, run.History[0]["step"])
	require.Len(t, run.Telemetry, 2)
	assert.Empty(t, run.Telemetry[0])
	assert.Equal(t, []int{results.ImportTorch}, run.Telemetry[1])
	assert.Equal(t, map[string]any{"lr": 0.01}, run.Config)
	assert.Equal(t, map[string]any{"loss": 0.1}, run.Summary)
}

func TestTorchImportRun(t *testing.T) {
	run := TorchImportRun("0.0.4", 20)

	assert.Equal(t, 0, run.ExitCode)
	assert.Len(t, run.History, 20)
	require.Len(t, run.Telemetry, 3)
	assert.Contains(t, run.Telemetry[results.TelemetryImportsInit], results.ImportTorch)
	assert.Contains(t, run.Telemetry[results.TelemetryImportsFinish], results.ImportTorch)
}

func TestTorchImportRunDeterministic(t *testing.T) {
	assert.Equal(t, TorchImportRun("0.0.4", 20), TorchImportRun("0.0.4", 20))
}
