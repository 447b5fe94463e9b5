package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardstick-io/yardstick/internal/fixture"
	"github.com/yardstick-io/yardstick/internal/results"
	"github.com/yardstick-io/yardstick/internal/store"
	"github.com/yardstick-io/yardstick/internal/testutil"
)

// referenceFixture is the canonical import-tracking scenario: a minimal
// script that imports torch and torchvision, logs 20 history rows, and
// exits cleanly.
const referenceFixture = `
id: 0.0.4
tag:
  shard: standalone-gpu
plugin:
  - wandb
depend:
  requirements:
    - torch
    - torchvision
var:
  history_0_len:
    :fn:len:
      :wandb:runs[0][history]
assert:
  - :wandb:runs_len: 1
  - :wandb:runs[0][exitcode]: 0
  - :op:contains:
    - :wandb:runs[0][telemetry][1]
    - 1
  - :op:contains:
    - :wandb:runs[0][telemetry][2]
    - 1
  - :history_0_len: 20
`

func referenceDoc(t *testing.T) *fixture.Document {
	t.Helper()
	doc, err := fixture.Parse([]byte(referenceFixture))
	require.NoError(t, err)
	return doc
}

func referenceNamespace() map[string]any {
	return results.Namespace("wandb", []results.RunRecord{testutil.TorchImportRun("0.0.4", 20)})
}

func TestRunReferenceFixture(t *testing.T) {
	report := New(nil).Run(referenceDoc(t), referenceNamespace())

	assert.True(t, report.Pass, "failures: %v", report.Failures)
	assert.Equal(t, "0.0.4", report.FixtureID)
	assert.Empty(t, report.Failures)
	assert.Empty(t, report.Error)
	assert.Equal(t, 20, report.Vars["history_0_len"])
	assert.Equal(t, []string{"torch", "torchvision"}, report.Requirements)
}

func TestRunIsIdempotent(t *testing.T) {
	doc := referenceDoc(t)
	ns := referenceNamespace()
	h := New(nil)

	first := h.Run(doc, ns)
	second := h.Run(doc, ns)
	assert.Equal(t, first, second)

	snapA, err := first.Snapshot()
	require.NoError(t, err)
	snapB, err := second.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snapA, snapB)
}

func TestRunReportsFailures(t *testing.T) {
	run := testutil.NewRunBuilder("run-1", "0.0.4").
		Seq(1).
		ExitCode(1).
		History(5).
		Telemetry(results.TelemetryImportsInit, results.ImportKeras).
		Build()
	ns := results.Namespace("wandb", []results.RunRecord{run})

	report := New(nil).Run(referenceDoc(t), ns)

	assert.False(t, report.Pass)
	// exitcode, both telemetry contains checks, and the history length
	// fail; runs_len still holds.
	require.Len(t, report.Failures, 4)
	assert.Equal(t, 1, report.Failures[0].Index)
	assert.Equal(t, ":wandb:runs[0][exitcode]", report.Failures[0].Expr)

	msgs := report.Messages()
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[0], "exitcode")
}

func TestRunMediaAssertions(t *testing.T) {
	doc, err := fixture.Parse([]byte(`
id: media-file
plugin:
  - wandb
assert:
  - :wandb:runs[0][history][0][img][_type]: file
  - :wandb:runs[0][history][0][img][size]: 2048
`))
	require.NoError(t, err)

	ref := results.MediaRef{
		Type:   results.MediaTypeFile,
		Path:   "media/images/img_0.png",
		SHA256: "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0",
		Size:   2048,
	}
	run := testutil.NewRunBuilder("run-1", "media-file").
		Seq(1).
		History(1).
		Media(0, "img", ref).
		Build()
	ns := results.Namespace("wandb", []results.RunRecord{run})

	report := New(nil).Run(doc, ns)
	assert.True(t, report.Pass, "failures: %v", report.Failures)
}

func TestRunInvalidRequirements(t *testing.T) {
	doc, err := fixture.Parse([]byte(`
id: bad-reqs
depend:
  requirements:
    - torch
    - torch==2.1
assert:
  - :wandb:runs_len: 1
`))
	require.NoError(t, err)

	report := New(nil).Run(doc, referenceNamespace())

	assert.False(t, report.Pass)
	assert.Contains(t, report.Error, "invalid requirements")
	assert.Empty(t, report.Failures)
}

func TestRunVarSetupError(t *testing.T) {
	doc, err := fixture.Parse([]byte(`
id: bad-var
var:
  n:
    :fn:len:
      :wandb:runs[0][missing]
assert:
  - :n: 1
`))
	require.NoError(t, err)

	report := New(nil).Run(doc, referenceNamespace())

	assert.False(t, report.Pass)
	assert.Contains(t, report.Error, "missing field")
}

func TestRunFromStore(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	_, err = st.WriteRun(ctx, "wandb", testutil.TorchImportRun("0.0.4", 20))
	require.NoError(t, err)

	// Integration defaults to the fixture's first plugin.
	report, err := New(nil).RunFromStore(ctx, st, "", referenceDoc(t))
	require.NoError(t, err)
	assert.True(t, report.Pass, "failures: %v", report.Failures)
}

func TestRunFromStoreNoRuns(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	report, err := New(nil).RunFromStore(context.Background(), st, "wandb", referenceDoc(t))
	require.NoError(t, err)

	// Zero recorded runs: the history-length var cannot be computed.
	assert.False(t, report.Pass)
	assert.Contains(t, report.Error, "missing field")
}

func TestRunFromStoreNoIntegration(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	doc, err := fixture.Parse([]byte("id: no-plugin\n"))
	require.NoError(t, err)

	_, err = New(nil).RunFromStore(context.Background(), st, "", doc)
	assert.Error(t, err)
}
