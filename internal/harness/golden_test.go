package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	report, err := RunWithGolden(t, referenceDoc(t), referenceNamespace())
	require.NoError(t, err)
	assert.True(t, report.Pass)
}

func TestAssertGoldenStableAcrossRuns(t *testing.T) {
	doc := referenceDoc(t)
	ns := referenceNamespace()

	// Same golden file must match regardless of how many times the
	// fixture is evaluated.
	for i := 0; i < 2; i++ {
		report := New(nil).Run(doc, ns)
		require.NoError(t, AssertGolden(t, doc.ID, report))
	}
}
