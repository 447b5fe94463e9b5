package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/yardstick-io/yardstick/internal/fixture"
)

// RunWithGolden evaluates a fixture and compares the report against a golden
// file stored in testdata/golden/{doc.ID}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, doc *fixture.Document, ns map[string]any) (*Report, error) {
	t.Helper()

	report := New(nil).Run(doc, ns)
	if err := AssertGolden(t, doc.ID, report); err != nil {
		return nil, err
	}
	return report, nil
}

// AssertGolden compares an existing report against the named golden file.
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := report.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
