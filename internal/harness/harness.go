// Package harness evaluates fixture documents against recorded run results.
//
// A fixture's lifecycle here is: load the document, build the namespace tree
// from the recorded results (a results file or the store), compute the var
// bindings, evaluate the assertions in order, and return a report. Assertion
// failures accumulate rather than short-circuiting so one evaluation gives
// the complete picture; re-evaluating the same document against identical
// results always produces an identical report.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yardstick-io/yardstick/internal/deps"
	"github.com/yardstick-io/yardstick/internal/eval"
	"github.com/yardstick-io/yardstick/internal/fixture"
	"github.com/yardstick-io/yardstick/internal/results"
	"github.com/yardstick-io/yardstick/internal/store"
)

// Report is the outcome of evaluating one fixture.
type Report struct {
	// FixtureID identifies the scenario the report belongs to.
	FixtureID string `json:"fixture_id"`

	// Pass is true when every assertion held and no setup error occurred.
	Pass bool `json:"pass"`

	// Vars holds the computed derived-value bindings.
	Vars map[string]any `json:"vars,omitempty"`

	// Failures lists failed assertions in assertion order.
	Failures []eval.Failure `json:"failures,omitempty"`

	// Requirements is the scenario's validated requirement set, in
	// specifier form, for the runner to install.
	Requirements []string `json:"requirements,omitempty"`

	// Error reports a setup problem (bad requirement specifier, var that
	// could not be computed) that prevented assertion evaluation.
	Error string `json:"error,omitempty"`
}

// Messages renders the report's problems as error strings.
func (r *Report) Messages() []string {
	var msgs []string
	if r.Error != "" {
		msgs = append(msgs, r.Error)
	}
	for _, f := range r.Failures {
		msgs = append(msgs, f.String())
	}
	return msgs
}

// Harness evaluates fixtures. Construct with New.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness. A nil logger suppresses logging, which is what
// tests want.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run evaluates a fixture document against a namespace of recorded results.
func (h *Harness) Run(doc *fixture.Document, ns map[string]any) *Report {
	report := &Report{FixtureID: doc.ID}

	// Requirement specifiers are validated even though installation is
	// the runner's job; a bad specifier means the scenario never ran the
	// way the author intended.
	set, err := deps.ParseAll(doc.Depend.Requirements)
	if err != nil {
		report.Error = fmt.Sprintf("invalid requirements: %v", err)
		h.logger.Error("fixture setup failed", "fixture", doc.ID, "error", report.Error)
		return report
	}
	for _, req := range set.List() {
		report.Requirements = append(report.Requirements, req.String())
	}

	e := eval.New(ns)
	if err := e.EvalVars(doc.Var); err != nil {
		report.Error = err.Error()
		report.Vars = e.Vars()
		h.logger.Error("fixture setup failed", "fixture", doc.ID, "error", report.Error)
		return report
	}

	result := e.EvalAsserts(doc.Assert)
	report.Pass = result.Pass
	report.Vars = result.Vars
	report.Failures = result.Failures

	h.logger.Info("fixture evaluated",
		"fixture", doc.ID,
		"pass", report.Pass,
		"assertions", len(doc.Assert),
		"failures", len(report.Failures),
	)
	return report
}

// RunFromStore reads the fixture's recorded runs for the given integration
// out of the store, builds the namespace, and evaluates. The integration
// defaults to the fixture's first declared plugin.
func (h *Harness) RunFromStore(ctx context.Context, st *store.Store, integration string, doc *fixture.Document) (*Report, error) {
	if integration == "" {
		if len(doc.Plugin) == 0 {
			return nil, fmt.Errorf("fixture %s: no integration given and no plugin declared", doc.ID)
		}
		integration = doc.Plugin[0]
	}

	runs, err := st.ReadRuns(ctx, integration, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", doc.ID, err)
	}

	ns := results.Namespace(integration, runs)
	return h.Run(doc, ns), nil
}
