package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yardstick-io/yardstick/internal/fixture"
	"github.com/yardstick-io/yardstick/internal/harness"
	"github.com/yardstick-io/yardstick/internal/results"
	"github.com/yardstick-io/yardstick/internal/store"
)

// NewEvalCommand creates the eval command, which evaluates a single fixture
// against recorded results.
func NewEvalCommand(opts *RootOptions) *cobra.Command {
	var (
		dbPath      string
		resultsPath string
		integration string
	)

	cmd := &cobra.Command{
		Use:   "eval <fixture.yaml>",
		Short: "Evaluate one fixture against recorded results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:  opts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: opts.Verbose,
			}
			if dbPath == "" && resultsPath == "" {
				formatter.Error(ErrCodeGeneric, "either --db or --results is required", nil)
				return NewExitError(ExitCommandError, "either --db or --results is required")
			}
			if dbPath != "" && resultsPath != "" {
				formatter.Error(ErrCodeGeneric, "--db and --results are mutually exclusive", nil)
				return NewExitError(ExitCommandError, "--db and --results are mutually exclusive")
			}
			return runEval(cmd, formatter, opts, args[0], dbPath, resultsPath, integration)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "evaluate against the run store database")
	cmd.Flags().StringVar(&resultsPath, "results", "", "evaluate against a recorded-results JSON file")
	cmd.Flags().StringVar(&integration, "integration", "", "integration namespace (defaults to the fixture's first plugin)")

	return cmd
}

// commandLogger builds the slog logger commands hand to the harness. Quiet
// unless --verbose.
func commandLogger(opts *RootOptions) *slog.Logger {
	if opts.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runEval(cmd *cobra.Command, formatter *OutputFormatter, opts *RootOptions, fixturePath, dbPath, resultsPath, integration string) error {
	doc, err := fixture.Load(fixturePath)
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	h := harness.New(commandLogger(opts))

	var report *harness.Report
	if resultsPath != "" {
		report, err = evalAgainstResults(h, doc, resultsPath, integration)
	} else {
		report, err = evalAgainstStore(cmd, h, doc, dbPath, integration)
	}
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "evaluation setup failed", err)
	}

	return emitReport(formatter, report)
}

func evalAgainstResults(h *harness.Harness, doc *fixture.Document, path, integration string) (*harness.Report, error) {
	f, err := results.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if integration != "" && integration != f.Integration {
		return nil, fmt.Errorf("results file records integration %q, not %q", f.Integration, integration)
	}
	return h.Run(doc, f.Namespace()), nil
}

func evalAgainstStore(cmd *cobra.Command, h *harness.Harness, doc *fixture.Document, dbPath, integration string) (*harness.Report, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return h.RunFromStore(cmd.Context(), st, integration, doc)
}

// emitReport prints a report and converts failures into the exit code.
func emitReport(formatter *OutputFormatter, report *harness.Report) error {
	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		printReport(formatter.Writer, report)
	}

	if report.Error != "" {
		return NewExitError(ExitFailure, report.Error)
	}
	if !report.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d assertions failed", report.FixtureID, len(report.Failures)))
	}
	return nil
}

func printReport(w io.Writer, report *harness.Report) {
	status := "PASS"
	if !report.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s\n", status, report.FixtureID)
	for _, msg := range report.Messages() {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}
