package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yardstick-io/yardstick/internal/fixture"
	"github.com/yardstick-io/yardstick/internal/harness"
	"github.com/yardstick-io/yardstick/internal/store"
)

// TestSummary is the JSON payload for the test command.
type TestSummary struct {
	Fixtures int               `json:"fixtures"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Reports  []*harness.Report `json:"reports"`
}

// NewTestCommand creates the test command, which evaluates an entire corpus
// against the run store.
func NewTestCommand(opts *RootOptions) *cobra.Command {
	var (
		dbPath      string
		idGlob      string
		tags        []string
		plugin      string
		integration string
	)

	cmd := &cobra.Command{
		Use:   "test <fixtures-dir>",
		Short: "Evaluate every fixture in a corpus against the run store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:  opts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: opts.Verbose,
			}

			filter, err := buildFilter(idGlob, tags, plugin)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "invalid filter", err)
			}
			return runTest(cmd, formatter, opts, args[0], dbPath, integration, filter)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the run store database (required)")
	cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&idGlob, "id", "", "filter by id glob (e.g. '0.0.*')")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "filter by tag (key=value, repeatable)")
	cmd.Flags().StringVar(&plugin, "plugin", "", "filter by integration plugin")
	cmd.Flags().StringVar(&integration, "integration", "", "integration namespace (defaults to each fixture's first plugin)")

	return cmd
}

func runTest(cmd *cobra.Command, formatter *OutputFormatter, opts *RootOptions, dir, dbPath, integration string, filter fixture.Filter) error {
	corpus, err := fixture.LoadCorpus(dir)
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixtures", err)
	}

	docs, err := corpus.Select(filter)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer st.Close()

	h := harness.New(commandLogger(opts))
	summary := TestSummary{Fixtures: len(docs)}

	for _, doc := range docs {
		report, err := h.RunFromStore(cmd.Context(), st, integration, doc)
		if err != nil {
			formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "evaluation setup failed", err)
		}
		summary.Reports = append(summary.Reports, report)
		if report.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, report := range summary.Reports {
			printReport(formatter.Writer, report)
		}
		fmt.Fprintf(formatter.Writer, "%d fixtures: %d passed, %d failed\n",
			summary.Fixtures, summary.Passed, summary.Failed)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d fixtures failed", summary.Failed))
	}
	return nil
}
