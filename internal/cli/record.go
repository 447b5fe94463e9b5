package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yardstick-io/yardstick/internal/results"
	"github.com/yardstick-io/yardstick/internal/store"
)

// RecordResult is the JSON payload for the record command.
type RecordResult struct {
	Integration string `json:"integration"`
	Runs        int    `json:"runs"`
	Database    string `json:"database"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "record <results.json>",
		Short: "Import a recorded-results file into the run store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:  opts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: opts.Verbose,
			}
			return runRecord(cmd, formatter, args[0], dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the run store database (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runRecord(cmd *cobra.Command, formatter *OutputFormatter, resultsPath, dbPath string) error {
	f, err := results.LoadFile(resultsPath)
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load results", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer st.Close()

	count, err := st.ImportResults(cmd.Context(), f)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import failed", err)
	}

	result := RecordResult{Integration: f.Integration, Runs: count, Database: dbPath}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "imported %d runs for %s into %s\n", count, f.Integration, dbPath)
	return nil
}
