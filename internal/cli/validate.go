package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yardstick-io/yardstick/internal/fixture"
)

// ValidateResult is the JSON payload for the validate command.
type ValidateResult struct {
	Fixtures int              `json:"fixtures"`
	Valid    bool             `json:"valid"`
	Problems []FixtureProblem `json:"problems,omitempty"`
}

// FixtureProblem reports one file that failed validation.
type FixtureProblem struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <fixtures-dir>",
		Short: "Validate every fixture document under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:  opts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: opts.Verbose,
			}
			return runValidate(formatter, args[0])
		},
	}
}

func runValidate(formatter *OutputFormatter, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("fixtures directory not found: %s", dir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("fixtures directory not found: %s", dir))
	}

	// Unlike LoadCorpus, validation keeps going past the first bad file so
	// one run reports every problem.
	result := ValidateResult{Valid: true}
	seen := map[string]string{}

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		result.Fixtures++
		doc, err := fixture.Load(path)
		if err != nil {
			result.Problems = append(result.Problems, FixtureProblem{Path: path, Error: err.Error()})
			return nil
		}
		if prev, dup := seen[doc.ID]; dup {
			result.Problems = append(result.Problems, FixtureProblem{
				Path:  path,
				Error: fmt.Sprintf("duplicate fixture id %q: already defined in %s", doc.ID, prev),
			})
			return nil
		}
		seen[doc.ID] = path
		return nil
	})
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validation aborted", err)
	}

	result.Valid = len(result.Problems) == 0

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, p := range result.Problems {
			fmt.Fprintf(formatter.Writer, "%s: %s\n", p.Path, p.Error)
		}
		fmt.Fprintf(formatter.Writer, "%d fixtures, %d invalid\n", result.Fixtures, len(result.Problems))
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid fixtures", len(result.Problems)))
	}
	return nil
}
