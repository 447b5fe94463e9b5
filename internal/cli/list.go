package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yardstick-io/yardstick/internal/fixture"
)

// ListEntry is one row of the list command's output.
type ListEntry struct {
	ID      string            `json:"id"`
	Tag     map[string]string `json:"tag,omitempty"`
	Plugin  []string          `json:"plugin,omitempty"`
	Asserts int               `json:"asserts"`
	Path    string            `json:"path"`
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var (
		idGlob string
		tags   []string
		plugin string
	)

	cmd := &cobra.Command{
		Use:   "list <fixtures-dir>",
		Short: "List the fixtures in a corpus",
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
			return runList(formatter, args[0], filter)
		},
	}

	cmd.Flags().StringVar(&idGlob, "id", "", "filter by id glob (e.g. '0.0.*')")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "filter by tag (key=value, repeatable)")
	cmd.Flags().StringVar(&plugin, "plugin", "", "filter by integration plugin")

	return cmd
}

func buildFilter(idGlob string, tags []string, plugin string) (fixture.Filter, error) {
	f := fixture.Filter{IDGlob: idGlob, Plugin: plugin}
	for _, t := range tags {
		k, v, ok := strings.Cut(t, "=")
		if !ok || k == "" {
			return f, fmt.Errorf("tag filter must be key=value, got %q", t)
		}
		if f.Tags == nil {
			f.Tags = map[string]string{}
		}
		f.Tags[k] = v
	}
	return f, nil
}

func runList(formatter *OutputFormatter, dir string, filter fixture.Filter) error {
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

	entries := make([]ListEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, ListEntry{
			ID:      doc.ID,
			Tag:     doc.Tag,
			Plugin:  doc.Plugin,
			Asserts: len(doc.Assert),
			Path:    doc.Path,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s\t%s\t%s\n", e.ID, formatTags(e.Tag), strings.Join(e.Plugin, ","))
	}
	fmt.Fprintf(formatter.Writer, "%d fixtures\n", len(entries))
	return nil
}

func formatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+tags[k])
	}
	return strings.Join(parts, ",")
}
