package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/outlint/internal/changelog"
)

// ChangelogOptions holds flags for the changelog command.
type ChangelogOptions struct {
	*RootOptions
	Dir          string
	AllowMissing bool
}

// NewChangelogCommand creates the changelog command.
func NewChangelogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChangelogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "changelog <version>",
		Short: "Print the changelog section for a version",
		Long: `Print the CHANGELOG.md section for a version with the issues and actions
it mentions.

A line tagged with a change word (fix, fixes, added, improved, updated, new,
...) links every following "#<issue>" or "<trigger|create|search>/<key>" on
that line to the change.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "directory containing "+changelog.FileName)
	cmd.Flags().BoolVar(&opts.AllowMissing, "allow-missing", false, "print an empty changelog instead of failing")

	return cmd
}

func runChangelog(opts *ChangelogOptions, version string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var cl *changelog.Changelog
	if opts.AllowMissing {
		cl = changelog.ForVersion(opts.Dir, version)
	} else {
		path := filepath.Join(opts.Dir, changelog.FileName)
		data, err := readInput(path, nil)
		if err != nil {
			return reportLoadError(formatter, "failed to read changelog", err)
		}
		if cl, err = changelog.FromMarkdown(version, string(data)); err != nil {
			if ferr := formatter.Error(ErrCodeNotFound, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to extract changelog", err)
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(cl)
	}
	writeChangelogText(formatter.Writer, version, cl)
	return nil
}

func writeChangelogText(w io.Writer, version string, cl *changelog.Changelog) {
	fmt.Fprintf(w, "=== %s ===\n", version)
	if cl.Text == "" {
		fmt.Fprintln(w, "  (empty)")
	} else {
		fmt.Fprintln(w, cl.Text)
	}

	if len(cl.IssueMetadata) == 0 && len(cl.AppMetadata) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Metadata ===")
	for _, m := range cl.IssueMetadata {
		fmt.Fprintf(w, "  %s issue #%d\n", m.ChangeType, m.IssueID)
	}
	for _, m := range cl.AppMetadata {
		fmt.Fprintf(w, "  %s %s %s\n", m.ChangeType, m.ActionType, m.ActionKey)
	}
}
