package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/outlint/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Method     string
	FailedOnly bool
	Limit      int
	ID         string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check reports",
		Long: `List check reports recorded with check --db, newest first.

Example:
  outlint history --db outlint.db
  outlint history --db outlint.db --method triggers.contact.operation.perform --failed
  outlint history --db outlint.db --id 0190c7a4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Method, "method", "", "only reports for this method path")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "only reports that did not pass")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of reports (0 for all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single report")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		if ferr := formatter.Error(ErrCodeStoreFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var reports []store.Report
	if opts.ID != "" {
		r, err := st.GetReport(ctx, opts.ID)
		if err != nil {
			code := ErrCodeStoreFailed
			if errors.Is(err, store.ErrNotFound) {
				code = ErrCodeNotFound
			}
			if ferr := formatter.Error(code, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to read report", err)
		}
		reports = []store.Report{r}
	} else {
		reports, err = st.ListReports(ctx, store.Filter{
			Method:     opts.Method,
			FailedOnly: opts.FailedOnly,
			Limit:      opts.Limit,
		})
		if err != nil {
			if ferr := formatter.Error(ErrCodeStoreFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to list reports", err)
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(reports)
	}
	writeHistoryText(formatter.Writer, reports, opts.Verbose || opts.ID != "")
	return nil
}

func writeHistoryText(w io.Writer, reports []store.Report, detailed bool) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports recorded")
		return
	}

	for _, r := range reports {
		status := "✓"
		if !r.Passed {
			status = "✗"
		}
		fmt.Fprintf(w, "[%d] %s %s %s %s\n", r.Seq, status, r.RecordedAt.UTC().Format(time.RFC3339), r.ID, r.Method)
		for _, msg := range r.Messages() {
			fmt.Fprintf(w, "       %s\n", msg)
		}
		if detailed {
			fmt.Fprintf(w, "       Result: %s\n", r.Result)
			for _, o := range r.Outcomes {
				fmt.Fprintf(w, "       %s: %s\n", o.Rule, o.Status)
			}
		}
	}
}
