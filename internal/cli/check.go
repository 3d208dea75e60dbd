package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/outlint/internal/check"
	"github.com/roach88/outlint/internal/method"
	"github.com/roach88/outlint/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	ResultPath string
	AppPath    string
	BundlePath string
	Skip       []string
	Database   string

	// IDGenerator and Clock override the store defaults (for testing).
	IDGenerator store.IDGenerator
	Clock       store.Clock
}

// CheckOutput is the JSON payload of the check command.
type CheckOutput struct {
	Passed   bool          `json:"passed"`
	ReportID string        `json:"report_id,omitempty"`
	Report   *check.Report `json:"report"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <method>",
		Short: "Check an action result",
		Long: `Run the output checks that apply to an action result.

The method path decides which checks run, e.g. triggers.<key>.operation.perform
or resources.<key>.list.operation.perform. The app definition supplies the
primary key of the operation; without one, "id" is the primary key.

Exit code 1 means the result violates at least one check.

Example:
  outlint check triggers.contact.operation.perform --result out.json --app app.cue
  cat out.json | outlint check searches.find.operation.perform --result -
  outlint check triggers.contact.operation.perform --result out.json --skip has-id`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ResultPath, "result", "r", "", `action result, JSON or YAML ("-" for stdin)`)
	cmd.Flags().StringVarP(&opts.AppPath, "app", "a", "", "app definition (.json, .yaml, .cue)")
	cmd.Flags().StringVarP(&opts.BundlePath, "bundle", "b", "", "bundle with skipChecks, JSON or YAML")
	cmd.Flags().StringArrayVar(&opts.Skip, "skip", nil, "rule name or alias to skip (repeatable)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the report in this SQLite database")
	_ = cmd.MarkFlagRequired("result")

	return cmd
}

func runCheck(opts *CheckOptions, methodPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	for _, name := range opts.Skip {
		if _, ok := check.DefaultRegistry().Lookup(name); !ok {
			msg := fmt.Sprintf("unknown rule %q", name)
			if err := formatter.Error(ErrCodeUnknownRule, msg, nil); err != nil {
				return err
			}
			return NewExitError(ExitCommandError, msg)
		}
	}

	result, err := LoadResult(opts.ResultPath, cmd.InOrStdin())
	if err != nil {
		return reportLoadError(formatter, "failed to load result", err)
	}
	formatter.VerboseLog("Loaded result from %s", opts.ResultPath)

	app, err := LoadApp(opts.AppPath)
	if err != nil {
		return reportLoadError(formatter, "failed to load app definition", err)
	}

	var bundle check.Bundle
	if opts.BundlePath != "" {
		if bundle, err = LoadBundle(opts.BundlePath); err != nil {
			return reportLoadError(formatter, "failed to load bundle", err)
		}
	}
	bundle.SkipChecks = append(bundle.SkipChecks, opts.Skip...)

	if method.Classify(methodPath) == method.KindNone {
		logger.Warn("method matches no action kind; no checks apply", "method", methodPath)
	}

	runner := check.NewRunner(check.WithLogger(logger))
	report := runner.Evaluate(methodPath, result, app, bundle)

	out := CheckOutput{Passed: report.Passed(), Report: report}
	if opts.Database != "" {
		id, err := recordReport(commandContext(cmd), opts, report, result)
		if err != nil {
			if ferr := formatter.Error(ErrCodeStoreFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to record report", err)
		}
		logger.Debug("report recorded", "id", id, "db", opts.Database)
		out.ReportID = id
	}

	checkErr := report.Err()
	if formatter.IsJSON() {
		if checkErr != nil {
			if err := formatter.Error(ErrCodeCheckFailed, checkErr.Error(), out); err != nil {
				return err
			}
		} else if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		writeReportText(formatter.Writer, out)
	}

	if checkErr != nil {
		return WrapExitError(ExitFailure, "output checks failed", checkErr)
	}
	return nil
}

func recordReport(ctx context.Context, opts *CheckOptions, report *check.Report, result any) (string, error) {
	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}

	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return "", err
	}
	defer st.Close()

	return st.RecordReport(ctx, store.FromCheck(report, result))
}

// reportLoadError outputs a load failure and returns it as a command error.
func reportLoadError(formatter *OutputFormatter, message string, err error) error {
	if ferr := formatter.Error(loadErrorCode(err), err.Error(), nil); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitCommandError, message, err)
}

func writeReportText(w io.Writer, out CheckOutput) {
	report := out.Report
	fmt.Fprintf(w, "Checking %s (%s)\n", report.Method, report.Kind)
	if len(report.Outcomes) == 0 {
		fmt.Fprintln(w, "  (no checks apply)")
	}
	for _, o := range report.Outcomes {
		writeOutcomeText(w, o)
	}
	fmt.Fprintln(w)

	if out.ReportID != "" {
		fmt.Fprintf(w, "Recorded report %s\n", out.ReportID)
	}
	if n := len(report.Messages()); n > 0 {
		fmt.Fprintf(w, "✗ %d violation(s)\n", n)
		return
	}
	fmt.Fprintln(w, "✓ All checks passed")
}

func writeOutcomeText(w io.Writer, o check.Outcome) {
	switch o.Status {
	case check.StatusPassed:
		fmt.Fprintf(w, "  ✓ %s\n", o.Rule)
	case check.StatusFailed:
		fmt.Fprintf(w, "  ✗ %s\n", o.Rule)
		for _, msg := range o.Messages {
			fmt.Fprintf(w, "      %s\n", msg)
		}
	case check.StatusSkipped:
		fmt.Fprintf(w, "  - %s (skipped)\n", o.Rule)
	case check.StatusNotApplicable:
		fmt.Fprintf(w, "  - %s (not applicable)\n", o.Rule)
	}
}
