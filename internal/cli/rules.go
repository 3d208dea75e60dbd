package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/outlint/internal/check"
	"github.com/roach88/outlint/internal/method"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Kind string
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the output checks",
		Long: `List every output check in evaluation order.

Either the name or the alias of a rule may be passed to check --skip or put
in a bundle's skipChecks.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only rules for this kind (trigger|search|create|firehose-webhook)")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	reg := check.DefaultRegistry()

	rules := reg.Rules()
	if opts.Kind != "" {
		kind := method.ParseKind(opts.Kind)
		if kind == method.KindNone {
			msg := fmt.Sprintf("unknown kind %q", opts.Kind)
			if err := formatter.Error(ErrCodeGeneric, msg, nil); err != nil {
				return err
			}
			return NewExitError(ExitCommandError, msg)
		}
		rules = reg.ForKind(kind)
	}

	infos := make([]RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = RuleInfo{Name: r.Name, Alias: r.Alias, Kind: r.Kind.String(), Description: r.Description}
	}

	if formatter.IsJSON() {
		return formatter.Success(infos)
	}
	writeRulesText(formatter.Writer, infos)
	return nil
}

func writeRulesText(w io.Writer, infos []RuleInfo) {
	var kind string
	for _, info := range infos {
		if info.Kind != kind {
			if kind != "" {
				fmt.Fprintln(w)
			}
			kind = info.Kind
			fmt.Fprintf(w, "=== %s ===\n", kind)
		}
		fmt.Fprintf(w, "  %s (%s)\n", info.Name, info.Alias)
		fmt.Fprintf(w, "      %s\n", info.Description)
	}
}
