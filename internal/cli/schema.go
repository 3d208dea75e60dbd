package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/outlint/internal/schema"
)

// SchemaValidation holds the result of validating an app document.
type SchemaValidation struct {
	Valid    bool             `json:"valid"`
	Findings []schema.Finding `json:"findings,omitempty"`
}

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export or validate against the app definition JSON Schema",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newSchemaExportCommand(rootOpts))
	cmd.AddCommand(newSchemaValidateCommand(rootOpts))

	return cmd
}

func newSchemaExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "export",
		Short:         "Print the JSON Schema of app definitions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			data, err := schema.GenerateJSONSchema()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to generate schema", err)
			}
			if formatter.IsJSON() {
				return formatter.Success(json.RawMessage(data))
			}
			fmt.Fprintln(formatter.Writer, string(data))
			return nil
		},
	}
}

func newSchemaValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <app-file>",
		Short: "Validate an app definition against the JSON Schema",
		Long: `Validate an app definition against the JSON Schema of app definitions.

JSON and YAML documents are validated as written. CUE documents are evaluated
first, so CUE constraints apply before the schema does.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaValidate(rootOpts, args[0], cmd)
		},
	}
}

func runSchemaValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := appDocumentJSON(path)
	if err != nil {
		return reportLoadError(formatter, "failed to load app definition", err)
	}

	findings, err := schema.ValidateDocument(doc)
	if err != nil {
		if ferr := formatter.Error(ErrCodeParseFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to validate app definition", err)
	}
	formatter.VerboseLog("Validated %s: %d finding(s)", path, len(findings))

	result := SchemaValidation{Valid: len(findings) == 0, Findings: findings}
	if formatter.IsJSON() {
		if !result.Valid {
			if err := formatter.Error(ErrCodeInvalidApp, "app definition is invalid", result); err != nil {
				return err
			}
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Fprintln(formatter.Writer, "✓ App definition valid")
		} else {
			fmt.Fprintln(formatter.Writer, "✗ App definition invalid")
			for _, f := range findings {
				fmt.Fprintf(formatter.Writer, "  %s\n", f)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "app definition is invalid")
	}
	return nil
}

// appDocumentJSON returns the app definition at path as JSON bytes.
// JSON is returned as read and YAML is converted without going through the
// App type, so schema violations stay visible. CUE is loaded and re-encoded.
func appDocumentJSON(path string) ([]byte, error) {
	format, ok := schema.FormatFromPath(path)
	if !ok {
		return nil, &schema.LoadError{Code: ErrCodeUnsupported, Message: "unsupported app definition extension", Path: path}
	}

	switch format {
	case schema.FormatJSON:
		return readInput(path, nil)
	case schema.FormatYAML:
		data, err := readInput(path, nil)
		if err != nil {
			return nil, err
		}
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &schema.LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err), Path: path}
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, &schema.LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("converting YAML: %v", err), Path: path}
		}
		return out, nil
	default:
		app, err := schema.LoadFile(path)
		if err != nil {
			return nil, err
		}
		out, err := json.Marshal(app)
		if err != nil {
			return nil, &schema.LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("encoding app: %v", err), Path: path}
		}
		return out, nil
	}
}
