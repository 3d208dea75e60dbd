package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaID = "https://github.com/roach88/outlint/schemas/app.json"

// Finding is one JSON Schema violation in an app document.
type Finding struct {
	Path    string `json:"path"` // JSON-pointer-like location
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Path == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Path, f.Message)
}

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from the
// App type. Unknown members are allowed so full app definitions validate.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.AllowAdditionalProperties = true
	s := r.Reflect(&App{})
	s.ID = schemaID
	s.Title = "Application definition"
	s.Description = "Operations and output fields consulted by output checks"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal app schema: %w", err)
	}
	return data, nil
}

// ValidateDocument checks a JSON app document against GenerateJSONSchema.
// An error is returned only when the schema or the document cannot be
// processed; violations are reported as findings.
func ValidateDocument(data []byte) ([]Finding, error) {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return nil, err
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []Finding{{Message: err.Error()}}, nil
	}

	printer := message.NewPrinter(language.English)
	var findings []Finding
	for _, cause := range flattenValidationErrors(ve) {
		findings = append(findings, Finding{
			Path:    "/" + strings.Join(cause.InstanceLocation, "/"),
			Message: cause.ErrorKind.LocalizedString(printer),
		})
	}
	return findings, nil
}

// flattenValidationErrors collects the leaf causes of a validation error.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
