package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaExportText(t *testing.T) {
	cmd := NewSchemaCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "export")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Application definition", doc["title"])
}

func TestSchemaExportJSON(t *testing.T) {
	cmd := NewSchemaCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "export")
	require.NoError(t, err)

	var doc map[string]any
	resp := decodeResponse(t, out, &doc)
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, doc, "$schema")
}

func TestSchemaValidateValid(t *testing.T) {
	for _, path := range []string{"testdata/app.json", "testdata/app.yaml", "testdata/app.cue"} {
		t.Run(path, func(t *testing.T) {
			cmd := NewSchemaCommand(&RootOptions{Format: "text"})
			out, _, err := execute(cmd, "validate", path)

			require.NoError(t, err)
			assert.Equal(t, "✓ App definition valid\n", out)
		})
	}
}

func TestSchemaValidateInvalidText(t *testing.T) {
	cmd := NewSchemaCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "validate", "testdata/invalid_app.json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ App definition invalid")
	assert.Contains(t, out, "  /triggers/task/operation/outputFields/1/primary: ")
}

func TestSchemaValidateInvalidJSON(t *testing.T) {
	cmd := NewSchemaCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "validate", "testdata/invalid_app.json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var details SchemaValidation
	resp := decodeResponse(t, out, &details)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidApp, resp.Error.Code)
	assert.False(t, details.Valid)
	assert.NotEmpty(t, details.Findings)
}

func TestSchemaValidateLoadErrors(t *testing.T) {
	tests := []struct {
		path     string
		wantCode string
	}{
		{"testdata/missing.json", ErrCodeNotFound},
		{"testdata/bundle.toml", ErrCodeUnsupported},
		{"testdata/malformed.json", ErrCodeParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cmd := NewSchemaCommand(&RootOptions{Format: "json"})
			out, _, err := execute(cmd, "validate", tt.path)

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
