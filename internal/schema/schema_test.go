package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestApp(t *testing.T, name string) *App {
	t.Helper()
	app, err := LoadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return app
}

func TestOperationLookup(t *testing.T) {
	app := loadTestApp(t, "app.json")

	op, ok := app.Operation("triggers.task.operation.perform")
	require.True(t, ok)
	assert.Len(t, op.OutputFields, 3)

	op, ok = app.Operation("resources.message.list.operation.perform")
	require.True(t, ok)
	assert.Equal(t, "timestamp", op.OutputFields[0].Key)

	_, ok = app.Operation("resources.message.search.operation.perform")
	assert.False(t, ok, "resource has no search method")

	_, ok = app.Operation("triggers.missing.operation.perform")
	assert.False(t, ok)

	_, ok = app.Operation("firehoseWebhooks.performSubscriptionKeyList")
	assert.False(t, ok)

	_, ok = app.Operation("blah")
	assert.False(t, ok)
}

func TestOperationLookupNilApp(t *testing.T) {
	var app *App
	_, ok := app.Operation("triggers.task.operation.perform")
	assert.False(t, ok)
	assert.Equal(t, []string{"id"}, app.PrimaryKeys("triggers.task.operation.perform"))
	assert.False(t, app.HasCustomPrimary("triggers.task.operation.perform"))
}

func TestPrimaryKeys(t *testing.T) {
	app := loadTestApp(t, "app.json")

	tests := []struct {
		method string
		keys   []string
		custom bool
	}{
		{"triggers.task.operation.perform", []string{"project_id", "slug"}, true},
		{"triggers.plain.operation.perform", []string{"id"}, false},
		{"resources.message.list.operation.perform", []string{"timestamp", "email"}, true},
		{"searches.find_task.operation.perform", []string{"id"}, false},
		{"creates.task.operation.perform", []string{"id"}, false},
		{"triggers.unknown.operation.perform", []string{"id"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.keys, app.PrimaryKeys(tt.method))
			assert.Equal(t, tt.custom, app.HasCustomPrimary(tt.method))
		})
	}
}

func TestPrimaryKeysDefaultIsACopy(t *testing.T) {
	var op *Operation
	keys := op.PrimaryKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"id"}, DefaultPrimaryKey)
}

func TestLoadFormatsAgree(t *testing.T) {
	fromJSON := loadTestApp(t, "app.json")
	fromCUE := loadTestApp(t, "app.cue")

	assert.Equal(t, "1.2.0", fromCUE.Version)
	assert.Equal(t,
		fromJSON.PrimaryKeys("triggers.task.operation.perform"),
		fromCUE.PrimaryKeys("triggers.task.operation.perform"))

	fromYAML := loadTestApp(t, "app.yaml")
	assert.Equal(t, []string{"timestamp", "email"}, fromYAML.PrimaryKeys("triggers.message.operation.perform"))
	assert.Equal(t, "Message", fromYAML.Triggers["message"].Noun)
}

func TestLoadKeepsSampleNumbers(t *testing.T) {
	app := loadTestApp(t, "app.json")
	sample := app.Triggers["task"].Operation.Sample
	assert.Equal(t, json.Number("7"), sample["project_id"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", filepath.Join("testdata", "nope.json"), ErrCodeNotFound},
		{"unsupported extension", filepath.Join("testdata", "app.toml"), ErrCodeUnsupported},
		{"incomplete cue", filepath.Join("testdata", "incomplete.cue"), ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.code, loadErr.Code)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestLoadParseErrors(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"bad.json": `{"triggers": [}`,
		"bad.yaml": "triggers: [unclosed",
		"bad.cue":  "app: {",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := LoadFile(path)
		require.Error(t, err, name)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr), name)
		assert.Equal(t, ErrCodeParseFailed, loadErr.Code, name)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte(`{}`), Format("toml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeUnsupported)
}

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, schemaID, doc["$id"])
	assert.Contains(t, string(data), `"outputFields"`)
	assert.Contains(t, string(data), `"primary"`)
}

func TestValidateDocumentValid(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "app.json"))
	require.NoError(t, err)

	findings, err := ValidateDocument(data)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateDocumentInvalid(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "invalid.json"))
	require.NoError(t, err)

	findings, err := ValidateDocument(data)
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	var paths []string
	for _, f := range findings {
		assert.NotEmpty(t, f.Message)
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "/triggers/task/operation/outputFields/0")
	assert.Contains(t, paths, "/triggers/task/operation/outputFields/1/primary")
}

func TestValidateDocumentMalformed(t *testing.T) {
	_, err := ValidateDocument([]byte(`{"triggers":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal document")
}

func TestFindingString(t *testing.T) {
	assert.Equal(t, "/a: bad", Finding{Path: "/a", Message: "bad"}.String())
	assert.Equal(t, "bad", Finding{Message: "bad"}.String())
}
