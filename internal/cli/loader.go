package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/outlint/internal/check"
	"github.com/roach88/outlint/internal/schema"
	"github.com/roach88/outlint/internal/value"
)

// Error code constants - unified across all CLI commands.
// Codes below E100 are shared with schema.LoadError.
const (
	ErrCodeGeneric      = schema.ErrCodeGeneric     // Generic/unknown error
	ErrCodeUnsupported  = schema.ErrCodeUnsupported // Unsupported file extension
	ErrCodeInvalidInput = "E003"                    // Result or bundle could not be decoded
	ErrCodeParseFailed  = schema.ErrCodeParseFailed // App definition could not be parsed
	ErrCodeNotFound     = schema.ErrCodeNotFound    // Path not found
	ErrCodeBuildFailed  = schema.ErrCodeBuildFailed // CUE value incomplete or conflicting
	ErrCodeStoreFailed  = "E007"                    // History database error

	ErrCodeCheckFailed = "E100" // Output checks reported violations
	ErrCodeInvalidApp  = "E101" // App document violates the app JSON Schema
	ErrCodeUnknownRule = "E102" // --skip names no registered rule
)

// StdinPath is the file argument that reads from standard input.
const StdinPath = "-"

// readInput reads path, or stdin when path is StdinPath.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &schema.LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading stdin: %v", err)}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &schema.LoadError{Code: ErrCodeNotFound, Message: "file not found", Path: path}
	}
	if err != nil {
		return nil, &schema.LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading file: %v", err), Path: path}
	}
	return data, nil
}

// isYAML reports whether path names a YAML document. Stdin is always JSON.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadResult reads an action result from a JSON or YAML document.
// JSON numbers are kept exact; see value.Decode.
func LoadResult(path string, stdin io.Reader) (any, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}

	if isYAML(path) {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, &schema.LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("parsing YAML result: %v", err), Path: path}
		}
		return v, nil
	}

	v, err := value.Decode(data)
	if err != nil {
		return nil, &schema.LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("parsing JSON result: %v", err), Path: path}
	}
	return v, nil
}

// LoadBundle reads a bundle from a JSON or YAML document.
func LoadBundle(path string) (check.Bundle, error) {
	var bundle check.Bundle

	data, err := readInput(path, nil)
	if err != nil {
		return bundle, err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return bundle, &schema.LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("parsing YAML bundle: %v", err), Path: path}
		}
		return bundle, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&bundle); err != nil {
		return bundle, &schema.LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("parsing JSON bundle: %v", err), Path: path}
	}
	return bundle, nil
}

// LoadApp reads an app definition. An empty path means no app, which leaves
// every operation on the default primary key.
func LoadApp(path string) (*schema.App, error) {
	if path == "" {
		return nil, nil
	}
	return schema.LoadFile(path)
}

// loadErrorCode returns the code of a *schema.LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var loadErr *schema.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}
