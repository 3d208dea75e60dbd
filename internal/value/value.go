package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// Decode parses a single JSON document into plain Go values.
// Numbers are kept as json.Number so integers survive without float rounding.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	// Reject trailing documents; a result file holds exactly one value.
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// AsObject returns v as a plain object.
// Any map keyed by strings qualifies; other maps, structs and pointers do not.
func AsObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		obj[iter.Key().String()] = iter.Value().Interface()
	}
	return obj, true
}

// AsArray returns v as a slice of entries.
// Any Go slice or array qualifies; a nil slice is an empty array.
func AsArray(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	arr := make([]any, rv.Len())
	for i := range arr {
		arr[i] = rv.Index(i).Interface()
	}
	return arr, true
}

// IsPlainObject reports whether v is an object (and not an array or primitive).
func IsPlainObject(v any) bool {
	_, ok := AsObject(v)
	return ok
}

// IsArray reports whether v is an array of any length.
func IsArray(v any) bool {
	_, ok := AsArray(v)
	return ok
}

// IsString reports whether v is a string.
func IsString(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.String
}

// IsPrimitive reports whether v is null, a string, a boolean or a number.
// Objects, arrays and anything else a Go caller might hand us are not.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// TypeOf names the JSON type of v for use in messages: null, string, number,
// boolean, array or object. Values with no JSON equivalent report their Go type.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case json.Number:
		return "number"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	if IsPlainObject(v) {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
