package schema

import (
	"slices"

	"github.com/roach88/outlint/internal/method"
)

// DefaultPrimaryKey is the primary key of an operation that flags no
// output field as primary.
var DefaultPrimaryKey = []string{"id"}

// Operation resolves the operation a method path performs.
// ok is false when the app is nil, the path is not an action perform, or the
// app does not define that action.
func (a *App) Operation(methodPath string) (*Operation, bool) {
	if a == nil {
		return nil, false
	}
	ref, ok := method.Parse(methodPath)
	if !ok || ref.Kind == method.KindFirehoseWebhook {
		return nil, false
	}

	if ref.Resource {
		res, ok := a.Resources[ref.Key]
		if !ok {
			return nil, false
		}
		var rm *ResourceMethod
		switch ref.Verb {
		case "list":
			rm = res.List
		case "search":
			rm = res.Search
		case "create":
			rm = res.Create
		}
		if rm == nil {
			return nil, false
		}
		return &rm.Operation, true
	}

	var actions map[string]Action
	switch ref.Kind {
	case method.KindTrigger:
		actions = a.Triggers
	case method.KindSearch:
		actions = a.Searches
	case method.KindCreate:
		actions = a.Creates
	}
	action, ok := actions[ref.Key]
	if !ok {
		return nil, false
	}
	return &action.Operation, true
}

// PrimaryKeys returns the output field set for a method path.
// See Operation.PrimaryKeys.
func (a *App) PrimaryKeys(methodPath string) []string {
	op, _ := a.Operation(methodPath)
	return op.PrimaryKeys()
}

// HasCustomPrimary reports whether the operation behind methodPath declares a
// primary key other than the default.
func (a *App) HasCustomPrimary(methodPath string) bool {
	op, _ := a.Operation(methodPath)
	return op.HasCustomPrimary()
}

// DeclaredPrimaryKeys returns the keys of output fields flagged primary, in
// declaration order. A nil operation declares none.
func (o *Operation) DeclaredPrimaryKeys() []string {
	if o == nil {
		return nil
	}
	var keys []string
	for _, f := range o.OutputFields {
		if f.Primary {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// PrimaryKeys returns the fields that identify a result: those flagged
// primary, or DefaultPrimaryKey when none are.
func (o *Operation) PrimaryKeys() []string {
	if keys := o.DeclaredPrimaryKeys(); len(keys) > 0 {
		return keys
	}
	return slices.Clone(DefaultPrimaryKey)
}

// HasCustomPrimary reports whether any output field is flagged primary,
// other than a lone "id" which is the default anyway.
func (o *Operation) HasCustomPrimary() bool {
	keys := o.DeclaredPrimaryKeys()
	return len(keys) > 0 && !slices.Equal(keys, DefaultPrimaryKey)
}
