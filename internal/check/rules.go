package check

import (
	"fmt"
	"slices"

	"github.com/roach88/outlint/internal/method"
	"github.com/roach88/outlint/internal/schema"
	"github.com/roach88/outlint/internal/value"
)

// CreateIsObject requires a create to return a single object.
var CreateIsObject = &Rule{
	Name:        "createIsObject",
	Alias:       "create-object-shape",
	Kind:        method.KindCreate,
	Description: "create returns a single object",
	Run: func(_ string, result any, _ *schema.App) []string {
		if value.IsPlainObject(result) {
			return nil
		}
		return []string{fmt.Sprintf(
			"Got a non-object result of type %s (%s), expected a single object from create.",
			value.TypeOf(result), value.Summarize(result))}
	},
}

// SearchIsArray requires a search to return an array.
var SearchIsArray = arrayShapeRule("searchIsArray", "search-array-shape", method.KindSearch,
	"search returns an array", "an array from search")

// SearchIsObject requires every search entry to be an object.
var SearchIsObject = entriesAreObjectsRule("searchIsObject", "search-entries-are-objects", method.KindSearch,
	"search entries are objects", "search")

// TriggerIsArray requires a trigger to return an array.
var TriggerIsArray = arrayShapeRule("triggerIsArray", "trigger-array-shape", method.KindTrigger,
	"trigger returns an array", "an array from trigger")

// TriggerIsObject requires every trigger entry to be an object.
var TriggerIsObject = entriesAreObjectsRule("triggerIsObject", "trigger-entries-are-objects", method.KindTrigger,
	"trigger entries are objects", "trigger")

// TriggerHasID requires every trigger entry to carry a non-null id.
//
// It stands down when the operation declares its own primary key, since then
// id is not what identifies a result, and for REST hook deliveries, whose
// payloads the sending service shapes.
var TriggerHasID = &Rule{
	Name:        "triggerHasId",
	Alias:       "has-id",
	Kind:        method.KindTrigger,
	Description: `trigger entries have a non-null "id" unless a custom primary key is declared`,
	ShouldRun: func(methodPath string, bundle Bundle, app *schema.App) bool {
		if bundle.CleanedRequest != nil {
			return false
		}
		return !app.HasCustomPrimary(methodPath)
	},
	Run: func(_ string, result any, _ *schema.App) []string {
		for _, entry := range idCandidates(result) {
			obj, ok := value.AsObject(entry)
			if ok && obj["id"] != nil {
				continue
			}
			return []string{fmt.Sprintf(`Got a result missing the "id" field (%s).`, value.Summarize(entry))}
		}
		return nil
	},
}

// idCandidates lists what TriggerHasID inspects: the entries of an array, or
// the values of an object result in key order. Anything else has none.
func idCandidates(result any) []any {
	if arr, ok := value.AsArray(result); ok {
		return arr
	}
	obj, ok := value.AsObject(result)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	entries := make([]any, len(keys))
	for i, k := range keys {
		entries[i] = obj[k]
	}
	return entries
}

// TriggerHasUniquePrimary requires the primary key of trigger entries to be
// unique and made of primitives.
//
// The primary key is the set of output fields flagged primary, or "id". Only
// object entries of an array result take part. An entry whose key holds an
// object or array is reported and left out of duplicate detection. Each
// repeated key is reported once, on its first repeat.
var TriggerHasUniquePrimary = &Rule{
	Name:        "triggerHasUniquePrimary",
	Alias:       "has-unique-primary",
	Kind:        method.KindTrigger,
	Description: "trigger entries have unique, primitive primary keys",
	Run: func(methodPath string, result any, app *schema.App) []string {
		entries, ok := value.AsArray(result)
		if !ok {
			return nil
		}
		keys := app.PrimaryKeys(methodPath)

		var msgs []string
		seen := make(map[string]int)
		for _, entry := range entries {
			obj, ok := value.AsObject(entry)
			if !ok {
				continue
			}
			if field, ok := nonPrimitiveField(obj, keys); ok {
				msgs = append(msgs, fmt.Sprintf(
					"Primary key field %q must be a primitive, got %s in result %s.",
					field, value.TypeOf(obj[field]), value.Summarize(obj)))
				continue
			}
			id, err := value.MarshalFields(obj, keys)
			if err != nil {
				continue
			}
			seen[string(id)]++
			if seen[string(id)] == 2 {
				msgs = append(msgs, fmt.Sprintf(
					"Got two or more results with primary key of `%s`, but the primary key must be unique.", id))
			}
		}
		return msgs
	},
}

// nonPrimitiveField returns the first present key field holding an object,
// array or other non-primitive value.
func nonPrimitiveField(obj map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, present := obj[k]
		if present && !value.IsPrimitive(v) {
			return k, true
		}
	}
	return "", false
}

// FirehoseSubscriptionIsArray requires the subscription key list to be an array.
var FirehoseSubscriptionIsArray = &Rule{
	Name:        "firehoseSubscriptionIsArray",
	Alias:       "firehose-array-shape",
	Kind:        method.KindFirehoseWebhook,
	Description: "firehose subscription key list is an array",
	Run: func(_ string, result any, _ *schema.App) []string {
		if value.IsArray(result) {
			return nil
		}
		return []string{fmt.Sprintf(
			"Got a non-array result of type %s (%s), expected an array of subscription keys.",
			value.TypeOf(result), value.Summarize(result))}
	},
}

// FirehoseSubscriptionKeyIsString requires every subscription key to be a string.
var FirehoseSubscriptionKeyIsString = &Rule{
	Name:        "firehoseSubscriptionKeyIsString",
	Alias:       "firehose-keys-are-strings",
	Kind:        method.KindFirehoseWebhook,
	Description: "firehose subscription keys are strings",
	Run: func(_ string, result any, _ *schema.App) []string {
		entries, _ := value.AsArray(result)
		for i, entry := range entries {
			if value.IsString(entry) {
				continue
			}
			return []string{fmt.Sprintf(
				"Got a non-string subscription key of type %s at index %d (%s), expected only strings.",
				value.TypeOf(entry), i, value.Summarize(entry))}
		}
		return nil
	},
}

func arrayShapeRule(name, alias string, kind method.Kind, description, expected string) *Rule {
	return &Rule{
		Name:        name,
		Alias:       alias,
		Kind:        kind,
		Description: description,
		Run: func(_ string, result any, _ *schema.App) []string {
			if value.IsArray(result) {
				return nil
			}
			return []string{fmt.Sprintf(
				"Got a non-array result of type %s (%s), expected %s.",
				value.TypeOf(result), value.Summarize(result), expected)}
		},
	}
}

func entriesAreObjectsRule(name, alias string, kind method.Kind, description, noun string) *Rule {
	return &Rule{
		Name:        name,
		Alias:       alias,
		Kind:        kind,
		Description: description,
		Run: func(_ string, result any, _ *schema.App) []string {
			entries, _ := value.AsArray(result)
			for i, entry := range entries {
				if value.IsPlainObject(entry) {
					continue
				}
				return []string{fmt.Sprintf(
					"Got a non-object result of type %s at index %d (%s), expected only objects from %s.",
					value.TypeOf(entry), i, value.Summarize(entry), noun)}
			}
			return nil
		},
	}
}
