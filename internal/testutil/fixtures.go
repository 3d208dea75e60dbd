package testutil

import "github.com/roach88/outlint/internal/schema"

// Field returns a plain output field.
func Field(key string) schema.OutputField {
	return schema.OutputField{Key: key}
}

// PrimaryField returns an output field flagged primary.
func PrimaryField(key string) schema.OutputField {
	return schema.OutputField{Key: key, Primary: true}
}

// TriggerApp returns an app with a single trigger declaring fields.
func TriggerApp(key string, fields ...schema.OutputField) *schema.App {
	return &schema.App{
		Triggers: map[string]schema.Action{
			key: {Key: key, Noun: key, Operation: schema.Operation{OutputFields: fields}},
		},
	}
}

// TriggerMethod returns the perform method path of trigger key.
func TriggerMethod(key string) string {
	return "triggers." + key + ".operation.perform"
}
