// Package schema models the parts of an application definition the output
// checks consult: triggers, searches, creates and resources, and the output
// fields each operation declares.
package schema

// App is an application definition.
// Only the members needed to resolve an operation's output fields are modeled;
// unknown members in loaded documents are ignored.
type App struct {
	Version   string              `json:"version,omitempty"   yaml:"version,omitempty"`
	Triggers  map[string]Action   `json:"triggers,omitempty"  yaml:"triggers,omitempty"`
	Searches  map[string]Action   `json:"searches,omitempty"  yaml:"searches,omitempty"`
	Creates   map[string]Action   `json:"creates,omitempty"   yaml:"creates,omitempty"`
	Resources map[string]Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Action is a trigger, search or create.
type Action struct {
	Key       string    `json:"key,omitempty"       yaml:"key,omitempty"`
	Noun      string    `json:"noun,omitempty"      yaml:"noun,omitempty"`
	Display   Display   `json:"display,omitempty"   yaml:"display,omitempty"`
	Operation Operation `json:"operation,omitempty" yaml:"operation,omitempty"`
}

// Resource bundles the list/search/create methods of one noun.
type Resource struct {
	Key    string          `json:"key,omitempty"    yaml:"key,omitempty"`
	Noun   string          `json:"noun,omitempty"   yaml:"noun,omitempty"`
	List   *ResourceMethod `json:"list,omitempty"   yaml:"list,omitempty"`
	Search *ResourceMethod `json:"search,omitempty" yaml:"search,omitempty"`
	Create *ResourceMethod `json:"create,omitempty" yaml:"create,omitempty"`
}

// ResourceMethod is one verb of a resource.
type ResourceMethod struct {
	Display   Display   `json:"display,omitempty"   yaml:"display,omitempty"`
	Operation Operation `json:"operation,omitempty" yaml:"operation,omitempty"`
}

// Display is the user-facing label of an action.
type Display struct {
	Label       string `json:"label,omitempty"       yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"      yaml:"hidden,omitempty"`
}

// Operation holds the declared output of an action.
type Operation struct {
	OutputFields []OutputField  `json:"outputFields,omitempty" yaml:"outputFields,omitempty"`
	Sample       map[string]any `json:"sample,omitempty"       yaml:"sample,omitempty"`
}

// OutputField declares one field of an action's output.
// Fields flagged Primary together form the operation's primary key.
type OutputField struct {
	Key     string `json:"key"               yaml:"key"               jsonschema:"required,minLength=1"`
	Label   string `json:"label,omitempty"   yaml:"label,omitempty"`
	Type    string `json:"type,omitempty"    yaml:"type,omitempty"`
	Primary bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
}
