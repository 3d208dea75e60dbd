package check

import (
	"slices"

	"github.com/roach88/outlint/internal/method"
	"github.com/roach88/outlint/internal/schema"
)

// Rule is one named output check.
type Rule struct {
	// Name is the identifier callers put in Bundle.SkipChecks.
	Name string

	// Alias is a descriptive second name, also accepted in SkipChecks.
	Alias string

	// Kind is the action kind the rule belongs to.
	Kind method.Kind

	// Description is a one-line summary for listings.
	Description string

	// ShouldRun narrows applicability within Kind. Nil means always.
	ShouldRun func(methodPath string, bundle Bundle, app *schema.App) bool

	// Run inspects the result and returns one message per violation found.
	// It must not modify result.
	Run func(methodPath string, result any, app *schema.App) []string
}

// Applies reports whether the rule should run for this invocation, ignoring
// the skip list: methodPath must be of the rule's kind and ShouldRun, if
// set, must agree.
func (r *Rule) Applies(methodPath string, bundle Bundle, app *schema.App) bool {
	if method.Classify(methodPath) != r.Kind {
		return false
	}
	if r.ShouldRun == nil {
		return true
	}
	return r.ShouldRun(methodPath, bundle, app)
}

// Matches reports whether name refers to this rule.
func (r *Rule) Matches(name string) bool {
	return name != "" && (name == r.Name || name == r.Alias)
}

// Bundle is the invocation context passed alongside a result.
type Bundle struct {
	// SkipChecks lists rule names (or aliases) to leave out of this invocation.
	SkipChecks []string `json:"skipChecks,omitempty" yaml:"skipChecks,omitempty"`

	// CleanedRequest is set when the action runs for an incoming REST hook.
	CleanedRequest any `json:"cleanedRequest,omitempty" yaml:"cleanedRequest,omitempty"`

	// InputData is the user input of the invocation. Checks do not read it.
	InputData map[string]any `json:"inputData,omitempty" yaml:"inputData,omitempty"`
}

// Skips reports whether the bundle opts out of r.
func (b Bundle) Skips(r *Rule) bool {
	return slices.ContainsFunc(b.SkipChecks, r.Matches)
}
