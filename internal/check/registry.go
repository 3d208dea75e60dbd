package check

import "github.com/roach88/outlint/internal/method"

// Registry is an ordered catalog of rules grouped by action kind.
type Registry struct {
	all    []*Rule
	byKind map[method.Kind][]*Rule
}

// NewRegistry builds a registry from rules in evaluation order.
// The slice is copied; later changes by the caller have no effect.
func NewRegistry(rules ...*Rule) *Registry {
	r := &Registry{
		all:    make([]*Rule, len(rules)),
		byKind: make(map[method.Kind][]*Rule),
	}
	copy(r.all, rules)
	for _, rule := range rules {
		r.byKind[rule.Kind] = append(r.byKind[rule.Kind], rule)
	}
	return r
}

var defaultRegistry = NewRegistry(
	CreateIsObject,
	SearchIsArray,
	SearchIsObject,
	TriggerIsArray,
	TriggerIsObject,
	TriggerHasID,
	TriggerHasUniquePrimary,
	FirehoseSubscriptionIsArray,
	FirehoseSubscriptionKeyIsString,
)

// DefaultRegistry returns the built-in rule catalog.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Rules returns every rule in evaluation order.
func (r *Registry) Rules() []*Rule {
	out := make([]*Rule, len(r.all))
	copy(out, r.all)
	return out
}

// ForKind returns the rules of one kind in evaluation order.
// KindNone has no rules.
func (r *Registry) ForKind(kind method.Kind) []*Rule {
	rules := r.byKind[kind]
	out := make([]*Rule, len(rules))
	copy(out, rules)
	return out
}

// Lookup finds a rule by name or alias.
func (r *Registry) Lookup(name string) (*Rule, bool) {
	for _, rule := range r.all {
		if rule.Matches(name) {
			return rule, true
		}
	}
	return nil, false
}
