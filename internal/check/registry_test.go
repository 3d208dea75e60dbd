package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/outlint/internal/method"
	"github.com/roach88/outlint/internal/schema"
)

func ruleNames(rules []*Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func TestDefaultRegistryByKind(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		kind method.Kind
		want []string
	}{
		{method.KindCreate, []string{"createIsObject"}},
		{method.KindSearch, []string{"searchIsArray", "searchIsObject"}},
		{method.KindTrigger, []string{"triggerIsArray", "triggerIsObject", "triggerHasId", "triggerHasUniquePrimary"}},
		{method.KindFirehoseWebhook, []string{"firehoseSubscriptionIsArray", "firehoseSubscriptionKeyIsString"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ruleNames(reg.ForKind(tt.kind)))
		})
	}

	assert.Empty(t, reg.ForKind(method.KindNone))
}

func TestDefaultRegistryRules(t *testing.T) {
	rules := DefaultRegistry().Rules()
	require.Len(t, rules, 9)

	names := make(map[string]bool)
	for _, r := range rules {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Alias)
		assert.NotEmpty(t, r.Description)
		assert.NotNil(t, r.Run, r.Name)
		assert.NotEqual(t, method.KindNone, r.Kind, r.Name)

		assert.False(t, names[r.Name], "duplicate name %s", r.Name)
		assert.False(t, names[r.Alias], "duplicate alias %s", r.Alias)
		names[r.Name] = true
		names[r.Alias] = true
	}
}

func TestRegistryRulesIsACopy(t *testing.T) {
	reg := DefaultRegistry()
	rules := reg.Rules()
	rules[0] = nil
	assert.NotNil(t, reg.Rules()[0])

	triggers := reg.ForKind(method.KindTrigger)
	triggers[0] = nil
	assert.NotNil(t, reg.ForKind(method.KindTrigger)[0])
}

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	r, ok := reg.Lookup("triggerHasId")
	require.True(t, ok)
	assert.Same(t, TriggerHasID, r)

	r, ok = reg.Lookup("has-unique-primary")
	require.True(t, ok)
	assert.Same(t, TriggerHasUniquePrimary, r)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)

	_, ok = reg.Lookup("")
	assert.False(t, ok)
}

func TestRuleApplies(t *testing.T) {
	custom := taskApp(schema.OutputField{Key: "slug", Primary: true})

	assert.True(t, TriggerIsArray.Applies(taskMethod, Bundle{}, nil))
	assert.True(t, TriggerIsArray.Applies("resources.task.list.operation.perform", Bundle{}, nil))
	assert.False(t, TriggerIsArray.Applies("searches.task.operation.perform", Bundle{}, nil))
	assert.False(t, FirehoseSubscriptionIsArray.Applies(taskMethod, Bundle{}, nil))
	assert.True(t, FirehoseSubscriptionIsArray.Applies(firehoseMethod, Bundle{}, nil))

	assert.True(t, TriggerHasID.Applies(taskMethod, Bundle{}, nil))
	assert.False(t, TriggerHasID.Applies(taskMethod, Bundle{}, custom))
	// Applies ignores the skip list.
	assert.True(t, TriggerHasID.Applies(taskMethod, Bundle{SkipChecks: []string{"has-id"}}, nil))
}

func TestBundleSkips(t *testing.T) {
	b := Bundle{SkipChecks: []string{"triggerHasId", "search-array-shape"}}

	assert.True(t, b.Skips(TriggerHasID))
	assert.True(t, b.Skips(SearchIsArray))
	assert.False(t, b.Skips(SearchIsObject))
	assert.False(t, Bundle{}.Skips(TriggerHasID))
}
