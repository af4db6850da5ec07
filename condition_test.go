package weld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/weld/properties"
)

func evalOne(t *testing.T, cond Condition, props PropertySource, profiles ...string) bool {
	t.Helper()
	ctx := newConditionContext(profiles, props, &testLogger{t})
	d := &ComponentDescriptor{ID: "under-test", Type: TypeOf[*widget]()}
	return evaluateCondition(d, cond, ctx)
}

func TestPropertyMatchCondition(t *testing.T) {
	props := properties.NewMapSource(map[string]any{
		"cache.enabled": "true",
		"pool.size":     8,
		"flag":          true,
	})

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"string equality", OnProperty("cache.enabled", "true"), true},
		{"string inequality", OnProperty("cache.enabled", "false"), false},
		{"int coerced from expected string", OnProperty("pool.size", "8"), true},
		{"int mismatch", OnProperty("pool.size", "9"), false},
		{"bool coerced from expected string", OnProperty("flag", "true"), true},
		{"missing without fallback", OnProperty("absent", "x"), false},
		{"missing with fallback", OnPropertyOrMissing("absent", "x"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, evalOne(t, tc.cond, props))
		})
	}
}

func TestPropertyMatchWithoutSourceUsesMissingPolicy(t *testing.T) {
	assert.False(t, evalOne(t, OnProperty("any", "x"), nil))
	assert.True(t, evalOne(t, OnPropertyOrMissing("any", "x"), nil))
}

func TestProfileMatchStrategies(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		active []string
		want   bool
	}{
		{"any with one active", OnProfiles(MatchAny, "dev", "staging"), []string{"dev"}, true},
		{"any with none active", OnProfiles(MatchAny, "dev", "staging"), []string{"production"}, false},
		{"all satisfied", OnProfiles(MatchAll, "dev", "metrics"), []string{"dev", "metrics", "extra"}, true},
		{"all partially satisfied", OnProfiles(MatchAll, "dev", "metrics"), []string{"dev"}, false},
		{"empty profile list always matches", OnProfiles(MatchAny), nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, evalOne(t, tc.cond, nil, tc.active...))
		})
	}
}

func TestComponentPresentStrategies(t *testing.T) {
	ctx := newConditionContext(nil, nil, noopLogger{})
	ctx.record(&ComponentDescriptor{ID: "a", Type: TypeOf[*widget]()}, true)
	ctx.record(&ComponentDescriptor{ID: "b", Type: TypeOf[*gadget]()}, false)

	d := &ComponentDescriptor{ID: "under-test"}

	anyOf := OnComponents(MatchAny, ComponentRef{Name: "a"}, ComponentRef{Name: "b"})
	assert.True(t, evaluateCondition(d, anyOf, ctx))

	allOf := OnComponents(MatchAll, ComponentRef{Name: "a"}, ComponentRef{Name: "b"})
	assert.False(t, evaluateCondition(d, allOf, ctx))

	absent := OnMissingComponents(ComponentRef{Name: "b"})
	assert.True(t, evaluateCondition(d, absent, ctx), "an excluded component counts as absent")

	conflict := OnMissingComponents(ComponentRef{Name: "a"})
	assert.False(t, evaluateCondition(d, conflict, ctx))
}

func TestComponentPresentByType(t *testing.T) {
	ctx := newConditionContext(nil, nil, noopLogger{})
	ctx.record(&ComponentDescriptor{ID: "english", Type: TypeOf[englishGreeter]()}, true)

	d := &ComponentDescriptor{ID: "under-test"}
	byIface := OnComponents(MatchAny, ComponentRef{Type: TypeOf[greeter]()})
	require.True(t, evaluateCondition(d, byIface, ctx))

	byOther := OnComponents(MatchAny, ComponentRef{Type: TypeOf[*gadget]()})
	require.False(t, evaluateCondition(d, byOther, ctx))
}

func TestDescriptorProfilesActAsImplicitCondition(t *testing.T) {
	ctx := newConditionContext([]string{"production"}, nil, noopLogger{})
	d := &ComponentDescriptor{ID: "dev-only", Profiles: []string{"dev"}}

	included, reason := evaluateConditions(d, ctx)
	assert.False(t, included)
	assert.Contains(t, reason, "profiles")

	d2 := &ComponentDescriptor{ID: "prod", Profiles: []string{"production", "staging"}}
	included, _ = evaluateConditions(d2, ctx)
	assert.True(t, included, "any-of semantics over the descriptor profile set")
}
