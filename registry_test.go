package weld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySharedAcrossContainers(t *testing.T) {
	reg := mustRegistry(t, widgetDescriptor("widget"))

	c1, err := NewContainer(reg)
	require.NoError(t, err)
	c2, err := NewContainer(reg)
	require.NoError(t, err)

	w1, err := Get[*widget](c1)
	require.NoError(t, err)
	w2, err := Get[*widget](c2)
	require.NoError(t, err)

	assert.NotSame(t, w1, w2, "each container owns its own singleton instances")
}

func TestRegistryExclusionRecords(t *testing.T) {
	off := widgetDescriptor("feature")
	off.Conditions = []Condition{OnProperty("feature.enabled", "true")}

	reg, err := BuildRegistry([]*ComponentDescriptor{off}, ResolveOptions{
		Properties: propertyMap{"feature.enabled": "false"},
	})
	require.NoError(t, err)

	excluded := reg.Excluded()
	require.Len(t, excluded, 1)
	assert.Equal(t, "feature", excluded[0].ID)
	assert.Contains(t, excluded[0].Reason, "feature.enabled")
}

func TestRegistryComponentsReturnsCopy(t *testing.T) {
	reg := mustRegistry(t, widgetDescriptor("a"), gadgetDescriptor("b"))

	components := reg.Components()
	components[0] = nil
	assert.Equal(t, "a", reg.Components()[0].ID)
}

func TestTypeLookupPrefersExactMatchThenAssignability(t *testing.T) {
	english := &ComponentDescriptor{
		ID:      "english",
		Type:    TypeOf[englishGreeter](),
		Factory: func(Resolver) (any, error) { return englishGreeter{}, nil },
	}
	reg := mustRegistry(t, english)

	assert.True(t, reg.ContainsType(TypeOf[englishGreeter]()))
	assert.True(t, reg.ContainsType(TypeOf[greeter]()), "interface lookup falls back to assignability")
	assert.False(t, reg.ContainsType(TypeOf[*gadget]()))
}
