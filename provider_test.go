package weld

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderResolvesOnInvocationOnly(t *testing.T) {
	var count atomic.Int32
	d := &ComponentDescriptor{
		ID:      "deferred",
		Type:    TypeOf[*widget](),
		Lazy:    true,
		Factory: countingFactory(&count, func() any { return &widget{name: "deferred"} }),
	}

	c, err := NewContainer(mustRegistry(t, d))
	require.NoError(t, err)

	provider := GetProvider[*widget](c)
	assert.Equal(t, int32(0), count.Load(), "obtaining a provider must not construct")

	w, err := provider()
	require.NoError(t, err)
	assert.Equal(t, "deferred", w.name)
	assert.Equal(t, int32(1), count.Load())

	// Repeated invocations observe the singleton.
	again, err := provider()
	require.NoError(t, err)
	assert.Same(t, w, again)
}

func TestNamedProvider(t *testing.T) {
	c, err := NewContainer(mustRegistry(t, widgetDescriptor("widget")))
	require.NoError(t, err)

	provider := GetNamedProvider[*widget](c, "widget")
	w, err := provider()
	require.NoError(t, err)
	assert.Equal(t, "widget", w.name)
}

func TestProviderAgainstClosedContainer(t *testing.T) {
	d := widgetDescriptor("widget")
	d.Lazy = true
	c, err := NewContainer(mustRegistry(t, d))
	require.NoError(t, err)

	provider := GetProvider[*widget](c)
	require.NoError(t, c.Close(context.Background()))

	_, err = provider()
	require.ErrorIs(t, err, ErrContainerClosed)
}
