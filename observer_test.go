package weld

import (
	"context"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverReceivesLifecycleEvents(t *testing.T) {
	var events []cloudevents.Event
	observer := func(ctx context.Context, event cloudevents.Event) error {
		events = append(events, event)
		return nil
	}

	c, err := NewContainer(mustRegistry(t, widgetDescriptor("widget")),
		WithLogger(&testLogger{t}),
		WithObserver(observer),
	)
	require.NoError(t, err)
	require.NoError(t, c.Close(context.Background()))

	require.Len(t, events, 3)
	assert.Equal(t, EventTypeComponentConstructed, events[0].Type())
	assert.Equal(t, EventTypeComponentDestroyed, events[1].Type())
	assert.Equal(t, EventTypeContainerClosed, events[2].Type())

	for _, event := range events {
		assert.NoError(t, event.Validate())
		assert.NotEmpty(t, event.ID())
		assert.Equal(t, "weld/container", event.Source())
	}
}

func TestFailingObserverDoesNotAffectResolution(t *testing.T) {
	observer := func(context.Context, cloudevents.Event) error {
		return assert.AnError
	}

	c, err := NewContainer(mustRegistry(t, widgetDescriptor("widget")),
		WithLogger(&testLogger{t}),
		WithObserver(observer),
	)
	require.NoError(t, err)

	w, err := Get[*widget](c)
	require.NoError(t, err)
	assert.NotNil(t, w)
	require.NoError(t, c.Close(context.Background()))
}

func TestNewContainerEventShape(t *testing.T) {
	event := NewContainerEvent(EventTypeComponentConstructed, map[string]any{"component": "x"})
	require.NoError(t, event.Validate())
	assert.Equal(t, cloudevents.VersionV1, event.SpecVersion())
	assert.NotEmpty(t, event.ID())
	assert.False(t, event.Time().IsZero())
}
