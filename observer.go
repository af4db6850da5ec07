package weld

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Container lifecycle event types, in CloudEvents reverse-DNS form.
const (
	EventTypeComponentConstructed = "com.gocodealone.weld.component.constructed"
	EventTypeComponentDestroyed   = "com.gocodealone.weld.component.destroyed"
	EventTypeContainerClosed      = "com.gocodealone.weld.container.closed"
)

// eventSource identifies this runtime as the CloudEvents source.
const eventSource = "weld/container"

// ObserverFunc receives container lifecycle events. Observers run
// synchronously on the emitting goroutine; a failing observer is logged
// and never affects the operation that triggered the event.
type ObserverFunc func(ctx context.Context, event cloudevents.Event) error

// NewContainerEvent creates a CloudEvent describing a container
// lifecycle transition.
func NewContainerEvent(eventType string, data map[string]any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource(eventSource)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}

// newEventID generates a time-ordered UUIDv7 id, falling back to v4 if
// v7 generation fails.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func (c *Container) notify(ctx context.Context, eventType string, data map[string]any) {
	if len(c.observers) == 0 {
		return
	}
	event := NewContainerEvent(eventType, data)
	for _, observer := range c.observers {
		if err := observer(ctx, event); err != nil {
			c.logger.Warn("Observer failed", "eventType", eventType, "error", err)
		}
	}
}
