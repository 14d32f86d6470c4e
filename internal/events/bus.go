// Package events provides the in-process event bus connecting the render
// pipeline to its consumers (CLI reporting, service mode).
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(GenerationDoneEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so unwrap the
	// interface with a type switch
	switch e := ev.(type) {
	case GenerationStartedEvent:
		event.Publish(b.dispatcher, e)
	case GenerationProgressEvent:
		event.Publish(b.dispatcher, e)
	case GenerationDoneEvent:
		event.Publish(b.dispatcher, e)
	case EncoderProbedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function; the handler's
// parameter type selects which events it receives. Returns an unsubscribe
// function.
// Usage: unsub := bus.Subscribe(func(e GenerationProgressEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(GenerationStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GenerationProgressEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GenerationDoneEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(EncoderProbedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
