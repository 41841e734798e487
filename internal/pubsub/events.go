// Package pubsub provides a small generic publish/subscribe broker. It carries
// debug log lines to live listeners and release progress events from the
// orchestrator to the terminal reporter.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// LogWritten carries a formatted log line.
	LogWritten EventType = "log.written"

	RunStarted   EventType = "run.started"
	StepStarted  EventType = "step.started"
	StepFinished EventType = "step.finished"
	RunHalted    EventType = "run.halted"
	RunCompleted EventType = "run.completed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
