// Package events provides a synchronous, named event bus used to deliver host
// signals (such as readiness) to the application shell.
package events

import (
	"context"
	"time"
)

// Name identifies an event.
type Name string

const (
	// HostReady is raised once the host has injected its API into the page context.
	HostReady Name = "hostready"

	// LegacyHostReady is the event name used by pywebview hosts.
	LegacyHostReady Name = "pywebviewready"
)

// Event is a single occurrence of a named host event.
type Event struct {
	Name    Name
	Source  string // which readiness source raised it, e.g. "file", "signal", "manual"
	At      time.Time
	Payload map[string]any
}

// New returns an Event stamped with the current time.
func New(name Name, source string) Event {
	return Event{Name: name, Source: source, At: time.Now()}
}

// Listener handles an event. Returned errors are logged and counted, never propagated
// to the dispatcher.
type Listener func(ctx context.Context, ev Event) error

// Observer receives dispatch outcomes, typically to update metrics.
type Observer interface {
	EventDispatched(name string, listeners int)
	ListenerFailed(name string)
}

// Stats contains runtime statistics for monitoring
type Stats struct {
	EventsDispatched uint64
	EventsUnheard    uint64 // dispatched with no listener registered
	ListenersInvoked uint64
	ListenerErrors   uint64
	ListenerPanics   uint64
}
