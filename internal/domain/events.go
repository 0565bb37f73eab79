package domain

import "time"

// EventType categorizes a communication event.
type EventType string

const (
	EventRequest  EventType = "request"
	EventResponse EventType = "response"
	EventError    EventType = "error"
	EventInfo     EventType = "info"
)

// CommunicationEvent is one timestamped record of a request, response,
// error, or informational occurrence crossing the pipeline boundary. Every
// "request" event for a logical operation is matched by exactly one terminal
// "response" or "error" event carrying the elapsed duration.
type CommunicationEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Target    string         `json:"target"`
	Type      EventType      `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	// Duration is set on terminal response/error events only.
	Duration time.Duration `json:"duration,omitempty"`
	// Correlation ties a terminal event back to its request event.
	Correlation string `json:"correlation,omitempty"`
}

// Observer receives published events. At most one observer is active at a
// time; without one, events are dropped, not queued.
type Observer interface {
	OnEvent(event CommunicationEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event CommunicationEvent)

func (f ObserverFunc) OnEvent(event CommunicationEvent) { f(event) }
