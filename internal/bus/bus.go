// Package bus publishes timestamped pipeline lifecycle events to a single
// active observer. There is no storage and no backpressure: without an
// observer attached, events are dropped.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/domain"
)

// Track correlates one logical operation's request event with its terminal
// response or error event. Each in-flight operation holds its own token, so
// concurrent operations cannot corrupt each other's measured duration.
type Track struct {
	ID     string
	Source string
	Target string
	Start  time.Time
}

// Bus fans events out to the attached observer.
type Bus struct {
	mu       sync.Mutex
	observer domain.Observer
}

// New creates an event bus with no observer attached.
func New() *Bus {
	return &Bus{}
}

// Attach replaces the active observer. Passing nil detaches.
func (b *Bus) Attach(o domain.Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observer = o
}

// Publish delivers one event to the observer, filling in the id and
// timestamp when absent. No-op without an observer.
func (b *Bus) Publish(event domain.CommunicationEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	observer := b.observer
	b.mu.Unlock()

	if observer == nil {
		return
	}
	observer.OnEvent(event)
}

// StartTracking publishes the "request" event for one logical operation and
// returns the correlation token its terminal event must carry.
func (b *Bus) StartTracking(source, target, message string, data map[string]any) *Track {
	track := &Track{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Start:  time.Now(),
	}
	b.Publish(domain.CommunicationEvent{
		Source:      source,
		Target:      target,
		Type:        domain.EventRequest,
		Message:     message,
		Data:        data,
		Correlation: track.ID,
	})
	return track
}

// EndTracking publishes the terminal event for track with the elapsed
// duration. Exactly one terminal event should be published per track.
func (b *Bus) EndTracking(track *Track, message string, data map[string]any, isError bool) {
	if track == nil {
		return
	}
	eventType := domain.EventResponse
	if isError {
		eventType = domain.EventError
	}
	// Terminal events flow back from the target to the source.
	b.Publish(domain.CommunicationEvent{
		Source:      track.Target,
		Target:      track.Source,
		Type:        eventType,
		Message:     message,
		Data:        data,
		Duration:    time.Since(track.Start),
		Correlation: track.ID,
	})
}

// Info publishes an informational event outside any request/response pair.
func (b *Bus) Info(source, target, message string, data map[string]any) {
	b.Publish(domain.CommunicationEvent{
		Source:  source,
		Target:  target,
		Type:    domain.EventInfo,
		Message: message,
		Data:    data,
	})
}
