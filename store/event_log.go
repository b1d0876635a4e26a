// api/store/event_log.go
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"shopsmart/api/models"
)

// EventLog is the append-only list of interaction events for one session.
// Clear is the only operation that removes events.
type EventLog struct {
	mu     sync.RWMutex
	events []models.Event
	last   int64
	now    func() time.Time
	newID  func() string
}

type EventLogOption func(*EventLog)

// WithClock overrides the time source used to stamp new events.
func WithClock(now func() time.Time) EventLogOption {
	return func(l *EventLog) {
		l.now = now
	}
}

// WithIDGenerator overrides the event id source.
func WithIDGenerator(newID func() string) EventLogOption {
	return func(l *EventLog) {
		l.newID = newID
	}
}

func NewEventLog(opts ...EventLogOption) *EventLog {
	l := &EventLog{
		events: []models.Event{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *EventLog) Append(eventType models.EventType, details string) models.Event {
	return l.AppendWithMetadata(eventType, details, nil)
}

// AppendWithMetadata stamps and stores a new event. Timestamps never go backwards
// even if the clock does.
func (l *EventLog) AppendWithMetadata(eventType models.EventType, details string, metadata map[string]any) models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().UnixMilli()
	if ts < l.last {
		ts = l.last
	}
	l.last = ts

	event := models.Event{
		ID:        l.newID(),
		Timestamp: ts,
		Type:      eventType,
		Details:   details,
		Metadata:  cloneMetadata(metadata),
	}
	l.events = append(l.events, event)
	return copyEvent(event)
}

// Clear empties the log. The timestamp floor is kept so ordering holds across clears.
func (l *EventLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = []models.Event{}
}

// All returns the events in insertion order. The result is never nil.
func (l *EventLog) All() []models.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Event, len(l.events))
	for i, e := range l.events {
		out[i] = copyEvent(e)
	}
	return out
}

// Latest returns up to n events, newest first.
func (l *EventLog) Latest(n int) []models.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.events) {
		n = len(l.events)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Event, 0, n)
	for i := len(l.events) - 1; i >= len(l.events)-n; i-- {
		out = append(out, copyEvent(l.events[i]))
	}
	return out
}

func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

func copyEvent(e models.Event) models.Event {
	e.Metadata = cloneMetadata(e.Metadata)
	return e
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
