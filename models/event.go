// api/models/event.go
package models

import (
	"fmt"
	"strings"
)

// EventType is the kind of storefront interaction that produced an Event.
type EventType string

const (
	EventSearch      EventType = "SEARCH"
	EventClick       EventType = "CLICK"
	EventAddToCart   EventType = "ADD_TO_CART"
	EventViewDetails EventType = "VIEW_DETAILS"
)

// EventTypes lists every accepted event type.
var EventTypes = []EventType{EventSearch, EventClick, EventAddToCart, EventViewDetails}

func (t EventType) Valid() bool {
	switch t {
	case EventSearch, EventClick, EventAddToCart, EventViewDetails:
		return true
	default:
		return false
	}
}

// ParseEventType accepts the canonical upper-case name, ignoring surrounding space and case.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// Event represents a single tracked user interaction. It is never mutated after creation.
type Event struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"` // milliseconds since epoch
	Type      EventType      `json:"type"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CountEntry is one bucket of an aggregate view.
type CountEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrackRequest is the body accepted by the generic tracking endpoint.
type TrackRequest struct {
	Type     string         `json:"type" binding:"required"`
	Details  string         `json:"details" binding:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
}
