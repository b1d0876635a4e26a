package store

import (
	"context"

	"shopsmart/api/models"
)

// EventSink mirrors tracked events to an external system. The in-memory log
// remains authoritative; sinks never feed back into it.
type EventSink interface {
	Record(ctx context.Context, sessionID string, events []models.Event) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(context.Context, string, []models.Event) error {
	return nil
}
