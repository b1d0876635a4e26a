// api/store/clickhouse_sink.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"shopsmart/api/database"
	"shopsmart/api/models"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS shopsmart_events (
		event_id   String,
		session_id String,
		event_type LowCardinality(String),
		details    String,
		timestamp  DateTime64(3),
		metadata   String
	) ENGINE = MergeTree
	ORDER BY (session_id, timestamp)
`

const insertEvents = `
	INSERT INTO shopsmart_events (
		event_id, session_id, event_type, details, timestamp, metadata
	) VALUES (?, ?, ?, ?, ?, ?)
`

// ClickHouseSink mirrors tracked events into the shopsmart_events table.
type ClickHouseSink struct {
	DB     *database.ClickHouseClient
	logger *slog.Logger
}

func NewClickHouseSink(chClient *database.ClickHouseClient, logger *slog.Logger) *ClickHouseSink {
	return &ClickHouseSink{
		DB:     chClient,
		logger: logger,
	}
}

// EnsureSchema creates the events table if it does not exist yet.
func (s *ClickHouseSink) EnsureSchema(ctx context.Context) error {
	if err := s.DB.Conn.Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("failed to create shopsmart_events table: %w", err)
	}
	return nil
}

func (s *ClickHouseSink) Record(ctx context.Context, sessionID string, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, insertEvents)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		row, err := eventRow(sessionID, event)
		if err != nil {
			s.logger.Warn("skipping event with unencodable metadata", "event_id", event.ID, "error", err)
			continue
		}
		if err := batch.Append(row...); err != nil {
			s.logger.Warn("error appending event to batch", "event_id", event.ID, "error", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	s.logger.Debug("mirrored events to clickhouse", "count", len(events), "session_id", sessionID)
	return nil
}

// eventRow orders column values to match insertEvents.
func eventRow(sessionID string, e models.Event) ([]any, error) {
	metadata := "{}"
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(b)
	}
	return []any{
		e.ID,
		sessionID,
		string(e.Type),
		e.Details,
		time.UnixMilli(e.Timestamp).UTC(),
		metadata,
	}, nil
}
