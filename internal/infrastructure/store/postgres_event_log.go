package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/storefront/internal/event"
	_ "github.com/lib/pq"
)

const postgresEventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	id             UUID PRIMARY KEY,
	aggregate_id   TEXT NOT NULL,
	aggregate_type TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	data           JSONB NOT NULL,
	version        INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS events_aggregate_idx ON events (aggregate_id, created_at)`

// PostgresEventLog appends every published event to the events table
type PostgresEventLog struct {
	db *sql.DB
}

func NewPostgresEventLog(db *sql.DB) *PostgresEventLog {
	return &PostgresEventLog{db: db}
}

// EnsureSchema creates the events table if it does not exist
func (l *PostgresEventLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, postgresEventsSchema); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}

// Publish stores an event in PostgreSQL
func (l *PostgresEventLog) Publish(ctx context.Context, key string, e event.Event) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID,
		e.AggregateID,
		e.AggregateType,
		e.EventType,
		[]byte(e.Data),
		e.Version,
		e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", e.ID, err)
	}
	return nil
}

// Events returns the events of an aggregate in the order they happened
func (l *PostgresEventLog) Events(ctx context.Context, aggregateID string) ([]event.Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 WHERE aggregate_id = $1
		 ORDER BY created_at ASC`,
		aggregateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			e    event.Event
			data []byte
		)
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &data, &e.Version, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Data = data
		events = append(events, e)
	}
	return events, rows.Err()
}
