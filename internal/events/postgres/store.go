// Package postgres persists lifecycle events in an append-only table. It uses
// database/sql so deployments without Kafka still keep a durable event trail
// the export tooling can read.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"givebridge/internal/events"
)

// Schema is the DDL for the event table. Deployments apply it through their
// migration tooling; integration tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS donation_events (
    id          TEXT PRIMARY KEY,
    event_type  TEXT NOT NULL,
    donation_id TEXT NOT NULL,
    actor_id    TEXT NOT NULL,
    party       TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL,
    request_id  TEXT NOT NULL DEFAULT '',
    client_ip   TEXT NOT NULL DEFAULT '',
    device      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS donation_events_donation_idx ON donation_events (donation_id, occurred_at);
`

// Store implements events.Sink against PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event events.Event) error {
	const query = `
		INSERT INTO donation_events
			(id, event_type, donation_id, actor_id, party, occurred_at, request_id, client_ip, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, string(event.Type), event.DonationID, event.ActorID, event.Party,
		event.Timestamp, event.RequestID, event.ClientIP, event.Device,
	)
	if err != nil {
		return fmt.Errorf("append donation event: %w", err)
	}
	return nil
}

// ListByDonation returns one donation's events in occurrence order.
func (s *Store) ListByDonation(ctx context.Context, donationID string) ([]events.Event, error) {
	const query = `
		SELECT id, event_type, donation_id, actor_id, party, occurred_at, request_id, client_ip, device
		FROM donation_events
		WHERE donation_id = $1
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("list donation events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var e events.Event
		var eventType string
		if err := rows.Scan(&e.ID, &eventType, &e.DonationID, &e.ActorID, &e.Party,
			&e.Timestamp, &e.RequestID, &e.ClientIP, &e.Device); err != nil {
			return nil, fmt.Errorf("scan donation event: %w", err)
		}
		e.Type = events.Type(eventType)
		out = append(out, e)
	}
	return out, rows.Err()
}
