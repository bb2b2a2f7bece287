package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the membership_audit table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS membership_audit (
	id             UUID PRIMARY KEY,
	occurred_at    TIMESTAMPTZ NOT NULL,
	room_id        TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	action         TEXT NOT NULL,
	reason         TEXT NOT NULL,
	matching_count INTEGER NOT NULL,
	required_count INTEGER NOT NULL,
	detail         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS membership_audit_room_idx ON membership_audit (room_id, occurred_at DESC)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate membership_audit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO membership_audit (id, occurred_at, room_id, user_id, action, reason, matching_count, required_count, detail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.OccurredAt, event.RoomID, event.UserID, string(event.Action),
		event.Reason, event.MatchingCount, event.RequiredCount, event.Detail)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRoom(ctx context.Context, roomID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, occurred_at, room_id, user_id, action, reason, matching_count, required_count, detail
FROM membership_audit
WHERE room_id = $1
ORDER BY occurred_at DESC
LIMIT $2`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var action string
		if err := rows.Scan(&event.ID, &event.OccurredAt, &event.RoomID, &event.UserID,
			&action, &event.Reason, &event.MatchingCount, &event.RequiredCount, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = Action(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
