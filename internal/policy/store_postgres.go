package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"roomgate/pkg/requestcontext"
)

// PostgresStore persists room policies in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed policy store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the room_policies table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS room_policies (
	room_id           TEXT PRIMARY KEY,
	access_token      TEXT NOT NULL,
	gating_active     BOOLEAN NOT NULL DEFAULT FALSE,
	issuer_address    TEXT NOT NULL,
	taxon_id          BIGINT NOT NULL CHECK (taxon_id >= 0),
	min_holding_count INTEGER NOT NULL CHECK (min_holding_count >= 0),
	updated_at        TIMESTAMPTZ NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate room_policies: %w", err)
	}
	return nil
}

func (s *PostgresStore) ActivePolicies(ctx context.Context) ([]RoomPolicy, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT room_id, access_token, gating_active, issuer_address, taxon_id, min_holding_count, updated_at
FROM room_policies
WHERE gating_active`)
	if err != nil {
		return nil, fmt.Errorf("list active policies: %w", err)
	}
	defer rows.Close()

	var policies []RoomPolicy
	for rows.Next() {
		var p RoomPolicy
		if err := rows.Scan(&p.RoomID, &p.AccessToken, &p.GatingActive, &p.IssuerAddress, &p.TaxonID, &p.MinHoldingCount, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan room policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room policies: %w", err)
	}
	return policies, nil
}

func (s *PostgresStore) Get(ctx context.Context, roomID string) (*RoomPolicy, error) {
	var p RoomPolicy
	err := s.db.QueryRowContext(ctx, `
SELECT room_id, access_token, gating_active, issuer_address, taxon_id, min_holding_count, updated_at
FROM room_policies
WHERE room_id = $1`, roomID).
		Scan(&p.RoomID, &p.AccessToken, &p.GatingActive, &p.IssuerAddress, &p.TaxonID, &p.MinHoldingCount, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room policy: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p RoomPolicy) error {
	p.UpdatedAt = requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO room_policies (room_id, access_token, gating_active, issuer_address, taxon_id, min_holding_count, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (room_id) DO UPDATE SET
	access_token      = EXCLUDED.access_token,
	gating_active     = EXCLUDED.gating_active,
	issuer_address    = EXCLUDED.issuer_address,
	taxon_id          = EXCLUDED.taxon_id,
	min_holding_count = EXCLUDED.min_holding_count,
	updated_at        = EXCLUDED.updated_at`,
		p.RoomID, p.AccessToken, p.GatingActive, p.IssuerAddress, p.TaxonID, p.MinHoldingCount, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert room policy: %w", err)
	}
	return nil
}
