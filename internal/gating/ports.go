package gating

import (
	"context"

	"roomgate/internal/audit"
	"roomgate/internal/ledger"
	"roomgate/internal/policy"
)

//go:generate mockgen -source=ports.go -destination=mocks/gating_mocks.go -package=mocks

// PolicySource is the engine's read view of the policy store.
type PolicySource interface {
	ActivePolicies(ctx context.Context) ([]policy.RoomPolicy, error)
}

// RoomGateway is the engine's view of the chat side: list who is in a room
// and remove a member. Credentials are per room (the policy owner's token).
type RoomGateway interface {
	JoinedMembers(ctx context.Context, roomID, accessToken string) ([]string, error)
	KickUser(ctx context.Context, roomID, userID, accessToken, reason string) error
}

// HoldingsResolver is the engine's view of the ledger side: how many tokens
// matching a policy does a wallet hold.
type HoldingsResolver interface {
	HoldingsMatching(ctx context.Context, account, issuer string, taxon uint32) ([]ledger.NFToken, error)
}

// AuditRecorder receives one event per removal outcome. Implementations
// must not block.
type AuditRecorder interface {
	Record(event audit.Event)
}
