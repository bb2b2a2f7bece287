package policy

import "time"

// RoomPolicy is the per-room gating configuration. One policy exists per
// room; the admin API upserts on RoomID and the engine only ever reads.
type RoomPolicy struct {
	// RoomID is the Matrix room identifier (e.g. "!abc:example.org").
	RoomID string

	// AccessToken authenticates homeserver calls on behalf of the policy
	// owner. It must belong to an account allowed to kick in the room.
	AccessToken string

	// GatingActive controls whether the engine evaluates this room.
	GatingActive bool

	// IssuerAddress is the XRPL account that must have issued a token for
	// it to count.
	IssuerAddress string

	// TaxonID is the NFT collection taxon that must match.
	TaxonID uint32

	// MinHoldingCount is the minimum number of matching tokens a member
	// must hold to stay in the room.
	MinHoldingCount int

	UpdatedAt time.Time
}
