package policy

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no policy exists for a room.
var ErrNotFound = errors.New("room policy not found")

// Store is the policy persistence contract. ActivePolicies is the read view
// consumed by the gating engine; Upsert and Get serve the admin API.
// ActivePolicies returns a point-in-time snapshot — concurrent admin writes
// during a tick simply take effect next tick.
type Store interface {
	ActivePolicies(ctx context.Context) ([]RoomPolicy, error)
	Get(ctx context.Context, roomID string) (*RoomPolicy, error)
	Upsert(ctx context.Context, p RoomPolicy) error
}
