package audit

import "context"

// Store is the append-only persistence contract for membership audit
// events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRoom(ctx context.Context, roomID string, limit int) ([]Event, error)
}
