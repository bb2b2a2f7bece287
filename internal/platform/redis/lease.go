package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TickLease is a best-effort distributed lock held for the duration of one
// reconciliation tick. At most one replica holds the lease at a time; the
// TTL guarantees the lease cannot outlive a crashed holder.
type TickLease struct {
	client *Client
	key    string
	holder string
}

// NewTickLease creates a lease on the given key. Each process gets a unique
// holder token so a release can never drop another process's lease.
func NewTickLease(client *Client, key string) *TickLease {
	return &TickLease{
		client: client,
		key:    key,
		holder: uuid.NewString(),
	}
}

// Acquire attempts to take the lease for ttl. Returns false if another
// holder currently owns it.
func (l *TickLease) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire tick lease: %w", err)
	}
	return ok, nil
}

// releaseScript deletes the lease only when this process still holds it.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// Release drops the lease if this process still owns it. Safe to call after
// the TTL has expired.
func (l *TickLease) Release(ctx context.Context) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.holder).Err(); err != nil {
		return fmt.Errorf("release tick lease: %w", err)
	}
	return nil
}
