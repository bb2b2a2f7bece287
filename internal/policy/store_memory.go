package policy

import (
	"context"
	"sync"

	"roomgate/pkg/requestcontext"
)

// InMemoryStore keeps policies in a map. Used in development when no
// database is configured and as the store double in unit tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	policies map[string]RoomPolicy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[string]RoomPolicy)}
}

func (s *InMemoryStore) ActivePolicies(_ context.Context) ([]RoomPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := make([]RoomPolicy, 0, len(s.policies))
	for _, p := range s.policies {
		if p.GatingActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *InMemoryStore) Get(_ context.Context, roomID string) (*RoomPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) Upsert(ctx context.Context, p RoomPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = requestcontext.Now(ctx)
	s.policies[p.RoomID] = p
	return nil
}
