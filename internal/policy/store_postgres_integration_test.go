//go:build integration

package policy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"roomgate/internal/policy"
	"roomgate/pkg/requestcontext"
	"roomgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *policy.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = policy.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "room_policies"))
}

func testPolicy(roomID string) policy.RoomPolicy {
	return policy.RoomPolicy{
		RoomID:          roomID,
		AccessToken:     "tok-" + roomID,
		GatingActive:    true,
		IssuerAddress:   "rISS",
		TaxonID:         7,
		MinHoldingCount: 1,
	}
}

func (s *PostgresStoreSuite) TestUpsertThenGet() {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	s.Require().NoError(s.store.Upsert(ctx, testPolicy("!room:x")))

	got, err := s.store.Get(ctx, "!room:x")
	s.Require().NoError(err)
	s.Equal("tok-!room:x", got.AccessToken)
	s.Equal("rISS", got.IssuerAddress)
	s.Equal(uint32(7), got.TaxonID)
	s.True(got.UpdatedAt.Equal(now))
}

func (s *PostgresStoreSuite) TestGetUnknownRoom() {
	_, err := s.store.Get(context.Background(), "!nope:x")
	s.ErrorIs(err, policy.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertIsOnePolicyPerRoom() {
	ctx := context.Background()

	p := testPolicy("!room:x")
	s.Require().NoError(s.store.Upsert(ctx, p))

	p.MinHoldingCount = 5
	p.GatingActive = false
	s.Require().NoError(s.store.Upsert(ctx, p))

	got, err := s.store.Get(ctx, "!room:x")
	s.Require().NoError(err)
	s.Equal(5, got.MinHoldingCount)
	s.False(got.GatingActive)

	active, err := s.store.ActivePolicies(ctx)
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *PostgresStoreSuite) TestActivePoliciesFiltersInactive() {
	ctx := context.Background()

	on := testPolicy("!on:x")
	off := testPolicy("!off:x")
	off.GatingActive = false
	s.Require().NoError(s.store.Upsert(ctx, on))
	s.Require().NoError(s.store.Upsert(ctx, off))

	active, err := s.store.ActivePolicies(ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("!on:x", active[0].RoomID)
}

func (s *PostgresStoreSuite) TestConcurrentUpsertsSameRoom() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p := testPolicy("!room:x")
			p.MinHoldingCount = n
			_ = s.store.Upsert(ctx, p)
		}(i)
	}
	wg.Wait()

	got, err := s.store.Get(ctx, "!room:x")
	s.Require().NoError(err)
	s.GreaterOrEqual(got.MinHoldingCount, 0)
	s.Less(got.MinHoldingCount, goroutines)
}
