//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	platformredis "roomgate/internal/platform/redis"
	"roomgate/pkg/testutil/containers"
)

type TickLeaseSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	client *platformredis.Client
}

func TestTickLeaseSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TickLeaseSuite))
}

func (s *TickLeaseSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.client = &platformredis.Client{Client: s.redis.Client}
}

func (s *TickLeaseSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *TickLeaseSuite) TestAcquireIsExclusive() {
	ctx := context.Background()
	first := platformredis.NewTickLease(s.client, "roomgate:test:lease")
	second := platformredis.NewTickLease(s.client, "roomgate:test:lease")

	held, err := first.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.True(held)

	held, err = second.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.False(held, "a held lease must not be acquirable")
}

func (s *TickLeaseSuite) TestReleaseFreesLease() {
	ctx := context.Background()
	first := platformredis.NewTickLease(s.client, "roomgate:test:lease")
	second := platformredis.NewTickLease(s.client, "roomgate:test:lease")

	held, err := first.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.Require().True(held)
	s.Require().NoError(first.Release(ctx))

	held, err = second.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.True(held)
}

func (s *TickLeaseSuite) TestReleaseDoesNotDropAnotherHoldersLease() {
	ctx := context.Background()
	first := platformredis.NewTickLease(s.client, "roomgate:test:lease")
	second := platformredis.NewTickLease(s.client, "roomgate:test:lease")

	held, err := first.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.Require().True(held)

	// second never acquired; its release must be a no-op.
	s.Require().NoError(second.Release(ctx))

	held, err = second.Acquire(ctx, time.Minute)
	s.Require().NoError(err)
	s.False(held, "first still holds the lease")
}

func (s *TickLeaseSuite) TestLeaseExpires() {
	ctx := context.Background()
	first := platformredis.NewTickLease(s.client, "roomgate:test:lease")
	second := platformredis.NewTickLease(s.client, "roomgate:test:lease")

	held, err := first.Acquire(ctx, 100*time.Millisecond)
	s.Require().NoError(err)
	s.Require().True(held)

	s.Require().Eventually(func() bool {
		held, err := second.Acquire(ctx, time.Minute)
		return err == nil && held
	}, 2*time.Second, 50*time.Millisecond, "lease should expire and become acquirable")
}
