package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomgate/pkg/requestcontext"
)

func TestInMemoryStoreUpsertAndGet(t *testing.T) {
	store := NewInMemoryStore()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	p := RoomPolicy{
		RoomID:          "!room:x",
		AccessToken:     "tok",
		GatingActive:    true,
		IssuerAddress:   "rISS",
		TaxonID:         7,
		MinHoldingCount: 2,
	}
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, "!room:x")
	require.NoError(t, err)
	assert.Equal(t, "rISS", got.IssuerAddress)
	assert.Equal(t, 2, got.MinHoldingCount)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestInMemoryStoreGetUnknownRoom(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "!nope:x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreUpsertReplacesPolicy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	p := RoomPolicy{RoomID: "!room:x", GatingActive: true, IssuerAddress: "rISS", MinHoldingCount: 1}
	require.NoError(t, store.Upsert(ctx, p))

	p.MinHoldingCount = 5
	p.GatingActive = false
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, "!room:x")
	require.NoError(t, err)
	assert.Equal(t, 5, got.MinHoldingCount)
	assert.False(t, got.GatingActive)
}

func TestInMemoryStoreActivePoliciesFiltersInactive(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, RoomPolicy{RoomID: "!on:x", GatingActive: true}))
	require.NoError(t, store.Upsert(ctx, RoomPolicy{RoomID: "!off:x", GatingActive: false}))

	active, err := store.ActivePolicies(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "!on:x", active[0].RoomID)
}
