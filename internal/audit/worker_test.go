package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturePublisher struct {
	mu        sync.Mutex
	published []Event
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestWorkerPersistsRecordedEvents(t *testing.T) {
	store := NewInMemoryStore()
	publisher := &capturePublisher{}
	worker := NewWorker(store, publisher, discardLogger(), 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	worker.Record(Event{
		RoomID:        "!room:x",
		UserID:        "@bob:x",
		Action:        ActionMemberRemoved,
		Reason:        "nope",
		RequiredCount: 1,
	})

	require.Eventually(t, func() bool {
		events, err := store.ListByRoom(context.Background(), "!room:x", 0)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListByRoom(context.Background(), "!room:x", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID, "worker assigns an ID")
	assert.False(t, events[0].OccurredAt.IsZero(), "worker assigns a timestamp")
	assert.Equal(t, ActionMemberRemoved, events[0].Action)
	assert.Equal(t, 1, publisher.count())
}

func TestWorkerDrainsBufferOnShutdown(t *testing.T) {
	store := NewInMemoryStore()
	worker := NewWorker(store, nil, discardLogger(), 16)

	// Enqueue before Run so everything sits in the buffer, then cancel
	// immediately: Run must still flush the backlog.
	for i := 0; i < 5; i++ {
		worker.Record(Event{RoomID: "!room:x", UserID: fmt.Sprintf("@u%d:x", i), Action: ActionRemovalFailed})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := worker.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	events, listErr := store.ListByRoom(context.Background(), "!room:x", 0)
	require.NoError(t, listErr)
	assert.Len(t, events, 5)
}

func TestWorkerDropsWhenInboxFull(t *testing.T) {
	store := NewInMemoryStore()
	worker := NewWorker(store, nil, discardLogger(), 1)

	// Without a running drain loop the second Record must not block.
	finished := make(chan struct{})
	go func() {
		worker.Record(Event{RoomID: "!room:x", UserID: "@a:x", Action: ActionMemberRemoved})
		worker.Record(Event{RoomID: "!room:x", UserID: "@b:x", Action: ActionMemberRemoved})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full inbox")
	}
}

func TestWorkerPublishFailureStillPersists(t *testing.T) {
	store := NewInMemoryStore()
	publisher := &capturePublisher{err: errors.New("broker unreachable")}
	worker := NewWorker(store, publisher, discardLogger(), 16)

	worker.Record(Event{RoomID: "!room:x", UserID: "@bob:x", Action: ActionMemberRemoved})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = worker.Run(ctx)

	events, err := store.ListByRoom(context.Background(), "!room:x", 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestInMemoryStoreListByRoomNewestFirstWithLimit(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(ctx, Event{
			ID:     fmt.Sprintf("e%d", i),
			RoomID: "!room:x",
		}))
	}
	require.NoError(t, store.Append(ctx, Event{ID: "other", RoomID: "!other:x"}))

	events, err := store.ListByRoom(ctx, "!room:x", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e3", events[0].ID)
	assert.Equal(t, "e2", events[1].ID)
}
