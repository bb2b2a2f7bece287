package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher is the optional secondary sink the worker mirrors events to.
// *KafkaPublisher implements it.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Worker receives audit events from the gating engine on a buffered channel
// and persists them, keeping the engine's hot path free of storage latency.
// Events are dropped (with a log line) rather than blocking a tick when the
// buffer is full.
type Worker struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Event
}

// NewWorker creates a worker with the given inbox capacity. publisher may
// be nil.
func NewWorker(store Store, publisher Publisher, logger *slog.Logger, buffer int) *Worker {
	if buffer < 1 {
		buffer = 256
	}
	return &Worker{
		store:     store,
		publisher: publisher,
		logger:    logger,
		inbox:     make(chan Event, buffer),
	}
}

// Record enqueues an event without blocking. Assigns ID and timestamp if
// the caller left them zero.
func (w *Worker) Record(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	select {
	case w.inbox <- event:
	default:
		w.logger.Warn("audit inbox full, dropping event",
			"room_id", event.RoomID,
			"user_id", event.UserID,
			"action", string(event.Action),
		)
	}
}

// Run drains the inbox until ctx is cancelled, then drains whatever is
// already buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.handle(ctx, event)
		}
	}
}

// drain persists buffered events with a short deadline detached from the
// cancelled run context.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.handle(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) handle(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "audit append failed",
			"room_id", event.RoomID,
			"user_id", event.UserID,
			"error", err,
		)
	}
	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.logger.WarnContext(ctx, "audit publish failed",
			"room_id", event.RoomID,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
