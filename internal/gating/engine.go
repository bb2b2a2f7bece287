// Package gating holds the reconciliation engine: the component that turns
// room policies plus ledger state into membership actions. One RunOnce call
// is a tick; the Scheduler in this package drives ticks on an interval.
package gating

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"roomgate/internal/audit"
	gatingmetrics "roomgate/internal/gating/metrics"
	"roomgate/internal/ledger"
	"roomgate/internal/policy"
)

// RemovalReason is passed verbatim to the homeserver's kick call.
const RemovalReason = "Does not meet NFT holding requirements"

// Engine re-evaluates every member of every actively gated room against the
// room's holding policy and removes members who no longer qualify.
//
// Failure containment is the engine's defining property: a store failure
// aborts only the current tick, a room failure skips only that room, and a
// member failure affects only that member. RunOnce never returns an error.
type Engine struct {
	policies PolicySource
	rooms    RoomGateway
	holdings HoldingsResolver
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *gatingmetrics.Metrics

	callTimeout time.Duration
	lookupSem   *semaphore.Weighted

	// removeOnLookupFailure treats a failed ledger lookup as zero holdings,
	// reproducing the legacy behavior in which a transient ledger outage
	// removes legitimate holders. Off by default: failed lookups skip the
	// member for the tick.
	removeOnLookupFailure bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches engine metrics.
func WithMetrics(m *gatingmetrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCallTimeout bounds each individual gateway or ledger call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.callTimeout = d }
}

// WithMaxConcurrentLookups bounds parallel ledger queries across all rooms.
func WithMaxConcurrentLookups(n int) Option {
	return func(e *Engine) { e.lookupSem = semaphore.NewWeighted(int64(n)) }
}

// WithRemoveOnLookupFailure restores legacy fail-to-removal semantics for
// ledger lookup failures.
func WithRemoveOnLookupFailure(enabled bool) Option {
	return func(e *Engine) { e.removeOnLookupFailure = enabled }
}

// NewEngine wires the engine's collaborators. recorder may be nil when no
// audit pipeline is configured.
func NewEngine(policies PolicySource, rooms RoomGateway, holdings HoldingsResolver, recorder AuditRecorder, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		policies:    policies,
		rooms:       rooms,
		holdings:    holdings,
		recorder:    recorder,
		logger:      logger,
		callTimeout: 15 * time.Second,
		lookupSem:   semaphore.NewWeighted(8),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOnce performs one full reconciliation tick. All failures are contained
// and logged; the scheduler must be able to call this blindly forever.
func (e *Engine) RunOnce(ctx context.Context) {
	start := time.Now()

	policies, err := e.loadPolicies(ctx)
	if err != nil {
		// The only abort condition for a whole tick: with no policies there
		// is nothing to evaluate. The next tick retries from scratch.
		e.logger.ErrorContext(ctx, "tick aborted, policy store unavailable", "error", err)
		e.metrics.ObserveTick("store_unavailable", time.Since(start))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range policies {
		p := p
		g.Go(func() error {
			e.evaluateRoom(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.ObserveTick("ok", time.Since(start))
	e.logger.InfoContext(ctx, "tick complete",
		"active_policies", len(policies),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (e *Engine) loadPolicies(ctx context.Context) ([]policy.RoomPolicy, error) {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.policies.ActivePolicies(ctx)
}

// evaluateRoom lists the room's members and evaluates each one. A failure
// to list members skips the room for this tick and touches nothing else.
func (e *Engine) evaluateRoom(ctx context.Context, p policy.RoomPolicy) {
	listCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	members, err := e.rooms.JoinedMembers(listCtx, p.RoomID, p.AccessToken)
	cancel()
	if err != nil {
		e.logger.WarnContext(ctx, "room skipped, cannot list members",
			"room_id", p.RoomID,
			"error", err,
		)
		e.metrics.IncRoomSkipped()
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, userID := range members {
		if err := e.lookupSem.Acquire(ctx, 1); err != nil {
			// Tick deadline hit; remaining members carry over to next tick.
			break
		}
		userID := userID
		g.Go(func() error {
			defer e.lookupSem.Release(1)
			e.evaluateMember(ctx, p, userID)
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.IncRoomEvaluated()
	e.logger.DebugContext(ctx, "room evaluated",
		"room_id", p.RoomID,
		"members", len(members),
	)
}

// evaluateMember resolves one member's holdings and removes them if they
// fall below the policy minimum. Every outcome is isolated to this member.
func (e *Engine) evaluateMember(ctx context.Context, p policy.RoomPolicy, userID string) {
	e.metrics.IncMemberChecked()

	matching, ok := e.resolveHoldings(ctx, p, userID)
	if !ok {
		return
	}
	if matching >= p.MinHoldingCount {
		return
	}

	kickCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	err := e.rooms.KickUser(kickCtx, p.RoomID, userID, p.AccessToken, RemovalReason)
	cancel()
	if err != nil {
		e.logger.WarnContext(ctx, "removal failed",
			"room_id", p.RoomID,
			"user_id", userID,
			"error", err,
		)
		e.metrics.IncRemoval("failed")
		e.record(audit.Event{
			RoomID:        p.RoomID,
			UserID:        userID,
			Action:        audit.ActionRemovalFailed,
			Reason:        RemovalReason,
			MatchingCount: matching,
			RequiredCount: p.MinHoldingCount,
			Detail:        err.Error(),
		})
		return
	}

	e.logger.InfoContext(ctx, "member removed for insufficient holdings",
		"room_id", p.RoomID,
		"user_id", userID,
		"matching", matching,
		"required", p.MinHoldingCount,
	)
	e.metrics.IncRemoval("removed")
	e.record(audit.Event{
		RoomID:        p.RoomID,
		UserID:        userID,
		Action:        audit.ActionMemberRemoved,
		Reason:        RemovalReason,
		MatchingCount: matching,
		RequiredCount: p.MinHoldingCount,
	})
}

// resolveHoldings returns the member's matching token count and whether the
// member should be evaluated at all this tick.
//
// A user ID with no derivable wallet address is a deterministic non-holder:
// it cannot possibly satisfy the policy, so it counts as zero. A ledger
// lookup failure is different — the member's true holdings are unknown — and
// skips the member unless legacy removal-on-failure is enabled.
func (e *Engine) resolveHoldings(ctx context.Context, p policy.RoomPolicy, userID string) (int, bool) {
	wallet, err := ledger.WalletFromUserID(userID)
	if err != nil {
		var badAddr *ledger.ErrBadWalletAddress
		if errors.As(err, &badAddr) {
			e.logger.DebugContext(ctx, "member has no wallet address, treating as zero holdings",
				"room_id", p.RoomID,
				"user_id", userID,
			)
			return 0, true
		}
		e.logger.WarnContext(ctx, "wallet derivation failed", "user_id", userID, "error", err)
		return 0, true
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	matching, err := e.holdings.HoldingsMatching(lookupCtx, wallet, p.IssuerAddress, p.TaxonID)
	cancel()
	if err != nil {
		e.metrics.IncLookupFailure()
		if e.removeOnLookupFailure {
			e.logger.WarnContext(ctx, "ledger lookup failed, treating as zero holdings",
				"room_id", p.RoomID,
				"user_id", userID,
				"wallet", wallet,
				"error", err,
			)
			return 0, true
		}
		e.logger.WarnContext(ctx, "ledger lookup failed, skipping member this tick",
			"room_id", p.RoomID,
			"user_id", userID,
			"wallet", wallet,
			"error", err,
		)
		return 0, false
	}

	return len(matching), true
}

func (e *Engine) record(event audit.Event) {
	if e.recorder != nil {
		e.recorder.Record(event)
	}
}
