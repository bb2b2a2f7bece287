package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the gating engine. The engine never
// surfaces errors to callers, so metrics and logs are the only failure
// signal operators get.
type Metrics struct {
	TickDuration    prometheus.Histogram
	TicksTotal      *prometheus.CounterVec
	RoomsEvaluated  prometheus.Counter
	RoomsSkipped    prometheus.Counter
	MembersChecked  prometheus.Counter
	Removals        *prometheus.CounterVec
	LookupFailures  prometheus.Counter
	LastTickSuccess prometheus.Gauge
}

// New creates and registers all gating metrics.
func New() *Metrics {
	return &Metrics{
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomgate_gating_tick_duration_seconds",
			Help:    "Duration of full reconciliation ticks",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		TicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roomgate_gating_ticks_total",
			Help: "Reconciliation ticks by outcome",
		}, []string{"outcome"}), // outcome: "ok", "store_unavailable"
		RoomsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomgate_gating_rooms_evaluated_total",
			Help: "Rooms whose members were evaluated",
		}),
		RoomsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomgate_gating_rooms_skipped_total",
			Help: "Rooms skipped because the member list could not be fetched",
		}),
		MembersChecked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomgate_gating_members_checked_total",
			Help: "Members whose holdings were evaluated",
		}),
		Removals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roomgate_gating_removals_total",
			Help: "Removal attempts by outcome",
		}, []string{"outcome"}), // outcome: "removed", "failed"
		LookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomgate_gating_ledger_lookup_failures_total",
			Help: "Ledger holdings lookups that failed",
		}),
		LastTickSuccess: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "roomgate_gating_last_successful_tick_timestamp_seconds",
			Help: "Unix time of the last tick that completed without aborting",
		}),
	}
}

// ObserveTick records a completed tick.
func (m *Metrics) ObserveTick(outcome string, d time.Duration) {
	if m != nil {
		m.TickDuration.Observe(d.Seconds())
		m.TicksTotal.WithLabelValues(outcome).Inc()
		if outcome == "ok" {
			m.LastTickSuccess.SetToCurrentTime()
		}
	}
}

// IncRoomEvaluated counts a room whose members were listed and checked.
func (m *Metrics) IncRoomEvaluated() {
	if m != nil {
		m.RoomsEvaluated.Inc()
	}
}

// IncRoomSkipped counts a room skipped for the tick.
func (m *Metrics) IncRoomSkipped() {
	if m != nil {
		m.RoomsSkipped.Inc()
	}
}

// IncMemberChecked counts one member evaluation.
func (m *Metrics) IncMemberChecked() {
	if m != nil {
		m.MembersChecked.Inc()
	}
}

// IncRemoval counts a removal attempt by outcome.
func (m *Metrics) IncRemoval(outcome string) {
	if m != nil {
		m.Removals.WithLabelValues(outcome).Inc()
	}
}

// IncLookupFailure counts a failed ledger lookup.
func (m *Metrics) IncLookupFailure() {
	if m != nil {
		m.LookupFailures.Inc()
	}
}
