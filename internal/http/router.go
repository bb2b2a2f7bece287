// Package httpapi assembles the service's HTTP surface: the admin API used
// by the room widget, a health probe, and Prometheus exposition.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roomgate/internal/platform/metrics"
	"roomgate/internal/platform/middleware"
	policyhandler "roomgate/internal/policy/handler"
)

// adminRateLimit mirrors the original deployment's limiter: 100 requests
// per 15 minutes per client IP.
const (
	adminRateLimit       = 100
	adminRateLimitWindow = 15 * time.Minute
)

// NewRouter wires all endpoints.
func NewRouter(policies *policyhandler.Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(observe(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	limiter := middleware.NewRateLimiter(adminRateLimit, adminRateLimitWindow, logger)
	r.Route("/api", func(api chi.Router) {
		api.Use(limiter.Handler)
		api.Use(middleware.Timeout(30 * time.Second))
		api.Use(middleware.ContentTypeJSON)
		policies.Register(api)
	})

	return r
}

// observe records request durations against the route pattern, not the raw
// path, to keep label cardinality bounded.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, strconv.Itoa(recorder.status), time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
