package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"roomgate/internal/audit"
	"roomgate/internal/gating"
	gatingmetrics "roomgate/internal/gating/metrics"
	httpapi "roomgate/internal/http"
	"roomgate/internal/ledger"
	"roomgate/internal/matrix"
	"roomgate/internal/platform/config"
	"roomgate/internal/platform/httpserver"
	"roomgate/internal/platform/logger"
	"roomgate/internal/platform/metrics"
	redisplatform "roomgate/internal/platform/redis"
	"roomgate/internal/policy"
	policyhandler "roomgate/internal/policy/handler"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores. Postgres when configured, in-memory otherwise (development).
	var (
		policyStore policy.Store
		auditStore  audit.Store
		db          *sql.DB
	)
	if cfg.DatabaseURL != "" {
		db, err = connectPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pgPolicies := policy.NewPostgresStore(db)
		pgAudit := audit.NewPostgresStore(db)
		if err := pgPolicies.Migrate(ctx); err != nil {
			log.Error("policy store migration failed", "error", err)
			os.Exit(1)
		}
		if err := pgAudit.Migrate(ctx); err != nil {
			log.Error("audit store migration failed", "error", err)
			os.Exit(1)
		}
		policyStore, auditStore = pgPolicies, pgAudit
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		policyStore, auditStore = policy.NewInMemoryStore(), audit.NewInMemoryStore()
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}
	var auditPublisher audit.Publisher
	if kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		auditPublisher = kafkaPublisher
	}
	auditWorker := audit.NewWorker(auditStore, auditPublisher, log, 256)

	// External clients share one pooled HTTP client; per-call deadlines are
	// set by the engine and handlers.
	httpClient := &http.Client{Timeout: cfg.Gating.CallTimeout}
	matrixClient, err := matrix.NewClient(cfg.HomeserverURL, httpClient)
	if err != nil {
		log.Error("matrix client setup failed", "error", err)
		os.Exit(1)
	}
	ledgerClient, err := ledger.NewClient(cfg.XRPLRPCURL, httpClient)
	if err != nil {
		log.Error("ledger client setup failed", "error", err)
		os.Exit(1)
	}

	engine := gating.NewEngine(policyStore, matrixClient, ledgerClient, auditWorker, log,
		gating.WithMetrics(gatingmetrics.New()),
		gating.WithCallTimeout(cfg.Gating.CallTimeout),
		gating.WithMaxConcurrentLookups(cfg.Gating.MaxConcurrentLookups),
		gating.WithRemoveOnLookupFailure(cfg.Gating.RemoveOnLookupFailure),
	)

	var lease gating.Lease
	if redisClient != nil {
		lease = redisplatform.NewTickLease(redisClient, "roomgate:gating:tick")
	}
	scheduler := gating.NewScheduler(engine, cfg.Gating.Interval, cfg.Gating.TickTimeout, lease, log)

	handler := policyhandler.New(policyStore, matrixClient, log)
	router := httpapi.NewRouter(handler, metrics.New(), log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		if err := auditWorker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	go func() {
		if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("scheduler stopped", "error", err)
		}
	}()
	go func() {
		log.Info("starting roomgate", "addr", cfg.Addr, "interval", cfg.Gating.Interval.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// connectPostgres opens the database with bounded retries so the service
// survives starting before its database does.
func connectPostgres(ctx context.Context, url string, log *slog.Logger) (*sql.DB, error) {
	const (
		attempts = 5
		delay    = 5 * time.Second
	)

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == attempts || ctx.Err() != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres after %d attempts: %w", attempt, err)
		}
		log.Info("postgres not ready, retrying", "attempt", attempt, "delay", delay.String())
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		}
	}
}
