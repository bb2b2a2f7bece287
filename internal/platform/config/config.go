package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr string

	// DatabaseURL enables the Postgres policy and audit stores. Empty means
	// in-memory stores (development only).
	DatabaseURL string

	HomeserverURL string
	XRPLRPCURL    string

	Redis RedisConfig
	Kafka KafkaConfig

	Gating GatingConfig
}

// RedisConfig configures the optional distributed tick lease.
// An empty URL disables Redis entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event mirror. An empty broker
// list disables Kafka.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GatingConfig tunes the reconciliation engine and its scheduler.
type GatingConfig struct {
	// Interval between ticks. The next tick is armed only after the
	// previous one finishes.
	Interval time.Duration

	// TickTimeout bounds a whole tick so a hung external call cannot block
	// the schedule indefinitely.
	TickTimeout time.Duration

	// CallTimeout applies to each individual homeserver or ledger call.
	CallTimeout time.Duration

	// MaxConcurrentLookups bounds parallel ledger queries across all rooms.
	MaxConcurrentLookups int

	// RemoveOnLookupFailure restores the legacy behavior of treating a
	// failed ledger lookup as zero holdings, which removes the member. The
	// default keeps failed lookups distinct from verified non-holding and
	// skips the member for the tick.
	RemoveOnLookupFailure bool
}

// FromEnv builds a Config from environment variables so main stays lean.
// Validation failures are returned rather than logged so the caller decides
// how loudly to die.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          envDefault("ROOMGATE_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HomeserverURL: os.Getenv("HOMESERVER_URL"),
		XRPLRPCURL:    os.Getenv("XRPL_RPC_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envDefault("KAFKA_AUDIT_TOPIC", "roomgate.membership-audit"),
		},
		Gating: GatingConfig{
			Interval:              envDuration("GATING_INTERVAL", 10*time.Minute),
			TickTimeout:           envDuration("GATING_TICK_TIMEOUT", 5*time.Minute),
			CallTimeout:           envDuration("GATING_CALL_TIMEOUT", 15*time.Second),
			MaxConcurrentLookups:  envInt("GATING_MAX_CONCURRENT_LOOKUPS", 8),
			RemoveOnLookupFailure: os.Getenv("GATING_REMOVE_ON_LOOKUP_FAILURE") == "true",
		},
	}

	if cfg.HomeserverURL == "" {
		return Config{}, fmt.Errorf("HOMESERVER_URL is required")
	}
	if cfg.XRPLRPCURL == "" {
		return Config{}, fmt.Errorf("XRPL_RPC_URL is required")
	}
	if cfg.Gating.Interval <= 0 {
		return Config{}, fmt.Errorf("GATING_INTERVAL must be positive")
	}
	if cfg.Gating.MaxConcurrentLookups < 1 {
		return Config{}, fmt.Errorf("GATING_MAX_CONCURRENT_LOOKUPS must be at least 1")
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
