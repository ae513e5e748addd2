package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
matching:
  weights:
    distance: 0.30
    age: 0.10
    interests: 0.25
    lifestyle: 0.15
    pace: 0.10
    latency: 0.10
  undo_window: 45s
  stripe_count: 128
  rate:
    swipes_per_minute: 40
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Matching.Weights.Distance != 0.30 {
		t.Fatalf("unexpected distance weight: %v", cfg.Matching.Weights.Distance)
	}
	if cfg.Matching.UndoWindow != 45*time.Second {
		t.Fatalf("unexpected undo window: %s", cfg.Matching.UndoWindow)
	}
	if cfg.Matching.StripeCount != 128 {
		t.Fatalf("unexpected stripe count: %d", cfg.Matching.StripeCount)
	}
	if cfg.Matching.Rate.SwipesPerMinute != 40 {
		t.Fatalf("unexpected swipes/minute: %d", cfg.Matching.Rate.SwipesPerMinute)
	}

	// Untouched sections keep their defaults.
	if cfg.Matching.Rate.SwipesPer10Sec != 15 {
		t.Fatalf("swipes per 10s default should stay 15, got %d", cfg.Matching.Rate.SwipesPer10Sec)
	}
	if cfg.Matching.DailyRetention != 168*time.Hour {
		t.Fatalf("daily retention default should stay 168h, got %s", cfg.Matching.DailyRetention)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if got := cfg.Matching.Weights.Sum(); got != 1.0 {
		t.Fatalf("default weights must sum to 1.0, got %v", got)
	}
	if cfg.Matching.UndoWindow != 30*time.Second {
		t.Fatalf("unexpected default undo window: %s", cfg.Matching.UndoWindow)
	}
	if cfg.Matching.StripeCount != 256 {
		t.Fatalf("unexpected default stripe count: %d", cfg.Matching.StripeCount)
	}
	if cfg.Matching.DiscoveryLimit != 20 {
		t.Fatalf("unexpected default discovery limit: %d", cfg.Matching.DiscoveryLimit)
	}
	if cfg.Matching.LatencyBuckets.Week != 7*24*time.Hour {
		t.Fatalf("unexpected default week bucket: %s", cfg.Matching.LatencyBuckets.Week)
	}
}

func TestLoadRejectsBadWeightSum(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
matching:
  weights:
    distance: 0.50
    age: 0.15
    interests: 0.25
    lifestyle: 0.15
    pace: 0.10
    latency: 0.10
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrInvalidWeights)
	}
}

func TestLoadRejectsUnorderedLatencyBuckets(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
matching:
  latency_buckets:
    hour: 24h
    day: 1h
    week: 168h
    month: 720h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unordered latency buckets")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MATCHING_UNDO_WINDOW", "1m")
	t.Setenv("MATCHING_STRIPE_COUNT", "64")
	t.Setenv("POSTGRES_DSN", "postgres://app:app@db:5432/matching")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Matching.UndoWindow != time.Minute {
		t.Fatalf("unexpected undo window from env: %s", cfg.Matching.UndoWindow)
	}
	if cfg.Matching.StripeCount != 64 {
		t.Fatalf("unexpected stripe count from env: %d", cfg.Matching.StripeCount)
	}
	if cfg.Postgres.DSN != "postgres://app:app@db:5432/matching" {
		t.Fatalf("unexpected dsn from env: %s", cfg.Postgres.DSN)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"MATCHING_UNDO_WINDOW",
		"MATCHING_DAILY_RETENTION",
		"MATCHING_STRIPE_COUNT",
		"MATCHING_DISCOVERY_LIMIT",
		"MATCHING_SWIPES_PER_MINUTE",
		"MATCHING_SWIPES_PER_10SEC",
	} {
		t.Setenv(key, "")
	}
}
