package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "TASK_STORE", "ENFORCE_OWNERSHIP", "KAFKA_BROKERS", "BACKEND_TIMEOUT_SEC", "BACKEND_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.TaskStore != StoreREST {
		t.Errorf("TaskStore = %q, want %q", cfg.TaskStore, StoreREST)
	}
	if !cfg.EnforceOwnership {
		t.Error("EnforceOwnership should default to true")
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
	if cfg.BackendTimeout != 10*time.Second {
		t.Errorf("BackendTimeout = %v", cfg.BackendTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://example.supabase.co/")
	t.Setenv("TASK_STORE", "Postgres")
	t.Setenv("ENFORCE_OWNERSHIP", "false")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("DB_POOL_SIZE", "not-a-number")

	cfg := Load()

	if cfg.BackendURL != "https://example.supabase.co" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.TaskStore != StorePostgres {
		t.Errorf("TaskStore = %q", cfg.TaskStore)
	}
	if cfg.EnforceOwnership {
		t.Error("EnforceOwnership should be false")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.DBPoolSize != 10 {
		t.Errorf("DBPoolSize = %d, want default 10", cfg.DBPoolSize)
	}
}
