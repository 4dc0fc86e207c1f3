package config

import (
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_PORT", "LOG_LEVEL", "SUPABASE_URL", "SUPABASE_ANON_KEY",
		"BACKEND_API_URL", "BACKEND_TIMEOUT", "MAX_TEXT_LENGTH", "WORKSPACE_TTL", "ALLOWED_ORIGINS",
		"SQLITE_PATH", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "" {
		t.Fatalf("expected default supabase url empty, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetSupabaseKey() != "" {
		t.Fatalf("expected default supabase key empty, got %s", cfg.GetSupabaseKey())
	}
	if cfg.GetBackendURL() != "http://localhost:5001/api" {
		t.Fatalf("expected default backend url, got %s", cfg.GetBackendURL())
	}
	if cfg.GetBackendTimeout() != 15*time.Second {
		t.Fatalf("expected default backend timeout 15s, got %s", cfg.GetBackendTimeout())
	}
	if cfg.GetMaxTextLength() != 200000 {
		t.Fatalf("expected default max text length 200000, got %d", cfg.GetMaxTextLength())
	}
	if cfg.GetWorkspaceTTL() != 2*time.Hour {
		t.Fatalf("expected default workspace ttl 2h, got %s", cfg.GetWorkspaceTTL())
	}
	if len(cfg.GetAllowedOrigins()) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	t.Setenv("BACKEND_API_URL", "https://research.example.com/api/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("MAX_TEXT_LENGTH", "512")
	t.Setenv("WORKSPACE_TTL", "10m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "http://localhost:54321" {
		t.Fatalf("expected supabase url http://localhost:54321, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetSupabaseKey() != "test-key" {
		t.Fatalf("expected supabase key test-key, got %s", cfg.GetSupabaseKey())
	}
	if cfg.GetBackendURL() != "https://research.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.GetBackendURL())
	}
	if cfg.GetBackendTimeout() != 3*time.Second {
		t.Fatalf("expected backend timeout 3s, got %s", cfg.GetBackendTimeout())
	}
	if cfg.GetMaxTextLength() != 512 {
		t.Fatalf("expected max text length 512, got %d", cfg.GetMaxTextLength())
	}
	if cfg.GetWorkspaceTTL() != 10*time.Minute {
		t.Fatalf("expected workspace ttl 10m, got %s", cfg.GetWorkspaceTTL())
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.GetAllowedOrigins(), want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_TEXT_LENGTH", "not-a-number")
	t.Setenv("BACKEND_TIMEOUT", "-1s")
	t.Setenv("WORKSPACE_TTL", "forever")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxTextLength() != 200000 {
		t.Fatalf("expected default max text length, got %d", cfg.GetMaxTextLength())
	}
	if cfg.GetBackendTimeout() != 15*time.Second {
		t.Fatalf("expected default backend timeout, got %s", cfg.GetBackendTimeout())
	}
	if cfg.GetWorkspaceTTL() != 2*time.Hour {
		t.Fatalf("expected default workspace ttl, got %s", cfg.GetWorkspaceTTL())
	}
}

func TestNewConfig_RateLimitAndSQLite(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "/tmp/profiles.db")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "0")

	cfg := NewConfig()

	if cfg.GetSQLitePath() != "/tmp/profiles.db" {
		t.Fatalf("expected sqlite path, got %q", cfg.GetSQLitePath())
	}
	if cfg.GetRateLimit() != 0.5 {
		t.Fatalf("expected rate limit 0.5, got %v", cfg.GetRateLimit())
	}
	if cfg.GetRateBurst() != 5 {
		t.Fatalf("expected default burst 5, got %d", cfg.GetRateBurst())
	}
}
