package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"scholar-lens/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	LogLevel       string
	SupabaseURL    string
	SupabaseKey    string
	BackendURL     string
	BackendTimeout time.Duration
	MaxTextLength  int
	WorkspaceTTL   time.Duration
	AllowedOrigins []string
	SQLitePath     string
	RateLimit      float64
	RateBurst      int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		BackendURL:     strings.TrimRight(getEnvOrDefault("BACKEND_API_URL", "http://localhost:5001/api"), "/"),
		BackendTimeout: getEnvDurationOrDefault("BACKEND_TIMEOUT", 15*time.Second),
		MaxTextLength:  getEnvIntOrDefault("MAX_TEXT_LENGTH", 200_000),
		WorkspaceTTL:   getEnvDurationOrDefault("WORKSPACE_TTL", 2*time.Hour),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
		SQLitePath: getEnvOrDefault("SQLITE_PATH", ""),
		RateLimit:  getEnvFloatOrDefault("RATE_LIMIT_RPS", 2),
		RateBurst:  getEnvIntOrDefault("RATE_LIMIT_BURST", 5),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetBackendURL returns the base URL of the research backend API
func (c *AppConfig) GetBackendURL() string {
	return c.BackendURL
}

// GetBackendTimeout returns the per-request timeout for backend calls
func (c *AppConfig) GetBackendTimeout() time.Duration {
	return c.BackendTimeout
}

// GetMaxTextLength returns the largest text, in characters, a workspace accepts
func (c *AppConfig) GetMaxTextLength() int {
	return c.MaxTextLength
}

// GetWorkspaceTTL returns how long an untouched workspace is kept
func (c *AppConfig) GetWorkspaceTTL() time.Duration {
	return c.WorkspaceTTL
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetSQLitePath returns the local saved profile database, empty when disabled
func (c *AppConfig) GetSQLitePath() string {
	return c.SQLitePath
}

// GetRateLimit returns the sustained research backend requests per second
// allowed for one user
func (c *AppConfig) GetRateLimit() float64 {
	return c.RateLimit
}

// GetRateBurst returns the research backend burst allowed for one user
func (c *AppConfig) GetRateBurst() int {
	return c.RateBurst
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
