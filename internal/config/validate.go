package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks the loaded configuration and reports every bad field at once.
func (c *AppConfig) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("PORT", c.ServerPort, validPort),
		criterio.Run("LOG_LEVEL", c.LogLevel, validLogLevel),
		criterio.Run("BACKEND_API_URL", c.BackendURL, validHTTPURL),
		c.validateSupabase(),
		c.validateOrigins(),
	)
}

func (c *AppConfig) validateSupabase() error {
	var errs criterio.FieldErrorsBuilder
	if (c.SupabaseURL == "") != (c.SupabaseKey == "") {
		errs = errs.Append("SUPABASE_ANON_KEY", fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set together"))
	}
	if c.SupabaseURL != "" {
		if err := validHTTPURL(c.SupabaseURL); err != nil {
			errs = errs.Append("SUPABASE_URL", err)
		}
	}
	return errs.ToError()
}

func (c *AppConfig) validateOrigins() error {
	var errs criterio.FieldErrorsBuilder
	for i, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if err := validHTTPURL(origin); err != nil {
			errs = errs.Append(fmt.Sprintf("ALLOWED_ORIGINS[%d]", i), err)
		}
	}
	return errs.ToError()
}

func validPort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

func validLogLevel(level string) error {
	if !slices.Contains(logLevels, strings.ToLower(level)) {
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

func validHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q must be absolute http(s)", raw)
	}
	return nil
}
