package config

import (
	"io"

	"scholar-lens/internal/backend"
	"scholar-lens/internal/domain"
	"scholar-lens/internal/infra/supabase"
	"scholar-lens/internal/repository"
	"scholar-lens/internal/service"
	"scholar-lens/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config                 domain.Config
	Logger                 domain.Logger
	SupabaseClient         domain.SupabaseClient
	SavedProfileRepository domain.SavedProfileRepository
	ResearchBackend        domain.ResearchBackend
	AnnotationService      domain.AnnotationService
	ProfileService         domain.ProfileService
	AuthService            domain.AuthService

	closers []io.Closer
}

// NewContainer creates a new dependency injection container. Without Supabase
// credentials the container runs in anonymous mode: AuthService stays nil and
// saved profiles live in SQLITE_PATH, or are unavailable when that is unset.
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	if supabase.Configured(config) {
		client := supabase.NewClient(config, appLogger)
		if err := client.Initialize(); err != nil {
			appLogger.Error("Supabase unavailable, running in anonymous mode", err)
		} else {
			c.SupabaseClient = client
			c.SavedProfileRepository = repository.NewSavedProfileRepository(client, appLogger)
			c.AuthService = service.NewAuthService(client, appLogger)
		}
	} else {
		appLogger.Warn("Supabase not configured, running in anonymous mode")
	}

	if c.SavedProfileRepository == nil && config.GetSQLitePath() != "" {
		repo, err := repository.OpenSQLiteSavedProfileRepository(config.GetSQLitePath(), appLogger)
		if err != nil {
			appLogger.Error("Failed to open local saved profile store", err, "path", config.GetSQLitePath())
		} else {
			c.SavedProfileRepository = repo
			c.closers = append(c.closers, repo)
		}
	}

	c.ResearchBackend = backend.NewClient(config.GetBackendURL(), config.GetBackendTimeout(), appLogger)
	c.AnnotationService = service.NewAnnotationService(appLogger, config.GetMaxTextLength(), config.GetWorkspaceTTL())
	c.ProfileService = service.NewProfileService(c.ResearchBackend, c.SavedProfileRepository, appLogger)

	return c
}

// Close releases resources opened by the container.
func (c *Container) Close() {
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.Logger.Error("Failed to close resource", err)
		}
	}
}

// Authenticated reports whether requests are validated against Supabase.
func (c *Container) Authenticated() bool {
	return c.AuthService != nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance, nil in anonymous mode
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
