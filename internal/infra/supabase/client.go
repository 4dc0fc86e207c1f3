package supabase

import (
	"fmt"
	"time"

	"scholar-lens/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// Client implements the domain.SupabaseClient interface
type Client struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewClient creates a new Supabase client instance. Initialize must be called
// before use.
func NewClient(config domain.Config, logger domain.Logger) domain.SupabaseClient {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Configured reports whether Supabase credentials are present in config.
func Configured(config domain.Config) bool {
	return config.GetSupabaseURL() != "" && config.GetSupabaseKey() != ""
}

func (s *Client) DB() *supabase.Client {
	return s.client
}

// Initialize establishes a connection to Supabase
func (s *Client) Initialize() error {
	if !Configured(s.config) {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(s.config.GetSupabaseURL(), s.config.GetSupabaseKey(), &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", s.config.GetSupabaseURL())
	return nil
}

// GetClientWithToken returns a client whose PostgREST requests run as the
// user owning token, so row level security applies.
func (s *Client) GetClientWithToken(token string) (*supabase.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	if token == "" {
		return s.client, nil
	}

	client, err := supabase.NewClient(s.config.GetSupabaseURL(), s.config.GetSupabaseKey(), &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client for token: %w", err)
	}
	return client, nil
}

// ValidateToken validates a Supabase JWT token and returns user info
func (s *Client) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	// Passing "Authorization" via client headers does not affect GoTrue requests,
	// so use an auth client bound to the access token.
	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}, nil
}
