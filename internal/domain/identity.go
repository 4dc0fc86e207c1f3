package domain

import "github.com/supabase-community/supabase-go"

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	CreatedAt    string
	UpdatedAt    string
}

// AnonymousUserID owns workspaces and saved profiles when authentication is
// not configured.
const AnonymousUserID = "anonymous"

// AuthService resolves a bearer token to the user it belongs to.
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// SupabaseClient wraps the Supabase SDK. GetClientWithToken returns a client
// whose PostgREST calls run as the token's user.
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)

	DB() *supabase.Client
	GetClientWithToken(token string) (*supabase.Client, error)
}
