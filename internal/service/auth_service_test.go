package service

import (
	"testing"
	"time"
)

func TestAuthService_ValidateToken(t *testing.T) {
	client := NewMockSupabaseClient()
	logger := NewMockLogger()

	service := NewAuthService(client, logger)

	// Test valid token
	user, err := service.ValidateToken("valid-token")
	if err != nil {
		t.Errorf("Expected no error for valid token, got %v", err)
	}

	if user.ID != "user-123" {
		t.Errorf("Expected user ID 'user-123', got '%s'", user.ID)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected user email 'test@example.com', got '%s'", user.Email)
	}

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	if err == nil {
		t.Error("Expected error for invalid token")
	}

	expectedError := "invalid token: invalid token"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}

	// Test empty token
	_, err = service.ValidateToken("")
	if err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestAuthService_CachesValidTokens(t *testing.T) {
	client := NewMockSupabaseClient()
	service := NewAuthService(client, NewMockLogger())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := service.ValidateToken("valid-token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 supabase call, got %d", client.calls)
	}

	now = now.Add(tokenCacheTTL)
	if _, err := service.ValidateToken("valid-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected cache expiry to trigger a second call, got %d", client.calls)
	}
}
