package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scholar-lens/internal/domain"
)

func createContextWithUser(req *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(req.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, tokenContextKey, "test-token")
	return req.WithContext(ctx)
}

func TestAuthHandler_ValidateToken_Unauthorized(t *testing.T) {
	handler := NewAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil)
	rr := httptest.NewRecorder()

	handler.ValidateToken(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "User not found in context") {
		t.Fatalf("expected error message in response, got %s", rr.Body.String())
	}
}

func TestAuthHandler_ValidateToken_OK(t *testing.T) {
	handler := NewAuthHandler()

	user := &domain.SupabaseUser{ID: "user-1", Email: "test@example.com", UserMetadata: map[string]interface{}{"name": "test"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil)
	req = createContextWithUser(req, user)

	rr := httptest.NewRecorder()
	handler.ValidateToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["id"] != "user-1" {
		t.Fatalf("expected id user-1, got %v", payload["id"])
	}
	if payload["email"] != "test@example.com" {
		t.Fatalf("expected email test@example.com, got %v", payload["email"])
	}
}
