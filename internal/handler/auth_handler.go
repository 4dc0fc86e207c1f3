package handler

import (
	"net/http"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct{}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// ValidateToken returns the user the request's token belongs to
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:           user.ID,
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
	})
}
