package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"scholar-lens/internal/domain"
	apperrors "scholar-lens/pkg/errors"

	"github.com/hay-kot/criterio"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

const maxRequestBody = 1 << 20

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a bounded JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst)
}

// statusFor maps service errors onto HTTP status codes and client messages.
func statusFor(err error) (int, string) {
	var vErr *domain.ValidationError
	var fieldErrs criterio.FieldErrors
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, fieldErrs.Error()
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		return http.StatusNotFound, "Workspace not found"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "Profile not found"
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrNoPendingSelection):
		return http.StatusConflict, "No pending selection"
	case errors.Is(err, domain.ErrInvalidOperationArgument):
		return http.StatusBadRequest, "Invalid highlight range or color"
	case errors.As(err, &appErr):
		return appErr.StatusCode, appErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// requestIdentity pulls the user and token set by the auth middleware.
func requestIdentity(w http.ResponseWriter, r *http.Request) (*domain.SupabaseUser, string, bool) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return nil, "", false
	}
	token, _ := GetTokenFromContext(r)
	return user, token, true
}
