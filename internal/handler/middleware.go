package handler

import (
	"context"
	"net/http"
	"strings"

	"scholar-lens/internal/domain"
)

// AuthMiddleware validates bearer tokens and puts the user into the request context.
type AuthMiddleware struct {
	authService domain.AuthService
	logger      domain.Logger
}

func NewAuthMiddleware(authService domain.AuthService, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Token required")
			return
		}

		user, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Error("Token validation failed", err, "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AnonymousMiddleware runs every request as the anonymous user. It is used
// when Supabase is not configured, so the annotation API still works locally.
// A bearer token, if sent, is still forwarded to the research backend.
func AnonymousMiddleware(next http.Handler) http.Handler {
	anonymous := &domain.SupabaseUser{ID: domain.AnonymousUserID}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userContextKey, anonymous)
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
			ctx = context.WithValue(ctx, tokenContextKey, token)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
