package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	annotationHandler *AnnotationHandler,
	profileHandler *ProfileHandler,
	authMiddleware func(http.Handler) http.Handler,
	backendLimiter *RateLimiter,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "scholar-lens"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/auth/validate", authHandler.ValidateToken).Methods(http.MethodGet)

	// Annotation workspaces
	api.HandleFunc("/texts", annotationHandler.OpenText).Methods(http.MethodPost)
	api.HandleFunc("/texts/{id}", annotationHandler.GetText).Methods(http.MethodGet)
	api.HandleFunc("/texts/{id}", annotationHandler.ReplaceText).Methods(http.MethodPut)
	api.HandleFunc("/texts/{id}", annotationHandler.CloseText).Methods(http.MethodDelete)
	api.HandleFunc("/texts/{id}/selection", annotationHandler.ChangeSelection).Methods(http.MethodPost)
	api.HandleFunc("/texts/{id}/selection", annotationHandler.DismissSelection).Methods(http.MethodDelete)
	api.HandleFunc("/texts/{id}/selection/apply", annotationHandler.ApplyColor).Methods(http.MethodPost)
	api.HandleFunc("/texts/{id}/selection/clear", annotationHandler.ClearSelection).Methods(http.MethodPost)
	api.HandleFunc("/texts/{id}/highlights", annotationHandler.ListHighlights).Methods(http.MethodGet)
	api.HandleFunc("/texts/{id}/highlights", annotationHandler.AddHighlight).Methods(http.MethodPost)
	api.HandleFunc("/texts/{id}/highlights", annotationHandler.RemoveHighlights).Methods(http.MethodDelete)

	// Profiles and recommendations
	// Routes calling the research backend are throttled per user
	api.Handle("/profiles/analyze", backendLimiter.Limit(profileHandler.AnalyzeProfile)).Methods(http.MethodPost)
	api.HandleFunc("/profiles", profileHandler.ListSaved).Methods(http.MethodGet)
	api.HandleFunc("/profiles", profileHandler.SaveProfile).Methods(http.MethodPost)
	api.HandleFunc("/profiles/saved/{id}", profileHandler.UpdateSaved).Methods(http.MethodPut)
	api.HandleFunc("/profiles/saved/{id}", profileHandler.DeleteSaved).Methods(http.MethodDelete)
	api.HandleFunc("/profiles/saved/{id}/papers", profileHandler.AddPaper).Methods(http.MethodPost)
	api.HandleFunc("/profiles/saved/{id}/papers/{paperID}", profileHandler.RemovePaper).Methods(http.MethodDelete)
	api.Handle("/profiles/{id}", backendLimiter.Limit(profileHandler.GetProfile)).Methods(http.MethodGet)
	api.Handle("/recommendations/search", backendLimiter.Limit(profileHandler.SearchRecommendations)).Methods(http.MethodPost)
	api.HandleFunc("/papers/email-draft", profileHandler.DraftEmail).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
