package handler

import (
	"fmt"
	"net/http"
	"strings"

	"scholar-lens/internal/backend"
	"scholar-lens/internal/domain"

	"github.com/gorilla/mux"
	"github.com/hay-kot/criterio"
)

// ProfileHandler handles profile analysis, recommendations and the dashboard.
type ProfileHandler struct {
	profiles domain.ProfileService
	logger   domain.Logger
}

func NewProfileHandler(profiles domain.ProfileService, logger domain.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

type analyzeProfileRequest struct {
	URL         string `json:"url"`
	ProfileType string `json:"profile_type"`
}

type searchRecommendationsRequest struct {
	Query        string  `json:"query"`
	TopK         int     `json:"top_k"`
	MinRelevance float64 `json:"min_relevance"`
	Keyword      string  `json:"keyword"`
}

func (req searchRecommendationsRequest) validate() error {
	var errs criterio.FieldErrorsBuilder
	if strings.TrimSpace(req.Query) == "" {
		errs = errs.Append("query", fmt.Errorf("is required"))
	}
	if req.TopK < 0 {
		errs = errs.Append("top_k", fmt.Errorf("must not be negative"))
	}
	if req.MinRelevance < 0 || req.MinRelevance > 1 {
		errs = errs.Append("min_relevance", fmt.Errorf("must be between 0 and 1"))
	}
	return errs.ToError()
}

type emailDraftRequest struct {
	Paper  domain.Paper       `json:"paper"`
	Sender domain.EmailSender `json:"sender"`
}

type recommendationsResponse struct {
	Recommendations []domain.Paper `json:"recommendations"`
}

// AnalyzeProfile handles POST /profiles/analyze
func (h *ProfileHandler) AnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req analyzeProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	profileType, valid := backend.ParseProfileType(req.ProfileType, req.URL)
	if !valid {
		writeError(w, http.StatusBadRequest, "Unknown profile_type")
		return
	}

	profile, err := h.profiles.Analyze(r.Context(), req.URL, profileType, token)
	if err != nil {
		h.fail(w, "Failed to analyze profile", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetProfile handles GET /profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), mux.Vars(r)["id"], token)
	if err != nil {
		h.fail(w, "Failed to get profile", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SearchRecommendations handles POST /recommendations/search
func (h *ProfileHandler) SearchRecommendations(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req searchRecommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	papers, err := h.profiles.Recommendations(r.Context(), domain.RecommendationQuery{
		Query:        req.Query,
		TopK:         req.TopK,
		MinRelevance: req.MinRelevance,
		Keyword:      req.Keyword,
	}, token)
	if err != nil {
		h.fail(w, "Failed to search recommendations", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: papers})
}

// ListSaved handles GET /profiles
func (h *ProfileHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	saved, err := h.profiles.ListSaved(user.ID, token)
	if err != nil {
		h.fail(w, "Failed to list saved profiles", err, user.ID)
		return
	}
	if saved == nil {
		saved = make([]*domain.SavedProfile, 0)
	}
	writeJSON(w, http.StatusOK, saved)
}

// SaveProfile handles POST /profiles
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req domain.ResearchProfile
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.profiles.SaveProfile(user.ID, &req, token)
	if err != nil {
		h.fail(w, "Failed to save profile", err, user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteSaved handles DELETE /profiles/saved/{id}
func (h *ProfileHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	if err := h.profiles.DeleteSaved(user.ID, mux.Vars(r)["id"], token); err != nil {
		h.fail(w, "Failed to delete saved profile", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSaved handles PUT /profiles/saved/{id}
func (h *ProfileHandler) UpdateSaved(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req domain.SavedProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.profiles.UpdateSaved(user.ID, mux.Vars(r)["id"], req, token)
	if err != nil {
		h.fail(w, "Failed to update saved profile", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// AddPaper handles POST /profiles/saved/{id}/papers
func (h *ProfileHandler) AddPaper(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req domain.NewPaper
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.profiles.AddPaper(user.ID, mux.Vars(r)["id"], req, token)
	if err != nil {
		h.fail(w, "Failed to add paper", err, user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// RemovePaper handles DELETE /profiles/saved/{id}/papers/{paperID}
func (h *ProfileHandler) RemovePaper(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	saved, err := h.profiles.RemovePaper(user.ID, vars["id"], vars["paperID"], token)
	if err != nil {
		h.fail(w, "Failed to remove paper", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DraftEmail handles POST /papers/email-draft
func (h *ProfileHandler) DraftEmail(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req emailDraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.profiles.DraftOutreachEmail(req.Paper, req.Sender)
	if err != nil {
		h.fail(w, "Failed to draft email", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ProfileHandler) fail(w http.ResponseWriter, msg string, err error, userID string) {
	status, clientMsg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, err, "user_id", userID)
	} else {
		h.logger.Warn(msg, "user_id", userID, "reason", err.Error())
	}
	writeError(w, status, clientMsg)
}
