package handler

import (
	"net/http"
	"strconv"

	"scholar-lens/internal/domain"

	"github.com/gorilla/mux"
)

// AnnotationHandler exposes the highlight workspaces over HTTP.
type AnnotationHandler struct {
	annotations domain.AnnotationService
	logger      domain.Logger
}

func NewAnnotationHandler(annotations domain.AnnotationService, logger domain.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		logger:      logger,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type applyColorRequest struct {
	Color string `json:"color"`
}

type highlightRequest struct {
	Start *int   `json:"start"`
	End   *int   `json:"end"`
	Color string `json:"color"`
}

type applyColorResponse struct {
	Highlight *domain.Highlight `json:"highlight"`
	View      *domain.TextView  `json:"view"`
}

type clearResponse struct {
	Removed int              `json:"removed"`
	View    *domain.TextView `json:"view,omitempty"`
}

// OpenText handles POST /texts
func (h *AnnotationHandler) OpenText(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.annotations.OpenText(user.ID, req.Text)
	if err != nil {
		h.fail(w, "Failed to open text", err, user.ID, "")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetText handles GET /texts/{id}
func (h *AnnotationHandler) GetText(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	view, err := h.annotations.GetText(user.ID, id)
	if err != nil {
		h.fail(w, "Failed to get text", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ReplaceText handles PUT /texts/{id}
func (h *AnnotationHandler) ReplaceText(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.annotations.ReplaceText(user.ID, id, req.Text)
	if err != nil {
		h.fail(w, "Failed to replace text", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CloseText handles DELETE /texts/{id}
func (h *AnnotationHandler) CloseText(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.annotations.CloseText(user.ID, id); err != nil {
		h.fail(w, "Failed to close text", err, user.ID, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeSelection handles POST /texts/{id}/selection. The body is the host's
// current native selection; an unresolvable one yields a hidden toolbar, not
// an error.
func (h *AnnotationHandler) ChangeSelection(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req domain.NativeSelection
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.annotations.ChangeSelection(user.ID, id, req)
	if err != nil {
		h.fail(w, "Failed to update selection", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DismissSelection handles DELETE /texts/{id}/selection
func (h *AnnotationHandler) DismissSelection(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	view, err := h.annotations.DismissSelection(user.ID, id)
	if err != nil {
		h.fail(w, "Failed to dismiss selection", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ApplyColor handles POST /texts/{id}/selection/apply
func (h *AnnotationHandler) ApplyColor(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req applyColorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, view, err := h.annotations.ApplyColor(user.ID, id, color)
	if err != nil {
		h.fail(w, "Failed to apply highlight", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusCreated, applyColorResponse{Highlight: created, View: view})
}

// ClearSelection handles POST /texts/{id}/selection/clear
func (h *AnnotationHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	removed, view, err := h.annotations.ClearSelection(user.ID, id)
	if err != nil {
		h.fail(w, "Failed to clear highlights", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Removed: removed, View: view})
}

// ListHighlights handles GET /texts/{id}/highlights
func (h *AnnotationHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	highlights, err := h.annotations.ListHighlights(user.ID, id)
	if err != nil {
		h.fail(w, "Failed to list highlights", err, user.ID, id)
		return
	}
	if highlights == nil {
		highlights = make([]domain.Highlight, 0)
	}
	writeJSON(w, http.StatusOK, highlights)
}

// AddHighlight handles POST /texts/{id}/highlights
func (h *AnnotationHandler) AddHighlight(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req highlightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.annotations.AddHighlight(user.ID, id, domain.Range{Start: *req.Start, End: *req.End}, color)
	if err != nil {
		h.fail(w, "Failed to add highlight", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RemoveHighlights handles DELETE /texts/{id}/highlights?start=&end=
func (h *AnnotationHandler) RemoveHighlights(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	q := r.URL.Query()
	start, errStart := strconv.Atoi(q.Get("start"))
	end, errEnd := strconv.Atoi(q.Get("end"))
	if errStart != nil || errEnd != nil {
		writeError(w, http.StatusBadRequest, "start and end query parameters must be integers")
		return
	}

	removed, err := h.annotations.RemoveOverlapping(user.ID, id, domain.Range{Start: start, End: end})
	if err != nil {
		h.fail(w, "Failed to remove highlights", err, user.ID, id)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Removed: removed})
}

func (h *AnnotationHandler) fail(w http.ResponseWriter, msg string, err error, userID, workspaceID string) {
	status, clientMsg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, err, "user_id", userID, "workspace_id", workspaceID)
	} else {
		h.logger.Debug(msg, "user_id", userID, "workspace_id", workspaceID, "reason", err.Error())
	}
	writeError(w, status, clientMsg)
}
