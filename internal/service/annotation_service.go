package service

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"scholar-lens/internal/annotate"
	"scholar-lens/internal/domain"
)

// workspace is the session state for one annotated text. Every operation on it
// runs to completion under mu.
type workspace struct {
	mu        sync.Mutex
	id        string
	ownerID   string
	toolbar   *annotate.Toolbar
	touchedAt time.Time
}

var _ domain.AnnotationService = (*AnnotationService)(nil)

// AnnotationService keeps session-only highlight workspaces in memory.
type AnnotationService struct {
	logger        domain.Logger
	maxTextLength int
	ttl           time.Duration
	now           func() time.Time
	newID         func() string

	mu         sync.RWMutex
	workspaces map[string]*workspace
}

// AnnotationOption customizes an AnnotationService.
type AnnotationOption func(*AnnotationService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AnnotationOption {
	return func(s *AnnotationService) { s.now = now }
}

// WithWorkspaceIDs replaces the uuid workspace id generator, for tests.
func WithWorkspaceIDs(gen func() string) AnnotationOption {
	return func(s *AnnotationService) { s.newID = gen }
}

func NewAnnotationService(logger domain.Logger, maxTextLength int, ttl time.Duration, opts ...AnnotationOption) *AnnotationService {
	s := &AnnotationService{
		logger:        logger,
		maxTextLength: maxTextLength,
		ttl:           ttl,
		now:           time.Now,
		newID:         uuid.NewString,
		workspaces:    make(map[string]*workspace),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenText starts a workspace for text owned by ownerID.
func (s *AnnotationService) OpenText(ownerID string, text string) (*domain.TextView, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}
	s.Sweep()

	ws := &workspace{
		id:        s.newID(),
		ownerID:   ownerID,
		toolbar:   annotate.NewToolbar(text, nil),
		touchedAt: s.now(),
	}

	s.mu.Lock()
	s.workspaces[ws.id] = ws
	s.mu.Unlock()

	s.logger.Info("Workspace opened", "workspace_id", ws.id, "user_id", ownerID, "text_length", utf8.RuneCountInString(text))
	return ws.view(), nil
}

func (s *AnnotationService) GetText(ownerID, workspaceID string) (*domain.TextView, error) {
	var view *domain.TextView
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		view = ws.view()
		return nil
	})
	return view, err
}

// ReplaceText swaps the text of a workspace and drops all of its highlights.
func (s *AnnotationService) ReplaceText(ownerID, workspaceID string, text string) (*domain.TextView, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}
	var view *domain.TextView
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		dropped := ws.toolbar.Store().Len()
		ws.toolbar.SetText(text)
		view = ws.view()
		s.logger.Info("Workspace text replaced", "workspace_id", workspaceID, "dropped_highlights", dropped)
		return nil
	})
	return view, err
}

func (s *AnnotationService) CloseText(ownerID, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	if ws.ownerID != ownerID {
		return domain.ErrAccessDenied
	}
	delete(s.workspaces, workspaceID)
	s.logger.Info("Workspace closed", "workspace_id", workspaceID, "user_id", ownerID)
	return nil
}

// ChangeSelection feeds a host selection change into the toolbar. Selections
// that cannot be resolved simply leave the toolbar idle.
func (s *AnnotationService) ChangeSelection(ownerID, workspaceID string, sel domain.NativeSelection) (*domain.TextView, error) {
	var view *domain.TextView
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		ws.toolbar.OnSelectionChange(sel)
		view = ws.view()
		return nil
	})
	return view, err
}

func (s *AnnotationService) DismissSelection(ownerID, workspaceID string) (*domain.TextView, error) {
	var view *domain.TextView
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		ws.toolbar.Dismiss()
		view = ws.view()
		return nil
	})
	return view, err
}

// ApplyColor highlights the pending selection.
func (s *AnnotationService) ApplyColor(ownerID, workspaceID string, color domain.Color) (*domain.Highlight, *domain.TextView, error) {
	var (
		created domain.Highlight
		view    *domain.TextView
	)
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		h, err := ws.toolbar.ApplyColor(color)
		if err != nil {
			return err
		}
		created = h
		view = ws.view()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("Highlight applied", "workspace_id", workspaceID, "highlight_id", created.ID, "color", string(color))
	return &created, view, nil
}

// ClearSelection removes every highlight touching the pending selection.
func (s *AnnotationService) ClearSelection(ownerID, workspaceID string) (int, *domain.TextView, error) {
	var (
		removed int
		view    *domain.TextView
	)
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		n, err := ws.toolbar.Clear()
		if err != nil {
			return err
		}
		removed = n
		view = ws.view()
		return nil
	})
	return removed, view, err
}

func (s *AnnotationService) ListHighlights(ownerID, workspaceID string) ([]domain.Highlight, error) {
	var out []domain.Highlight
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		out = ws.toolbar.Store().Highlights()
		return nil
	})
	return out, err
}

func (s *AnnotationService) AddHighlight(ownerID, workspaceID string, r domain.Range, color domain.Color) (*domain.Highlight, error) {
	var created domain.Highlight
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		h, err := ws.toolbar.AddHighlight(r, color)
		if err != nil {
			return err
		}
		created = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *AnnotationService) RemoveOverlapping(ownerID, workspaceID string, r domain.Range) (int, error) {
	var removed int
	err := s.with(ownerID, workspaceID, func(ws *workspace) error {
		n, err := ws.toolbar.RemoveOverlapping(r)
		removed = n
		return err
	})
	return removed, err
}

// Sweep drops workspaces untouched for longer than the configured TTL and
// returns how many were dropped.
func (s *AnnotationService) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, ws := range s.workspaces {
		ws.mu.Lock()
		expired := ws.touchedAt.Before(cutoff)
		ws.mu.Unlock()
		if expired {
			delete(s.workspaces, id)
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Info("Expired workspaces dropped", "count", dropped)
	}
	return dropped
}

// Len returns the number of live workspaces.
func (s *AnnotationService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

func (s *AnnotationService) with(ownerID, workspaceID string, fn func(ws *workspace) error) error {
	s.mu.RLock()
	ws, ok := s.workspaces[workspaceID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	if ws.ownerID != ownerID {
		return domain.ErrAccessDenied
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if s.ttl > 0 && ws.touchedAt.Before(s.now().Add(-s.ttl)) {
		return domain.ErrWorkspaceNotFound
	}
	ws.touchedAt = s.now()
	return fn(ws)
}

func (s *AnnotationService) validateText(text string) error {
	if text == "" {
		return &domain.ValidationError{Field: "text", Message: "is required"}
	}
	if !utf8.ValidString(text) {
		return &domain.ValidationError{Field: "text", Message: "must be valid UTF-8"}
	}
	if s.maxTextLength > 0 && utf8.RuneCountInString(text) > s.maxTextLength {
		return &domain.ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("exceeds %d characters", s.maxTextLength),
		}
	}
	return nil
}

func (ws *workspace) view() *domain.TextView {
	v := ws.toolbar.View()
	return &domain.TextView{
		WorkspaceID: ws.id,
		Text:        ws.toolbar.Text(),
		Segments:    v.Segments,
		Highlights:  ws.toolbar.Store().Highlights(),
		Toolbar:     ws.toolbar.State(),
		UpdatedAt:   ws.touchedAt,
	}
}
