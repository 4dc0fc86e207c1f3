package domain

import "time"

// ToolbarState is what the host needs to draw the floating selection toolbar.
type ToolbarState struct {
	Visible   bool       `json:"visible"`
	Position  Point      `json:"position"`
	Colors    []Color    `json:"colors"`
	CanRemove bool       `json:"can_remove"`
	Selection *Selection `json:"selection,omitempty"`
}

// TextView is the rendered state of one annotated text.
type TextView struct {
	WorkspaceID string       `json:"id"`
	Text        string       `json:"text"`
	Segments    []Segment    `json:"segments"`
	Highlights  []Highlight  `json:"highlights"`
	Toolbar     ToolbarState `json:"toolbar"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// AnnotationService manages the session-scoped annotation workspaces.
type AnnotationService interface {
	OpenText(ownerID string, text string) (*TextView, error)
	GetText(ownerID, workspaceID string) (*TextView, error)
	ReplaceText(ownerID, workspaceID string, text string) (*TextView, error)
	CloseText(ownerID, workspaceID string) error

	ChangeSelection(ownerID, workspaceID string, sel NativeSelection) (*TextView, error)
	DismissSelection(ownerID, workspaceID string) (*TextView, error)
	ApplyColor(ownerID, workspaceID string, color Color) (*Highlight, *TextView, error)
	ClearSelection(ownerID, workspaceID string) (int, *TextView, error)

	ListHighlights(ownerID, workspaceID string) ([]Highlight, error)
	AddHighlight(ownerID, workspaceID string, r Range, color Color) (*Highlight, error)
	RemoveOverlapping(ownerID, workspaceID string, r Range) (int, error)

	Sweep() int
}
