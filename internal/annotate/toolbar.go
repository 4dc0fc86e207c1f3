package annotate

import (
	"fmt"
	"unicode/utf8"

	"scholar-lens/internal/domain"
)

// ToolbarMode is the state of the selection toolbar.
type ToolbarMode int

const (
	// Idle means there is no pending selection and the toolbar is hidden.
	Idle ToolbarMode = iota
	// Pending means a non-empty selection is waiting for an action.
	Pending
)

func (m ToolbarMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	default:
		return fmt.Sprintf("ToolbarMode(%d)", int(m))
	}
}

// SelectionClearer is provided by the host to drop its native selection once
// an action has been applied.
type SelectionClearer interface {
	ClearNativeSelection()
}

// SelectionClearerFunc adapts a function to SelectionClearer.
type SelectionClearerFunc func()

func (f SelectionClearerFunc) ClearNativeSelection() { f() }

// Toolbar is the interaction layer for one text: it owns the interval store,
// the current rendering and the pending selection.
type Toolbar struct {
	text    string
	store   *Store
	view    View
	mode    ToolbarMode
	pending domain.Selection
	host    SelectionClearer
}

// NewToolbar creates an idle toolbar over text. host may be nil.
func NewToolbar(text string, host SelectionClearer, opts ...StoreOption) *Toolbar {
	t := &Toolbar{
		text:  text,
		store: NewStore(utf8.RuneCountInString(text), opts...),
		host:  host,
	}
	t.rerender()
	return t
}

// Text returns the text being annotated.
func (t *Toolbar) Text() string {
	return t.text
}

// Mode returns the current toolbar state.
func (t *Toolbar) Mode() ToolbarMode {
	return t.mode
}

// Store exposes the interval store backing the toolbar.
func (t *Toolbar) Store() *Store {
	return t.store
}

// View returns the current rendering of the text.
func (t *Toolbar) View() View {
	return t.view
}

// SetText swaps the text. Offsets only make sense against the text they were
// computed from, so all highlights and the pending selection are dropped.
func (t *Toolbar) SetText(text string) {
	t.text = text
	t.store.Reset(utf8.RuneCountInString(text))
	t.toIdle()
	t.rerender()
}

// OnSelectionChange handles a selection change notification from the host.
// Every notification is resolved from scratch; anything that does not resolve
// to a non-empty range puts the toolbar back to Idle.
func (t *Toolbar) OnSelectionChange(native domain.NativeSelection) ToolbarMode {
	sel, err := ResolveSelection(t.text, t.view.Offsets, native)
	if err != nil {
		t.toIdle()
		return t.mode
	}
	t.pending = sel
	t.mode = Pending
	return t.mode
}

// ApplyColor highlights the pending selection with color.
func (t *Toolbar) ApplyColor(color domain.Color) (domain.Highlight, error) {
	if t.mode != Pending {
		return domain.Highlight{}, domain.ErrNoPendingSelection
	}
	// an unknown color leaves the selection pending so another can be picked
	if !color.Valid() {
		return domain.Highlight{}, fmt.Errorf("%w: color %q", domain.ErrInvalidOperationArgument, color)
	}
	h, err := t.store.Add(t.pending.Range(), color)
	t.finish()
	if err != nil {
		return domain.Highlight{}, err
	}
	return h, nil
}

// Clear removes every highlight touching the pending selection.
func (t *Toolbar) Clear() (int, error) {
	if t.mode != Pending {
		return 0, domain.ErrNoPendingSelection
	}
	n, err := t.store.RemoveOverlapping(t.pending.Range())
	t.finish()
	return n, err
}

// AddHighlight highlights r directly, bypassing the pending selection.
func (t *Toolbar) AddHighlight(r domain.Range, color domain.Color) (domain.Highlight, error) {
	h, err := t.store.Add(r, color)
	if err != nil {
		return domain.Highlight{}, err
	}
	t.rerender()
	return h, nil
}

// RemoveOverlapping clears every highlight touching r directly.
func (t *Toolbar) RemoveOverlapping(r domain.Range) (int, error) {
	n, err := t.store.RemoveOverlapping(r)
	if err != nil {
		return 0, err
	}
	t.rerender()
	return n, nil
}

// Dismiss drops the pending selection without touching highlights.
func (t *Toolbar) Dismiss() {
	t.toIdle()
}

// State describes the toolbar for the host to draw.
func (t *Toolbar) State() domain.ToolbarState {
	if t.mode != Pending {
		return domain.ToolbarState{Colors: domain.Colors}
	}
	sel := t.pending
	return domain.ToolbarState{
		Visible:   true,
		Position:  sel.Anchor,
		Colors:    domain.Colors,
		CanRemove: t.store.HasOverlap(sel.Range()),
		Selection: &sel,
	}
}

func (t *Toolbar) finish() {
	t.toIdle()
	t.rerender()
	if t.host != nil {
		t.host.ClearNativeSelection()
	}
}

func (t *Toolbar) toIdle() {
	t.mode = Idle
	t.pending = domain.Selection{}
}

func (t *Toolbar) rerender() {
	t.view = Render(t.text, t.store.Highlights())
}
