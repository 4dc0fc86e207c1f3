package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"scholar-lens/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestAnnotationService(t *testing.T, maxLen int, ttl time.Duration) (*AnnotationService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	n := 0
	svc := NewAnnotationService(NewMockLogger(), maxLen, ttl,
		WithClock(clock.Now),
		WithWorkspaceIDs(func() string {
			n++
			return fmt.Sprintf("ws-%d", n)
		}),
	)
	return svc, clock
}

func sel(anchorSeg, anchorOff, focusSeg, focusOff int) domain.NativeSelection {
	return domain.NativeSelection{
		Anchor: &domain.SegmentPoint{Segment: anchorSeg, Offset: anchorOff},
		Focus:  &domain.SegmentPoint{Segment: focusSeg, Offset: focusOff},
	}
}

func TestAnnotationService_SelectionFlow(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)

	view, err := svc.OpenText("user1", "The quick brown fox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.WorkspaceID != "ws-1" {
		t.Fatalf("expected ws-1, got %s", view.WorkspaceID)
	}
	if len(view.Segments) != 1 {
		t.Fatalf("expected one segment, got %d", len(view.Segments))
	}

	view, err = svc.ChangeSelection("user1", "ws-1", sel(0, 4, 0, 9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Toolbar.Visible || view.Toolbar.Selection.Text != "quick" {
		t.Fatalf("expected pending selection of quick, got %+v", view.Toolbar)
	}

	h, view, err := svc.ApplyColor("user1", "ws-1", domain.ColorYellow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Start != 4 || h.End != 9 || h.Color != domain.ColorYellow {
		t.Fatalf("unexpected highlight: %+v", h)
	}
	if view.Toolbar.Visible {
		t.Fatalf("expected toolbar hidden after apply")
	}
	if len(view.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(view.Segments))
	}

	if _, err := svc.ChangeSelection("user1", "ws-1", sel(0, 0, 1, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, view, err = svc.ApplyColor("user1", "ws-1", domain.ColorGreen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Highlights) != 1 || view.Highlights[0].Color != domain.ColorGreen {
		t.Fatalf("expected yellow to be replaced by green, got %+v", view.Highlights)
	}
	if len(view.Segments) != 2 || view.Segments[0].Text != "The quick" {
		t.Fatalf("unexpected segments: %+v", view.Segments)
	}

	view, err = svc.ChangeSelection("user1", "ws-1", sel(0, 2, 0, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Toolbar.CanRemove {
		t.Fatalf("expected remove to be offered over an existing highlight")
	}
	removed, view, err := svc.ClearSelection("user1", "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 || len(view.Highlights) != 0 {
		t.Fatalf("expected the highlight to be cleared, removed=%d highlights=%v", removed, view.Highlights)
	}
}

func TestAnnotationService_UnresolvableSelectionIsIdle(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.ChangeSelection("user1", "ws-1", sel(0, 1, 4, 0))
	if err != nil {
		t.Fatalf("expected no error for unresolvable selection, got %v", err)
	}
	if view.Toolbar.Visible {
		t.Fatalf("expected toolbar hidden")
	}

	_, _, err = svc.ApplyColor("user1", "ws-1", domain.ColorPink)
	if !errors.Is(err, domain.ErrNoPendingSelection) {
		t.Fatalf("expected ErrNoPendingSelection, got %v", err)
	}
}

func TestAnnotationService_DirectRangeOperations(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "0123456789"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 0, End: 5}, domain.ColorYellow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 4, End: 10}, domain.ColorGreen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 6, End: 11}, domain.ColorGreen); !errors.Is(err, domain.ErrInvalidOperationArgument) {
		t.Fatalf("expected ErrInvalidOperationArgument, got %v", err)
	}

	view, err := svc.GetText("user1", "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Segments) != 3 {
		t.Fatalf("expected render to reflect direct edits, got %d segments", len(view.Segments))
	}

	removed, err := svc.RemoveOverlapping("user1", "ws-1", domain.Range{Start: 3, End: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	hs, err := svc.ListHighlights("user1", "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hs) != 0 {
		t.Fatalf("expected no highlights, got %v", hs)
	}
}

func TestAnnotationService_ReplaceTextResetsHighlights(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "first text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 0, End: 5}, domain.ColorBlue); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.ReplaceText("user1", "ws-1", "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Text != "second" || len(view.Highlights) != 0 {
		t.Fatalf("expected fresh text without highlights, got %+v", view)
	}
}

func TestAnnotationService_Validation(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 8, 0)

	var vErr *domain.ValidationError
	if _, err := svc.OpenText("user1", ""); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for empty text, got %v", err)
	}
	if _, err := svc.OpenText("user1", "way too long"); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for long text, got %v", err)
	}
	if _, err := svc.OpenText("user1", "fits"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnnotationService_LengthLimitCountsCharacters(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 8, 0)

	// 8 characters, 9 bytes.
	if _, err := svc.OpenText("user1", "Gödel's!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var vErr *domain.ValidationError
	_, err := svc.OpenText("user1", "Gödel's!?")
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for long text, got %v", err)
	}
	if vErr.Message != "exceeds 8 characters" {
		t.Fatalf("unexpected message %q", vErr.Message)
	}

	if _, err := svc.OpenText("user1", "ab\xffcd"); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for invalid UTF-8, got %v", err)
	}
}

func TestAnnotationService_NonASCIIHighlight(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "Müller lab"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 0, End: 2}, domain.ColorYellow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddHighlight("user1", "ws-1", domain.Range{Start: 8, End: 11}, domain.ColorYellow); !errors.Is(err, domain.ErrInvalidOperationArgument) {
		t.Fatalf("expected range past the last character to be rejected, got %v", err)
	}

	view, err := svc.GetText("user1", "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Segments) != 2 || view.Segments[0].Text != "Mü" || view.Segments[1].Text != "ller lab" {
		t.Fatalf("unexpected segments %+v", view.Segments)
	}
}

func TestAnnotationService_Ownership(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "private notes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetText("user2", "ws-1"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := svc.CloseText("user2", "ws-1"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.GetText("user1", "missing"); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("expected ErrWorkspaceNotFound, got %v", err)
	}

	if err := svc.CloseText("user1", "ws-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetText("user1", "ws-1"); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("expected closed workspace to be gone, got %v", err)
	}
}

func TestAnnotationService_Expiry(t *testing.T) {
	svc, clock := newTestAnnotationService(t, 0, time.Hour)
	if _, err := svc.OpenText("user1", "old"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(30 * time.Minute)
	if _, err := svc.OpenText("user1", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(45 * time.Minute)
	if _, err := svc.GetText("user1", "ws-1"); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("expected ws-1 to have expired, got %v", err)
	}
	if _, err := svc.GetText("user1", "ws-2"); err != nil {
		t.Fatalf("expected ws-2 to be alive, got %v", err)
	}

	if dropped := svc.Sweep(); dropped != 1 {
		t.Fatalf("expected sweep to drop 1 workspace, got %d", dropped)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 live workspace, got %d", svc.Len())
	}
}

func TestAnnotationService_ConcurrentEdits(t *testing.T) {
	svc, _ := newTestAnnotationService(t, 0, 0)
	if _, err := svc.OpenText("user1", "0123456789abcdefghij0123456789abcdefghij"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := domain.Range{Start: i, End: i + 1}
			if _, err := svc.AddHighlight("user1", "ws-1", r, domain.ColorBlue); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	hs, err := svc.ListHighlights("user1", "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hs) != 40 {
		t.Fatalf("expected 40 highlights, got %d", len(hs))
	}
}
