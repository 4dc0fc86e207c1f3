// Package annotate holds the highlight interval model: the store that owns a
// text's highlights, the renderer that derives display segments from them, the
// resolver that maps host selections back to offsets, and the toolbar state
// machine tying them together. Nothing in here performs I/O.
package annotate

import (
	"fmt"

	"github.com/google/uuid"

	"scholar-lens/internal/domain"
)

// IDGenerator returns a fresh, unique highlight id.
type IDGenerator func() string

// Store owns the highlights of one text, in insertion order.
type Store struct {
	textLen    int
	highlights []domain.Highlight
	newID      IDGenerator
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithIDGenerator replaces the default uuid based id generator.
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewStore creates an empty store for a text of textLen characters.
func NewStore(textLen int, opts ...StoreOption) *Store {
	s := &Store{
		textLen: textLen,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts a highlight over r. Existing highlights fully contained in r are
// replaced; partially overlapping ones are kept underneath the new one.
func (s *Store) Add(r domain.Range, color domain.Color) (domain.Highlight, error) {
	if err := s.check(r); err != nil {
		return domain.Highlight{}, err
	}
	if !color.Valid() {
		return domain.Highlight{}, fmt.Errorf("%w: color %q", domain.ErrInvalidOperationArgument, color)
	}

	s.drop(func(h domain.Highlight) bool { return r.Contains(h.Range()) })

	h := domain.Highlight{
		ID:    s.newID(),
		Start: r.Start,
		End:   r.End,
		Color: color,
	}
	s.highlights = append(s.highlights, h)
	return h, nil
}

// RemoveOverlapping deletes every highlight intersecting r and reports how many
// were removed.
func (s *Store) RemoveOverlapping(r domain.Range) (int, error) {
	if err := s.check(r); err != nil {
		return 0, err
	}

	return s.drop(func(h domain.Highlight) bool { return r.Overlaps(h.Range()) }), nil
}

// HasOverlap reports whether any stored highlight intersects r.
func (s *Store) HasOverlap(r domain.Range) bool {
	for _, h := range s.highlights {
		if r.Overlaps(h.Range()) {
			return true
		}
	}
	return false
}

// Highlights returns a copy of the stored highlights, oldest first.
func (s *Store) Highlights() []domain.Highlight {
	out := make([]domain.Highlight, len(s.highlights))
	copy(out, s.highlights)
	return out
}

// Len returns the number of stored highlights.
func (s *Store) Len() int {
	return len(s.highlights)
}

// TextLen returns the length of the text the store was built for.
func (s *Store) TextLen() int {
	return s.textLen
}

// Reset drops every highlight and rebinds the store to a text of textLen characters.
func (s *Store) Reset(textLen int) {
	s.textLen = textLen
	s.highlights = nil
}

// drop filters the highlights in place, preserving order, and returns how many
// were removed.
func (s *Store) drop(match func(domain.Highlight) bool) int {
	kept := s.highlights[:0]
	for _, h := range s.highlights {
		if !match(h) {
			kept = append(kept, h)
		}
	}
	removed := len(s.highlights) - len(kept)
	clear(s.highlights[len(kept):])
	s.highlights = kept
	return removed
}

func (s *Store) check(r domain.Range) error {
	if !r.Valid(s.textLen) {
		return fmt.Errorf("%w: %s for text of length %d", domain.ErrInvalidOperationArgument, r, s.textLen)
	}
	return nil
}
