package annotate

import (
	"slices"
	"unicode/utf8"

	"scholar-lens/internal/domain"
)

// Segments splits text into disjoint, gap-free segments at every highlight
// boundary. Each segment takes the color of the most recently inserted
// highlight that covers it entirely, or none. Offsets count characters, so a
// segment never splits a multi-byte sequence.
func Segments(text string, highlights []domain.Highlight) []domain.Segment {
	idx := charOffsets(text)
	n := len(idx) - 1
	if n == 0 {
		return []domain.Segment{}
	}

	points := make([]int, 0, 2*len(highlights)+2)
	points = append(points, 0, n)
	for _, h := range highlights {
		points = append(points, clamp(h.Start, n), clamp(h.End, n))
	}
	slices.Sort(points)
	points = slices.Compact(points)

	segments := make([]domain.Segment, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		start, end := points[i], points[i+1]
		seg := domain.Segment{
			Start: start,
			End:   end,
			Text:  text[idx[start]:idx[end]],
		}
		for j := len(highlights) - 1; j >= 0; j-- {
			h := highlights[j]
			if h.Start <= start && h.End >= end {
				c := h.Color
				seg.Color = &c
				break
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// ColorAt returns the active color of the segment containing offset.
func ColorAt(segments []domain.Segment, offset int) (domain.Color, bool) {
	i, found := slices.BinarySearchFunc(segments, offset, func(s domain.Segment, off int) int {
		switch {
		case s.End <= off:
			return -1
		case s.Start > off:
			return 1
		}
		return 0
	})
	if !found || segments[i].Color == nil {
		return "", false
	}
	return *segments[i].Color, true
}

// OffsetMap records where each rendered segment starts in the source text, so
// a position reported against the rendered output can be mapped back.
type OffsetMap struct {
	starts []int
	ends   []int
}

// View is one rendering of a text: the segments to display plus the lookup
// needed to resolve selections made on them.
type View struct {
	Segments []domain.Segment
	Offsets  OffsetMap
}

// Render derives the display segments for text and highlights together with
// their offset map.
func Render(text string, highlights []domain.Highlight) View {
	segments := Segments(text, highlights)
	m := OffsetMap{
		starts: make([]int, len(segments)),
		ends:   make([]int, len(segments)),
	}
	for i, s := range segments {
		m.starts[i] = s.Start
		m.ends[i] = s.End
	}
	return View{Segments: segments, Offsets: m}
}

// Len returns the number of segments in the map.
func (m OffsetMap) Len() int {
	return len(m.starts)
}

// Resolve converts a position inside a rendered segment into an absolute
// offset into the source text.
func (m OffsetMap) Resolve(p domain.SegmentPoint) (int, bool) {
	if p.Segment < 0 || p.Segment >= len(m.starts) {
		return 0, false
	}
	start := m.starts[p.Segment]
	if p.Offset < 0 || start+p.Offset > m.ends[p.Segment] {
		return 0, false
	}
	return start + p.Offset, true
}

// charOffsets returns the byte index of every character of text followed by
// len(text), so character i spans text[idx[i]:idx[i+1]].
func charOffsets(text string) []int {
	idx := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		idx = append(idx, i)
	}
	return append(idx, len(text))
}

// sliceChars returns the characters [start, end) of text.
func sliceChars(text string, start, end int) string {
	idx := charOffsets(text)
	n := len(idx) - 1
	return text[idx[clamp(start, n)]:idx[clamp(end, n)]]
}

func clamp(v, n int) int {
	return max(0, min(v, n))
}
