package domain

import "fmt"

// Color is one of the fixed highlight colors offered by the selection toolbar.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
)

// Colors lists the palette in toolbar order.
var Colors = []Color{ColorYellow, ColorGreen, ColorBlue, ColorPink}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor converts a client supplied color id into a Color.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", &ValidationError{Field: "color", Message: fmt.Sprintf("unknown color %q", s)}
	}
	return c, nil
}

// Range is a half-open [Start, End) interval of character offsets into a text.
// A character is one Unicode code point, not one byte.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the range is non-empty and lies within a text of textLen characters.
func (r Range) Valid(textLen int) bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= textLen
}

// Overlaps reports whether r and o share at least one offset.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && r.End > o.Start
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Highlight is a colored interval over a text.
type Highlight struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color Color  `json:"color"`
}

// Range returns the interval covered by the highlight.
func (h Highlight) Range() Range {
	return Range{Start: h.Start, End: h.End}
}

// Point is a position in the host's coordinate space, used to place the toolbar.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Selection is a pending, not yet committed, text selection.
type Selection struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Anchor Point  `json:"anchor"`
	Text   string `json:"text"`
}

// Range returns the interval covered by the selection.
func (s Selection) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// Segment is a derived, disjoint slice of a text with at most one active color.
type Segment struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Color *Color `json:"color"`
}

// SegmentPoint addresses a position inside a rendered segment, the way a host
// reports one end of a native selection.
type SegmentPoint struct {
	Segment int `json:"segment"`
	Offset  int `json:"offset"`
}

// NativeSelection is what the host reports on every selection change.
// Collapsed selections, or ones with no range at all, carry Empty=true.
type NativeSelection struct {
	Empty  bool          `json:"empty"`
	Anchor *SegmentPoint `json:"anchor,omitempty"`
	Focus  *SegmentPoint `json:"focus,omitempty"`
	// Bounds is the bounding box of the selection relative to the text container.
	Bounds Rect `json:"bounds"`
}

// Rect is an axis aligned box in host coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
