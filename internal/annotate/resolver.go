package annotate

import (
	"unicode/utf8"

	"scholar-lens/internal/domain"
)

// toolbarLift is how far above the selection the toolbar is placed.
const toolbarLift = 40

// ResolveSelection maps a host selection onto text offsets using the offset
// map of the rendering it was made on. Failures wrap
// domain.ErrUnresolvableSelection or domain.ErrDegenerateRange; callers treat
// both as "nothing selected".
func ResolveSelection(text string, offsets OffsetMap, native domain.NativeSelection) (domain.Selection, error) {
	if native.Empty || native.Anchor == nil || native.Focus == nil {
		return domain.Selection{}, domain.ErrUnresolvableSelection
	}

	anchor, ok := offsets.Resolve(*native.Anchor)
	if !ok {
		return domain.Selection{}, domain.ErrUnresolvableSelection
	}
	focus, ok := offsets.Resolve(*native.Focus)
	if !ok {
		return domain.Selection{}, domain.ErrUnresolvableSelection
	}

	start, end := min(anchor, focus), max(anchor, focus)
	if start == end {
		return domain.Selection{}, domain.ErrDegenerateRange
	}
	if end > utf8.RuneCountInString(text) {
		return domain.Selection{}, domain.ErrUnresolvableSelection
	}

	return domain.Selection{
		Start: start,
		End:   end,
		Anchor: domain.Point{
			X: native.Bounds.Left + native.Bounds.Width/2,
			Y: native.Bounds.Top - toolbarLift,
		},
		Text: sliceChars(text, start, end),
	}, nil
}
