package annotate

import (
	"fmt"

	"scholar-lens/internal/domain"
)

// seqIDs returns a generator producing h1, h2, ...
func seqIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func rng(start, end int) domain.Range {
	return domain.Range{Start: start, End: end}
}

func colorPtr(c domain.Color) *domain.Color {
	return &c
}

func point(segment, offset int) *domain.SegmentPoint {
	return &domain.SegmentPoint{Segment: segment, Offset: offset}
}
