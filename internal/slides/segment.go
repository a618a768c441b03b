package slides

import (
	"strings"
)

const (
	// HorizontalSeparator splits a document into top-level positions.
	HorizontalSeparator = "---\n"
	// VerticalSeparator splits a position into a vertical stack.
	VerticalSeparator = "--\n"
)

// Segment splits stripped document text into an Outline.
//
// Horizontal sections are split first, so a vertical separator never spans
// a horizontal boundary. Sections that are blank after trimming are dropped;
// pieces of a vertical stack are trimmed but kept even when empty.
func Segment(text string) Outline {
	sections := strings.Split(text, HorizontalSeparator)

	outline := Outline{}
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		outline = append(outline, segmentSection(section))
	}
	return outline
}

// segmentSection turns one horizontal section into a SlideGroup.
func segmentSection(section string) SlideGroup {
	if !strings.Contains(section, VerticalSeparator) {
		return SlideGroup{Slide(strings.TrimSpace(section))}
	}

	pieces := strings.Split(section, VerticalSeparator)
	group := make(SlideGroup, 0, len(pieces))
	for _, p := range pieces {
		group = append(group, Slide(strings.TrimSpace(p)))
	}
	return group
}
