package slides

// Slide is a single content unit, handed to the renderer as-is.
type Slide string

// SlideGroup is the vertical stack of slides at one horizontal position.
// A group with one slide is laid out as a bare slide.
type SlideGroup []Slide

// Outline is the ordered list of horizontal positions in a deck.
type Outline []SlideGroup

// Vertical reports whether the group renders as a nested stack.
func (g SlideGroup) Vertical() bool {
	return len(g) > 1
}

// Len returns the total number of slides across all groups.
func (o Outline) Len() int {
	n := 0
	for _, g := range o {
		n += len(g)
	}
	return n
}
