package slides

import "strings"

// Summary describes the shape of an Outline for logs and status output.
type Summary struct {
	Groups   int   `json:"groups"`
	Slides   int   `json:"slides"`
	Words    int   `json:"words"`
	PerGroup []int `json:"per_group"`
}

// Summarize counts groups, slides, and words in an Outline.
func Summarize(o Outline) Summary {
	s := Summary{
		Groups:   len(o),
		PerGroup: make([]int, 0, len(o)),
	}
	for _, g := range o {
		s.Slides += len(g)
		s.PerGroup = append(s.PerGroup, len(g))
		for _, sl := range g {
			s.Words += CountWords(string(sl))
		}
	}
	return s
}

// CountWords gives a whitespace-delimited word count.
func CountWords(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}
