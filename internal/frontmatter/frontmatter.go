// Package frontmatter removes and reads the metadata block that may open a
// presentation document.
//
// A block is a delimiter line, zero or more lines, and a second delimiter
// line, all at the very start of the text. A delimiter line is "---"
// followed only by spaces or tabs and terminated by a newline.
package frontmatter

import (
	"regexp"
	"strings"
)

const delimiter = "---"

// fieldPattern matches `key: "value"` lines. Only double-quoted scalars are
// recognized.
var fieldPattern = regexp.MustCompile(`^(\w+):\s*"([^"]*)"$`)

// Split separates one leading metadata block from the rest of the text.
// block holds the lines between the delimiters (without a trailing newline).
// When no block opens the text, ok is false and body equals text.
func Split(text string) (block, body string, ok bool) {
	first, rest, found := cutLine(text)
	if !found || !isDelimiter(first) {
		return "", text, false
	}

	var lines []string
	for {
		line, next, found := cutLine(rest)
		if !found {
			// Unterminated block: treat the text as having no metadata.
			return "", text, false
		}
		if isDelimiter(line) {
			return strings.Join(lines, "\n"), next, true
		}
		lines = append(lines, line)
		rest = next
	}
}

// Strip removes leading metadata from text. Any block that directly follows
// a removed block is removed as well, so Strip(Strip(x)) == Strip(x).
//
// A slide separator placed right after the metadata opens such a block:
// the first slide up to the next separator is dropped along with the
// metadata. This is intentional; put content before the first separator to
// keep it.
func Strip(text string) string {
	for {
		_, body, ok := Split(text)
		if !ok {
			return text
		}
		text = body
	}
}

// ParseFields extracts `key: "value"` pairs from a metadata block.
// Unrecognized lines are ignored; later keys overwrite earlier ones.
func ParseFields(block string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := fieldPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields[m[1]] = m[2]
	}
	return fields
}

// cutLine returns the first line of s without its newline. found is false
// when s holds no newline.
func cutLine(s string) (line, rest string, found bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return "", s, false
	}
	return strings.TrimSuffix(s[:i], "\r"), s[i+1:], true
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}
