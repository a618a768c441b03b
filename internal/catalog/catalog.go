// Package catalog enumerates the presentations available on disk and reads
// their display metadata.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/slidedeck/internal/frontmatter"
)

// URLPrefix is the path under which presentation files are served.
const URLPrefix = "/presentations/"

// Metadata is the display metadata of a presentation.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
	Author      string `json:"author"`
	Date        string `json:"date"`
}

// Presentation is one listing entry.
type Presentation struct {
	Filename string   `json:"filename"`
	Path     string   `json:"path"`
	Metadata Metadata `json:"metadata"`
}

// Scan lists every .md file directly under dir, sorted by filename.
func Scan(dir string) ([]Presentation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read presentations dir: %w", err)
	}

	out := []Presentation{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		out = append(out, Describe(e.Name(), string(data)))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Describe builds the listing entry for a file's content, applying defaults
// for missing metadata.
func Describe(filename, content string) Presentation {
	var fields map[string]string
	if block, _, ok := frontmatter.Split(content); ok {
		fields = frontmatter.ParseFields(block)
	}

	return Presentation{
		Filename: filename,
		Path:     URLPrefix + filename,
		Metadata: Metadata{
			Title:       orDefault(fields["title"], strings.TrimSuffix(filename, ".md")),
			Description: fields["description"],
			Theme:       orDefault(fields["theme"], "default"),
			Author:      fields["author"],
			Date:        fields["date"],
		},
	}
}

// Resolve maps a served path back to a file under dir. It reports false for
// anything that is not a plain .md file name.
func Resolve(dir, name string) (string, bool) {
	name = strings.TrimPrefix(name, URLPrefix)
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", false
	}
	if filepath.Ext(name) != ".md" {
		return "", false
	}
	return filepath.Join(dir, name), true
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
