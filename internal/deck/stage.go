package deck

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dgallion1/slidedeck/internal/slides"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Stage is the HTML document a presentation is rendered into. It holds the
// welcome placeholder, the slides container, the error panel, and the
// navigation fragment. All methods are safe for concurrent use.
type Stage struct {
	mu sync.RWMutex

	doc          *html.Node
	head         *html.Node
	body         *html.Node
	welcome      *html.Node
	slides       *html.Node
	errorBox     *html.Node
	errorDetails *html.Node

	fragment string
}

// NewStage builds an empty stage with the placeholder visible.
func NewStage(title string) *Stage {
	s := &Stage{}

	s.doc = &html.Node{Type: html.DocumentNode}
	s.doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	s.doc.AppendChild(root)

	s.head = element(atom.Head)
	s.head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	titleEl := element(atom.Title)
	titleEl.AppendChild(textNode(title))
	s.head.AppendChild(titleEl)
	s.head.AppendChild(element(atom.Link, "rel", "stylesheet", "href", "/assets/reveal/reveal.css"))
	root.AppendChild(s.head)

	s.body = element(atom.Body)
	root.AppendChild(s.body)

	s.welcome = element(atom.Div, "id", "welcome-screen", "style", "display: flex")
	heading := element(atom.H1)
	heading.AppendChild(textNode("Select a presentation"))
	s.welcome.AppendChild(heading)
	s.body.AppendChild(s.welcome)

	s.errorBox = element(atom.Div, "id", "error-container", "style", "display: none")
	s.errorDetails = element(atom.P, "class", "error-details")
	s.errorBox.AppendChild(s.errorDetails)
	s.body.AppendChild(s.errorBox)

	reveal := element(atom.Div, "class", "reveal")
	s.slides = element(atom.Div, "class", "slides", "id", "slides")
	reveal.AppendChild(s.slides)
	s.body.AppendChild(reveal)

	return s
}

// ClearSlides removes every populated section.
func (s *Stage) ClearSlides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeChildren(s.slides)
}

// AppendGroup materializes one SlideGroup. A vertical group becomes a parent
// section holding one markdown section per slide; a single slide becomes a
// bare markdown section.
func (s *Stage) AppendGroup(g slides.SlideGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !g.Vertical() {
		var text string
		if len(g) == 1 {
			text = string(g[0])
		}
		s.slides.AppendChild(markdownSection(text))
		return
	}

	parent := element(atom.Section)
	for _, sl := range g {
		parent.AppendChild(markdownSection(string(sl)))
	}
	s.slides.AppendChild(parent)
}

// SlideCount returns the number of top-level sections.
func (s *Stage) SlideCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for c := s.slides.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// Transform runs fn against the slides container while holding the write
// lock. Engines use it to rewrite populated sections in place.
func (s *Stage) Transform(fn func(container *html.Node) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.slides)
}

// ShowPlaceholder makes the welcome screen visible.
func (s *Stage) ShowPlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	setAttr(s.welcome, "style", "display: flex")
}

// HidePlaceholder hides the welcome screen.
func (s *Stage) HidePlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	setAttr(s.welcome, "style", "display: none")
}

// PlaceholderVisible reports whether the welcome screen is shown.
func (s *Stage) PlaceholderVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAttr(s.welcome, "style") != "display: none"
}

// ShowError displays msg in the error panel and clears the fragment.
func (s *Stage) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeChildren(s.errorDetails)
	s.errorDetails.AppendChild(textNode(msg))
	setAttr(s.errorBox, "style", "display: block")
	s.fragment = ""
}

// HideError hides the error panel. The last message is kept in the DOM.
func (s *Stage) HideError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	setAttr(s.errorBox, "style", "display: none")
}

// ErrorMessage returns the displayed error, if the panel is visible.
func (s *Stage) ErrorMessage() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if getAttr(s.errorBox, "style") != "display: block" {
		return "", false
	}
	return TextContent(s.errorDetails), true
}

// Fragment returns the navigation fragment, without the leading '#'.
func (s *Stage) Fragment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fragment
}

// SetFragment replaces the navigation fragment.
func (s *Stage) SetFragment(f string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragment = strings.TrimPrefix(f, "#")
}

// ClearFragment empties the navigation fragment.
func (s *Stage) ClearFragment() {
	s.SetFragment("")
}

// SetBodyClass replaces the body's class list. An empty class removes it.
func (s *Stage) SetBodyClass(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if class == "" {
		removeAttr(s.body, "class")
		return
	}
	setAttr(s.body, "class", class)
}

// BodyClass returns the body's class attribute.
func (s *Stage) BodyClass() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAttr(s.body, "class")
}

// SetThemeLink swaps the theme stylesheet. An empty href removes it.
func (s *Stage) SetThemeLink(href string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := s.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && getAttr(c, "id") == "reveal-theme" {
			s.head.RemoveChild(c)
			break
		}
	}
	if href == "" {
		return
	}
	s.head.AppendChild(element(atom.Link, "id", "reveal-theme", "rel", "stylesheet", "href", href))
}

// ThemeHref returns the active theme stylesheet, or "" when none is set.
func (s *Stage) ThemeHref() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := s.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && getAttr(c, "id") == "reveal-theme" {
			return getAttr(c, "href")
		}
	}
	return ""
}

// Render writes the whole document as HTML.
func (s *Stage) Render(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := html.Render(w, s.doc); err != nil {
		return fmt.Errorf("render stage: %w", err)
	}
	return nil
}

// SlidesHTML renders only the slides container's children.
func (s *Stage) SlidesHTML() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	for c := s.slides.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func markdownSection(text string) *html.Node {
	section := element(atom.Section, "data-markdown", "")
	textarea := element(atom.Textarea, "data-template", "")
	textarea.AppendChild(textNode(text))
	section.AppendChild(textarea)
	return section
}
