package engine

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const parsedAttr = "data-markdown-parsed"

// Markdown renders markdown-bearing sections to HTML with goldmark and
// tracks the current slide position.
type Markdown struct {
	md   goldmark.Markdown
	live atomic.Int64
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Live returns the number of handles that have not been destroyed.
func (e *Markdown) Live() int {
	return int(e.live.Load())
}

// Initialize converts every markdown section on the stage and returns a
// handle positioned at the first slide.
func (e *Markdown) Initialize(ctx context.Context, stage *deck.Stage, cfg Config) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	var layout []int
	err := stage.Transform(func(container *html.Node) error {
		h := 0
		for sec := container.FirstChild; sec != nil; sec = sec.NextSibling {
			if !isSection(sec) {
				continue
			}

			// A bare markdown section is one slide; anything else is a stack.
			if deck.HasAttr(sec, "data-markdown") {
				if cfg.EnableMarkdownPlugin {
					if err := e.convert(sec); err != nil {
						return fmt.Errorf("slide %d: %w", h, err)
					}
				}
				layout = append(layout, 1)
				h++
				continue
			}

			v := 0
			for child := sec.FirstChild; child != nil; child = child.NextSibling {
				if !isSection(child) {
					continue
				}
				if cfg.EnableMarkdownPlugin && deck.HasAttr(child, "data-markdown") {
					if err := e.convert(child); err != nil {
						return fmt.Errorf("slide %d/%d: %w", h, v, err)
					}
				}
				v++
			}
			layout = append(layout, v)
			h++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	e.live.Add(1)
	return &markdownHandle{
		engine: e,
		stage:  stage,
		cfg:    cfg,
		layout: layout,
	}, nil
}

// convert replaces a section's template textarea with rendered HTML.
func (e *Markdown) convert(sec *html.Node) error {
	if deck.HasAttr(sec, parsedAttr) {
		return nil
	}

	var tmpl *html.Node
	for c := sec.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Textarea && deck.HasAttr(c, "data-template") {
			tmpl = c
			break
		}
	}
	if tmpl == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(deck.TextContent(tmpl)), &buf); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	nodes, err := html.ParseFragment(&buf, &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Section,
		Data:     atom.Section.String(),
	})
	if err != nil {
		return fmt.Errorf("parse rendered markdown: %w", err)
	}

	sec.RemoveChild(tmpl)
	for _, n := range nodes {
		sec.AppendChild(n)
	}
	sec.Attr = append(sec.Attr, html.Attribute{Key: parsedAttr, Val: "true"})
	return nil
}

func isSection(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Section
}

type markdownHandle struct {
	mu        sync.Mutex
	engine    *Markdown
	stage     *deck.Stage
	cfg       Config
	layout    []int
	h, v      int
	destroyed bool
}

// GotoSlide moves to (h, v), clamped to the deck's layout.
func (m *markdownHandle) GotoSlide(h, v int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}

	h = clamp(h, len(m.layout))
	if len(m.layout) > 0 {
		v = clamp(v, m.layout[h])
	} else {
		v = 0
	}
	m.h, m.v = h, v

	if m.cfg.TrackNavigationHash {
		m.stage.SetFragment(fragmentFor(h, v))
	}
}

func (m *markdownHandle) Position() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.h, m.v
}

func (m *markdownHandle) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.engine.live.Add(-1)
}

// fragmentFor formats a position the way hash navigation expects it.
func fragmentFor(h, v int) string {
	if v == 0 {
		return "/" + strconv.Itoa(h)
	}
	return "/" + strconv.Itoa(h) + "/" + strconv.Itoa(v)
}

func clamp(i, n int) int {
	if i < 0 || n <= 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
