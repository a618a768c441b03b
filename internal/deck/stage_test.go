package deck

import (
	"strings"
	"testing"

	"github.com/dgallion1/slidedeck/internal/slides"
)

func TestStage_InitialState(t *testing.T) {
	s := NewStage("Slides")

	if !s.PlaceholderVisible() {
		t.Error("expected placeholder to be visible on a new stage")
	}
	if s.SlideCount() != 0 {
		t.Errorf("expected 0 sections, got %d", s.SlideCount())
	}
	if _, shown := s.ErrorMessage(); shown {
		t.Error("expected error panel to be hidden")
	}
	if s.ThemeHref() != "" {
		t.Errorf("expected no theme link, got %q", s.ThemeHref())
	}
}

func TestStage_AppendGroup(t *testing.T) {
	s := NewStage("Slides")
	s.AppendGroup(slides.SlideGroup{"Intro"})
	s.AppendGroup(slides.SlideGroup{"Deep", "Dive"})

	if s.SlideCount() != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", s.SlideCount())
	}

	got := s.SlidesHTML()
	want := `<section data-markdown=""><textarea data-template="">Intro</textarea></section>` +
		`<section>` +
		`<section data-markdown=""><textarea data-template="">Deep</textarea></section>` +
		`<section data-markdown=""><textarea data-template="">Dive</textarea></section>` +
		`</section>`
	if got != want {
		t.Errorf("unexpected markup:\n got: %s\nwant: %s", got, want)
	}
}

func TestStage_AppendGroupEscapesText(t *testing.T) {
	s := NewStage("Slides")
	s.AppendGroup(slides.SlideGroup{"<script>alert(1)</script>"})

	got := s.SlidesHTML()
	if strings.Contains(got, "<script>") {
		t.Errorf("expected slide text to be escaped, got %s", got)
	}
}

func TestStage_ClearSlides(t *testing.T) {
	s := NewStage("Slides")
	s.AppendGroup(slides.SlideGroup{"a"})
	s.AppendGroup(slides.SlideGroup{"b", "c"})
	s.ClearSlides()

	if s.SlideCount() != 0 {
		t.Errorf("expected 0 sections after clear, got %d", s.SlideCount())
	}
	if s.SlidesHTML() != "" {
		t.Errorf("expected empty markup, got %q", s.SlidesHTML())
	}
}

func TestStage_Placeholder(t *testing.T) {
	s := NewStage("Slides")
	s.HidePlaceholder()
	if s.PlaceholderVisible() {
		t.Error("expected placeholder hidden")
	}
	s.ShowPlaceholder()
	if !s.PlaceholderVisible() {
		t.Error("expected placeholder visible")
	}
}

func TestStage_ErrorPanel(t *testing.T) {
	s := NewStage("Slides")
	s.SetFragment("#/2/1")

	s.ShowError("fetch failed: status 404")
	msg, shown := s.ErrorMessage()
	if !shown {
		t.Fatal("expected error panel visible")
	}
	if msg != "fetch failed: status 404" {
		t.Errorf("expected message %q, got %q", "fetch failed: status 404", msg)
	}
	if s.Fragment() != "" {
		t.Errorf("expected fragment cleared by ShowError, got %q", s.Fragment())
	}

	s.ShowError("second")
	if msg, _ := s.ErrorMessage(); msg != "second" {
		t.Errorf("expected message replaced, got %q", msg)
	}

	s.HideError()
	if _, shown := s.ErrorMessage(); shown {
		t.Error("expected error panel hidden")
	}
}

func TestStage_Fragment(t *testing.T) {
	s := NewStage("Slides")
	s.SetFragment("#/1/0")
	if s.Fragment() != "/1/0" {
		t.Errorf("expected %q, got %q", "/1/0", s.Fragment())
	}
	s.ClearFragment()
	if s.Fragment() != "" {
		t.Errorf("expected empty fragment, got %q", s.Fragment())
	}
}

func TestStage_ThemeAndBodyClass(t *testing.T) {
	s := NewStage("Slides")

	s.SetThemeLink("/assets/reveal/theme/moon.css")
	s.SetThemeLink("/assets/reveal/theme/sky.css")
	if s.ThemeHref() != "/assets/reveal/theme/sky.css" {
		t.Errorf("expected sky theme, got %q", s.ThemeHref())
	}

	var b strings.Builder
	if err := s.Render(&b); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := strings.Count(b.String(), `id="reveal-theme"`); n != 1 {
		t.Errorf("expected exactly one theme link, found %d", n)
	}

	s.SetThemeLink("")
	if s.ThemeHref() != "" {
		t.Errorf("expected theme link removed, got %q", s.ThemeHref())
	}

	s.SetBodyClass("theme-moon")
	if s.BodyClass() != "theme-moon" {
		t.Errorf("expected body class theme-moon, got %q", s.BodyClass())
	}
	s.SetBodyClass("")
	if s.BodyClass() != "" {
		t.Errorf("expected body class cleared, got %q", s.BodyClass())
	}
}

func TestStage_Render(t *testing.T) {
	s := NewStage("My Deck")
	s.AppendGroup(slides.SlideGroup{"# Hello"})

	var b strings.Builder
	if err := s.Render(&b); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My Deck</title>",
		`id="welcome-screen"`,
		`id="error-container"`,
		`<div class="slides" id="slides">`,
		"# Hello",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected rendered stage to contain %q", want)
		}
	}
}
