package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/dgallion1/slidedeck/internal/catalog"
	"github.com/dgallion1/slidedeck/internal/slides"
)

func writeDeck(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutlineCmd(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "talk.md",
		"---\ntitle: \"Talk\"\ntheme: \"dark\"\n---\nIntro\n---\nDeep--\nDive\n---\nEnd\n")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := runOutline(cmd, []string{path}); err != nil {
		t.Fatalf("runOutline failed: %v", err)
	}

	var got outlineReport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	want := outlineReport{
		Metadata: catalog.Metadata{Title: "Talk", Theme: "dark"},
		Summary:  slides.Summary{Groups: 3, Slides: 4, Words: 4, PerGroup: []int{1, 2, 1}},
		Groups:   slides.Outline{{"Intro"}, {"Deep", "Dive"}, {"End"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestOutlineCmd_MissingFile(t *testing.T) {
	cmd := &cobra.Command{}
	if err := runOutline(cmd, []string{filepath.Join(t.TempDir(), "nope.md")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestListCmd(t *testing.T) {
	d := t.TempDir()
	writeDeck(t, d, "b.md", "B")
	writeDeck(t, d, "a.md", "---\ntitle: \"Alpha\"\n---\nA")

	dir = d
	defer func() { dir = "" }()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runList(cmd, nil); err != nil {
		t.Fatalf("runList failed: %v", err)
	}

	var got []catalog.Presentation
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got) != 2 || got[0].Metadata.Title != "Alpha" || got[1].Filename != "b.md" {
		t.Errorf("unexpected listing %+v", got)
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("SLIDEDECK_BASE_URL", "")
	dir, port = "/srv/decks", "9999"
	defer func() { dir, port = "", "" }()

	cfg := loadConfig()
	if cfg.PresentationsDir != "/srv/decks" || cfg.Port != "9999" {
		t.Errorf("expected flag overrides, got %+v", cfg)
	}
	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("expected base URL to follow the port, got %q", cfg.BaseURL)
	}
}
