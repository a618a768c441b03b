package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/slidedeck/internal/catalog"
	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/dgallion1/slidedeck/internal/frontmatter"
	"github.com/dgallion1/slidedeck/internal/slides"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the slide outline of a presentation as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List presentations with their metadata as JSON",
	RunE:  runList,
}

type outlineReport struct {
	Metadata catalog.Metadata `json:"metadata"`
	Summary  slides.Summary   `json:"summary"`
	Groups   slides.Outline   `json:"groups"`
}

func runOutline(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read presentation: %w", err)
	}

	text := string(data)
	outline := slides.Segment(frontmatter.Strip(text))
	report := outlineReport{
		Metadata: catalog.Describe(filepath.Base(path), text).Metadata,
		Summary:  slides.Summarize(outline),
		Groups:   outline,
	}
	return writeIndented(cmd, report)
}

func runList(cmd *cobra.Command, args []string) error {
	d := dir
	if d == "" {
		d = config.Load().PresentationsDir
	}

	list, err := catalog.Scan(d)
	if err != nil {
		return fmt.Errorf("list presentations: %w", err)
	}
	return writeIndented(cmd, list)
}

func writeIndented(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
