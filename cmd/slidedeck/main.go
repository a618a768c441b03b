// Command slidedeck serves markdown presentations and renders the selected
// one into a slide stage.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	dir     string

	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
)

var rootCmd = &cobra.Command{
	Use:   "slidedeck",
	Short: "Markdown presentation server",
	Long: `slidedeck lists the markdown presentations in a directory, serves them,
and renders the selected one into slides. A line of "---" starts a new
horizontal slide; "--" starts a vertical slide below the current one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "d", "", "Presentations directory (default: $SLIDEDECK_PRESENTATIONS_DIR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
