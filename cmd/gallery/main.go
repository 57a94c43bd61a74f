// Command gallery opens a window showing a column of lazily loaded images
// described by a YAML manifest, with a scroll-to-top button.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/phanxgames/snippets"
	"github.com/phanxgames/snippets/internal/gallery"
)

var (
	manifestPath string
	logLevel     string
	container    bool
	showStats    bool
	debugMode    bool
	scriptPath   string
)

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Lazy image gallery with a scroll-to-top button",
	Long: `gallery lays out the images of a YAML manifest in a scrolling column.
Images load only when they come near the viewport; the button in the corner
appears once the page scrolls past the threshold.

Examples:
  gallery --manifest cmd/gallery/gallery.yaml
  gallery --container --stats --log-level debug
  gallery --script smoke.json`,
	SilenceUsage: true,
	RunE:         runGallery,
}

func init() {
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "cmd/gallery/gallery.yaml", "Path to the gallery manifest")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&container, "container", false, "Scroll inside a nested panel instead of the window")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "Show the stats overlay")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable scene debug checks and per-frame stats logging")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "JSON script of clicks, wheel turns and screenshots to play")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

func runGallery(cmd *cobra.Command, _ []string) error {
	log := newLogger(logLevel)

	m, err := gallery.Load(manifestPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("container") {
		m.Container = container
	}

	scene := snippets.NewScene()
	scene.SetLogger(log)
	scene.SetDebugMode(debugMode)
	scene.ClearColor = snippets.Color{R: 0.96, G: 0.96, B: 0.97, A: 1}
	scene.SetScreenSize(float64(m.Width), float64(m.Height))

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := snippets.LoadTestScript(data)
		if err != nil {
			return err
		}
		scene.SetTestRunner(runner)
	}

	g, err := gallery.Build(scene, m, gallery.Options{})
	if err != nil {
		return err
	}
	log.Info().Int("images", len(g.Images)).Bool("container", m.Container).Msg("gallery built")

	return snippets.Run(scene, snippets.RunConfig{
		Title:     m.Title,
		Width:     m.Width,
		Height:    m.Height,
		Resizable: true,
		ShowStats: showStats,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
