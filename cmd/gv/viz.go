package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/launch"
	"github.com/geoview/geoview/internal/viz"
)

var (
	vizOutput     string
	vizOpen       bool
	vizPostPrefix string
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Write HTML to this file instead of stdout")
	vizCmd.Flags().BoolVar(&vizOpen, "open", false, "Open the written file in the default browser")
	vizCmd.Flags().StringVar(&vizPostPrefix, "post-prefix", "#", "Prefix for /post/{id} links when a node is clicked")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate the interactive cognitive map as HTML",
	Long: `Generate a self-contained HTML page with the interactive cognitive map.

Hovering a node keeps its neighborhood at full opacity and dims the rest;
clicking navigates to the article.

Examples:
  gv viz > map.html
  gv viz -o map.html --open`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	g := mustBuildGraph()

	opts := viz.DefaultOptions()
	opts.Title = cfg.SiteTitle + " · Cognitive Map"
	opts.LabelZoomThreshold = cfg.LabelZoomThreshold
	opts.DimmedOpacity = cfg.DimmedOpacity
	opts.PostURLPrefix = vizPostPrefix

	html, err := viz.GenerateHTML(g, opts)
	if err != nil {
		exitWithError(ExitError, "generating HTML: %v", err)
	}
	return writePage(html, vizOutput, vizOpen)
}

// writePage writes html to path (stdout when empty) and optionally opens it.
func writePage(html, path string, open bool) error {
	if path == "" {
		if open {
			exitWithError(ExitError, "--open needs --output")
		}
		fmt.Print(html)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		exitWithError(ExitError, "writing %s: %v", path, err)
	}
	logger.Info("page written", zap.String("path", path), zap.Int("bytes", len(html)))

	if open {
		if err := launch.Open(path); err != nil {
			exitWithError(ExitError, "opening %s: %v", path, err)
		}
	}
	if humanOutput {
		fmt.Printf("Wrote %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: path})
}
