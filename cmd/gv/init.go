package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new geoview site",
	Long: `Initialize a new geoview site in the current directory.

Creates:
  .geoview/
  ├── articles.jsonl  # Empty file, the source of truth
  ├── config.json     # Default config
  └── cache/          # SQLite cache (gitignored)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := os.Getenv("GEOVIEW_ROOT")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}
		root = cwd
	}

	if config.IsSite(root) {
		exitWithError(ExitError, "directory already contains a geoview site")
	}
	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("site initialized", zap.String("root", root))

	if humanOutput {
		fmt.Printf("Initialized geoview site in %s\n", root)
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: root})
}
