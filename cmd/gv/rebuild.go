package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from articles.jsonl",
	Long: `Rebuild the query cache from articles.jsonl.

Run this after pulling changes or editing articles.jsonl by hand. The cache
is disposable; deleting .geoview/cache is always safe.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	dbPath := config.DBPath(root)

	if err := os.MkdirAll(config.CachePath(root), 0o755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	n, err := db.RebuildFromJSONL(config.ArticlesPath(root))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding cache: %v", err)
	}
	logger.Info("cache rebuilt", zap.Int("articles", n), zap.String("db", dbPath))

	if humanOutput {
		fmt.Printf("Rebuilt cache with %d articles\n", n)
		return nil
	}
	return outputJSON(StatusResponse{Status: "rebuilt", Path: dbPath, Count: n})
}
