// Package main provides the gv CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
	"github.com/geoview/geoview/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	logger      = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gv",
	Short: "Geography and data article toolkit",
	Long: `gv manages a collection of geography and data articles.

Articles live in git-versionable JSONL under .geoview/ with an ephemeral
SQLite cache for queries. gv lists, searches and validates articles, exports
the relationship graph as JSON, HTML or SVG/PNG snapshots, exports geo
markers and a Leaflet map, and runs an interactive terminal browser.

All commands output JSON by default; pass --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l.With(zap.String("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.Version = Version
}

// getStartingDirectory returns where to look for a site: GEOVIEW_ROOT,
// then the global site_path, then the working directory.
func getStartingDirectory() string {
	if root := os.Getenv("GEOVIEW_ROOT"); root != "" {
		return root
	}
	if root := config.GetSitePath(); root != "" {
		return root
	}
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	return cwd
}

// mustFindSite finds the site root or exits with ExitConfigError.
func mustFindSite() string {
	root, err := config.FindSite(getStartingDirectory())
	if err != nil {
		if humanOutput {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitConfigError, "%v", err)
	}
	logger.Debug("site found", zap.String("root", root))
	return root
}

// mustLoadConfig loads the site config with .env overrides applied.
func mustLoadConfig(root string) *config.Config {
	if err := config.LoadEnv(root); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv()
	return cfg
}

// mustReadArticles reads articles.jsonl, the source of truth.
func mustReadArticles(root string) []article.Article {
	articles, err := storage.ReadAll(config.ArticlesPath(root))
	if err != nil {
		exitWithError(ExitDataError, "reading articles: %v", err)
	}
	logger.Debug("articles read", zap.Int("count", len(articles)))
	return articles
}

// mustLoadStore reads the articles into a catalog.
func mustLoadStore(root string) *catalog.Store {
	store, err := catalog.New(mustReadArticles(root))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return store
}

// mustOpenDatabase opens the SQLite cache, rebuilding it when it is empty
// and the JSONL file is not. The caller must Close the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	n, err := db.Count()
	if err != nil {
		db.Close()
		exitWithError(ExitError, "%v", err)
	}
	if n == 0 {
		rebuilt, err := db.RebuildFromJSONL(config.ArticlesPath(root))
		if err != nil {
			db.Close()
			exitWithError(ExitDataError, "rebuilding cache: %v", err)
		}
		if rebuilt > 0 {
			logger.Info("cache rebuilt", zap.Int("articles", rebuilt))
		}
	}
	return db
}

func sizeOptions(cfg *config.Config) graph.SizeOptions {
	return graph.SizeOptions{Base: cfg.NodeBaseSize, Weight: cfg.NodeWeight}
}

func interactOptions(cfg *config.Config) interact.Options {
	opts := interact.DefaultOptions()
	opts.LabelZoomThreshold = cfg.LabelZoomThreshold
	opts.DimmedOpacity = cfg.DimmedOpacity
	return opts
}
