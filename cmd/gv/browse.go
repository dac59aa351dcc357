package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/nav"
	"github.com/geoview/geoview/internal/tui"
	"github.com/geoview/geoview/internal/watcher"
)

var (
	browseWatch bool
	browsePoll  bool
	browseStart string
	browseTheme string
)

func init() {
	browseCmd.Flags().BoolVarP(&browseWatch, "watch", "w", false, "Reload when articles.jsonl changes")
	browseCmd.Flags().BoolVar(&browsePoll, "poll", false, "With --watch, poll instead of using file system events")
	browseCmd.Flags().StringVar(&browseStart, "path", nav.PathHome, "Route to open: /, /articles, /data-stories or /post/{id}")
	browseCmd.Flags().StringVar(&browseTheme, "theme", "", "Markdown theme: auto, dark, light, notty (default: GEOVIEW_THEME or global config)")
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse articles in the terminal",
	Long: `Open the interactive terminal browser.

Views:
  1  Home          featured articles and categories
  2  Articles      category tabs, search, grid/timeline/network modes
  3  Data Stories  articles with split-lens narratives

In network mode the cognitive map is drawn on the terminal. Hover with the
mouse or tab through nodes; click or press enter to open an article.

With --verbose, logs go to .geoview/cache/browse.log.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	store := mustLoadStore(root)

	theme := browseTheme
	if theme == "" {
		theme = config.ResolveTheme()
	}
	if err := config.ValidateTheme(theme); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	log, err := browseLogger(root)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer log.Sync()

	opts := tui.Options{
		Title:         cfg.SiteTitle,
		FeaturedCount: cfg.FeaturedCount,
		Sizes:         sizeOptions(cfg),
		Interact:      interactOptions(cfg),
		Engine:        graph.DefaultEngineOptions(),
		Theme:         theme,
		StartPath:     browseStart,
		Logger:        log,
	}

	if browseWatch {
		path := config.ArticlesPath(root)
		w, err := watcher.New(path, watcher.WithLogger(log), watcher.WithForcePoll(browsePoll))
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if err := w.Start(); err != nil {
			exitWithError(ExitError, "starting watcher: %v", err)
		}
		defer w.Stop()
		opts.Watcher, opts.ArticlesPath = w, path
		log.Info("watching", zap.String("path", path), zap.Bool("polling", w.IsPolling()))
	}

	if err := tui.Run(tui.New(store, opts)); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// browseLogger writes to a file under the cache directory so log lines do
// not land on the alternate screen. Without --verbose nothing is logged.
func browseLogger(root string) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(config.CachePath(root), "browse.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	return cfg.Build()
}
