package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/catalog"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "Maximum results (0 for all)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search articles",
	Long: `Search titles, excerpts, tags and categories, ignoring case.

Example:
  gv search "heat island"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	db := mustOpenDatabase(root)
	defer db.Close()

	results, err := db.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printArticleList(results, catalog.NoResultsMessage)
		return nil
	}
	return outputJSON(summarize(results))
}
