package main

import (
	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/catalog"
)

var (
	listCategory string
	listFeatured bool
)

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", article.AllCategories, "Category label to filter by")
	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "Only the featured articles shown on the home view")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	Long: `List articles in file order, optionally filtered by category.

Categories: All, Geography, History, Society, Economics, Psychology, Tech`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	root := mustFindSite()

	var articles []article.Article
	if listFeatured {
		cfg := mustLoadConfig(root)
		articles = mustLoadStore(root).Featured(cfg.FeaturedCount)
	} else {
		if !validCategory(listCategory) {
			exitWithError(ExitError, "unknown category %q (valid: %v)", listCategory, article.CategoryLabels)
		}
		db := mustOpenDatabase(root)
		defer db.Close()
		var err error
		articles, err = db.ListByCategory(listCategory)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		printArticleList(articles, catalog.NoResultsMessage)
		return nil
	}
	return outputJSON(summarize(articles))
}

func validCategory(label string) bool {
	if label == "" {
		return true
	}
	for _, l := range article.CategoryLabels {
		if l == label {
			return true
		}
	}
	return false
}
