package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/nav"
)

var getRaw bool

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "With --human, print the markdown body without rendering")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single article by ID",
	Long: `Get a single article by its ID.

Example:
  gv get urban-heat-islands
  gv get urban-heat-islands --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	db := mustOpenDatabase(root)
	defer db.Close()

	id := args[0]
	a, err := db.GetByID(id)
	if err != nil {
		exitWithError(ExitError, "getting article: %v", err)
	}
	if a == nil {
		exitWithError(ExitNotFound, "%v: %s", article.ErrArticleNotFound, id)
	}

	if !humanOutput {
		return outputJSON(a)
	}
	printArticleDetail(*a)
	return nil
}

func printArticleDetail(a article.Article) {
	fmt.Println(a.ID)
	fmt.Println(strings.Repeat("═", DetailTitleMaxLen))
	fmt.Printf("Title:    %s\n", wrapText(a.Title, TextWrapWidth-10, "          "))
	fmt.Printf("Path:     %s\n", nav.PostPath(a.ID))
	fmt.Printf("Category: %s (%s)\n", a.Category, a.Topic().Metadata().Label)
	if a.Author != "" {
		fmt.Printf("Author:   %s\n", a.Author)
	}
	if a.Date != "" {
		fmt.Printf("Date:     %s\n", a.Date)
	}
	if g := a.GeoLocation; g != nil {
		fmt.Printf("Place:    %s (%.4f, %.4f)\n", g.Name, g.Lat, g.Lng)
	}
	if a.TimePeriod != nil {
		fmt.Printf("Period:   %s %s\n", a.TimePeriod.Span(), a.TimePeriod.Era)
	}
	if len(a.RelatedPosts) > 0 {
		fmt.Printf("Related:  %s\n", strings.Join(a.RelatedPosts, ", "))
	}
	if a.Excerpt != "" {
		fmt.Printf("\n  %s\n", wrapText(a.Excerpt, TextWrapWidth, "  "))
	}
	if a.Content != "" {
		fmt.Println()
		fmt.Println(renderMarkdown(a.Content))
	}
	if len(a.References) > 0 {
		fmt.Println("References:")
		for _, r := range a.References {
			fmt.Printf("  [%d] %s (%d). %s\n", r.ID, r.Authors, r.Year, r.Title)
		}
	}
}

// renderMarkdown renders body for the terminal, falling back to the raw
// text if glamour fails.
func renderMarkdown(body string) string {
	if getRaw {
		return body
	}
	theme := config.ResolveTheme()
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(TextWrapWidth + 10)}
	if theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(theme))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}
