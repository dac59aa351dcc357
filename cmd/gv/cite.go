package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/export"
	"github.com/geoview/geoview/internal/launch"
	"github.com/geoview/geoview/internal/pdf"
	"github.com/geoview/geoview/internal/storage"
)

var (
	citeArticle string
	citeOutput  string
	citeAppend  bool
	citeCopy    bool

	citePDF         string
	citeDOI         string
	citeTitle       string
	citeAuthors     string
	citeYear        int
	citePublication string
	citeURL         string
)

func init() {
	citeExportCmd.Flags().StringVar(&citeArticle, "article", "", "Export only the references of this article")
	citeExportCmd.Flags().StringVarP(&citeOutput, "output", "o", "", "Write to a .bib file instead of stdout")
	citeExportCmd.Flags().BoolVar(&citeAppend, "append", false, "Append to --output, skipping entries it already holds")
	citeExportCmd.Flags().BoolVar(&citeCopy, "copy", false, "Copy the BibTeX to the clipboard")

	citeAddCmd.Flags().StringVar(&citePDF, "pdf", "", "Read DOI and title from a paper PDF")
	citeAddCmd.Flags().StringVar(&citeDOI, "doi", "", "DOI")
	citeAddCmd.Flags().StringVar(&citeTitle, "title", "", "Title")
	citeAddCmd.Flags().StringVar(&citeAuthors, "authors", "", "Authors, e.g. \"Oke, T. R. & Cleugh, H.\"")
	citeAddCmd.Flags().IntVar(&citeYear, "year", 0, "Publication year")
	citeAddCmd.Flags().StringVar(&citePublication, "publication", "", "Journal, book or venue")
	citeAddCmd.Flags().StringVar(&citeURL, "url", "", "URL")

	citeCmd.AddCommand(citeExportCmd, citeAddCmd, citeOpenCmd)
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Manage article references",
}

var citeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export references to BibTeX",
	Long: `Export article references to BibTeX. Output is always BibTeX text.

Examples:
  gv cite export > refs.bib
  gv cite export --article urban-heat-islands
  gv cite export -o refs.bib --append`,
	Args: cobra.NoArgs,
	RunE: runCiteExport,
}

var citeAddCmd = &cobra.Command{
	Use:   "add <article-id>",
	Short: "Add a reference to an article",
	Long: `Add a reference to an article. With --pdf the DOI and title are read
from the paper; explicit flags override what the PDF provides.`,
	Args: cobra.ExactArgs(1),
	RunE: runCiteAdd,
}

var citeOpenCmd = &cobra.Command{
	Use:   "open <article-id> <ref-id>",
	Short: "Open a reference's DOI or URL in the browser",
	Args:  cobra.ExactArgs(2),
	RunE:  runCiteOpen,
}

func runCiteExport(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	articles := mustReadArticles(root)

	if citeArticle != "" {
		idx, ok := storage.FindByID(articles, citeArticle)
		if !ok {
			exitWithError(ExitNotFound, "article not found: %s", citeArticle)
		}
		articles = articles[idx : idx+1]
	}
	if citeAppend && citeOutput == "" {
		exitWithError(ExitError, "--append requires --output")
	}

	entries := export.Entries(articles)
	skipped := 0
	if citeAppend {
		existing, err := export.ParseFile(citeOutput)
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", citeOutput, err)
		}
		entries, skipped = existing.Filter(entries)
	}
	bib := export.ToBibTeXList(entries)

	switch {
	case citeAppend:
		if err := export.AppendFile(citeOutput, bib); err != nil {
			exitWithError(ExitError, "writing %s: %v", citeOutput, err)
		}
	case citeOutput != "":
		if err := os.WriteFile(citeOutput, []byte(bib), 0o644); err != nil {
			exitWithError(ExitError, "writing %s: %v", citeOutput, err)
		}
	default:
		fmt.Print(bib)
	}
	if citeCopy {
		if err := launch.Copy(bib); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
	}

	logger.Info("references exported", zap.Int("entries", len(entries)), zap.Int("skipped", skipped))
	if citeOutput != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d entries to %s (%d already present)\n", len(entries), citeOutput, skipped)
	}
	return nil
}

func runCiteAdd(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	articles := mustReadArticles(root)

	idx, ok := storage.FindByID(articles, args[0])
	if !ok {
		exitWithError(ExitNotFound, "article not found: %s", args[0])
	}
	a := articles[idx]

	ref := article.Reference{
		Authors:     citeAuthors,
		Year:        citeYear,
		Title:       citeTitle,
		Publication: citePublication,
		URL:         citeURL,
		DOI:         citeDOI,
	}
	if citePDF != "" {
		info, err := pdf.Inspect(config.ExpandPath(citePDF))
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		logger.Debug("pdf inspected", zap.String("doi", info.DOI), zap.String("title", info.Title), zap.Int("pages", info.Pages))
		if ref.DOI == "" {
			ref.DOI = info.DOI
		}
		if ref.Title == "" {
			ref.Title = info.Title
		}
	}
	if strings.TrimSpace(ref.Title) == "" {
		exitWithError(ExitError, "a reference needs a title (use --title or --pdf)")
	}
	if ref.DOI != "" {
		for _, r := range a.References {
			if strings.EqualFold(r.DOI, ref.DOI) {
				exitWithError(ExitError, "%s already cites doi:%s as reference %d", a.ID, ref.DOI, r.ID)
			}
		}
	}

	ref.ID = nextReferenceID(a.References)
	a.References = append(a.References, ref)
	if err := storage.UpdateArticle(config.ArticlesPath(root), a); err != nil {
		code := ExitDataError
		if errors.Is(err, article.ErrArticleNotFound) {
			code = ExitNotFound
		}
		exitWithError(code, "%v", err)
	}
	logger.Info("reference added", zap.String("article", a.ID), zap.Int("ref", ref.ID))

	db := mustOpenDatabase(root)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.ArticlesPath(root)); err != nil {
		exitWithError(ExitError, "refreshing cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added reference %d to %s: %s\n", ref.ID, a.ID, ref.Title)
		return nil
	}
	return outputJSON(ref)
}

// nextReferenceID is one past the highest ID in refs.
func nextReferenceID(refs []article.Reference) int {
	next := 1
	for _, r := range refs {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

func runCiteOpen(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	articles := mustReadArticles(root)

	idx, ok := storage.FindByID(articles, args[0])
	if !ok {
		exitWithError(ExitNotFound, "article not found: %s", args[0])
	}
	refID, err := strconv.Atoi(args[1])
	if err != nil {
		exitWithError(ExitError, "invalid reference id: %s", args[1])
	}

	var target string
	found := false
	for _, r := range articles[idx].References {
		if r.ID != refID {
			continue
		}
		found = true
		target = referenceLink(r)
	}
	if !found {
		exitWithError(ExitNotFound, "%s has no reference %d", args[0], refID)
	}
	if target == "" {
		exitWithError(ExitDataError, "reference %d has neither DOI nor URL", refID)
	}

	if err := launch.Open(target); err != nil {
		exitWithError(ExitError, "opening %s: %v", target, err)
	}
	if humanOutput {
		fmt.Printf("Opened %s\n", target)
		return nil
	}
	return outputJSON(StatusResponse{Status: "opened", Path: target})
}

// referenceLink prefers the DOI resolver over the stored URL.
func referenceLink(r article.Reference) string {
	if r.DOI != "" {
		return "https://doi.org/" + r.DOI
	}
	return r.URL
}
