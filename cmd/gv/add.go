package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/config"
	"github.com/geoview/geoview/internal/storage"
)

var (
	addFile     string
	addID       string
	addTitle    string
	addShort    string
	addExcerpt  string
	addContent  string
	addCategory string
	addTopic    string
	addAuthor   string
	addDate     string
	addReadTime string
	addImage    string
	addTags     []string
	addRelated  []string
	addLat      float64
	addLng      float64
	addPlace    string
	addStart    int
	addEnd      int
	addEra      string
)

func init() {
	f := addCmd.Flags()
	f.StringVarP(&addFile, "file", "f", "", "Read the article as JSON from a file (- for stdin)")
	f.StringVar(&addID, "id", "", "Article ID (default: slug of the title)")
	f.StringVarP(&addTitle, "title", "t", "", "Title")
	f.StringVar(&addShort, "short-name", "", "Compact label for graph nodes")
	f.StringVar(&addExcerpt, "excerpt", "", "One-paragraph summary")
	f.StringVar(&addContent, "content", "", "Markdown body")
	f.StringVarP(&addCategory, "category", "c", "", "Category label (Geography, History, Society, Economics, Psychology, Tech)")
	f.StringVar(&addTopic, "topic", "", "Topic category (environment, economics, sociology, psychology, history, technology)")
	f.StringVar(&addAuthor, "author", "", "Author")
	f.StringVar(&addDate, "date", "", "Publication date")
	f.StringVar(&addReadTime, "read-time", "", "Reading time, e.g. \"8 min read\"")
	f.StringVar(&addImage, "image", "", "Header image URL")
	f.StringSliceVar(&addTags, "tag", nil, "Tag (repeatable)")
	f.StringSliceVarP(&addRelated, "related", "r", nil, "Related article ID (repeatable)")
	f.Float64Var(&addLat, "lat", 0, "Latitude")
	f.Float64Var(&addLng, "lng", 0, "Longitude")
	f.StringVar(&addPlace, "place", "", "Place name for the map marker")
	f.IntVar(&addStart, "start", 0, "Time period start year")
	f.IntVar(&addEnd, "end", 0, "Time period end year")
	f.StringVar(&addEra, "era", "", "Era label for the timeline")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an article",
	Long: `Add an article to articles.jsonl and refresh the cache.

Either pass the full article as JSON with --file, or build one from flags.

Examples:
  gv add --file heat.json
  gv add -t "Urban Heat Islands" -c Geography --topic environment \
      --lat 40.7 --lng -74.0 --place "New York" -r river-deltas`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	path := config.ArticlesPath(root)

	var a article.Article
	if addFile != "" {
		var err error
		a, err = readArticleJSON(addFile)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	} else {
		a = articleFromFlags(cmd)
	}

	if a.ID == "" {
		existing := mustReadArticles(root)
		a.ID = storage.GenerateUniqueID(existing, storage.Slugify(a.Title))
	}

	if err := storage.AddArticle(path, a); err != nil {
		code := ExitDataError
		if errors.Is(err, article.ErrDuplicateID) {
			code = ExitError
		}
		exitWithError(code, "%v", err)
	}
	logger.Info("article added", zap.String("id", a.ID))

	db := mustOpenDatabase(root)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(path); err != nil {
		exitWithError(ExitError, "refreshing cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added %s\n", a.ID)
		return nil
	}
	return outputJSON(a)
}

func readArticleJSON(path string) (article.Article, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return article.Article{}, err
		}
		defer f.Close()
		r = f
	}
	var a article.Article
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return article.Article{}, fmt.Errorf("parsing article JSON: %w", err)
	}
	return a, nil
}

func articleFromFlags(cmd *cobra.Command) article.Article {
	a := article.Article{
		ID:            addID,
		Title:         addTitle,
		ShortName:     addShort,
		Excerpt:       addExcerpt,
		Content:       addContent,
		Category:      addCategory,
		TopicCategory: article.TopicCategory(addTopic),
		Tags:          addTags,
		Author:        addAuthor,
		Date:          addDate,
		ReadTime:      addReadTime,
		Image:         addImage,
		RelatedPosts:  addRelated,
	}
	f := cmd.Flags()
	if f.Changed("lat") || f.Changed("lng") {
		a.GeoLocation = &article.GeoLocation{Lat: addLat, Lng: addLng, Name: addPlace}
	}
	if f.Changed("start") {
		a.TimePeriod = &article.TimePeriod{Start: addStart, Era: addEra}
		if f.Changed("end") {
			end := addEnd
			a.TimePeriod.End = &end
		}
	}
	return a
}
