package main

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/article"
)

// Title truncation and wrapping widths for human output.
const (
	ListTitleMaxLen   = 60
	DetailTitleMaxLen = 70
	TextWrapWidth     = 68
)

// outputJSON writes a value as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError reports an error in the active output mode and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Debug("exiting", zap.Int("code", code), zap.String("error", msg))
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// ArticleSummary is the list/search view of an article.
type ArticleSummary struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Category    string                `json:"category"`
	Topic       article.TopicCategory `json:"topic_category"`
	Date        string                `json:"date,omitempty"`
	Connections int                   `json:"related_posts"`
}

func summarize(articles []article.Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, ArticleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Category:    a.Category,
			Topic:       a.Topic(),
			Date:        a.Date,
			Connections: len(a.RelatedPosts),
		})
	}
	return out
}

// printArticleList prints one line per article, or the empty message.
func printArticleList(articles []article.Article, empty string) {
	if len(articles) == 0 {
		fmt.Println(empty)
		return
	}
	for _, a := range articles {
		fmt.Printf("%-28s  %-10s  %s\n", truncateString(a.ID, 28), a.Category, truncateString(a.Title, ListTitleMaxLen))
	}
	fmt.Printf("\n%d articles\n", len(articles))
}

// truncateString cuts s to maxWidth terminal cells, adding "..." if cut.
func truncateString(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}

// wrapText wraps text to width with indent on continuation lines.
func wrapText(text string, width int, indent string) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case runewidth.StringWidth(line.String())+1+runewidth.StringWidth(word) <= width:
			line.WriteString(" " + word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n"+indent)
}
