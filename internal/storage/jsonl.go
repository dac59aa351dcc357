// Package storage handles data persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/geoview/geoview/internal/article"
	json "github.com/goccy/go-json"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (4MB per line).
// Article bodies are inlined markdown, so lines run longer than typical records.
const MaxJSONLLineCapacity = 4 * 1024 * 1024

// ReadAll reads all articles from a JSONL file, preserving file order.
func ReadAll(path string) ([]article.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file is an empty collection
		}
		return nil, fmt.Errorf("opening articles file: %w", err)
	}
	defer f.Close()

	var articles []article.Article
	scanner := bufio.NewScanner(f)

	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var a article.Article
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		articles = append(articles, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading articles file: %w", err)
	}

	return articles, nil
}

// Append adds an article to the end of a JSONL file.
func Append(path string, a article.Article) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening articles file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding article: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing article: %w", err)
	}

	return nil
}

// WriteAll writes all articles to a JSONL file, replacing existing content.
// The file is written to a temporary sibling and renamed into place.
func WriteAll(path string, articles []article.Article) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating articles file: %w", err)
	}

	w := bufio.NewWriter(f)
	for i, a := range articles {
		data, err := json.Marshal(a)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encoding article %d: %w", i, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing articles: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing articles file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing articles file: %w", err)
	}
	return nil
}

// FindByID searches for an article by ID.
func FindByID(articles []article.Article, id string) (int, bool) {
	for i, a := range articles {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

// AddArticle validates an article and appends it to the JSONL file,
// rejecting IDs that are already present.
func AddArticle(path string, a article.Article) error {
	if err := a.ValidateForCreate(); err != nil {
		return err
	}
	existing, err := ReadAll(path)
	if err != nil {
		return err
	}
	if _, found := FindByID(existing, a.ID); found {
		return fmt.Errorf("%w: %s", article.ErrDuplicateID, a.ID)
	}
	return Append(path, a)
}

// UpdateArticle replaces the article with a matching ID.
func UpdateArticle(path string, a article.Article) error {
	if err := a.ValidateForCreate(); err != nil {
		return err
	}
	existing, err := ReadAll(path)
	if err != nil {
		return err
	}
	idx, found := FindByID(existing, a.ID)
	if !found {
		return fmt.Errorf("%w: %s", article.ErrArticleNotFound, a.ID)
	}
	existing[idx] = a
	return WriteAll(path, existing)
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into an article ID candidate.
func Slugify(title string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	return slug
}

// GenerateUniqueID returns an ID that doesn't conflict with existing articles.
// If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(articles []article.Article, baseID string) string {
	if _, found := FindByID(articles, baseID); !found {
		return baseID
	}

	// Start at 2: baseID is taken, so first duplicate becomes baseID-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(articles, candidate); !found {
			return candidate
		}
	}
}
