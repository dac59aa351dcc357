// Package catalog provides the in-memory article collection used by the
// views: category filtering, search, featured selection and the timeline.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/geoview/geoview/internal/article"
)

// NoResultsMessage is shown when a filter or search matches nothing.
const NoResultsMessage = "No articles found"

// Store is an immutable, ordered collection of articles.
type Store struct {
	articles []article.Article
	index    map[string]int
}

// New builds a store from articles in the given order.
// Duplicate IDs are rejected with article.ErrDuplicateID.
func New(articles []article.Article) (*Store, error) {
	s := &Store{
		articles: make([]article.Article, len(articles)),
		index:    make(map[string]int, len(articles)),
	}
	copy(s.articles, articles)
	for i, a := range s.articles {
		if _, dup := s.index[a.ID]; dup {
			return nil, fmt.Errorf("%w: %s", article.ErrDuplicateID, a.ID)
		}
		s.index[a.ID] = i
	}
	return s, nil
}

// Len returns the number of articles.
func (s *Store) Len() int {
	return len(s.articles)
}

// All returns every article in store order.
func (s *Store) All() []article.Article {
	out := make([]article.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// ByID returns the article with the given ID.
func (s *Store) ByID(id string) (article.Article, bool) {
	i, ok := s.index[id]
	if !ok {
		return article.Article{}, false
	}
	return s.articles[i], true
}

// FilterByCategory returns the articles whose category label matches.
// The "All" label and the empty label return every article.
func (s *Store) FilterByCategory(label string) []article.Article {
	if label == "" || label == article.AllCategories {
		return s.All()
	}
	var out []article.Article
	for _, a := range s.articles {
		if a.Category == label {
			out = append(out, a)
		}
	}
	return out
}

// Search returns articles whose title, excerpt, tags or category contain
// the query, ignoring case. A blank query returns nil. Surrounding spaces
// are trimmed before matching, so "heat " finds "Heatwave".
func (s *Store) Search(query string) []article.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []article.Article
	for _, a := range s.articles {
		if matches(a, q) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a article.Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Excerpt), q) ||
		strings.Contains(strings.ToLower(a.Category), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Featured returns the first n articles, or nil when there are none.
func (s *Store) Featured(n int) []article.Article {
	n = min(n, len(s.articles))
	if n <= 0 {
		return nil
	}
	out := make([]article.Article, n)
	copy(out, s.articles[:n])
	return out
}

// Categories returns the category filter labels with the number of
// articles under each. The "All" entry counts everything.
func (s *Store) Categories() []CategoryCount {
	counts := make(map[string]int)
	for _, a := range s.articles {
		counts[a.Category]++
	}
	out := make([]CategoryCount, 0, len(article.CategoryLabels))
	for _, label := range article.CategoryLabels {
		n := counts[label]
		if label == article.AllCategories {
			n = len(s.articles)
		}
		out = append(out, CategoryCount{Label: label, Count: n})
	}
	return out
}

// CategoryCount pairs a filter label with its article count.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Timeline returns the articles that have a time period, ordered by start
// year. Articles sharing a start keep store order.
func (s *Store) Timeline() []article.Article {
	var out []article.Article
	for _, a := range s.articles {
		if a.TimePeriod != nil {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimePeriod.Start < out[j].TimePeriod.Start
	})
	return out
}

// Geolocated returns the articles that carry a geo location, in store order.
func (s *Store) Geolocated() []article.Article {
	var out []article.Article
	for _, a := range s.articles {
		if a.GeoLocation != nil {
			out = append(out, a)
		}
	}
	return out
}
