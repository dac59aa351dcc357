// Package geo turns geolocated articles into map markers and renders the
// Leaflet map page.
package geo

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/geoview/geoview/internal/article"
)

// ExcerptLimit is the number of excerpt characters shown in a popup.
const ExcerptLimit = 100

// Marker is one pin on the map.
type Marker struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Place        string  `json:"place,omitempty"`
	ArticleID    string  `json:"article_id"`
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	Color        string  `json:"color"`
	PopupContent string  `json:"popup_content"`
}

var popupTemplate = template.Must(template.New("popup").Parse(
	`<div class="popup">` +
		`<h4>{{.Title}}</h4>` +
		`<p>{{.Excerpt}}...</p>` +
		`<div class="popup-footer">` +
		`<span class="chip">{{.Category}}</span>` +
		`<button class="read-more" data-article-id="{{.ID}}" ` +
		`onclick="window.dispatchEvent(new CustomEvent('navigate-to-post', { detail: {{.ID}} }))">Read More →</button>` +
		`</div>` +
		`</div>`))

// Markers returns one marker per article with a geo location, in input order.
func Markers(articles []article.Article) ([]Marker, error) {
	markers := make([]Marker, 0, len(articles))
	for _, a := range articles {
		if a.GeoLocation == nil {
			continue
		}
		popup, err := PopupHTML(a)
		if err != nil {
			return nil, err
		}
		markers = append(markers, Marker{
			Lat:          a.GeoLocation.Lat,
			Lng:          a.GeoLocation.Lng,
			Place:        a.GeoLocation.Name,
			ArticleID:    a.ID,
			Title:        a.Title,
			Category:     a.Category,
			Color:        a.Topic().Color(),
			PopupContent: popup,
		})
	}
	return markers, nil
}

// PopupHTML renders the marker popup for an article.
func PopupHTML(a article.Article) (string, error) {
	var buf bytes.Buffer
	err := popupTemplate.Execute(&buf, struct {
		ID       string
		Title    string
		Excerpt  string
		Category string
	}{
		ID:       a.ID,
		Title:    a.Title,
		Excerpt:  Truncate(a.Excerpt, ExcerptLimit),
		Category: a.Category,
	})
	if err != nil {
		return "", fmt.Errorf("rendering popup for %s: %w", a.ID, err)
	}
	return buf.String(), nil
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
