package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoview/geoview/internal/article"
)

func geoArticles() []article.Article {
	return []article.Article{
		{
			ID:            "urban-heat",
			Title:         "Urban Heat Islands",
			Excerpt:       strings.Repeat("x", 150),
			Category:      "Geography",
			TopicCategory: article.TopicEnvironment,
			GeoLocation:   &article.GeoLocation{Lat: 40.7, Lng: -74.0, Name: "New York"},
		},
		{ID: "no-place", Title: "Nowhere", Excerpt: "Short."},
		{
			ID:          "silk-roads",
			Title:       "Silk <Roads>",
			Excerpt:     "Short excerpt.",
			Category:    "History",
			GeoLocation: &article.GeoLocation{Lat: 39.6, Lng: 66.9, Name: "Samarkand"},
		},
	}
}

func TestMarkers(t *testing.T) {
	markers, err := Markers(geoArticles())
	require.NoError(t, err)
	require.Len(t, markers, 2)

	assert.Equal(t, "urban-heat", markers[0].ArticleID)
	assert.Equal(t, 40.7, markers[0].Lat)
	assert.Equal(t, -74.0, markers[0].Lng)
	assert.Equal(t, "New York", markers[0].Place)
	assert.Equal(t, article.TopicEnvironment.Color(), markers[0].Color)
	assert.Equal(t, "silk-roads", markers[1].ArticleID)
	assert.Equal(t, article.TopicTechnology.Color(), markers[1].Color)
}

func TestMarkers_None(t *testing.T) {
	markers, err := Markers([]article.Article{{ID: "a", Title: "A"}})
	require.NoError(t, err)
	assert.Empty(t, markers)
}

func TestPopupHTML(t *testing.T) {
	articles := geoArticles()

	popup, err := PopupHTML(articles[0])
	require.NoError(t, err)
	assert.Contains(t, popup, "<h4>Urban Heat Islands</h4>")
	assert.Contains(t, popup, "<p>"+strings.Repeat("x", 100)+"...</p>")
	assert.NotContains(t, popup, strings.Repeat("x", 101))
	assert.Contains(t, popup, `<span class="chip">Geography</span>`)
	assert.Contains(t, popup, `data-article-id="urban-heat"`)
	assert.Contains(t, popup, "navigate-to-post")
	assert.Contains(t, popup, "Read More →")

	escaped, err := PopupHTML(articles[2])
	require.NoError(t, err)
	assert.Contains(t, escaped, "Silk &lt;Roads&gt;")
	assert.Contains(t, escaped, "<p>Short excerpt....</p>")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestGenerateHTML(t *testing.T) {
	markers, err := Markers(geoArticles())
	require.NoError(t, err)

	html, err := GenerateHTML(markers, MapOptions{TileURL: "https://tiles.example.org/{z}/{x}/{y}.png"})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>GeoView Map</title>")
	assert.Contains(t, html, "leaflet.js")
	assert.Contains(t, html, "tiles.example.org")
	assert.Contains(t, html, "setView([20, 0], 2)")
	assert.Contains(t, html, "maxZoom: 18")
	assert.Contains(t, html, "addEventListener('navigate-to-post'")
	assert.Contains(t, html, "removeEventListener('navigate-to-post'")
	assert.Contains(t, html, "urban-heat")
	assert.Contains(t, html, "2 places")
}

func TestGenerateHTML_Centre(t *testing.T) {
	tests := []struct {
		name string
		opts MapOptions
		want string
	}{
		{"zero value uses world view", MapOptions{}, "setView([20, 0], 2)"},
		{"explicit centre kept", MapOptions{Lat: 51.5, Lng: -0.1, Zoom: 9}, "setView([51.5, -0.1], 9)"},
		{"equator kept when zoom given", MapOptions{Zoom: 4}, "setView([0, 0], 4)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := GenerateHTML(nil, tt.opts)
			require.NoError(t, err)
			assert.Contains(t, html, tt.want)
		})
	}
}

func TestGenerateHTML_NoMarkers(t *testing.T) {
	html, err := GenerateHTML(nil, DefaultMapOptions())
	require.NoError(t, err)
	assert.Contains(t, html, "const markers = [];")
	assert.Contains(t, html, "0 places")
}
