// Package article defines the core domain types for published articles.
package article

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Article represents a single published piece with its relational,
// geospatial and temporal annotations.
type Article struct {
	// Identity
	ID string `json:"id"` // Unique slug, also the /post/{id} path segment

	// Display
	Title     string `json:"title"`
	ShortName string `json:"short_name,omitempty"` // Compact label for graph nodes
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"` // Markdown body

	// Classification
	Category      string        `json:"category"`                 // Display label: Geography, History, ...
	TopicCategory TopicCategory `json:"topic_category,omitempty"` // Colour/grouping key
	Tags          []string      `json:"tags,omitempty"`

	// Metadata
	Date     string `json:"date"`
	ReadTime string `json:"read_time"`
	Image    string `json:"image"`
	Author   string `json:"author"`

	// Supporting material
	References     []Reference          `json:"references,omitempty"`
	FurtherReading []FurtherReadingLink `json:"further_reading,omitempty"`

	// Annotations
	GeoLocation  *GeoLocation `json:"geo_location,omitempty"`
	TimePeriod   *TimePeriod  `json:"time_period,omitempty"`
	RelatedPosts []string     `json:"related_posts,omitempty"` // Outbound relations by article ID
	BeforeAfter  *BeforeAfter `json:"before_after,omitempty"`
	SplitLens    *SplitLens   `json:"split_lens,omitempty"`
	ImageMeta    *ImageMeta   `json:"image_meta,omitempty"`
}

// GeoLocation pins an article to a place on the map.
type GeoLocation struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// TimePeriod places an article on the timeline.
type TimePeriod struct {
	Start int    `json:"start"`
	End   *int   `json:"end,omitempty"`
	Era   string `json:"era"`
}

// BeforeAfter is an image pair for the then/now comparison.
type BeforeAfter struct {
	Before      string `json:"before"`
	After       string `json:"after"`
	BeforeLabel string `json:"before_label"`
	AfterLabel  string `json:"after_label"`
}

// SplitLens holds the scroll-driven narrative sections of an article.
type SplitLens struct {
	Sections []SplitLensSection `json:"sections"`
}

// SplitLensSection is one narrative step paired with a chart.
type SplitLensSection struct {
	Title             string            `json:"title"`
	Text              string            `json:"text"`
	VisualizationType VisualizationType `json:"visualization_type"`
}

// VisualizationType names the chart shown next to a split lens section.
type VisualizationType string

// Supported visualization types.
const (
	VizTemperatureChart VisualizationType = "temperatureChart"
	VizMigrationChart   VisualizationType = "migrationChart"
	VizUrbanGrowth      VisualizationType = "urbanGrowth"
)

// ImageMeta captions the hero image.
type ImageMeta struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Reference is a numbered citation at the end of an article.
type Reference struct {
	ID          int    `json:"id"`
	Authors     string `json:"authors"`
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Publication string `json:"publication"`
	URL         string `json:"url,omitempty"`
	DOI         string `json:"doi,omitempty"`
}

// FurtherReadingLink points readers at outside material.
type FurtherReadingLink struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Type        LinkType `json:"type"`
}

// LinkType classifies a further-reading link.
type LinkType string

// Supported further-reading link types.
const (
	LinkArticle LinkType = "article"
	LinkDataset LinkType = "dataset"
	LinkTool    LinkType = "tool"
	LinkCourse  LinkType = "course"
)

// DisplayName returns the short name when set, otherwise the title.
func (a *Article) DisplayName() string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return a.Title
}

// Topic returns the article's topic category, falling back to technology.
func (a *Article) Topic() TopicCategory {
	if a.TopicCategory.IsValid() {
		return a.TopicCategory
	}
	return TopicTechnology
}

// Initials returns the first letter of each word of the author name.
func (a *Article) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(a.Author) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Span formats the time period as "start-end" or "start".
func (p *TimePeriod) Span() string {
	if p == nil {
		return ""
	}
	if p.End != nil {
		return strconv.Itoa(p.Start) + "-" + strconv.Itoa(*p.End)
	}
	return strconv.Itoa(p.Start)
}
