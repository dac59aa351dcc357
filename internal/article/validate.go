package article

import (
	"errors"
	"fmt"
	"regexp"
)

// IDPattern is the regex pattern for valid article IDs.
// IDs double as URL path segments, so only lowercase slugs are allowed.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validation errors.
var (
	ErrEmptyID           = errors.New("id is required")
	ErrInvalidID         = errors.New("id must match pattern: lowercase alphanumeric and hyphens; must start with alphanumeric")
	ErrEmptyTitle        = errors.New("title is required")
	ErrInvalidTopic      = errors.New("topic_category must be one of environment, economics, sociology, psychology, history, technology")
	ErrInvalidLatitude   = errors.New("geo_location.lat must be between -90 and 90")
	ErrInvalidLongitude  = errors.New("geo_location.lng must be between -180 and 180")
	ErrInvalidTimePeriod = errors.New("time_period.end must not precede time_period.start")
	ErrInvalidViz        = errors.New("split_lens visualization_type must be temperatureChart, migrationChart, or urbanGrowth")
	ErrInvalidLinkType   = errors.New("further_reading type must be article, dataset, tool, or course")
	ErrDuplicateID       = errors.New("article with this id already exists")
	ErrArticleNotFound   = errors.New("article not found")
)

// ValidateForCreate validates an article for creation.
// Returns an error if any required field is missing or invalid.
func (a *Article) ValidateForCreate() error {
	if err := ValidateID(a.ID); err != nil {
		return err
	}
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.TopicCategory != "" && !a.TopicCategory.IsValid() {
		return ErrInvalidTopic
	}
	if g := a.GeoLocation; g != nil {
		if g.Lat < -90 || g.Lat > 90 {
			return ErrInvalidLatitude
		}
		if g.Lng < -180 || g.Lng > 180 {
			return ErrInvalidLongitude
		}
	}
	if p := a.TimePeriod; p != nil && p.End != nil && *p.End < p.Start {
		return ErrInvalidTimePeriod
	}
	if a.SplitLens != nil {
		for i, s := range a.SplitLens.Sections {
			if !s.VisualizationType.IsValid() {
				return fmt.Errorf("section %d: %w", i, ErrInvalidViz)
			}
		}
	}
	for i, l := range a.FurtherReading {
		if !l.Type.IsValid() {
			return fmt.Errorf("link %d: %w", i, ErrInvalidLinkType)
		}
	}
	return nil
}

// ValidateID validates just the ID field (useful for lookup operations).
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// IsValid reports whether v is a supported visualization type.
func (v VisualizationType) IsValid() bool {
	switch v {
	case VizTemperatureChart, VizMigrationChart, VizUrbanGrowth:
		return true
	}
	return false
}

// IsValid reports whether t is a supported link type.
func (t LinkType) IsValid() bool {
	switch t {
	case LinkArticle, LinkDataset, LinkTool, LinkCourse:
		return true
	}
	return false
}
