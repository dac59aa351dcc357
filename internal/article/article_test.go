package article

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr error
	}{
		{
			name:    "valid minimal",
			article: Article{ID: "urban-inequality", Title: "Urban inequality"},
		},
		{
			name:    "empty id",
			article: Article{Title: "No id"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "uppercase id",
			article: Article{ID: "Urban", Title: "Urban"},
			wantErr: ErrInvalidID,
		},
		{
			name:    "leading hyphen",
			article: Article{ID: "-urban", Title: "Urban"},
			wantErr: ErrInvalidID,
		},
		{
			name:    "missing title",
			article: Article{ID: "urban"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "unknown topic",
			article: Article{ID: "urban", Title: "Urban", TopicCategory: "astrology"},
			wantErr: ErrInvalidTopic,
		},
		{
			name: "latitude out of range",
			article: Article{ID: "urban", Title: "Urban",
				GeoLocation: &GeoLocation{Lat: 91, Lng: 0}},
			wantErr: ErrInvalidLatitude,
		},
		{
			name: "longitude out of range",
			article: Article{ID: "urban", Title: "Urban",
				GeoLocation: &GeoLocation{Lat: 0, Lng: -181}},
			wantErr: ErrInvalidLongitude,
		},
		{
			name: "end before start",
			article: Article{ID: "urban", Title: "Urban",
				TimePeriod: &TimePeriod{Start: 2020, End: intPtr(2010)}},
			wantErr: ErrInvalidTimePeriod,
		},
		{
			name: "open-ended period",
			article: Article{ID: "urban", Title: "Urban",
				TimePeriod: &TimePeriod{Start: 2020, Era: "Modern Era"}},
		},
		{
			name: "bad visualization",
			article: Article{ID: "urban", Title: "Urban",
				SplitLens: &SplitLens{Sections: []SplitLensSection{{Title: "x", VisualizationType: "pie"}}}},
			wantErr: ErrInvalidViz,
		},
		{
			name: "bad link type",
			article: Article{ID: "urban", Title: "Urban",
				FurtherReading: []FurtherReadingLink{{Title: "x", URL: "https://example.org", Type: "video"}}},
			wantErr: ErrInvalidLinkType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.ValidateForCreate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateForCreate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateForCreate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	a := Article{Title: "How satellite data reveals patterns of urban inequality"}
	if got := a.DisplayName(); got != a.Title {
		t.Errorf("DisplayName() = %q, want title", got)
	}
	a.ShortName = "Urban Inequality"
	if got := a.DisplayName(); got != "Urban Inequality" {
		t.Errorf("DisplayName() = %q, want short name", got)
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		author string
		want   string
	}{
		{"Dr. Sarah Chen", "DSC"},
		{"elena rodriguez", "ER"},
		{"", ""},
		{"  James   Park ", "JP"},
	}
	for _, tt := range tests {
		a := Article{Author: tt.author}
		if got := a.Initials(); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.author, got, tt.want)
		}
	}
}

func TestTopicFallback(t *testing.T) {
	a := Article{}
	if got := a.Topic(); got != TopicTechnology {
		t.Errorf("Topic() = %q, want technology", got)
	}
	if got := TopicCategory("unknown").Color(); got != TopicTechnology.Color() {
		t.Errorf("Color() for unknown = %q, want technology colour", got)
	}
	if got := TopicEnvironment.Label(); got != "Geography" {
		t.Errorf("Label() = %q, want Geography", got)
	}
}

func TestTimePeriodSpan(t *testing.T) {
	tests := []struct {
		name string
		p    *TimePeriod
		want string
	}{
		{"nil", nil, ""},
		{"closed", &TimePeriod{Start: 130, End: intPtr(1453)}, "130-1453"},
		{"open", &TimePeriod{Start: 2015}, "2015"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Span(); got != tt.want {
				t.Errorf("Span() = %q, want %q", got, tt.want)
			}
		})
	}
}
