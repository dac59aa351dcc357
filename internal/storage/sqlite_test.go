package storage

import (
	"path/filepath"
	"testing"

	"github.com/geoview/geoview/internal/article"
)

// setupTestDB creates a test database and JSONL file with test data
func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	jsonlPath := filepath.Join(tmpDir, "articles.jsonl")

	articles := []article.Article{
		{
			ID:            "urban-heat",
			Title:         "Urban Heat Islands",
			Excerpt:       "Why cities run hotter than the countryside.",
			Category:      "Geography",
			TopicCategory: article.TopicEnvironment,
			Tags:          []string{"climate", "cities"},
			RelatedPosts:  []string{"river-deltas", "ghost"},
			GeoLocation:   &article.GeoLocation{Lat: 40.7, Lng: -74.0, Name: "New York"},
		},
		{
			ID:            "river-deltas",
			Title:         "Sinking River Deltas",
			Excerpt:       "Subsidence and sea level rise meet.",
			Category:      "Geography",
			TopicCategory: article.TopicEnvironment,
			Tags:          []string{"water", "Migration"},
		},
		{
			ID:            "silk-roads",
			Title:         "The Silk Roads",
			Excerpt:       "Trade networks across Eurasia.",
			Category:      "History",
			TopicCategory: article.TopicHistory,
			TimePeriod:    &article.TimePeriod{Start: -130, Era: "Antiquity"},
			RelatedPosts:  []string{"urban-heat"},
		},
	}

	if err := WriteAll(jsonlPath, articles); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, jsonlPath
}

func TestRebuildFromJSONL(t *testing.T) {
	db, jsonlPath := setupTestDB(t)

	count, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if count != 3 {
		t.Errorf("RebuildFromJSONL() = %d, want 3", count)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}

	// Rebuilding twice must not duplicate rows
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("second RebuildFromJSONL() error = %v", err)
	}
	if n, _ := db.Count(); n != 3 {
		t.Errorf("Count() after second rebuild = %d, want 3", n)
	}
}

func TestGetByID(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	a, err := db.GetByID("urban-heat")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if a == nil {
		t.Fatal("GetByID() returned nil for existing article")
	}
	if a.Title != "Urban Heat Islands" {
		t.Errorf("Title = %q, want Urban Heat Islands", a.Title)
	}
	if a.GeoLocation == nil || a.GeoLocation.Name != "New York" {
		t.Errorf("GeoLocation = %+v, want New York", a.GeoLocation)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(missing) = %+v, want nil", missing)
	}
}

func TestListByCategory(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		label   string
		wantIDs []string
	}{
		{"All", []string{"urban-heat", "river-deltas", "silk-roads"}},
		{"", []string{"urban-heat", "river-deltas", "silk-roads"}},
		{"Geography", []string{"urban-heat", "river-deltas"}},
		{"History", []string{"silk-roads"}},
		{"Psychology", nil},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := db.ListByCategory(tt.label)
			if err != nil {
				t.Fatalf("ListByCategory() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("ListByCategory(%q) returned %d, want %d", tt.label, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearch(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		query   string
		limit   int
		wantIDs []string
	}{
		{"title match", "silk", 0, []string{"silk-roads"}},
		{"case insensitive", "URBAN", 0, []string{"urban-heat"}},
		{"excerpt match", "subsidence", 0, []string{"river-deltas"}},
		{"tag match", "migration", 0, []string{"river-deltas"}},
		{"category match", "history", 0, []string{"silk-roads"}},
		{"multiple in order", "geo", 0, []string{"urban-heat", "river-deltas"}},
		{"limit", "geo", 1, []string{"urban-heat"}},
		{"whitespace only", "   ", 0, nil},
		{"no match", "volcano", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Search(tt.query, tt.limit)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) returned %d results, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCountDanglingRelations(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	n, err := db.CountDanglingRelations()
	if err != nil {
		t.Fatalf("CountDanglingRelations() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountDanglingRelations() = %d, want 1 (ghost)", n)
	}
}

func TestRebuildFromJSONL_MissingFile(t *testing.T) {
	db, _ := setupTestDB(t)

	count, err := db.RebuildFromJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if count != 0 {
		t.Errorf("RebuildFromJSONL() = %d, want 0", count)
	}
}
