package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geoview/geoview/internal/article"
)

func testArticle(id, title string) article.Article {
	return article.Article{
		ID:            id,
		Title:         title,
		Excerpt:       "Excerpt for " + title,
		Category:      "Geography",
		TopicCategory: article.TopicEnvironment,
	}
}

func TestReadAll_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	articles, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("ReadAll() returned %d articles, want 0", len(articles))
	}
}

func TestReadAll_NonExistentFile(t *testing.T) {
	articles, err := ReadAll("/nonexistent/path/articles.jsonl")
	if err != nil {
		t.Fatalf("ReadAll() error = %v (should return nil for nonexistent file)", err)
	}
	if len(articles) != 0 {
		t.Errorf("ReadAll() returned %v, want empty", articles)
	}
}

func TestReadAll_PreservesOrderAndSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	lines := []string{
		`{"id":"urban-heat","title":"Urban Heat Islands","related_posts":["river-deltas"]}`,
		``,
		`{"id":"river-deltas","title":"Sinking River Deltas","geo_location":{"lat":21.9,"lng":90.1,"name":"Sundarbans"}}`,
		`   `,
		`{"id":"silk-roads","title":"Silk Roads","time_period":{"start":-130,"end":1453,"era":"Antiquity"}}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	articles, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("ReadAll() returned %d articles, want 3", len(articles))
	}

	wantIDs := []string{"urban-heat", "river-deltas", "silk-roads"}
	for i, want := range wantIDs {
		if articles[i].ID != want {
			t.Errorf("articles[%d].ID = %q, want %q", i, articles[i].ID, want)
		}
	}
	if got := articles[0].RelatedPosts; len(got) != 1 || got[0] != "river-deltas" {
		t.Errorf("RelatedPosts = %v, want [river-deltas]", got)
	}
	if articles[1].GeoLocation == nil || articles[1].GeoLocation.Name != "Sundarbans" {
		t.Errorf("GeoLocation = %+v, want Sundarbans", articles[1].GeoLocation)
	}
	if articles[2].TimePeriod == nil || articles[2].TimePeriod.End == nil || *articles[2].TimePeriod.End != 1453 {
		t.Errorf("TimePeriod = %+v, want end 1453", articles[2].TimePeriod)
	}
}

func TestReadAll_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	content := `{"id":"ok","title":"Fine"}` + "\n" + `{"id":` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadAll(path)
	if err == nil {
		t.Fatal("ReadAll() expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want mention of line 2", err)
	}
}

func TestAppendAndWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")

	if err := Append(path, testArticle("a", "Alpha")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := Append(path, testArticle("b", "Beta")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	articles, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 || articles[1].Title != "Beta" {
		t.Fatalf("after Append: %+v", articles)
	}

	if err := WriteAll(path, []article.Article{testArticle("c", "Gamma")}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	articles, err = ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].ID != "c" {
		t.Errorf("after WriteAll: %+v, want only c", articles)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestAddArticle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")

	if err := AddArticle(path, testArticle("urban-heat", "Urban Heat")); err != nil {
		t.Fatalf("AddArticle() error = %v", err)
	}

	err := AddArticle(path, testArticle("urban-heat", "Again"))
	if !errors.Is(err, article.ErrDuplicateID) {
		t.Errorf("AddArticle() duplicate error = %v, want ErrDuplicateID", err)
	}

	err = AddArticle(path, testArticle("Bad ID", "Invalid"))
	if !errors.Is(err, article.ErrInvalidID) {
		t.Errorf("AddArticle() invalid error = %v, want ErrInvalidID", err)
	}

	articles, _ := ReadAll(path)
	if len(articles) != 1 {
		t.Errorf("store has %d articles, want 1", len(articles))
	}
}

func TestUpdateArticle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	if err := WriteAll(path, []article.Article{testArticle("a", "Alpha"), testArticle("b", "Beta")}); err != nil {
		t.Fatal(err)
	}

	updated := testArticle("b", "Beta Revised")
	if err := UpdateArticle(path, updated); err != nil {
		t.Fatalf("UpdateArticle() error = %v", err)
	}
	articles, _ := ReadAll(path)
	if articles[1].Title != "Beta Revised" {
		t.Errorf("Title = %q, want Beta Revised", articles[1].Title)
	}

	err := UpdateArticle(path, testArticle("zzz", "Missing"))
	if !errors.Is(err, article.ErrArticleNotFound) {
		t.Errorf("UpdateArticle() missing error = %v, want ErrArticleNotFound", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Urban Heat Islands", "urban-heat-islands"},
		{"  The Aral Sea: A Vanishing Lake!  ", "the-aral-sea-a-vanishing-lake"},
		{"CO₂ & Cities", "co-cities"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}

	long := Slugify(strings.Repeat("word ", 30))
	if len(long) > 48 || strings.HasSuffix(long, "-") {
		t.Errorf("Slugify(long) = %q, want <= 48 chars without trailing dash", long)
	}
}

func TestGenerateUniqueID(t *testing.T) {
	articles := []article.Article{
		{ID: "urban-heat"},
		{ID: "urban-heat-2"},
	}

	if got := GenerateUniqueID(articles, "river-deltas"); got != "river-deltas" {
		t.Errorf("GenerateUniqueID() = %q, want river-deltas", got)
	}
	if got := GenerateUniqueID(articles, "urban-heat"); got != "urban-heat-3" {
		t.Errorf("GenerateUniqueID() = %q, want urban-heat-3", got)
	}
}
