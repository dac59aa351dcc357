package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/graph"
)

func fixtureArticles() []article.Article {
	return []article.Article{
		{ID: "urban-heat", Title: "Urban Heat Islands", TopicCategory: article.TopicEnvironment, RelatedPosts: []string{"river-deltas", "silk-roads"}},
		{ID: "river-deltas", Title: "River Deltas", TopicCategory: article.TopicEnvironment, RelatedPosts: []string{"urban-heat"}},
		{ID: "silk-roads", Title: "Silk Roads", TopicCategory: article.TopicHistory},
		{ID: "lonely", Title: "Lonely Island", TopicCategory: article.TopicTechnology},
	}
}

func fixtureGraph() *graph.GraphData {
	return graph.Build(fixtureArticles(), graph.DefaultSizeOptions())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name, format, path string
		wantFormat         string
		wantPath           string
		wantErr            bool
	}{
		{"svg by extension", "", "out/map.svg", FormatSVG, "out/map.svg", false},
		{"png by extension", "", "out/map.PNG", FormatPNG, "out/map.PNG", false},
		{"bare path gets svg", "", "out/map", FormatSVG, "out/map.svg", false},
		{"explicit format wins", ".png", "out/map.svg", FormatPNG, "out/map.svg", false},
		{"unsupported", "gif", "out/map.gif", "", "", true},
		{"missing path", "svg", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, path, err := ResolveFormat(tt.format, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, fixtureGraph(), Options{Format: FormatSVG, Title: "Atlas", DataHash: "abc123"})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "Atlas")
	assert.Contains(t, out, "data_hash: abc123")
	assert.Contains(t, out, "articles: 4  connections: 3")
	assert.Contains(t, out, "most connected: Urban Heat Islands")
	assert.Equal(t, 4+len(article.Topics), strings.Count(out, "<circle"))
	assert.Contains(t, out, "Urban Heat Islands")
}

func TestRenderSVG_FocusDimsOthers(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, fixtureGraph(), Options{Format: FormatSVG, Focus: "silk-roads"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "focus: silk-roads")
	assert.Contains(t, out, "fill-opacity:0.25")
	assert.Contains(t, out, "rgba(148, 163, 184, 0.9)")
	assert.Contains(t, out, "rgba(100, 116, 139, 0.08)")
}

func TestRenderSVG_UnknownFocusIgnored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fixtureGraph(), Options{Format: FormatSVG, Focus: "ghost"}))
	out := buf.String()
	assert.NotContains(t, out, "focus:")
	assert.NotContains(t, out, "fill-opacity:0.25")
	assert.Contains(t, out, "data_hash: n/a")
}

func TestRenderDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, fixtureGraph(), Options{Format: FormatSVG}))
	require.NoError(t, Render(&b, fixtureGraph(), Options{Format: FormatSVG}))
	assert.Equal(t, a.String(), b.String())
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "map.png")
	require.NoError(t, Save(fixtureGraph(), Options{Path: path}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), 640)
}

func TestSave_EmptyGraph(t *testing.T) {
	err := Save(&graph.GraphData{}, Options{Path: filepath.Join(t.TempDir(), "map.svg")})
	assert.Error(t, err)
}

func TestDataHash(t *testing.T) {
	first, err := DataHash(fixtureArticles())
	require.NoError(t, err)
	assert.Len(t, first, 16)

	second, err := DataHash(fixtureArticles())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changed := fixtureArticles()
	changed[0].Title = "Urban Heat"
	third, err := DataHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestParseColor(t *testing.T) {
	c := parseColor("#14b8a6", 1)
	assert.Equal(t, uint8(0x14), c.R)
	assert.Equal(t, uint8(0xb8), c.G)
	assert.Equal(t, uint8(255), c.A)

	c = parseColor("rgba(100, 116, 139, 0.3)", 1)
	assert.Equal(t, uint8(100), c.R)
	assert.InDelta(t, 77, int(c.A), 1)

	c = parseColor("#14b8a6", 0.25)
	assert.Equal(t, uint8(64), c.A)

	assert.Equal(t, colorSubtle.R, parseColor("teal", 1).R)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
}
