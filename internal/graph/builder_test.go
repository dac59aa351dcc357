package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/geoview/geoview/internal/article"
)

func art(id string, related ...string) article.Article {
	return article.Article{
		ID:            id,
		Title:         "Title " + id,
		Category:      "Geography",
		TopicCategory: article.TopicEnvironment,
		RelatedPosts:  related,
	}
}

func TestBuild_ThreeArticles(t *testing.T) {
	g := Build([]article.Article{
		art("a", "b"),
		art("b"),
		art("c", "a"),
	}, DefaultSizeOptions())

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, []Edge{{Source: "a", Target: "b"}, {Source: "c", Target: "a"}}, g.Edges)

	a, _ := g.NodeByID("a")
	b, _ := g.NodeByID("b")
	assert.Equal(t, 1, a.ConnectionCount)
	assert.Equal(t, 0, b.ConnectionCount)
	assert.Equal(t, DefaultNodeBase+DefaultNodeWeight, a.Size)
	assert.Equal(t, DefaultNodeBase, b.Size)
}

func TestBuild_GhostRelation(t *testing.T) {
	g := Build([]article.Article{art("d", "ghost")}, DefaultSizeOptions())

	require.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 0, g.Nodes[0].ConnectionCount)
	assert.Equal(t, DefaultNodeBase, g.Nodes[0].Size)
}

func TestBuild_SelfAndDuplicateRelationsDropped(t *testing.T) {
	g := Build([]article.Article{
		art("a", "a", "b", "b"),
		art("b"),
	}, SizeOptions{Base: 1, Weight: 10})

	assert.Equal(t, []Edge{{Source: "a", Target: "b"}}, g.Edges)
	a, _ := g.NodeByID("a")
	assert.Equal(t, 1, a.ConnectionCount)
	assert.Equal(t, 11.0, a.Size)
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, DefaultSizeOptions())
	assert.True(t, g.IsEmpty())
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Edges)
}

func TestBuild_NodeAttributes(t *testing.T) {
	a := art("urban-heat")
	a.ShortName = "Heat"
	a.Category = "Geography"
	b := art("unknown-topic")
	b.TopicCategory = ""

	g := Build([]article.Article{a, b}, DefaultSizeOptions())

	assert.Equal(t, "Heat", g.Nodes[0].DisplayName)
	assert.Equal(t, article.TopicEnvironment.Color(), g.Nodes[0].Color)
	assert.Equal(t, "Title unknown-topic", g.Nodes[1].DisplayName)
	assert.Equal(t, article.TopicTechnology, g.Nodes[1].TopicCategory)
	assert.Equal(t, article.TopicTechnology.Color(), g.Nodes[1].Color)
}

func TestDetectDanglingRelations(t *testing.T) {
	got := DetectDanglingRelations([]article.Article{
		art("a", "ghost", "a", "b", "b"),
		art("b", "a"),
	})

	assert.Equal(t, []DanglingRelation{
		{SourceID: "a", TargetID: "ghost", Kind: DanglingMissing},
		{SourceID: "a", TargetID: "a", Kind: DanglingSelf},
		{SourceID: "a", TargetID: "b", Kind: DanglingDuplicate},
	}, got)
}

// genArticles draws a small article set whose relations may point at
// missing IDs, at themselves or repeat.
func genArticles(t *rapid.T) []article.Article {
	n := rapid.IntRange(0, 8).Draw(t, "n")
	articles := make([]article.Article, n)
	for i := range articles {
		rels := rapid.SliceOfN(rapid.IntRange(0, n+2), 0, 5).Draw(t, fmt.Sprintf("rels%d", i))
		related := make([]string, len(rels))
		for j, r := range rels {
			related[j] = fmt.Sprintf("n%d", r)
		}
		articles[i] = art(fmt.Sprintf("n%d", i), related...)
	}
	return articles
}

func TestBuild_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		articles := genArticles(t)
		opts := SizeOptions{Base: 4, Weight: 3}
		g := Build(articles, opts)

		if len(g.Nodes) != len(articles) {
			t.Fatalf("got %d nodes for %d articles", len(g.Nodes), len(articles))
		}

		ids := make(map[string]bool)
		for i, n := range g.Nodes {
			if n.ID != articles[i].ID {
				t.Fatalf("node %d = %s, want input order %s", i, n.ID, articles[i].ID)
			}
			ids[n.ID] = true
		}

		outbound := make(map[string]int)
		seen := make(map[Edge]bool)
		for _, e := range g.Edges {
			if !ids[e.Source] || !ids[e.Target] {
				t.Fatalf("dangling edge %v", e)
			}
			if e.Source == e.Target {
				t.Fatalf("self edge %v", e)
			}
			if seen[e] {
				t.Fatalf("duplicate edge %v", e)
			}
			seen[e] = true
			outbound[e.Source]++
		}

		for _, n := range g.Nodes {
			if n.ConnectionCount != outbound[n.ID] {
				t.Fatalf("%s ConnectionCount = %d, rendered %d", n.ID, n.ConnectionCount, outbound[n.ID])
			}
			if want := opts.Base + float64(n.ConnectionCount)*opts.Weight; n.Size != want {
				t.Fatalf("%s Size = %g, want %g", n.ID, n.Size, want)
			}
		}

		total := 0
		for _, a := range articles {
			total += len(a.RelatedPosts)
		}
		if len(g.Edges)+len(DetectDanglingRelations(articles)) != total {
			t.Fatalf("edges + dangling != relations (%d + %d != %d)",
				len(g.Edges), len(DetectDanglingRelations(articles)), total)
		}
	})
}

func TestBuild_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		articles := genArticles(t)
		first := Build(articles, DefaultSizeOptions())
		second := Build(articles, DefaultSizeOptions())
		if !assert.ObjectsAreEqual(first, second) {
			t.Fatalf("Build not deterministic:\n%v\n%v", first, second)
		}
	})
}
