package graph

import "github.com/geoview/geoview/internal/article"

// DanglingKind says why a relation was left out of the graph.
type DanglingKind string

// Reasons a relation is not rendered.
const (
	DanglingMissing   DanglingKind = "missing_target"
	DanglingSelf      DanglingKind = "self_relation"
	DanglingDuplicate DanglingKind = "duplicate"
)

// DanglingRelation is a related-post entry that produced no edge.
type DanglingRelation struct {
	SourceID string       `json:"source_id"`
	TargetID string       `json:"target_id"`
	Kind     DanglingKind `json:"kind"`
}

// Build converts articles into graph nodes and edges.
//
// Nodes keep input order. Each related-post entry whose target exists
// becomes one edge; relations to absent IDs, to the article itself, and
// repeats of an already emitted pair produce no edge. A node's
// ConnectionCount is the number of edges it emits.
func Build(articles []article.Article, opts SizeOptions) *GraphData {
	g := &GraphData{
		Nodes: make([]Node, 0, len(articles)),
		Edges: []Edge{},
	}

	known := make(map[string]bool, len(articles))
	for _, a := range articles {
		known[a.ID] = true
	}

	seen := make(map[Edge]bool)
	for _, a := range articles {
		count := 0
		for _, target := range a.RelatedPosts {
			if classify(a.ID, target, known, seen) != "" {
				continue
			}
			e := Edge{Source: a.ID, Target: target}
			seen[e] = true
			g.Edges = append(g.Edges, e)
			count++
		}
		g.Nodes = append(g.Nodes, newNode(a, count, opts))
	}

	return g
}

// DetectDanglingRelations reports every related-post entry that Build
// leaves out, in input order.
func DetectDanglingRelations(articles []article.Article) []DanglingRelation {
	known := make(map[string]bool, len(articles))
	for _, a := range articles {
		known[a.ID] = true
	}

	var dangling []DanglingRelation
	seen := make(map[Edge]bool)
	for _, a := range articles {
		for _, target := range a.RelatedPosts {
			if kind := classify(a.ID, target, known, seen); kind != "" {
				dangling = append(dangling, DanglingRelation{SourceID: a.ID, TargetID: target, Kind: kind})
				continue
			}
			seen[Edge{Source: a.ID, Target: target}] = true
		}
	}
	return dangling
}

// classify returns the reason a relation is dropped, or "" if it renders.
func classify(source, target string, known map[string]bool, seen map[Edge]bool) DanglingKind {
	switch {
	case !known[target]:
		return DanglingMissing
	case source == target:
		return DanglingSelf
	case seen[Edge{Source: source, Target: target}]:
		return DanglingDuplicate
	}
	return ""
}

func newNode(a article.Article, connections int, opts SizeOptions) Node {
	topic := a.Topic()
	return Node{
		ID:              a.ID,
		DisplayName:     a.DisplayName(),
		Category:        a.Category,
		TopicCategory:   topic,
		Color:           topic.Color(),
		ConnectionCount: connections,
		Size:            opts.Base + float64(connections)*opts.Weight,
	}
}
