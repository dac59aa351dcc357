// Package graph builds the cognitive map: the relationship graph between
// articles, its adjacency queries and the force layout driving it.
package graph

import "github.com/geoview/geoview/internal/article"

// GraphData contains all data needed to render the cognitive map.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents one article in the graph.
type Node struct {
	ID            string                `json:"id"`
	DisplayName   string                `json:"name"`
	Category      string                `json:"category"`
	TopicCategory article.TopicCategory `json:"topicCategory"`
	Color         string                `json:"color"`

	// Sizing
	ConnectionCount int     `json:"connections"`
	Size            float64 `json:"val"`
}

// Edge is a directed relation from an article to one it relates to.
// Rendering treats it as undirected.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SizeOptions controls node sizing: Size = Base + ConnectionCount*Weight.
type SizeOptions struct {
	Base   float64
	Weight float64
}

// Default node sizing.
const (
	DefaultNodeBase   = 6.0
	DefaultNodeWeight = 2.0
)

// DefaultSizeOptions returns the standard node sizing.
func DefaultSizeOptions() SizeOptions {
	return SizeOptions{Base: DefaultNodeBase, Weight: DefaultNodeWeight}
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// NodeByID returns the node with the given ID.
func (g *GraphData) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
