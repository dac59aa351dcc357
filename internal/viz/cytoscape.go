package viz

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/geoview/geoview/internal/graph"
)

// CytoscapeElements is the {nodes, edges} element list Cytoscape.js loads.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode wraps a graph node. Classes holds the topic and, for nodes
// no edge touches, "isolated", so stylesheets can select on them.
type CytoscapeNode struct {
	Data    graph.Node `json:"data"`
	Classes string     `json:"classes"`
}

// CytoscapeEdge wraps one relation.
type CytoscapeEdge struct {
	Data struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Target string `json:"target"`
	} `json:"data"`
}

// ToCytoscapeJSON encodes the cognitive map as Cytoscape.js elements.
func ToCytoscapeJSON(g *graph.GraphData) (string, error) {
	touched := make(map[string]bool, len(g.Nodes))
	edges := make([]CytoscapeEdge, len(g.Edges))
	for i, e := range g.Edges {
		touched[e.Source], touched[e.Target] = true, true
		// Build never emits a pair twice, so endpoints identify the edge.
		edges[i].Data.ID = e.Source + "->" + e.Target
		edges[i].Data.Source = e.Source
		edges[i].Data.Target = e.Target
	}

	nodes := make([]CytoscapeNode, len(g.Nodes))
	for i, n := range g.Nodes {
		classes := string(n.TopicCategory)
		if !touched[n.ID] {
			classes += " isolated"
		}
		nodes[i] = CytoscapeNode{Data: n, Classes: classes}
	}

	b, err := json.Marshal(CytoscapeElements{Nodes: nodes, Edges: edges})
	if err != nil {
		return "", fmt.Errorf("encoding cytoscape elements: %w", err)
	}
	return string(b), nil
}
