package graph

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ForceGraphData is the node/link shape consumed by force-graph.
type ForceGraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// ToForceGraphJSON converts GraphData to force-graph JSON.
func (g *GraphData) ToForceGraphJSON() (string, error) {
	data := ForceGraphData{
		Nodes: g.Nodes,
		Links: g.Edges,
	}
	if data.Nodes == nil {
		data.Nodes = []Node{}
	}
	if data.Links == nil {
		data.Links = []Edge{}
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshaling force-graph data to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
