package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// PageRank parameters.
const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// Adjacency answers undirected neighbour queries over the rendered edges.
type Adjacency struct {
	g        *simple.UndirectedGraph
	idToNode map[string]int64
	nodeToID map[int64]string
}

// NewAdjacency indexes the graph's edges in both directions.
func NewAdjacency(data *GraphData) *Adjacency {
	a := &Adjacency{
		g:        simple.NewUndirectedGraph(),
		idToNode: make(map[string]int64, len(data.Nodes)),
		nodeToID: make(map[int64]string, len(data.Nodes)),
	}
	for i, n := range data.Nodes {
		id := int64(i)
		a.g.AddNode(simple.Node(id))
		a.idToNode[n.ID] = id
		a.nodeToID[id] = n.ID
	}
	for _, e := range data.Edges {
		from, ok := a.idToNode[e.Source]
		if !ok {
			continue
		}
		to, ok := a.idToNode[e.Target]
		if !ok || from == to {
			continue
		}
		a.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	return a
}

// Neighbors returns the IDs adjacent to id, sorted. Unknown IDs have none.
func (a *Adjacency) Neighbors(id string) []string {
	n, ok := a.idToNode[id]
	if !ok {
		return nil
	}
	var out []string
	it := a.g.From(n)
	for it.Next() {
		out = append(out, a.nodeToID[it.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of distinct neighbours of id.
func (a *Adjacency) Degree(id string) int {
	n, ok := a.idToNode[id]
	if !ok {
		return 0
	}
	return a.g.From(n).Len()
}

// HasEdge reports whether x and y are joined in either direction.
func (a *Adjacency) HasEdge(x, y string) bool {
	xn, ok := a.idToNode[x]
	if !ok {
		return false
	}
	yn, ok := a.idToNode[y]
	if !ok {
		return false
	}
	return a.g.HasEdgeBetween(xn, yn)
}

// RankedNode is a node ID with its PageRank score.
type RankedNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Rank orders nodes by PageRank over the directed relation graph, highest
// first. Ties fall back to node ID so output is stable.
func Rank(data *GraphData) []RankedNode {
	if data.IsEmpty() {
		return nil
	}

	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(data.Nodes))
	nodeToID := make(map[int64]string, len(data.Nodes))
	for i, n := range data.Nodes {
		id := int64(i)
		g.AddNode(simple.Node(id))
		idToNode[n.ID] = id
		nodeToID[id] = n.ID
	}
	for _, e := range data.Edges {
		from, ok := idToNode[e.Source]
		if !ok {
			continue
		}
		to, ok := idToNode[e.Target]
		if !ok || from == to {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	pr := network.PageRank(g, pageRankDamping, pageRankTolerance)

	ranked := make([]RankedNode, 0, len(pr))
	for nodeID, score := range pr {
		ranked = append(ranked, RankedNode{ID: nodeToID[nodeID], Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// MostConnected returns the node with the most distinct neighbours.
// Ties go to the earlier node. Returns "" for an empty graph.
func MostConnected(data *GraphData) string {
	adj := NewAdjacency(data)
	best, bestDegree := "", -1
	for _, n := range data.Nodes {
		if d := adj.Degree(n.ID); d > bestDegree {
			best, bestDegree = n.ID, d
		}
	}
	return best
}
