package interact

import (
	"math"

	"github.com/geoview/geoview/internal/graph"
)

// NodeAt returns the node drawn nearest to a screen point, if the point is
// within reach of it. Unsettled nodes cannot be hit.
func (c *Controller) NodeAt(sx, sy float64, positions map[string]graph.Point, reach float64) (graph.Node, graph.Point, bool) {
	var (
		best     graph.Node
		bestPos  graph.Point
		bestDist = math.Inf(1)
	)
	for _, n := range c.data.Nodes {
		p, ok := positions[n.ID]
		if !ok || !p.Settled() {
			continue
		}
		x, y := c.viewport.ToScreen(p.X, p.Y)
		d := math.Hypot(x-sx, y-sy)
		if d <= reach && d < bestDist {
			best, bestPos, bestDist = n, p, d
		}
	}
	return best, bestPos, !math.IsInf(bestDist, 1)
}

// HoverAt hovers the node under a screen point, or clears the hover when
// there is none. It returns the hovered node ID.
func (c *Controller) HoverAt(sx, sy float64, positions map[string]graph.Point, reach float64) (string, bool) {
	n, p, ok := c.NodeAt(sx, sy, positions, reach)
	if !ok {
		c.Hover(nil)
		return "", false
	}
	c.Hover(&Target{NodeID: n.ID, X: p.X, Y: p.Y})
	return n.ID, true
}
