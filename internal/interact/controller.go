// Package interact holds the cognitive map's hover, tooltip and click state
// and derives per-element styles from it.
package interact

import (
	"math"
	"sort"

	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/nav"
)

// Set is a set of node IDs.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Target is a hovered node with its simulated position in layout space.
type Target struct {
	NodeID string
	X, Y   float64
}

// Tooltip is the floating label next to the hovered node, in screen space.
type Tooltip struct {
	NodeID string  `json:"node_id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Dimensions is the drawing area size.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sizing limits for Resize.
const (
	aspectRatio = 0.75
	maxHeight   = 600
)

// TooltipOffset is the distance from the pointer to the tooltip corner.
const TooltipOffset = 15

// Options configures a controller.
type Options struct {
	LabelZoomThreshold float64
	DimmedOpacity      float64
	Width              float64

	// Navigate receives click requests. Nil drops them.
	Navigate func(nav.Request)
}

// Default option values.
const (
	DefaultLabelZoomThreshold = 1.5
	DefaultDimmedOpacity      = 0.25
	DefaultWidth              = 800
)

// DefaultOptions returns the standard controller settings.
func DefaultOptions() Options {
	return Options{
		LabelZoomThreshold: DefaultLabelZoomThreshold,
		DimmedOpacity:      DefaultDimmedOpacity,
		Width:              DefaultWidth,
	}
}

// Controller owns the hover state of one cognitive map view.
// It is not safe for concurrent use; all calls come from the view's event loop.
type Controller struct {
	data  *graph.GraphData
	adj   *graph.Adjacency
	nodes map[string]graph.Node
	opts  Options

	hover        *Target
	neighborhood Set
	tooltip      *Tooltip
	viewport     Viewport
	closed       bool
}

// New creates a controller for data.
func New(data *graph.GraphData, opts Options) *Controller {
	if opts.LabelZoomThreshold <= 0 {
		opts.LabelZoomThreshold = DefaultLabelZoomThreshold
	}
	if opts.DimmedOpacity <= 0 || opts.DimmedOpacity > 1 {
		opts.DimmedOpacity = DefaultDimmedOpacity
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	nodes := make(map[string]graph.Node, len(data.Nodes))
	for _, n := range data.Nodes {
		nodes[n.ID] = n
	}
	c := &Controller{
		data:  data,
		adj:   graph.NewAdjacency(data),
		nodes: nodes,
		opts:  opts,
	}
	dims := c.Resize(opts.Width)
	c.viewport = Viewport{Width: dims.Width, Height: dims.Height, Scale: 1, OffsetX: dims.Width / 2, OffsetY: dims.Height / 2}
	return c
}

// Neighborhood returns id together with every node sharing an edge with it
// in either direction. An unknown id yields just {id}.
func (c *Controller) Neighborhood(id string) Set {
	set := Set{id: {}}
	for _, n := range c.adj.Neighbors(id) {
		set[n] = struct{}{}
	}
	return set
}

// Hover sets the hovered node, or clears it when t is nil. The tooltip only
// moves when the target's coordinates are finite; otherwise the previous
// tooltip stays as it was.
func (c *Controller) Hover(t *Target) {
	if c.closed {
		return
	}
	if t == nil {
		c.hover = nil
		c.neighborhood = nil
		c.tooltip = nil
		return
	}

	target := *t
	c.hover = &target
	c.neighborhood = c.Neighborhood(t.NodeID)
	c.placeTooltip()
}

// placeTooltip puts the tooltip next to the hovered node under the current
// viewport. A hover without finite coordinates leaves it untouched.
func (c *Controller) placeTooltip() {
	t := c.hover
	if t == nil || !finite(t.X) || !finite(t.Y) {
		return
	}
	sx, sy := c.viewport.ToScreen(t.X, t.Y)
	x, y := c.viewport.Clamp(sx+TooltipOffset, sy+TooltipOffset)
	label := t.NodeID
	if n, ok := c.nodes[t.NodeID]; ok {
		label = n.DisplayName
	}
	c.tooltip = &Tooltip{NodeID: t.NodeID, Label: label, X: x, Y: y}
}

// Hovered returns the hovered node ID.
func (c *Controller) Hovered() (string, bool) {
	if c.hover == nil {
		return "", false
	}
	return c.hover.NodeID, true
}

// Tooltip returns the current tooltip.
func (c *Controller) Tooltip() (Tooltip, bool) {
	if c.tooltip == nil {
		return Tooltip{}, false
	}
	return *c.tooltip, true
}

// Click turns a node click into a navigation request for its article.
// Nodes without an ID are ignored.
func (c *Controller) Click(n graph.Node) (nav.Request, bool) {
	if c.closed || n.ID == "" {
		return nav.Request{}, false
	}
	req := nav.PostRequest(n.ID)
	if c.opts.Navigate != nil {
		c.opts.Navigate(req)
	}
	return req, true
}

// Resize recomputes the drawing area for a container width and keeps the
// viewport centred.
func (c *Controller) Resize(width float64) Dimensions {
	dims := Dimensions{Width: width, Height: math.Min(width*aspectRatio, maxHeight)}
	c.viewport.Width = dims.Width
	c.viewport.Height = dims.Height
	c.viewport.OffsetX = dims.Width / 2
	c.viewport.OffsetY = dims.Height / 2
	c.placeTooltip()
	return dims
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport {
	return c.viewport
}

// SetViewport replaces the viewport, e.g. after a pan or zoom. The tooltip
// follows the hovered node.
func (c *Controller) SetViewport(v Viewport) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	c.viewport = v
	c.placeTooltip()
}

// Zoom multiplies the viewport scale by factor.
func (c *Controller) Zoom(factor float64) {
	if factor <= 0 || !finite(factor) {
		return
	}
	c.viewport.Scale *= factor
	c.placeTooltip()
}

// Graph returns the graph the controller was built for.
func (c *Controller) Graph() *graph.GraphData {
	return c.data
}

// Close drops hover and tooltip state. Later events are ignored.
func (c *Controller) Close() {
	c.hover = nil
	c.neighborhood = nil
	c.tooltip = nil
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	return c.closed
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
