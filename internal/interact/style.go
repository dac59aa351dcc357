package interact

import "github.com/geoview/geoview/internal/graph"

// EdgeStyle is how one edge is drawn.
type EdgeStyle struct {
	Color       string  `json:"color"`
	Width       float64 `json:"width"`
	Highlighted bool    `json:"highlighted"`
}

// Edge colours and widths.
var (
	EdgeIdle      = EdgeStyle{Color: "rgba(100, 116, 139, 0.3)", Width: 2}
	EdgeHighlight = EdgeStyle{Color: "rgba(148, 163, 184, 0.9)", Width: 3, Highlighted: true}
	EdgeDimmed    = EdgeStyle{Color: "rgba(100, 116, 139, 0.08)", Width: 1}
)

// NodeStyle is how one node is drawn.
type NodeStyle struct {
	Color        string  `json:"color"`
	Radius       float64 `json:"radius"`
	Opacity      float64 `json:"opacity"`
	LabelVisible bool    `json:"label_visible"`
}

// EdgeStyle returns the style for e given the current hover.
func (c *Controller) EdgeStyle(e graph.Edge) EdgeStyle {
	if c.hover == nil {
		return EdgeIdle
	}
	if c.neighborhood.Has(e.Source) && c.neighborhood.Has(e.Target) {
		return EdgeHighlight
	}
	return EdgeDimmed
}

// NodeStyle returns the style for n given the current hover and zoom.
func (c *Controller) NodeStyle(n graph.Node) NodeStyle {
	style := NodeStyle{
		Color:   n.Color,
		Radius:  n.Size,
		Opacity: 1,
	}

	hovered := false
	if c.hover != nil {
		hovered = c.hover.NodeID == n.ID
		if !c.neighborhood.Has(n.ID) {
			style.Opacity = c.opts.DimmedOpacity
		}
	}
	style.LabelVisible = hovered || c.viewport.Scale >= c.opts.LabelZoomThreshold
	return style
}
