package interact

import "math"

// Viewport maps layout coordinates onto the drawing area.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// ToScreen converts a layout position to screen coordinates.
func (v Viewport) ToScreen(x, y float64) (float64, float64) {
	return x*v.Scale + v.OffsetX, y*v.Scale + v.OffsetY
}

// ToWorld converts screen coordinates back to layout space.
func (v Viewport) ToWorld(sx, sy float64) (float64, float64) {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	return (sx - v.OffsetX) / scale, (sy - v.OffsetY) / scale
}

// Clamp keeps a screen point inside the drawing area.
func (v Viewport) Clamp(x, y float64) (float64, float64) {
	return math.Max(0, math.Min(x, v.Width)), math.Max(0, math.Min(y, v.Height))
}

// Contains reports whether a screen point lies inside the drawing area.
func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= v.Width && y <= v.Height
}

// Fit returns a viewport of the same size whose scale and offset show
// every point. Non-finite points are ignored; with none left the viewport
// is returned unchanged.
func (v Viewport) Fit(points [][2]float64, padding float64) Viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		if !finite(p[0]) || !finite(p[1]) {
			continue
		}
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if math.IsInf(minX, 1) {
		return v
	}

	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)
	usableW := math.Max(v.Width-2*padding, 1)
	usableH := math.Max(v.Height-2*padding, 1)
	scale := math.Min(usableW/spanX, usableH/spanY)

	out := v
	out.Scale = scale
	out.OffsetX = v.Width/2 - (minX+maxX)/2*scale
	out.OffsetY = v.Height/2 - (minY+maxY)/2*scale
	return out
}
