package snapshot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/geoview/geoview/internal/article"
)

var (
	colorBackdrop = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	colorHeaderBG = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	colorLegendBG = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	colorStroke   = color.RGBA{R: 51, G: 65, B: 85, A: 255}
	colorText     = color.RGBA{R: 248, G: 250, B: 252, A: 255}
	colorSubtle   = color.RGBA{R: 148, G: 163, B: 184, A: 255}
)

const (
	legendW   = 180.0
	legendRow = 16.0
)

func renderPNG(w io.Writer, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, layout)
	drawLegend(dc, layout)

	nodePos := make(map[string]layoutNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		nodePos[n.ID] = n
	}
	for _, e := range layout.Edges {
		from, to := nodePos[e.From], nodePos[e.To]
		dc.SetColor(parseColor(e.Style.Color, 1))
		dc.SetLineWidth(e.Style.Width)
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}

	for _, n := range layout.Nodes {
		drawNode(dc, n)
	}

	return dc.EncodePNG(w)
}

func drawNode(dc *gg.Context, n layoutNode) {
	dc.SetColor(parseColor(n.Style.Color, n.Style.Opacity))
	dc.DrawCircle(n.X, n.Y, n.Style.Radius)
	dc.Fill()
	dc.SetColor(withAlpha(colorStroke, n.Style.Opacity))
	dc.SetLineWidth(1.2)
	dc.DrawCircle(n.X, n.Y, n.Style.Radius)
	dc.Stroke()

	if n.Style.LabelVisible {
		dc.SetColor(withAlpha(colorText, n.Style.Opacity))
		dc.DrawStringAnchored(truncate(n.DisplayName, 30), n.X, n.Y+n.Style.Radius+12, 0.5, 0.5)
	}
}

func drawSummaryBlock(dc *gg.Context, layout layoutResult) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range summaryLines(layout.Summary) {
		dc.DrawStringAnchored(line, 32, 64+float64(i)*20, 0, 0.5)
	}
}

func drawLegend(dc *gg.Context, layout layoutResult) {
	x := float64(layout.Width) - legendW - 20
	y := 24.0
	h := legendHeight()
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, legendW, h, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, legendW, h, 10)
	dc.Stroke()

	for i, t := range article.Topics {
		rowY := y + 16 + float64(i)*legendRow
		dc.SetColor(parseColor(t.Color(), 1))
		dc.DrawCircle(x+16, rowY, 5)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(t.Label(), x+28, rowY, 0, 0.5)
	}
}

func renderSVG(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, layout)
	drawLegendSVG(canvas, layout)

	nodePos := make(map[string]layoutNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		nodePos[n.ID] = n
	}
	for _, e := range layout.Edges {
		from, to := nodePos[e.From], nodePos[e.To]
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%g", e.Style.Color, e.Style.Width))
	}

	for _, n := range layout.Nodes {
		x, y := int(n.X), int(n.Y)
		canvas.Circle(x, y, int(math.Round(n.Style.Radius)),
			fmt.Sprintf("fill:%s;fill-opacity:%g;stroke:%s;stroke-width:1.2", n.Style.Color, n.Style.Opacity, css(colorStroke)))
		if n.Style.LabelVisible {
			canvas.Text(x, y+int(n.Style.Radius)+14, truncate(n.DisplayName, 30),
				fmt.Sprintf("fill:%s;fill-opacity:%g;font-size:12px;font-family:sans-serif;text-anchor:middle", css(colorText), n.Style.Opacity))
		}
	}

	canvas.End()
	return nil
}

func drawSummaryBlockSVG(canvas *svg.SVG, layout layoutResult) {
	canvas.Text(32, 48, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, line := range summaryLines(layout.Summary) {
		canvas.Text(32, 68+i*20, line, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

func drawLegendSVG(canvas *svg.SVG, layout layoutResult) {
	x := layout.Width - int(legendW) - 20
	y := 24
	canvas.Roundrect(x, y, int(legendW), int(legendHeight()), 10, 10,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	for i, t := range article.Topics {
		rowY := y + 16 + i*int(legendRow)
		canvas.Circle(x+16, rowY, 5, fmt.Sprintf("fill:%s", t.Color()))
		canvas.Text(x+28, rowY+4, t.Label(), fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorText)))
	}
}

func summaryLines(s summaryInfo) []string {
	hash := s.DataHash
	if hash == "" {
		hash = "n/a"
	}
	lines := []string{
		fmt.Sprintf("data_hash: %s", hash),
		fmt.Sprintf("articles: %d  connections: %d", s.NodeCount, s.EdgeCount),
		fmt.Sprintf("most connected: %s", truncate(s.MostConnected, 60)),
	}
	if s.Focus != "" {
		lines[2] += fmt.Sprintf("  focus: %s", s.Focus)
	}
	return lines
}

func legendHeight() float64 {
	return 16 + float64(len(article.Topics))*legendRow
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func withAlpha(c color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * clamp01(opacity)))}
}

// parseColor reads "#rrggbb" or "rgba(r, g, b, a)" and scales the alpha by
// opacity. Anything else falls back to the subtle text colour.
func parseColor(s string, opacity float64) color.NRGBA {
	s = strings.TrimSpace(s)
	var r, g, b uint8
	alpha := 1.0
	switch {
	case strings.HasPrefix(s, "#") && len(s) == 7:
		if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &r, &g, &b); err != nil {
			return withAlpha(colorSubtle, opacity)
		}
	case strings.HasPrefix(s, "rgba("):
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &alpha); err != nil {
			return withAlpha(colorSubtle, opacity)
		}
	default:
		return withAlpha(colorSubtle, opacity)
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * clamp01(alpha*opacity)))}
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 1
	}
	return math.Min(1, math.Max(0, f))
}
