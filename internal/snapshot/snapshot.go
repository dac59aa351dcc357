// Package snapshot renders a static image of the cognitive map (SVG or PNG)
// with a short summary block.
package snapshot

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/crypto/blake2b"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
)

// Formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Options controls snapshot export.
type Options struct {
	Path     string // Output path; format inferred from extension when Format empty
	Format   string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string
	Focus    string // Optional node to render as hovered
	DataHash string
}

// Save renders the graph to opts.Path.
func Save(g *graph.GraphData, opts Options) error {
	if g == nil || g.IsEmpty() {
		return fmt.Errorf("no articles to export")
	}

	format, path, err := ResolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Format, opts.Path = format, path

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Render(f, g, opts); err != nil {
		return err
	}
	return f.Close()
}

// ResolveFormat settles the output format, defaulting to SVG and adding a
// .svg extension to bare paths.
func ResolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = FormatSVG
		case ".png":
			format = FormatPNG
		default:
			format = FormatSVG
			if path != "" && filepath.Ext(path) == "" {
				path += ".svg"
			}
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// Render writes the snapshot in opts.Format to w.
func Render(w io.Writer, g *graph.GraphData, opts Options) error {
	l := buildLayout(g, opts)
	switch strings.ToLower(opts.Format) {
	case FormatPNG:
		return renderPNG(w, l)
	case FormatSVG, "":
		return renderSVG(w, l)
	default:
		return fmt.Errorf("unhandled format %q", opts.Format)
	}
}

// DataHash fingerprints the article set so snapshots can be traced back to
// the content they were drawn from.
func DataHash(articles []article.Article) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	enc := json.NewEncoder(h)
	for _, a := range articles {
		if err := enc.Encode(a); err != nil {
			return "", fmt.Errorf("hashing article %s: %w", a.ID, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// --- layout computation ----------------------------------------------------

type layoutNode struct {
	graph.Node
	X, Y  float64
	Style interact.NodeStyle
}

type layoutEdge struct {
	From, To string
	Style    interact.EdgeStyle
}

type layoutResult struct {
	Nodes   []layoutNode
	Edges   []layoutEdge
	Width   int
	Height  int
	Header  float64
	Summary summaryInfo
}

type summaryInfo struct {
	Title         string
	DataHash      string
	NodeCount     int
	EdgeCount     int
	MostConnected string
	Focus         string
}

// buildLayout places nodes on a ring, grouped by topic in legend order and
// by ID within a topic, so the same graph always draws the same way.
func buildLayout(g *graph.GraphData, opts Options) layoutResult {
	const (
		padding      = 36.0
		headerHeight = 120.0
		minRadius    = 160.0
		arcPerNode   = 70.0
	)

	ordered := make([]graph.Node, len(g.Nodes))
	copy(ordered, g.Nodes)
	topicOrder := make(map[article.TopicCategory]int, len(article.Topics))
	for i, t := range article.Topics {
		topicOrder[t] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := topicOrder[ordered[i].TopicCategory], topicOrder[ordered[j].TopicCategory]
		if ti != tj {
			return ti < tj
		}
		return ordered[i].ID < ordered[j].ID
	})

	ctl := interact.New(g, interact.DefaultOptions())
	defer ctl.Close()
	ctl.SetViewport(interact.Viewport{Scale: interact.DefaultLabelZoomThreshold})
	focus := ""
	if _, ok := g.NodeByID(opts.Focus); ok {
		focus = opts.Focus
		ctl.Hover(&interact.Target{NodeID: focus, X: math.NaN(), Y: math.NaN()})
	}

	radius := math.Max(minRadius, float64(len(ordered))*arcPerNode/(2*math.Pi))
	size := 2*radius + 2*padding + 160
	width := int(math.Max(size, 640))
	height := int(math.Max(size+headerHeight, 480))
	cx := float64(width) / 2
	cy := headerHeight + (float64(height)-headerHeight)/2

	nodes := make([]layoutNode, 0, len(ordered))
	for i, n := range ordered {
		angle := 2*math.Pi*float64(i)/float64(len(ordered)) - math.Pi/2
		x, y := cx, cy
		if len(ordered) > 1 {
			x = cx + radius*math.Cos(angle)
			y = cy + radius*math.Sin(angle)
		}
		nodes = append(nodes, layoutNode{Node: n, X: x, Y: y, Style: ctl.NodeStyle(n)})
	}

	edges := make([]layoutEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, layoutEdge{From: e.Source, To: e.Target, Style: ctl.EdgeStyle(e)})
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Cognitive Map"
	}
	most := graph.MostConnected(g)
	if n, ok := g.NodeByID(most); ok {
		most = fmt.Sprintf("%s (%d links)", n.DisplayName, graph.NewAdjacency(g).Degree(n.ID))
	}

	return layoutResult{
		Nodes:  nodes,
		Edges:  edges,
		Width:  width,
		Height: height,
		Header: headerHeight,
		Summary: summaryInfo{
			Title:         title,
			DataHash:      opts.DataHash,
			NodeCount:     len(nodes),
			EdgeCount:     len(edges),
			MostConnected: most,
			Focus:         focus,
		},
	}
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
