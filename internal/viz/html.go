// Package viz renders the cognitive map as a self-contained HTML page.
package viz

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title              string
	LabelZoomThreshold float64
	DimmedOpacity      float64
	PostURLPrefix      string // Prepended to /post/{id} when a node is clicked
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:              "Cognitive Map",
		LabelZoomThreshold: interact.DefaultLabelZoomThreshold,
		DimmedOpacity:      interact.DefaultDimmedOpacity,
		PostURLPrefix:      "#",
	}
}

// LegendEntry is one colour swatch under the map.
type LegendEntry struct {
	Label string
	Color string
}

// Legend returns the topic swatches in legend order.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(article.Topics))
	for _, t := range article.Topics {
		meta := t.Metadata()
		out = append(out, LegendEntry{Label: meta.Label, Color: meta.MainColor})
	}
	return out
}

// templateData holds data for the HTML template.
type templateData struct {
	Title         string
	GraphJSON     template.JS
	LabelZoom     template.JS
	DimmedOpacity template.JS
	TooltipOffset template.JS
	PostURLPrefix string
	IdleEdge      string
	HighlightEdge string
	DimmedEdge    string
	Legend        []LegendEntry
	NodeCount     int
	EdgeCount     int
}

// GenerateHTML generates a self-contained HTML file for the cognitive map.
func GenerateHTML(g *graph.GraphData, opts HTMLOptions) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	def := DefaultOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.LabelZoomThreshold <= 0 {
		opts.LabelZoomThreshold = def.LabelZoomThreshold
	}
	if opts.DimmedOpacity <= 0 || opts.DimmedOpacity > 1 {
		opts.DimmedOpacity = def.DimmedOpacity
	}

	if g.IsEmpty() {
		return generateEmptyHTML(opts.Title)
	}

	graphJSON, err := g.ToForceGraphJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:         opts.Title,
		GraphJSON:     template.JS(graphJSON),
		LabelZoom:     template.JS(strconv.FormatFloat(opts.LabelZoomThreshold, 'f', -1, 64)),
		DimmedOpacity: template.JS(strconv.FormatFloat(opts.DimmedOpacity, 'f', -1, 64)),
		TooltipOffset: template.JS(strconv.Itoa(interact.TooltipOffset)),
		PostURLPrefix: opts.PostURLPrefix,
		IdleEdge:      interact.EdgeIdle.Color,
		HighlightEdge: interact.EdgeHighlight.Color,
		DimmedEdge:    interact.EdgeDimmed.Color,
		Legend:        Legend(),
		NodeCount:     len(g.Nodes),
		EdgeCount:     len(g.Edges),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing viz template: %w", err)
	}
	return buf.String(), nil
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.}} - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #0f172a;
      color: #cbd5e1;
    }
    .empty-state { text-align: center; }
    .empty-state h2 { margin-bottom: 0.5em; color: #f8fafc; }
    .empty-state p { margin: 0.5em 0; }
    .empty-state code { background: #1e293b; padding: 2px 6px; border-radius: 3px; }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No articles found</h2>
    <p>There is nothing to map yet.</p>
    <p>Add articles using <code>gv add</code></p>
    <p>Link them with <code>related_posts</code> to see connections</p>
  </div>
</body>
</html>`))

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) (string, error) {
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, title); err != nil {
		return "", fmt.Errorf("executing empty template: %w", err)
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/force-graph@1"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #0f172a;
      color: #e2e8f0;
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #1e293b;
    }
    header h1 { margin: 0 0 4px; font-size: 20px; }
    header p { margin: 0; font-size: 13px; color: #94a3b8; }
    #graph {
      width: 100%;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: #1e293b;
      border: 1px solid #334155;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.35);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .category {
      font-size: 10px;
      text-transform: uppercase;
      color: #94a3b8;
      margin-bottom: 4px;
    }
    #tooltip .label { font-weight: bold; margin-bottom: 4px; }
    #tooltip .detail { color: #cbd5e1; margin: 2px 0; }
    #legend {
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      padding: 12px 24px;
      border-top: 1px solid #1e293b;
      font-size: 12px;
    }
    #legend .swatch {
      display: inline-block;
      width: 12px;
      height: 12px;
      border-radius: 50%;
      margin-right: 6px;
      vertical-align: middle;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p>{{.NodeCount}} articles, {{.EdgeCount}} connections. Click any node to read the article.</p>
  </header>
  <div id="graph"></div>
  <div id="tooltip"></div>
  <div id="legend">
    {{range .Legend}}<span><span class="swatch" style="background: {{.Color}}"></span>{{.Label}}</span>
    {{end}}
  </div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const labelZoom = {{.LabelZoom}};
      const dimmedOpacity = {{.DimmedOpacity}};
      const tooltipOffset = {{.TooltipOffset}};
      const postURLPrefix = {{.PostURLPrefix}};
      const edgeColors = { idle: {{.IdleEdge}}, highlight: {{.HighlightEdge}}, dimmed: {{.DimmedEdge}} };

      // Undirected adjacency over the rendered links
      const neighbors = new Map();
      graphData.nodes.forEach(function(n) { neighbors.set(n.id, new Set([n.id])); });
      graphData.links.forEach(function(l) {
        neighbors.get(l.source).add(l.target);
        neighbors.get(l.target).add(l.source);
      });

      let hovered = null;
      let neighborhood = null;
      let scale = 1;

      function endpointID(e) {
        return typeof e === 'object' ? e.id : e;
      }

      function dimensions() {
        const width = window.innerWidth;
        return { width: width, height: Math.min(width * 0.75, 600) };
      }

      const container = document.getElementById('graph');
      const tooltip = document.getElementById('tooltip');
      const dims = dimensions();

      const fg = ForceGraph()(container)
        .graphData(graphData)
        .width(dims.width)
        .height(dims.height)
        .nodeId('id')
        .nodeVal('val')
        .nodeLabel(null)
        .linkWidth(function(l) {
          if (!hovered) return 2;
          return inNeighborhood(l) ? 3 : 1;
        })
        .linkColor(function(l) {
          if (!hovered) return edgeColors.idle;
          return inNeighborhood(l) ? edgeColors.highlight : edgeColors.dimmed;
        })
        .onZoom(function(t) { scale = t.k; })
        .onNodeHover(function(node) {
          hovered = node ? node.id : null;
          neighborhood = node ? neighbors.get(node.id) : null;
          if (!node) {
            hideTooltip();
          } else if (Number.isFinite(node.x) && Number.isFinite(node.y)) {
            showTooltip(node);
          }
          container.style.cursor = node ? 'pointer' : null;
        })
        .onNodeClick(function(node) {
          if (!node || !node.id) return;
          window.location.href = postURLPrefix + '/post/' + encodeURIComponent(node.id);
        })
        .nodeCanvasObject(function(node, ctx, globalScale) {
          if (!Number.isFinite(node.x) || !Number.isFinite(node.y)) return;
          const radius = node.val;
          const dimmed = hovered && !neighborhood.has(node.id);

          ctx.globalAlpha = dimmed ? dimmedOpacity : 1;
          ctx.fillStyle = node.color;
          ctx.beginPath();
          ctx.arc(node.x, node.y, radius, 0, 2 * Math.PI);
          ctx.fill();

          if (globalScale >= labelZoom || node.id === hovered) {
            const fontSize = 12 / globalScale;
            ctx.font = fontSize + 'px Sans-Serif';
            ctx.textAlign = 'center';
            ctx.textBaseline = 'middle';
            ctx.fillStyle = '#fff';
            ctx.fillText(node.name.substring(0, 30), node.x, node.y + radius + fontSize);
          }
          ctx.globalAlpha = 1;
        })
        .d3VelocityDecay(0.3)
        .cooldownTicks(200);

      function inNeighborhood(l) {
        return neighborhood.has(endpointID(l.source)) && neighborhood.has(endpointID(l.target));
      }

      function showTooltip(node) {
        const pos = fg.graph2ScreenCoords(node.x, node.y);
        tooltip.innerHTML =
          '<div class="category">' + escapeHtml(node.category) + '</div>' +
          '<div class="label">' + escapeHtml(node.name) + '</div>' +
          '<div class="detail">Connections: ' + node.connections + '</div>';
        tooltip.style.display = 'block';
        const d = dimensions();
        const x = Math.max(0, Math.min(pos.x + tooltipOffset, d.width));
        const y = Math.max(0, Math.min(pos.y + tooltipOffset, d.height));
        tooltip.style.left = x + 'px';
        tooltip.style.top = (container.offsetTop + y) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function onResize() {
        const d = dimensions();
        fg.width(d.width).height(d.height);
      }

      window.addEventListener('resize', onResize);
      window.addEventListener('unload', function() {
        window.removeEventListener('resize', onResize);
        fg.pauseAnimation();
        fg._destructor && fg._destructor();
      });
    })();
  </script>
</body>
</html>`
