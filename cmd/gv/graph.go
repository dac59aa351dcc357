package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
	"github.com/geoview/geoview/internal/viz"
)

var (
	graphFormat string
	graphRank   bool
	layoutTicks int
)

func init() {
	graphCmd.Flags().StringVar(&graphFormat, "format", "json", "Output format: json, forcegraph, cytoscape")
	graphCmd.Flags().BoolVar(&graphRank, "rank", false, "Include PageRank scores and the most connected article")
	layoutCmd.Flags().IntVar(&layoutTicks, "ticks", 0, "Layout iterations (default: engine budget)")
	graphCmd.AddCommand(neighborhoodCmd, layoutCmd)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the cognitive map",
	Long: `Export the relationship graph between articles.

Each related-post entry that names an existing article becomes one edge.
Relations to missing articles, self relations and repeats are dropped; see
'gv check' for a report of them. Node size is base + connections * weight.

Formats:
  json        {nodes, edges}
  forcegraph  {nodes, links} for force-graph
  cytoscape   Cytoscape.js elements`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

// GraphResponse is the JSON output of gv graph --rank.
type GraphResponse struct {
	*graph.GraphData
	Rank          []graph.RankedNode `json:"rank,omitempty"`
	MostConnected string             `json:"most_connected,omitempty"`
}

func mustBuildGraph() *graph.GraphData {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	g := graph.Build(mustReadArticles(root), sizeOptions(cfg))
	logger.Debug("graph built", zap.Int("nodes", len(g.Nodes)), zap.Int("edges", len(g.Edges)))
	return g
}

func runGraph(cmd *cobra.Command, args []string) error {
	g := mustBuildGraph()

	if humanOutput {
		printGraphHuman(g)
		return nil
	}

	switch graphFormat {
	case "json":
		resp := GraphResponse{GraphData: g}
		if graphRank {
			resp.Rank = graph.Rank(g)
			resp.MostConnected = graph.MostConnected(g)
		}
		return outputJSON(resp)
	case "forcegraph":
		s, err := g.ToForceGraphJSON()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		fmt.Println(s)
	case "cytoscape":
		s, err := viz.ToCytoscapeJSON(g)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		fmt.Println(s)
	default:
		exitWithError(ExitError, "unknown format %q (valid: json, forcegraph, cytoscape)", graphFormat)
	}
	return nil
}

func printGraphHuman(g *graph.GraphData) {
	if g.IsEmpty() {
		fmt.Println("No articles to map yet.")
		return
	}
	nodes := append([]graph.Node(nil), g.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ConnectionCount > nodes[j].ConnectionCount })
	for _, n := range nodes {
		fmt.Printf("%-28s %-12s %2d links  size %.0f\n", truncateString(n.ID, 28), n.TopicCategory, n.ConnectionCount, n.Size)
	}
	fmt.Printf("\n%d articles, %d connections", len(g.Nodes), len(g.Edges))
	if id := graph.MostConnected(g); id != "" {
		fmt.Printf(", most connected: %s", id)
	}
	fmt.Println()
}

var neighborhoodCmd = &cobra.Command{
	Use:   "neighborhood <id>",
	Short: "Show the articles highlighted when hovering one",
	Long: `Show the neighborhood of an article: itself plus every article it
relates to or that relates to it. These stay at full opacity on hover while
everything else dims.`,
	Args: cobra.ExactArgs(1),
	RunE: runNeighborhood,
}

// NeighborhoodResponse is the JSON output of gv graph neighborhood.
type NeighborhoodResponse struct {
	ID          string       `json:"id"`
	Members     []string     `json:"members"`
	Highlighted []graph.Edge `json:"highlighted_edges"`
}

func runNeighborhood(cmd *cobra.Command, args []string) error {
	g := mustBuildGraph()
	id := args[0]
	n, ok := g.NodeByID(id)
	if !ok {
		exitWithError(ExitNotFound, "article not found: %s", id)
	}

	ctl := interact.New(g, interact.DefaultOptions())
	defer ctl.Close()
	ctl.Hover(&interact.Target{NodeID: id})

	resp := NeighborhoodResponse{ID: id, Members: ctl.Neighborhood(id).Sorted(), Highlighted: []graph.Edge{}}
	for _, e := range g.Edges {
		if ctl.EdgeStyle(e) == interact.EdgeHighlight {
			resp.Highlighted = append(resp.Highlighted, e)
		}
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	fmt.Printf("%s (%d connections)\n", n.DisplayName, n.ConnectionCount)
	for _, m := range resp.Members {
		if m != id {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Run the force layout and print node positions",
	Args:  cobra.NoArgs,
	RunE:  runLayout,
}

// LayoutResponse is the JSON output of gv graph layout.
type LayoutResponse struct {
	Ticks     int                    `json:"ticks"`
	Positions map[string]graph.Point `json:"positions"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	g := mustBuildGraph()
	opts := graph.DefaultEngineOptions()
	if layoutTicks > 0 {
		opts.Updates = layoutTicks
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var resp LayoutResponse
	err := graph.WithEngine(g, opts, func(e *graph.Engine) error {
		if err := e.Run(ctx); err != nil {
			return err
		}
		resp = LayoutResponse{Ticks: e.Ticks(), Positions: e.Positions()}
		return nil
	})
	if err != nil {
		exitWithError(ExitError, "running layout: %v", err)
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	for _, n := range g.Nodes {
		p := resp.Positions[n.ID]
		fmt.Printf("%-28s %9.3f %9.3f\n", truncateString(n.ID, 28), p.X, p.Y)
	}
	return nil
}
