package graph

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
)

// ErrEngineClosed is returned when a closed engine is used.
var ErrEngineClosed = errors.New("layout engine closed")

// Point is a node position in layout space. Coordinates are NaN until the
// engine has placed the node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Settled reports whether both coordinates are finite.
func (p Point) Settled() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func unsettled() Point {
	return Point{X: math.NaN(), Y: math.NaN()}
}

// EngineOptions tunes the Eades spring layout.
type EngineOptions struct {
	Updates   int     // Step budget; Tick reports false once spent
	Repulsion float64 // Node repulsion strength
	Rate      float64 // Gradient step size
	Theta     float64 // Barnes-Hut approximation threshold
}

// DefaultEngineOptions returns the standard layout tuning.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Updates:   150,
		Repulsion: 1,
		Rate:      0.05,
		Theta:     0.2,
	}
}

// Engine runs a force-directed layout over the graph.
type Engine struct {
	data   *GraphData
	ids    map[string]int64
	g      *simple.UndirectedGraph
	eades  *layout.EadesR2
	opt    layout.OptimizerR2
	budget int
	ticks  int
	closed bool
}

// NewEngine prepares a layout for data. No node is placed until the first Tick.
func NewEngine(data *GraphData, opts EngineOptions) *Engine {
	if opts.Updates <= 0 {
		opts.Updates = DefaultEngineOptions().Updates
	}

	e := &Engine{
		data:   data,
		ids:    make(map[string]int64, len(data.Nodes)),
		g:      simple.NewUndirectedGraph(),
		budget: opts.Updates,
	}
	for i, n := range data.Nodes {
		e.ids[n.ID] = int64(i)
		e.g.AddNode(simple.Node(int64(i)))
	}
	for _, edge := range data.Edges {
		from, ok := e.ids[edge.Source]
		if !ok {
			continue
		}
		to, ok := e.ids[edge.Target]
		if !ok || from == to {
			continue
		}
		e.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	e.eades = &layout.EadesR2{
		Updates:   opts.Updates,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     opts.Theta,
	}
	e.opt = layout.NewOptimizerR2(e.g, e.eades.Update)
	return e
}

// Tick advances the layout one step. It returns false once the step budget
// is spent or the engine is closed.
func (e *Engine) Tick() bool {
	if e.closed || e.ticks >= e.budget {
		return false
	}
	e.ticks++
	// Eades needs at least two bodies; smaller graphs sit at the origin.
	if len(e.data.Nodes) < 2 {
		e.ticks = e.budget
		return false
	}
	return e.opt.Update()
}

// Ticks returns the number of steps taken so far.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Done reports whether the step budget is spent.
func (e *Engine) Done() bool {
	return e.closed || e.ticks >= e.budget
}

// Run ticks until the budget is spent or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.closed {
		return ErrEngineClosed
	}
	for e.Tick() {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Positions returns the current position of every node. Before the first
// Tick all coordinates are NaN.
func (e *Engine) Positions() map[string]Point {
	out := make(map[string]Point, len(e.data.Nodes))
	for _, n := range e.data.Nodes {
		out[n.ID] = e.Position(n.ID)
	}
	return out
}

// Position returns one node's position, or an unsettled point for unknown IDs.
func (e *Engine) Position(id string) Point {
	nid, ok := e.ids[id]
	if !ok || e.closed || e.ticks == 0 {
		return unsettled()
	}
	if len(e.data.Nodes) < 2 {
		return Point{}
	}
	v := e.opt.Coord2(nid)
	return Point{X: v.X, Y: v.Y}
}

// Close releases the layout. Further ticks are no-ops.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.eades = nil
	e.g = nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed
}

// WithEngine runs fn with a fresh engine and closes it afterwards, also
// when fn fails or panics.
func WithEngine(data *GraphData, opts EngineOptions, fn func(*Engine) error) error {
	e := NewEngine(data, opts)
	defer e.Close()
	return fn(e)
}
