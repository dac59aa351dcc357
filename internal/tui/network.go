package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
)

// frameInterval paces the layout animation.
const frameInterval = 33 * time.Millisecond

// hitReach is how close (in screen units) a pointer must be to hit a node.
const hitReach = 2.0

// zoomStep is the factor applied per +/- press or wheel notch.
const zoomStep = 1.25

// networkTickMsg advances the layout by one frame.
type networkTickMsg struct {
	view *NetworkView
}

// NetworkView draws the cognitive map on a character canvas. Screen units
// are terminal columns horizontally and half rows vertically, so one cell
// is roughly square.
type NetworkView struct {
	data   *graph.GraphData
	engine *graph.Engine
	ctl    *interact.Controller

	cols, rows int
	userZoomed bool
	keyCursor  int
	closed     bool
}

// NewNetworkView starts a layout for data. The caller must Close it when
// the view is left.
func NewNetworkView(data *graph.GraphData, iopts interact.Options, eopts graph.EngineOptions) *NetworkView {
	v := &NetworkView{
		data:      data,
		engine:    graph.NewEngine(data, eopts),
		ctl:       interact.New(data, iopts),
		keyCursor: -1,
	}
	v.Resize(int(v.ctl.Viewport().Width), 20)
	return v
}

// Init returns the first animation tick.
func (v *NetworkView) Init() tea.Cmd {
	return v.tick()
}

func (v *NetworkView) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return networkTickMsg{view: v}
	})
}

// Step advances the layout one iteration and keeps it framed until the
// user takes over the zoom. It reports whether more frames are needed.
func (v *NetworkView) Step() bool {
	if v.closed || v.engine.Done() {
		return false
	}
	v.engine.Tick()
	v.followHover()
	if !v.userZoomed {
		v.fit()
	}
	return !v.engine.Done()
}

// followHover moves the hover target to its node's latest position.
func (v *NetworkView) followHover() {
	id, ok := v.ctl.Hovered()
	if !ok {
		return
	}
	if p := v.engine.Position(id); p.Settled() {
		v.ctl.Hover(&interact.Target{NodeID: id, X: p.X, Y: p.Y})
	}
}

// Settle runs the layout to completion.
func (v *NetworkView) Settle() {
	for v.Step() {
	}
}

func (v *NetworkView) fit() {
	positions := v.engine.Positions()
	points := make([][2]float64, 0, len(positions))
	for _, p := range positions {
		if p.Settled() {
			points = append(points, [2]float64{p.X, p.Y})
		}
	}
	v.ctl.SetViewport(v.ctl.Viewport().Fit(points, 4))
}

// Resize fits the canvas into cols x rows cells.
func (v *NetworkView) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	dims := v.ctl.Resize(float64(cols))
	height := math.Min(dims.Height, float64(rows*2))
	vp := v.ctl.Viewport()
	vp.Height = height
	vp.OffsetY = height / 2
	v.ctl.SetViewport(vp)

	v.cols = cols
	v.rows = int(height / 2)
	if v.rows < 1 {
		v.rows = 1
	}
	if !v.userZoomed {
		v.fit()
	}
}

// Size returns the canvas size in cells.
func (v *NetworkView) Size() (cols, rows int) {
	return v.cols, v.rows
}

// Zoom scales the view about its centre.
func (v *NetworkView) Zoom(factor float64) {
	vp := v.ctl.Viewport()
	cx, cy := vp.ToWorld(vp.Width/2, vp.Height/2)
	v.ctl.Zoom(factor)
	vp = v.ctl.Viewport()
	vp.OffsetX = vp.Width/2 - cx*vp.Scale
	vp.OffsetY = vp.Height/2 - cy*vp.Scale
	v.ctl.SetViewport(vp)
	v.userZoomed = true
}

// Controller exposes the hover state.
func (v *NetworkView) Controller() *interact.Controller {
	return v.ctl
}

// Engine exposes the layout.
func (v *NetworkView) Engine() *graph.Engine {
	return v.engine
}

// Close stops the layout and drops the hover state.
func (v *NetworkView) Close() {
	if v.closed {
		return
	}
	v.engine.Close()
	v.ctl.Close()
	v.closed = true
}

// Closed reports whether Close has been called.
func (v *NetworkView) Closed() bool {
	return v.closed
}

// NodeCell returns the cell a node is drawn in. Unsettled nodes and nodes
// outside the canvas have no cell.
func (v *NetworkView) NodeCell(id string) (col, row int, ok bool) {
	p := v.engine.Position(id)
	if !p.Settled() {
		return 0, 0, false
	}
	sx, sy := v.ctl.Viewport().ToScreen(p.X, p.Y)
	col, row = int(math.Round(sx)), int(math.Round(sy/2))
	if col < 0 || row < 0 || col >= v.cols || row >= v.rows {
		return 0, 0, false
	}
	return col, row, true
}

// HandleMouse applies a mouse event at canvas cell (col, row). Clicking a
// node returns a navigation command.
func (v *NetworkView) HandleMouse(msg tea.MouseMsg, col, row int) tea.Cmd {
	if v.closed {
		return nil
	}
	sx, sy := float64(col), float64(row*2)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		v.Zoom(zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		v.Zoom(1 / zoomStep)
	case msg.Action == tea.MouseActionMotion:
		v.ctl.HoverAt(sx, sy, v.engine.Positions(), hitReach)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		n, _, ok := v.ctl.NodeAt(sx, sy, v.engine.Positions(), hitReach)
		if !ok {
			return nil
		}
		return v.click(n)
	}
	return nil
}

// HandleKey handles zoom, keyboard hover cycling and enter.
func (v *NetworkView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if v.closed {
		return nil
	}
	switch msg.String() {
	case "+", "=":
		v.Zoom(zoomStep)
	case "-", "_":
		v.Zoom(1 / zoomStep)
	case "0":
		v.userZoomed = false
		v.fit()
	case "tab":
		v.cycleHover(1)
	case "shift+tab":
		v.cycleHover(-1)
	case "enter":
		if id, ok := v.ctl.Hovered(); ok {
			if n, found := v.data.NodeByID(id); found {
				return v.click(n)
			}
		}
	case "esc":
		v.ctl.Hover(nil)
		v.keyCursor = -1
	}
	return nil
}

func (v *NetworkView) cycleHover(dir int) {
	n := len(v.data.Nodes)
	if n == 0 {
		return
	}
	v.keyCursor = ((v.keyCursor+dir)%n + n) % n
	node := v.data.Nodes[v.keyCursor]
	p := v.engine.Position(node.ID)
	v.ctl.Hover(&interact.Target{NodeID: node.ID, X: p.X, Y: p.Y})
}

func (v *NetworkView) click(n graph.Node) tea.Cmd {
	req, ok := v.ctl.Click(n)
	if !ok {
		return nil
	}
	return func() tea.Msg { return navigateMsg(req) }
}

type cell struct {
	r     rune
	style lipgloss.Style
	cont  bool
}

type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for i := range c.cells {
		c.cells[i] = make([]cell, cols)
	}
	return c
}

func (c *canvas) set(col, row int, r rune, style lipgloss.Style) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = cell{r: r, style: style}
}

// text writes s from (col, row), giving wide runes two cells. Text that
// would run off the right edge is cut.
func (c *canvas) text(col, row int, s string, style lipgloss.Style) {
	if row < 0 || row >= c.rows || col < 0 {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > c.cols {
			return
		}
		c.set(col, row, r, style)
		if w == 2 {
			c.cells[row][col+1] = cell{cont: true}
		}
		col += w
	}
}

func (c *canvas) line(x0, y0, x1, y1 int, r rune, style lipgloss.Style) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		for _, cl := range row {
			switch {
			case cl.cont:
			case cl.r == 0:
				b.WriteByte(' ')
			default:
				b.WriteString(cl.style.Render(string(cl.r)))
			}
		}
		if i < len(c.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var (
	edgeIdleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	edgeHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Bold(true)
	edgeDimmedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#334155")).Faint(true)
)

func edgeTermStyle(s interact.EdgeStyle) (rune, lipgloss.Style) {
	switch s {
	case interact.EdgeHighlight:
		return '•', edgeHighlightStyle
	case interact.EdgeDimmed:
		return '·', edgeDimmedStyle
	default:
		return '·', edgeIdleStyle
	}
}

// View renders the canvas followed by a one-line status.
func (v *NetworkView) View() string {
	if v.data.IsEmpty() {
		return mutedStyle.Render("No articles to map yet.")
	}
	c := newCanvas(v.cols, v.rows)

	for _, e := range v.data.Edges {
		c0, r0, ok0 := v.NodeCell(e.Source)
		c1, r1, ok1 := v.NodeCell(e.Target)
		if !ok0 || !ok1 {
			continue
		}
		r, style := edgeTermStyle(v.ctl.EdgeStyle(e))
		c.line(c0, r0, c1, r1, r, style)
	}

	hovered, _ := v.ctl.Hovered()
	for _, n := range v.data.Nodes {
		col, row, ok := v.NodeCell(n.ID)
		if !ok {
			continue
		}
		ns := v.ctl.NodeStyle(n)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ns.Color))
		if ns.Opacity < 1 {
			style = style.Faint(true)
		}
		glyph := '●'
		if n.ID == hovered {
			glyph = '◉'
			style = style.Bold(true)
		}
		c.set(col, row, glyph, style)
		if ns.LabelVisible {
			c.text(col+2, row, truncate(n.DisplayName, 24), style.UnsetBold())
		}
	}

	if tip, ok := v.ctl.Tooltip(); ok {
		label := " " + truncate(tip.Label, v.cols-2) + " "
		col := int(tip.X)
		if over := col + runewidth.StringWidth(label) - v.cols; over > 0 {
			col -= over
		}
		c.text(max(col, 0), min(int(tip.Y/2), v.rows-1), label, selectedStyle)
	}

	return c.String() + "\n" + v.status()
}

func (v *NetworkView) status() string {
	settled := 0
	for _, p := range v.engine.Positions() {
		if p.Settled() {
			settled++
		}
	}
	state := "settling"
	if v.engine.Done() {
		state = "settled"
	}
	parts := []string{
		fmt.Sprintf("%d articles, %d connections", len(v.data.Nodes), len(v.data.Edges)),
		fmt.Sprintf("layout %s (%d/%d)", state, settled, len(v.data.Nodes)),
		fmt.Sprintf("zoom %.2fx", v.ctl.Viewport().Scale),
	}
	if id, ok := v.ctl.Hovered(); ok {
		if n, found := v.data.NodeByID(id); found {
			parts = append(parts, fmt.Sprintf("%s: %d connections", n.DisplayName, n.ConnectionCount))
		}
	}
	return mutedStyle.Render(truncate(strings.Join(parts, " · "), v.cols))
}
