package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
	"github.com/geoview/geoview/internal/nav"
)

// Mode is how the articles view lays out its results.
type Mode int

// Article view modes.
const (
	ModeGrid Mode = iota
	ModeTimeline
	ModeNetwork
)

func (m Mode) String() string {
	switch m {
	case ModeTimeline:
		return "timeline"
	case ModeNetwork:
		return "network"
	default:
		return "grid"
	}
}

// maxSuggestions caps the list under the search box.
const maxSuggestions = 5

// cardWidth is the outer width of one grid card.
const cardWidth = 36

// ArticlesView is the filterable article index.
type ArticlesView struct {
	store  *catalog.Store
	sizes  graph.SizeOptions
	iopts  interact.Options
	eopts  graph.EngineOptions
	search textinput.Model

	category   int
	mode       Mode
	selected   int
	suggestion int

	network       *NetworkView
	width, height int
}

// NewArticlesView builds the index over store.
func NewArticlesView(store *catalog.Store, sizes graph.SizeOptions, iopts interact.Options, eopts graph.EngineOptions) *ArticlesView {
	ti := textinput.New()
	ti.Placeholder = "Search articles..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 40

	return &ArticlesView{
		store:      store,
		sizes:      sizes,
		iopts:      iopts,
		eopts:      eopts,
		search:     ti,
		suggestion: -1,
	}
}

// Category returns the active category filter label.
func (v *ArticlesView) Category() string {
	return article.CategoryLabels[v.category]
}

// SetCategory selects a category filter by label. Unknown labels are ignored.
func (v *ArticlesView) SetCategory(label string) tea.Cmd {
	for i, l := range article.CategoryLabels {
		if l == label {
			v.category = i
			return v.filtersChanged()
		}
	}
	return nil
}

// Mode returns the active layout.
func (v *ArticlesView) Mode() Mode {
	return v.mode
}

// SetMode switches layout. Leaving network mode closes its layout.
func (v *ArticlesView) SetMode(m Mode) tea.Cmd {
	if m == v.mode {
		return nil
	}
	v.mode = m
	v.selected = 0
	if m != ModeNetwork {
		v.closeNetwork()
		return nil
	}
	return v.openNetwork()
}

// Network returns the live network view, if any.
func (v *ArticlesView) Network() *NetworkView {
	return v.network
}

// Query returns the trimmed search query.
func (v *ArticlesView) Query() string {
	return strings.TrimSpace(v.search.Value())
}

// SetQuery replaces the search query.
func (v *ArticlesView) SetQuery(q string) tea.Cmd {
	v.search.SetValue(q)
	return v.filtersChanged()
}

// Searching reports whether the search box has focus.
func (v *ArticlesView) Searching() bool {
	return v.search.Focused()
}

// SetSize sets the render area.
func (v *ArticlesView) SetSize(width, height int) {
	v.width, v.height = width, height
	if v.network != nil {
		v.network.Resize(width, v.canvasRows())
	}
}

func (v *ArticlesView) canvasRows() int {
	// tabs, mode line, blank, status
	return max(v.height-4, 4)
}

// Visible returns the articles matching the category and query, in the
// order the current mode shows them.
func (v *ArticlesView) Visible() []article.Article {
	label := v.Category()
	var base []article.Article
	if q := v.Query(); q == "" {
		base = v.store.FilterByCategory(label)
	} else {
		for _, a := range v.store.Search(q) {
			if label == article.AllCategories || a.Category == label {
				base = append(base, a)
			}
		}
	}
	if v.mode != ModeTimeline {
		return base
	}

	keep := make(map[string]bool, len(base))
	for _, a := range base {
		keep[a.ID] = true
	}
	var out []article.Article
	for _, a := range v.store.Timeline() {
		if keep[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// Suggestions returns the titles offered under the search box.
func (v *ArticlesView) Suggestions() []article.Article {
	results := v.store.Search(v.Query())
	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	return results
}

func (v *ArticlesView) filtersChanged() tea.Cmd {
	v.selected = 0
	v.suggestion = -1
	if v.mode == ModeNetwork {
		return v.openNetwork()
	}
	return nil
}

func (v *ArticlesView) openNetwork() tea.Cmd {
	v.closeNetwork()
	data := graph.Build(v.Visible(), v.sizes)
	iopts := v.iopts
	if v.width > 0 {
		iopts.Width = float64(v.width)
	}
	v.network = NewNetworkView(data, iopts, v.eopts)
	if v.width > 0 {
		v.network.Resize(v.width, v.canvasRows())
	}
	return v.network.Init()
}

func (v *ArticlesView) closeNetwork() {
	if v.network != nil {
		v.network.Close()
		v.network = nil
	}
}

// Suspend releases the network layout while the view is not shown.
func (v *ArticlesView) Suspend() {
	v.closeNetwork()
}

// Resume restarts the network layout if the view was left in network mode.
func (v *ArticlesView) Resume() tea.Cmd {
	if v.mode == ModeNetwork && v.network == nil {
		return v.openNetwork()
	}
	return nil
}

// SetStore swaps in a reloaded collection, keeping the filters.
func (v *ArticlesView) SetStore(store *catalog.Store) tea.Cmd {
	v.store = store
	if v.mode == ModeNetwork && v.network == nil {
		// Suspended; Resume rebuilds from the new store.
		v.selected = 0
		return nil
	}
	return v.filtersChanged()
}

// Update routes keys and mouse events.
func (v *ArticlesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.search.Focused() {
			return v.updateSearch(msg)
		}
		return v.handleKey(msg)
	case tea.MouseMsg:
		if v.network != nil {
			// Canvas starts below the tabs and mode lines.
			return v.network.HandleMouse(msg, msg.X, msg.Y-2)
		}
	case networkTickMsg:
		if msg.view == v.network && v.network.Step() {
			return v.network.tick()
		}
	}
	return nil
}

func (v *ArticlesView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.search.Blur()
		v.suggestion = -1
		return nil
	case "enter":
		v.search.Blur()
		if s := v.Suggestions(); v.suggestion >= 0 && v.suggestion < len(s) {
			id := s[v.suggestion].ID
			v.suggestion = -1
			return navigateTo(nav.PostRequest(id))
		}
		return nil
	case "down", "ctrl+n":
		if v.suggestion < len(v.Suggestions())-1 {
			v.suggestion++
		}
		return nil
	case "up", "ctrl+p":
		if v.suggestion >= 0 {
			v.suggestion--
		}
		return nil
	}

	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() != before {
		return tea.Batch(cmd, v.filtersChanged())
	}
	return cmd
}

func (v *ArticlesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.mode == ModeNetwork && v.network != nil {
		switch msg.String() {
		case "+", "=", "-", "_", "0", "tab", "shift+tab", "enter", "esc":
			return v.network.HandleKey(msg)
		}
	}

	switch msg.String() {
	case "/":
		v.search.Focus()
		return textinput.Blink
	case "]", "right", "l":
		v.category = (v.category + 1) % len(article.CategoryLabels)
		return v.filtersChanged()
	case "[", "left", "h":
		v.category = (v.category - 1 + len(article.CategoryLabels)) % len(article.CategoryLabels)
		return v.filtersChanged()
	case "g":
		return v.SetMode(ModeGrid)
	case "t":
		return v.SetMode(ModeTimeline)
	case "n":
		return v.SetMode(ModeNetwork)
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.Visible())-1 {
			v.selected++
		}
	case "enter":
		if items := v.Visible(); v.selected < len(items) {
			return navigateTo(nav.PostRequest(items[v.selected].ID))
		}
	}
	return nil
}

// Selected returns the highlighted index in Visible.
func (v *ArticlesView) Selected() int {
	return v.selected
}

// View renders the index.
func (v *ArticlesView) View() string {
	var b strings.Builder

	tabs := make([]string, 0, len(article.CategoryLabels))
	for i, label := range article.CategoryLabels {
		if i == v.category {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	modes := []Mode{ModeGrid, ModeTimeline, ModeNetwork}
	labels := make([]string, 0, len(modes))
	for _, m := range modes {
		label := fmt.Sprintf("[%c] %s", m.String()[0], m)
		if m == v.mode {
			labels = append(labels, activeTabStyle.Render(label))
		} else {
			labels = append(labels, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	b.WriteString("  " + v.search.View())
	b.WriteString("\n")

	if v.search.Focused() && v.Query() != "" {
		for i, a := range v.Suggestions() {
			line := "  " + truncate(a.Title, 60)
			if i == v.suggestion {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	items := v.Visible()
	if len(items) == 0 {
		b.WriteString("\n" + mutedStyle.Render(catalog.NoResultsMessage))
		return b.String()
	}

	switch v.mode {
	case ModeTimeline:
		b.WriteString(v.timelineView(items))
	case ModeNetwork:
		if v.network != nil {
			b.WriteString(v.network.View())
		}
	default:
		b.WriteString(v.gridView(items))
	}
	return b.String()
}

func (v *ArticlesView) gridView(items []article.Article) string {
	perRow := max(v.width/cardWidth, 1)
	var rows []string
	for start := 0; start < len(items); start += perRow {
		end := min(start+perRow, len(items))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, v.card(items[i], i == v.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *ArticlesView) card(a article.Article, selected bool) string {
	inner := cardWidth - 4
	body := strings.Join([]string{
		topicStyle(a.Topic()).Bold(true).Render(truncate(a.Title, inner)),
		chip(a),
		subtleStyle.Render(truncate(a.Excerpt, inner)),
		mutedStyle.Render(truncate(metaLine(a), inner)),
	}, "\n")
	style := panelStyle
	if selected {
		style = focusedPanelStyle
	}
	return style.Width(cardWidth - 2).Render(body)
}

func (v *ArticlesView) timelineView(items []article.Article) string {
	var b strings.Builder
	width := max(v.width-14, 20)
	for i, a := range items {
		marker := topicStyle(a.Topic()).Render("●")
		span := padRight(a.TimePeriod.Span(), 11)
		line := fmt.Sprintf("%s %s %s", span, marker, truncate(a.Title, width))
		if i == v.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if a.TimePeriod.Era != "" {
			b.WriteString(strings.Repeat(" ", 12) + "│ " + mutedStyle.Render(a.TimePeriod.Era) + "\n")
		}
	}
	return b.String()
}
