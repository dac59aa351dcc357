// Package tui is the terminal browser behind `gv browse`.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/interact"
	"github.com/geoview/geoview/internal/nav"
	"github.com/geoview/geoview/internal/watcher"
)

// Default terminal size before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// chromeLines is the header line plus the footer line.
const chromeLines = 2

// navigateMsg asks the root model to show a path.
type navigateMsg nav.Request

func navigateTo(req nav.Request) tea.Cmd {
	return func() tea.Msg { return navigateMsg(req) }
}

// reloadMsg carries a snapshot loaded after articles.jsonl changed.
type reloadMsg struct {
	snap *watcher.Snapshot
	err  error
}

// Options configures the browser.
type Options struct {
	Title         string
	FeaturedCount int
	Sizes         graph.SizeOptions
	Interact      interact.Options
	Engine        graph.EngineOptions
	Theme         string // glamour style name or "auto"
	StartPath     string

	// Live reload. Both must be set to enable it.
	Watcher      *watcher.Watcher
	ArticlesPath string

	Logger *zap.Logger
}

// Model is the root bubbletea model. It owns one view per route and
// routes messages to the one on screen.
type Model struct {
	opts   Options
	logger *zap.Logger
	store  *catalog.Store

	route   nav.Route
	history []nav.Route

	home     *HomeView
	articles *ArticlesView
	stories  *StoriesView
	post     *PostView

	width, height int
	status        string
}

// New builds the browser over store.
func New(store *catalog.Store, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "GeoView"
	}
	if opts.Sizes == (graph.SizeOptions{}) {
		opts.Sizes = graph.DefaultSizeOptions()
	}
	if opts.Engine == (graph.EngineOptions{}) {
		opts.Engine = graph.DefaultEngineOptions()
	}

	m := &Model{
		opts:   opts,
		logger: opts.Logger,
		store:  store,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.home = NewHomeView(store, opts.FeaturedCount)
	m.stories = NewStoriesView(store)
	m.articles = NewArticlesView(store, opts.Sizes, opts.Interact, opts.Engine)
	m.resize()
	m.navigate(opts.StartPath, false)
	return m
}

// Init starts the watcher subscription and any layout the start route needs.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.route.View == nav.ViewArticles {
		cmds = append(cmds, m.articles.Resume())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForChange() tea.Cmd {
	w, path := m.opts.Watcher, m.opts.ArticlesPath
	if w == nil || path == "" {
		return nil
	}
	sizes := m.opts.Sizes
	return func() tea.Msg {
		<-w.Changed()
		snap, err := watcher.Load(path, sizes)
		return reloadMsg{snap: snap, err: err}
	}
}

// Route returns the route on screen.
func (m *Model) Route() nav.Route {
	return m.route
}

// Status returns the last status line message.
func (m *Model) Status() string {
	return m.status
}

// Articles returns the articles view.
func (m *Model) Articles() *ArticlesView {
	return m.articles
}

// Post returns the open post view, if any.
func (m *Model) Post() *PostView {
	return m.post
}

// Home returns the home view.
func (m *Model) Home() *HomeView {
	return m.home
}

// Navigate shows path and records the current route for Back.
func (m *Model) Navigate(path string) tea.Cmd {
	return m.navigate(path, true)
}

func (m *Model) navigate(path string, push bool) tea.Cmd {
	route := nav.Resolve(path)
	if route.View == nav.ViewPost {
		if _, ok := m.store.ByID(route.ArticleID); !ok {
			m.logger.Debug("article not found", zap.String("id", route.ArticleID))
			route = nav.Route{View: nav.ViewNotFound, ArticleID: route.ArticleID}
		}
	}
	if push && m.route.View != "" {
		m.history = append(m.history, m.route)
	}
	return m.show(route)
}

// Back returns to the previous route, or home when there is none.
func (m *Model) Back() tea.Cmd {
	if len(m.history) == 0 {
		if m.route.View == nav.ViewHome {
			return nil
		}
		return m.show(nav.Route{View: nav.ViewHome})
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	if prev.View == nav.ViewPost {
		if _, ok := m.store.ByID(prev.ArticleID); !ok {
			prev = nav.Route{View: nav.ViewNotFound, ArticleID: prev.ArticleID}
		}
	}
	return m.show(prev)
}

// show swaps the screen to route, closing whatever the old view held.
func (m *Model) show(route nav.Route) tea.Cmd {
	old := m.route
	if old.View == nav.ViewArticles && route.View != nav.ViewArticles {
		m.articles.Suspend()
	}
	if m.post != nil && (route.View != nav.ViewPost || route.ArticleID != old.ArticleID) {
		m.post.Close()
		m.post = nil
	}

	m.route = route
	m.logger.Debug("navigate", zap.String("view", string(route.View)), zap.String("article", route.ArticleID))

	switch route.View {
	case nav.ViewArticles:
		return m.articles.Resume()
	case nav.ViewPost:
		if m.post == nil {
			a, _ := m.store.ByID(route.ArticleID)
			m.post = NewPostView(a, m.opts.Theme, m.width, m.bodyHeight())
		}
	}
	return nil
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

func (m *Model) resize() {
	h := m.bodyHeight()
	m.home.SetWidth(m.width)
	m.stories.SetWidth(m.width)
	m.articles.SetSize(m.width, h)
	if m.post != nil {
		m.post.SetSize(m.width, h)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case navigateMsg:
		return m, m.Navigate(msg.Path)

	case reloadMsg:
		return m, tea.Batch(m.applyReload(msg), m.waitForChange())

	case networkTickMsg:
		return m, m.articles.Update(msg)

	case tea.MouseMsg:
		// Views get coordinates relative to their own top-left.
		msg.Y--
		switch m.route.View {
		case nav.ViewArticles:
			return m, m.articles.Update(msg)
		case nav.ViewPost:
			return m, m.post.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if m.route.View == nav.ViewArticles && m.articles.Searching() {
		return m.articles.Update(msg)
	}

	switch key {
	case "q":
		return tea.Quit
	case "1":
		return m.Navigate(nav.PathHome)
	case "2":
		return m.Navigate(nav.PathArticles)
	case "3":
		return m.Navigate(nav.PathDataStories)
	case "backspace", "b":
		return m.Back()
	}

	switch m.route.View {
	case nav.ViewHome:
		return m.home.HandleKey(msg)
	case nav.ViewArticles:
		return m.articles.Update(msg)
	case nav.ViewDataStories:
		return m.stories.HandleKey(msg)
	case nav.ViewPost:
		if key == "esc" {
			return m.Back()
		}
		return m.post.Update(msg)
	case nav.ViewNotFound:
		if key == "enter" || key == "esc" {
			return m.Navigate(nav.NotFoundRecovery().Path)
		}
	}
	return nil
}

func (m *Model) applyReload(msg reloadMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "reload failed: " + msg.err.Error()
		m.logger.Warn("reload failed", zap.Error(msg.err))
		return nil
	}
	m.store = msg.snap.Store
	m.status = "articles reloaded"
	m.logger.Info("articles reloaded", zap.Int("articles", m.store.Len()), zap.Int("connections", len(msg.snap.Graph.Edges)))

	m.home = NewHomeView(m.store, m.opts.FeaturedCount)
	m.stories = NewStoriesView(m.store)
	cmd := m.articles.SetStore(m.store)
	m.resize()

	if m.route.View == nav.ViewPost {
		id := m.route.ArticleID
		m.post.Close()
		m.post = nil
		if _, ok := m.store.ByID(id); !ok {
			m.route = nav.Route{View: nav.ViewNotFound, ArticleID: id}
			return cmd
		}
		return tea.Batch(cmd, m.show(nav.Route{View: nav.ViewPost, ArticleID: id}))
	}
	return cmd
}

// Close releases every live view.
func (m *Model) Close() {
	m.articles.Suspend()
	if m.post != nil {
		m.post.Close()
		m.post = nil
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	var body string
	switch m.route.View {
	case nav.ViewHome:
		body = m.home.View()
	case nav.ViewArticles:
		body = m.articles.View()
	case nav.ViewDataStories:
		body = m.stories.View()
	case nav.ViewPost:
		body = m.post.View()
	default:
		body = m.notFoundView()
	}
	b.WriteString(lipgloss.NewStyle().MaxHeight(m.bodyHeight()).Render(body))
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m *Model) headerView() string {
	items := []struct {
		key   string
		label string
		view  nav.View
	}{
		{"1", "Home", nav.ViewHome},
		{"2", "Articles", nav.ViewArticles},
		{"3", "Data Stories", nav.ViewDataStories},
	}
	parts := []string{headerStyle.Render(m.opts.Title)}
	for _, it := range items {
		label := it.key + " " + it.label
		if it.view == m.route.View {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) footerView() string {
	var help string
	switch m.route.View {
	case nav.ViewArticles:
		help = "[/] search  [ ] category  g/t/n mode  +/- zoom  tab hover  enter open  q quit"
	case nav.ViewPost:
		help = "↑/↓ scroll  r references  </> slider  esc back  q quit"
	case nav.ViewNotFound:
		help = "enter return home  q quit"
	default:
		help = "↑/↓ select  enter open  1/2/3 views  q quit"
	}
	if m.status != "" {
		help = m.status + " · " + help
	}
	return helpStyle.Render(truncate(help, m.width))
}

func (m *Model) notFoundView() string {
	action := nav.NotFoundRecovery()
	var b strings.Builder
	b.WriteString(errorStyle.Render("Article not found"))
	b.WriteString("\n\n")
	if m.route.ArticleID != "" {
		b.WriteString(subtleStyle.Render("No article with id " + m.route.ArticleID + " exists."))
		b.WriteString("\n\n")
	}
	b.WriteString(selectedStyle.Render("▸ " + action.Label))
	return b.String()
}

// Run starts the program full-screen with mouse motion reporting and
// closes the views when it exits.
func Run(m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
