package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/lens"
)

// Post view layout.
const (
	lensPanelWidth = 38
	minWideWidth   = 100
	headerLines    = 4 // title, meta, progress, slider
	swipeStep      = 5
)

// PostView reads one article: rendered markdown in a scrolling viewport,
// reading progress, the split-lens panel and the before/after slider.
type PostView struct {
	article  article.Article
	theme    string
	renderer *glamour.TermRenderer
	vp       viewport.Model
	datasets *lens.Datasets
	swipe    *lens.Swipe

	showRefs      bool
	width, height int
	renderErr     error
	closed        bool
}

// NewPostView opens a reading view for a. theme is a glamour style name
// or "auto".
func NewPostView(a article.Article, theme string, width, height int) *PostView {
	p := &PostView{
		article:  a,
		theme:    theme,
		vp:       viewport.New(max(width, 20), max(height-headerLines, 3)),
		datasets: lens.NewDatasets(),
		swipe:    lens.NewSwipe(),
	}
	p.SetSize(width, height)
	return p
}

func newRenderer(theme string, wrap int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	switch theme {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(theme))
	}
	return glamour.NewTermRenderer(opts...)
}

// Article returns the article being read.
func (p *PostView) Article() article.Article {
	return p.article
}

// SetSize lays the view out for width x height cells and re-renders.
func (p *PostView) SetSize(width, height int) {
	p.width, p.height = max(width, 20), max(height, headerLines+3)
	p.vp.Width = p.bodyWidth()
	p.vp.Height = p.height - headerLines

	r, err := newRenderer(p.theme, max(p.vp.Width-2, 10))
	if err != nil {
		p.renderErr = err
		p.renderer = nil
	} else {
		p.renderer, p.renderErr = r, nil
	}
	p.render()
}

func (p *PostView) hasLens() bool {
	return p.article.SplitLens != nil && len(p.article.SplitLens.Sections) > 0
}

func (p *PostView) wide() bool {
	return p.hasLens() && p.width >= minWideWidth
}

func (p *PostView) bodyWidth() int {
	if p.wide() {
		return p.width - lensPanelWidth - 1
	}
	return p.width
}

// Markdown returns the document shown in the viewport.
func (p *PostView) Markdown() string {
	a := p.article
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	if a.ImageMeta != nil && a.ImageMeta.Title != "" {
		fmt.Fprintf(&b, "*%s*", a.ImageMeta.Title)
		if a.ImageMeta.Subtitle != "" {
			fmt.Fprintf(&b, " *%s*", a.ImageMeta.Subtitle)
		}
		b.WriteString("\n\n")
	}
	if a.Excerpt != "" {
		fmt.Fprintf(&b, "> %s\n\n", a.Excerpt)
	}
	b.WriteString(a.Content)
	b.WriteString("\n")

	if p.hasLens() && !p.wide() {
		b.WriteString("\n## Data Story\n\n")
		for i, s := range a.SplitLens.Sections {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, s.Title, s.Text)
		}
	}

	if len(a.References) > 0 {
		if p.showRefs {
			b.WriteString("\n## References\n\n")
			for _, r := range a.References {
				fmt.Fprintf(&b, "%d. %s (%d). *%s*. %s.", r.ID, r.Authors, r.Year, r.Title, r.Publication)
				if r.DOI != "" {
					fmt.Fprintf(&b, " doi:%s", r.DOI)
				} else if r.URL != "" {
					fmt.Fprintf(&b, " %s", r.URL)
				}
				b.WriteString("\n")
			}
		} else {
			fmt.Fprintf(&b, "\n*%d references hidden, press r to show*\n", len(a.References))
		}
	}

	if len(a.FurtherReading) > 0 {
		b.WriteString("\n## Further Reading\n\n")
		for _, l := range a.FurtherReading {
			fmt.Fprintf(&b, "- **%s** [%s]: %s <%s>\n", l.Title, l.Type, l.Description, l.URL)
		}
	}
	return b.String()
}

func (p *PostView) render() {
	md := p.Markdown()
	if p.renderer == nil {
		p.vp.SetContent(md)
		return
	}
	out, err := p.renderer.Render(md)
	if err != nil {
		p.renderErr = err
		p.vp.SetContent(md)
		return
	}
	p.vp.SetContent(out)
}

// ToggleReferences shows or hides the reference list.
func (p *PostView) ToggleReferences() {
	p.showRefs = !p.showRefs
	offset := p.vp.YOffset
	p.render()
	p.vp.SetYOffset(offset)
}

// ReferencesShown reports whether references are expanded.
func (p *PostView) ReferencesShown() bool {
	return p.showRefs
}

// Progress returns the reading progress percentage.
func (p *PostView) Progress() float64 {
	return lens.ReadingProgress(float64(p.vp.YOffset), float64(p.vp.TotalLineCount()), float64(p.vp.Height))
}

// ActiveSection returns the split-lens section in view, or -1 without one.
func (p *PostView) ActiveSection() int {
	if !p.hasLens() {
		return -1
	}
	return lens.ActiveSection(float64(p.vp.YOffset), float64(p.vp.TotalLineCount()), float64(p.vp.Height), len(p.article.SplitLens.Sections))
}

// Swipe returns the before/after slider.
func (p *PostView) Swipe() *lens.Swipe {
	return p.swipe
}

// Datasets returns the chart registry owned by this view.
func (p *PostView) Datasets() *lens.Datasets {
	return p.datasets
}

// ScrollTo moves the viewport to line.
func (p *PostView) ScrollTo(line int) {
	p.vp.SetYOffset(line)
}

// Close discards the view's chart data.
func (p *PostView) Close() {
	if p.closed {
		return
	}
	p.datasets.Close()
	p.closed = true
}

// Closed reports whether Close has been called.
func (p *PostView) Closed() bool {
	return p.closed
}

// Update handles reading keys and forwards scrolling to the viewport.
func (p *PostView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			p.ToggleReferences()
			return nil
		case "<", ",":
			p.swipe.Nudge(-swipeStep)
			return nil
		case ">", ".":
			p.swipe.Nudge(swipeStep)
			return nil
		case "=":
			p.swipe.Reset()
			return nil
		}
	case tea.MouseMsg:
		if msg.Y == headerLines-1 && p.article.BeforeAfter != nil &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			left, width := p.sliderBounds()
			p.swipe.SetFromPointer(float64(msg.X), float64(left), float64(width))
			return nil
		}
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// sliderBounds returns the first column and width of the slider track.
func (p *PostView) sliderBounds() (left, width int) {
	ba := p.article.BeforeAfter
	left = len([]rune(beforeLabel(ba))) + 1
	width = max(p.width-left-len([]rune(afterLabel(ba)))-8, 10)
	return left, width
}

func beforeLabel(ba *article.BeforeAfter) string {
	if ba.BeforeLabel != "" {
		return ba.BeforeLabel
	}
	return "Before"
}

func afterLabel(ba *article.BeforeAfter) string {
	if ba.AfterLabel != "" {
		return ba.AfterLabel
	}
	return "After"
}

// View renders the header, the document and the lens panel.
func (p *PostView) View() string {
	a := p.article
	var header strings.Builder
	header.WriteString(chip(a) + " " + titleStyle.Render(truncate(a.Title, p.width-len(a.Category)-4)) + "\n")
	header.WriteString(mutedStyle.Render(truncate(metaLine(a), p.width)) + "\n")
	header.WriteString(p.progressBar() + "\n")
	header.WriteString(p.sliderView())

	body := p.vp.View()
	if p.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", p.lensView())
	}
	out := header.String() + "\n" + body
	if p.renderErr != nil {
		out += "\n" + errorStyle.Render("render: "+p.renderErr.Error())
	}
	return out
}

func (p *PostView) progressBar() string {
	pct := p.Progress()
	width := max(p.width-6, 10)
	filled := int(math.Round(pct / 100 * float64(width)))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(p.article.Topic().Color())).Render(strings.Repeat("━", filled)) +
		mutedStyle.Render(strings.Repeat("─", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, pct)
}

func (p *PostView) sliderView() string {
	ba := p.article.BeforeAfter
	if ba == nil {
		return ""
	}
	_, width := p.sliderBounds()
	split := int(math.Round(p.swipe.Position() / 100 * float64(width)))
	track := subtleStyle.Render(strings.Repeat("▓", split)) + "┃" + mutedStyle.Render(strings.Repeat("░", max(width-split-1, 0)))
	return fmt.Sprintf("%s %s %s %3.0f%%", beforeLabel(ba), track, afterLabel(ba), p.swipe.Position())
}

func (p *PostView) lensView() string {
	sections := p.article.SplitLens.Sections
	active := p.ActiveSection()
	inner := lensPanelWidth - 4

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Section %d of %d", active+1, len(sections))))
	b.WriteString("\n")
	s := sections[active]
	b.WriteString(topicStyle(p.article.Topic()).Bold(true).Render(truncate(s.Title, inner)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(s.Text))
	b.WriteString("\n\n")

	ds, err := p.datasets.Get(s.VisualizationType)
	if err != nil {
		b.WriteString(mutedStyle.Render(err.Error()))
	} else {
		b.WriteString(chartView(ds, inner))
	}
	return panelStyle.Width(lensPanelWidth - 2).Height(max(p.vp.Height-2, 1)).Render(b.String())
}

// chartView draws each series as horizontal bars scaled to the series max.
func chartView(ds lens.Dataset, width int) string {
	var b strings.Builder
	b.WriteString(subtleStyle.Render(truncate(ds.Title, width)))
	b.WriteString("\n")
	labelW := 0
	for _, s := range ds.Series {
		for _, pt := range s.Points {
			labelW = max(labelW, len([]rune(pt.Label)))
		}
	}
	labelW = min(labelW, 12)
	barW := max(width-labelW-8, 4)

	for _, s := range ds.Series {
		seriesMax := 0.0
		for _, pt := range s.Points {
			seriesMax = math.Max(seriesMax, pt.Value)
		}
		name := s.Name
		if s.Unit != "" {
			name += " (" + s.Unit + ")"
		}
		b.WriteString(mutedStyle.Render(truncate(name, width)) + "\n")
		for _, pt := range s.Points {
			n := 0
			if seriesMax > 0 {
				n = int(math.Round(pt.Value / seriesMax * float64(barW)))
			}
			fmt.Fprintf(&b, "%s %s %g\n", padRight(truncate(pt.Label, labelW), labelW), strings.Repeat("█", n), pt.Value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
