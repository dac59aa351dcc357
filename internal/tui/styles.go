package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/geoview/geoview/internal/article"
)

// Palette. Light values are darker for contrast on white backgrounds.
var (
	ColorText      = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F8FAFC"}
	ColorSubtext   = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#CBD5E1"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#64748B"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#1E293B"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)

	subtleStyle = lipgloss.NewStyle().Foreground(ColorSubtext)

	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	selectedStyle = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(ColorPrimary).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorSubtext)

	activeTabStyle = tabStyle.
			Foreground(ColorPrimary).
			Bold(true).
			Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(ColorPrimary)

	errorStyle = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// topicStyle colours text with a topic's main colour.
func topicStyle(t article.TopicCategory) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color()))
}

// chip renders a category label as a small badge.
func chip(a article.Article) string {
	label := a.Category
	if label == "" {
		label = a.Topic().Label()
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(a.Topic().Color())).
		Padding(0, 1).
		Render(label)
}

// truncate cuts s to maxWidth terminal cells, adding "…" when it had to cut.
func truncate(s string, maxWidth int) string {
	const suffix = "…"
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(suffix) {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-runewidth.StringWidth(suffix), "") + suffix
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
