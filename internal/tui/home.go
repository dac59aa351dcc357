package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/nav"
)

// HomeView lists the featured articles and the category breakdown.
type HomeView struct {
	store    *catalog.Store
	featured []article.Article
	selected int
	width    int
}

// NewHomeView shows the first n articles as featured.
func NewHomeView(store *catalog.Store, n int) *HomeView {
	return &HomeView{store: store, featured: store.Featured(n)}
}

// Featured returns the featured articles.
func (h *HomeView) Featured() []article.Article {
	return h.featured
}

// Selected returns the index of the highlighted article.
func (h *HomeView) Selected() int {
	return h.selected
}

// SetWidth sets the render width.
func (h *HomeView) SetWidth(w int) {
	h.width = w
}

// HandleKey moves the selection; enter opens the highlighted article.
func (h *HomeView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if h.selected > 0 {
			h.selected--
		}
	case "down", "j":
		if h.selected < len(h.featured)-1 {
			h.selected++
		}
	case "enter":
		if h.selected < len(h.featured) {
			return navigateTo(nav.PostRequest(h.featured[h.selected].ID))
		}
	}
	return nil
}

// View renders the home screen.
func (h *HomeView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Featured"))
	b.WriteString("\n\n")

	if len(h.featured) == 0 {
		b.WriteString(mutedStyle.Render(catalog.NoResultsMessage))
		b.WriteString("\n")
	}
	width := max(h.width-4, 20)
	for i, a := range h.featured {
		line := fmt.Sprintf("%s  %s", chip(a), truncate(a.Title, width-len(a.Category)-4))
		if i == h.selected {
			b.WriteString(selectedStyle.Render("▸ ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
		b.WriteString("    " + subtleStyle.Render(truncate(a.Excerpt, width-4)))
		b.WriteString("\n")
		if meta := metaLine(a); meta != "" {
			b.WriteString("    " + mutedStyle.Render(meta) + "\n")
		}
		b.WriteString("\n")
	}

	cats := h.store.Categories()
	if len(cats) > 0 {
		b.WriteString(titleStyle.Render("Categories"))
		b.WriteString("\n")
		parts := make([]string, 0, len(cats))
		for _, c := range cats {
			parts = append(parts, fmt.Sprintf("%s (%d)", c.Label, c.Count))
		}
		b.WriteString(subtleStyle.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}
	return b.String()
}

// metaLine joins author, date and read time, skipping empty parts.
func metaLine(a article.Article) string {
	var parts []string
	for _, p := range []string{a.Author, a.Date, a.ReadTime} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
