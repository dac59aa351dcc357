package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/nav"
)

// StoriesView lists the articles that carry a split-lens data story.
type StoriesView struct {
	stories  []article.Article
	selected int
	width    int
}

// NewStoriesView collects the data stories from store.
func NewStoriesView(store *catalog.Store) *StoriesView {
	var stories []article.Article
	for _, a := range store.All() {
		if a.SplitLens != nil && len(a.SplitLens.Sections) > 0 {
			stories = append(stories, a)
		}
	}
	return &StoriesView{stories: stories}
}

// Stories returns the listed articles.
func (s *StoriesView) Stories() []article.Article {
	return s.stories
}

// SetWidth sets the render width.
func (s *StoriesView) SetWidth(w int) {
	s.width = w
}

// HandleKey moves the selection; enter opens the story.
func (s *StoriesView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.stories)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(s.stories) {
			return navigateTo(nav.PostRequest(s.stories[s.selected].ID))
		}
	}
	return nil
}

// View renders the list.
func (s *StoriesView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Data Stories"))
	b.WriteString("\n\n")
	if len(s.stories) == 0 {
		b.WriteString(mutedStyle.Render(catalog.NoResultsMessage))
		return b.String()
	}
	width := max(s.width-4, 20)
	for i, a := range s.stories {
		line := fmt.Sprintf("%s  %s", topicStyle(a.Topic()).Render("◆"), truncate(a.Title, width))
		if i == s.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
		titles := make([]string, 0, len(a.SplitLens.Sections))
		for _, sec := range a.SplitLens.Sections {
			titles = append(titles, sec.Title)
		}
		b.WriteString("   " + mutedStyle.Render(truncate(strings.Join(titles, " → "), width-3)) + "\n")
	}
	return b.String()
}
