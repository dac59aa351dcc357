package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(timelineCmd)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List articles with a time period, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

// TimelineEntry is one article on the timeline.
type TimelineEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Span  string `json:"span"`
	Start int    `json:"start"`
	End   *int   `json:"end,omitempty"`
	Era   string `json:"era,omitempty"`
}

func runTimeline(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	articles := mustLoadStore(root).Timeline()

	entries := make([]TimelineEntry, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, TimelineEntry{
			ID:    a.ID,
			Title: a.Title,
			Span:  a.TimePeriod.Span(),
			Start: a.TimePeriod.Start,
			End:   a.TimePeriod.End,
			Era:   a.TimePeriod.Era,
		})
	}

	if !humanOutput {
		return outputJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No articles have a time period.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%-11s %-16s %s\n", e.Span, truncateString(e.Era, 16), truncateString(e.Title, ListTitleMaxLen))
	}
	return nil
}
