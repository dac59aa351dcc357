package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/geo"
)

func init() {
	rootCmd.AddCommand(markersCmd)
}

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Export map markers for geolocated articles",
	Long: `Export one marker per article with a geo location, including the
popup HTML shown on the map.`,
	Args: cobra.NoArgs,
	RunE: runMarkers,
}

func runMarkers(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	markers, err := geo.Markers(mustLoadStore(root).Geolocated())
	if err != nil {
		exitWithError(ExitError, "building markers: %v", err)
	}

	if !humanOutput {
		return outputJSON(markers)
	}
	for _, m := range markers {
		fmt.Printf("%9.4f %10.4f  %-24s %s\n", m.Lat, m.Lng, truncateString(m.ArticleID, 24), truncateString(m.Title, ListTitleMaxLen))
	}
	fmt.Printf("\n%d markers\n", len(markers))
	return nil
}
