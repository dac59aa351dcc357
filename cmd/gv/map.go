package main

import (
	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/geo"
)

var (
	mapOutput string
	mapOpen   bool
	mapZoom   int
	mapLat    float64
	mapLng    float64
)

func init() {
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "Write HTML to this file instead of stdout")
	mapCmd.Flags().BoolVar(&mapOpen, "open", false, "Open the written file in the default browser")
	mapCmd.Flags().IntVar(&mapZoom, "zoom", geo.DefaultZoom, "Initial zoom level")
	mapCmd.Flags().Float64Var(&mapLat, "lat", geo.DefaultCenterLat, "Initial centre latitude")
	mapCmd.Flags().Float64Var(&mapLng, "lng", geo.DefaultCenterLng, "Initial centre longitude")
	rootCmd.AddCommand(mapCmd)
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Generate the Leaflet world map of geolocated articles",
	Long: `Generate a self-contained Leaflet page with one marker per geolocated
article. Each popup has a "Read More" button that navigates to the post.

The tile server comes from tile_url in config.json, overridable with
GEOVIEW_TILE_URL in the environment or the site .env file.`,
	Args: cobra.NoArgs,
	RunE: runMap,
}

func runMap(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)

	markers, err := geo.Markers(mustLoadStore(root).Geolocated())
	if err != nil {
		exitWithError(ExitError, "building markers: %v", err)
	}

	opts := geo.DefaultMapOptions()
	opts.Title = cfg.SiteTitle + " · Map"
	opts.TileURL = cfg.TileURL
	opts.Lat, opts.Lng, opts.Zoom = mapLat, mapLng, mapZoom

	html, err := geo.GenerateHTML(markers, opts)
	if err != nil {
		exitWithError(ExitError, "generating map: %v", err)
	}
	return writePage(html, mapOutput, mapOpen)
}
