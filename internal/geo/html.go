package geo

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	json "github.com/goccy/go-json"
)

// compiledMapTemplate is parsed at init time to fail fast on template errors.
var compiledMapTemplate = template.Must(template.New("map").Parse(mapTemplate))

// Default map view.
const (
	DefaultCenterLat = 20.0
	DefaultCenterLng = 0.0
	DefaultZoom      = 2
	DefaultMaxZoom   = 18
	DefaultTileURL   = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultTitle     = "GeoView Map"
)

// MapOptions configures map page generation.
// A zero centre with no zoom set falls back to the default world view.
type MapOptions struct {
	Title   string
	TileURL string
	Lat     float64
	Lng     float64
	Zoom    int
	MaxZoom int
}

// DefaultMapOptions returns the world view used by the site.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Title:   DefaultTitle,
		TileURL: DefaultTileURL,
		Lat:     DefaultCenterLat,
		Lng:     DefaultCenterLng,
		Zoom:    DefaultZoom,
		MaxZoom: DefaultMaxZoom,
	}
}

type mapTemplateData struct {
	Title       string
	TileURL     string
	ViewJS      template.JS
	MaxZoomJS   template.JS
	MarkersJSON template.JS
	Count       int
}

// GenerateHTML renders a self-contained Leaflet page showing the markers.
func GenerateHTML(markers []Marker, opts MapOptions) (string, error) {
	def := DefaultMapOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.TileURL == "" {
		opts.TileURL = def.TileURL
	}
	if opts.Zoom <= 0 {
		if opts.Lat == 0 && opts.Lng == 0 {
			opts.Lat, opts.Lng = def.Lat, def.Lng
		}
		opts.Zoom = def.Zoom
	}
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = def.MaxZoom
	}
	if markers == nil {
		markers = []Marker{}
	}

	markersJSON, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("marshaling markers: %w", err)
	}

	data := mapTemplateData{
		Title:       opts.Title,
		TileURL:     opts.TileURL,
		ViewJS:      template.JS(fmt.Sprintf("[%g, %g], %d", opts.Lat, opts.Lng, opts.Zoom)),
		MaxZoomJS:   template.JS(strconv.Itoa(opts.MaxZoom)),
		MarkersJSON: template.JS(markersJSON),
		Count:       len(markers),
	}

	var buf bytes.Buffer
	if err := compiledMapTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing map template: %w", err)
	}
	return buf.String(), nil
}

const mapTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; }
    #map { width: 100vw; height: 100vh; }
    .marker-dot {
      width: 24px; height: 24px; border-radius: 50%;
      border: 4px solid #fff; box-shadow: 0 2px 6px rgba(0,0,0,0.35);
    }
    .popup { min-width: 200px; }
    .popup h4 { margin: 0 0 4px; font-size: 14px; }
    .popup p { margin: 0 0 8px; font-size: 12px; color: #64748b; }
    .popup-footer { display: flex; align-items: center; justify-content: space-between; }
    .chip { font-size: 11px; padding: 2px 8px; border-radius: 4px; background: #e0f2fe; color: #0369a1; }
    .read-more { font-size: 12px; border: none; background: none; color: #0369a1; cursor: pointer; }
    .read-more:hover { text-decoration: underline; }
    #count { position: absolute; top: 10px; right: 10px; z-index: 1000; background: #fff;
      padding: 4px 10px; border-radius: 4px; font-size: 12px; box-shadow: 0 1px 4px rgba(0,0,0,0.2); }
  </style>
</head>
<body>
  <div id="map" data-testid="geo-map"></div>
  <div id="count">{{.Count}} places</div>
  <script>
    (function() {
      const markers = {{.MarkersJSON}};
      const map = L.map('map').setView({{.ViewJS}});

      L.tileLayer({{.TileURL}}, {
        attribution: '&copy; OpenStreetMap contributors',
        maxZoom: {{.MaxZoomJS}}
      }).addTo(map);

      markers.forEach(function(m) {
        const icon = L.divIcon({
          className: 'custom-marker',
          html: '<div class="marker-dot" style="background:' + m.color + '"></div>',
          iconSize: [32, 32],
          iconAnchor: [16, 16]
        });
        L.marker([m.lat, m.lng], { icon: icon }).addTo(map).bindPopup(m.popup_content);
      });

      function handleNavigate(event) {
        if (!event.detail) return;
        window.location.hash = '/post/' + encodeURIComponent(event.detail);
      }

      window.addEventListener('navigate-to-post', handleNavigate);
      window.addEventListener('unload', function() {
        window.removeEventListener('navigate-to-post', handleNavigate);
        map.remove();
      });
    })();
  </script>
</body>
</html>`
