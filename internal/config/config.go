// Package config handles site configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Config represents site configuration stored in .geoview/config.json.
type Config struct {
	SiteTitle          string  `json:"site_title"`
	FeaturedCount      int     `json:"featured_count"`       // Articles shown on the home view
	NodeBaseSize       float64 `json:"node_base_size"`       // Graph node size with zero connections
	NodeWeight         float64 `json:"node_weight"`          // Size added per connection
	LabelZoomThreshold float64 `json:"label_zoom_threshold"` // Zoom scale above which all labels show
	DimmedOpacity      float64 `json:"dimmed_opacity"`       // Opacity of nodes outside the hovered neighborhood
	TileURL            string  `json:"tile_url"`             // Map tile template for the geo map
}

const (
	GeoViewDir   = ".geoview"
	ConfigFile   = "config.json"
	ArticlesFile = "articles.jsonl"
	CacheDir     = "cache"
	DBFile       = "articles.db"
	EnvFile      = ".env"
)

// Defaults used when a config value is zero.
const (
	DefaultSiteTitle          = "GeoView"
	DefaultFeaturedCount      = 3
	DefaultNodeBaseSize       = 6
	DefaultNodeWeight         = 2
	DefaultLabelZoomThreshold = 1.5
	DefaultDimmedOpacity      = 0.25
	DefaultTileURL            = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// Default returns a configuration with every value set to its default.
func Default() *Config {
	return &Config{
		SiteTitle:          DefaultSiteTitle,
		FeaturedCount:      DefaultFeaturedCount,
		NodeBaseSize:       DefaultNodeBaseSize,
		NodeWeight:         DefaultNodeWeight,
		LabelZoomThreshold: DefaultLabelZoomThreshold,
		DimmedOpacity:      DefaultDimmedOpacity,
		TileURL:            DefaultTileURL,
	}
}

// GeoViewPath returns the path to the .geoview directory from a root path.
func GeoViewPath(root string) string {
	return filepath.Join(root, GeoViewDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, GeoViewDir, ConfigFile)
}

// ArticlesPath returns the path to articles.jsonl from a root path.
func ArticlesPath(root string) string {
	return filepath.Join(root, GeoViewDir, ArticlesFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, GeoViewDir, CacheDir)
}

// DBPath returns the path to articles.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, GeoViewDir, CacheDir, DBFile)
}

// EnvPath returns the path to the optional .env file at the site root.
func EnvPath(root string) string {
	return filepath.Join(root, EnvFile)
}

// IsSite checks if the given path contains a geoview site.
func IsSite(root string) bool {
	info, err := os.Stat(GeoViewPath(root))
	return err == nil && info.IsDir()
}

// FindSite walks up from the given path to find a geoview site.
// Returns the site root path or an error if not found.
func FindSite(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsSite(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a geoview site (no .geoview directory found)")
		}
		abs = parent
	}
}

// Init creates the .geoview layout at root with a default config.
// Existing files are left untouched.
func Init(root string) error {
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if _, err := os.Stat(ConfigPath(root)); os.IsNotExist(err) {
		if err := Default().Save(root); err != nil {
			return err
		}
	}
	if _, err := os.Stat(ArticlesPath(root)); os.IsNotExist(err) {
		if err := os.WriteFile(ArticlesPath(root), nil, 0644); err != nil {
			return fmt.Errorf("creating articles file: %w", err)
		}
	}
	return nil
}

// Load reads configuration from the site at the given root.
// Missing values are filled with defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes configuration to the site at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.SiteTitle == "" {
		c.SiteTitle = d.SiteTitle
	}
	if c.FeaturedCount <= 0 {
		c.FeaturedCount = d.FeaturedCount
	}
	if c.NodeBaseSize <= 0 {
		c.NodeBaseSize = d.NodeBaseSize
	}
	if c.NodeWeight <= 0 {
		c.NodeWeight = d.NodeWeight
	}
	if c.LabelZoomThreshold <= 0 {
		c.LabelZoomThreshold = d.LabelZoomThreshold
	}
	if c.DimmedOpacity <= 0 || c.DimmedOpacity > 1 {
		c.DimmedOpacity = d.DimmedOpacity
	}
	if c.TileURL == "" {
		c.TileURL = d.TileURL
	}
}

// ValidateDimmedOpacity checks that an opacity value is usable.
func ValidateDimmedOpacity(v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("dimmed_opacity must be in (0, 1], got %g", v)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
