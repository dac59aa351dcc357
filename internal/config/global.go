package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/gv/config.yml.
type GlobalConfig struct {
	SitePath string `yaml:"site_path,omitempty"`
	Theme    string `yaml:"theme,omitempty"` // glamour style: auto, dark, light, notty
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "gv"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment overrides read from the process environment or the site .env.
const (
	EnvTileURL = "GEOVIEW_TILE_URL"
	EnvTheme   = "GEOVIEW_THEME"
)

// ValidThemes lists the supported terminal themes.
var ValidThemes = []string{"auto", "dark", "light", "notty"}

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/gv/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.SitePath != "" {
		cfg.SitePath = ExpandPath(cfg.SitePath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetSitePath returns the configured site path from global config.
func GetSitePath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.SitePath
}

// ErrInvalidTheme is returned for a theme outside ValidThemes.
var ErrInvalidTheme = errors.New("invalid theme")

// ValidateTheme checks that the theme value is valid.
func ValidateTheme(theme string) error {
	if theme == "" {
		return nil // Empty defaults to "auto"
	}
	for _, valid := range ValidThemes {
		if theme == valid {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrInvalidTheme, theme, ValidThemes)
}

// LoadEnv reads the site .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(root string) error {
	path := EnvPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto the site config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTileURL); v != "" {
		c.TileURL = v
	}
}

// ResolveTheme returns the theme to use: environment first, then global
// config, then "auto".
func ResolveTheme() string {
	if v := os.Getenv(EnvTheme); v != "" && ValidateTheme(v) == nil {
		return v
	}
	if cfg, err := LoadGlobalConfig(); err == nil && cfg.Theme != "" {
		return cfg.Theme
	}
	return "auto"
}

// HelpfulConfigMessage returns a helpful message when no site can be found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No geoview site found.

Run 'gv init' in your content directory, or create %s to set a default site:
  mkdir -p %s
  echo 'site_path: /path/to/your/site' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
