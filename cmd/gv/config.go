package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set site configuration values.

Usage:
  gv config                          # Show all config
  gv config dimmed-opacity           # Get specific value
  gv config dimmed-opacity 0.3       # Set value

Keys:
  site-title            Title shown in the browser header and pages
  featured-count        Articles on the home view
  node-base-size        Graph node size with no connections
  node-weight           Size added per connection
  label-zoom-threshold  Zoom scale at which every label shows
  dimmed-opacity        Opacity of nodes outside a hovered neighborhood (0-1)
  tile-url              Map tile template

theme is read from ~/.config/gv/config.yml or GEOVIEW_THEME and is shown
here for reference only.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the JSON view of the site config.
type ConfigResponse struct {
	*config.Config
	Theme string `json:"theme"`
}

var configKeys = []string{
	"site-title",
	"featured-count",
	"node-base-size",
	"node-weight",
	"label-zoom-threshold",
	"dimmed-opacity",
	"tile-url",
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			for _, k := range configKeys {
				v, _ := getConfigValue(cfg, k)
				fmt.Printf("%-21s %s\n", k+":", v)
			}
			fmt.Printf("%-21s %s\n", "theme:", config.ResolveTheme())
		} else {
			outputJSON(ConfigResponse{Config: cfg, Theme: config.ResolveTheme()})
		}
		return nil
	}

	key := normalizeKey(args[0])
	if len(args) == 1 {
		if key == "theme" {
			return printConfigValue(key, config.ResolveTheme())
		}
		v, err := getConfigValue(cfg, key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		return printConfigValue(key, v)
	}

	if err := setConfigValue(cfg, key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}
	v, _ := getConfigValue(cfg, key)
	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, v)
		return nil
	}
	return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): v})
}

func printConfigValue(key, v string) error {
	if humanOutput {
		fmt.Println(v)
		return nil
	}
	return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): v})
}

// normalizeKey accepts snake_case as well as kebab-case.
func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "site-title":
		return cfg.SiteTitle, nil
	case "featured-count":
		return strconv.Itoa(cfg.FeaturedCount), nil
	case "node-base-size":
		return formatFloat(cfg.NodeBaseSize), nil
	case "node-weight":
		return formatFloat(cfg.NodeWeight), nil
	case "label-zoom-threshold":
		return formatFloat(cfg.LabelZoomThreshold), nil
	case "dimmed-opacity":
		return formatFloat(cfg.DimmedOpacity), nil
	case "tile-url":
		return cfg.TileURL, nil
	}
	return "", fmt.Errorf("unknown configuration key: %s", key)
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "site-title":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("site-title cannot be empty")
		}
		cfg.SiteTitle = value
	case "featured-count":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("featured-count must be a positive integer: %s", value)
		}
		cfg.FeaturedCount = n
	case "node-base-size", "node-weight", "label-zoom-threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number: %s", key, value)
		}
		switch key {
		case "node-base-size":
			cfg.NodeBaseSize = f
		case "node-weight":
			cfg.NodeWeight = f
		default:
			cfg.LabelZoomThreshold = f
		}
	case "dimmed-opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("dimmed-opacity must be a number: %s", value)
		}
		if err := config.ValidateDimmedOpacity(f); err != nil {
			return err
		}
		cfg.DimmedOpacity = f
	case "tile-url":
		for _, ph := range []string{"{z}", "{x}", "{y}"} {
			if !strings.Contains(value, ph) {
				return fmt.Errorf("tile-url is missing the %s placeholder: %s", ph, value)
			}
		}
		cfg.TileURL = value
	case "theme":
		return fmt.Errorf("theme is set in %s or GEOVIEW_THEME", config.GlobalConfigPath())
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
