package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/gv/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "gv", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.SitePath != "" {
		t.Errorf("SitePath = %q, want empty", cfg.SitePath)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "site_path: /srv/geoview\ntheme: dark\n"
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.SitePath != "/srv/geoview" {
		t.Errorf("SitePath = %q, want /srv/geoview", cfg.SitePath)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if GetSitePath() != "/srv/geoview" {
		t.Errorf("GetSitePath() = %q, want /srv/geoview", GetSitePath())
	}
}

func TestLoadGlobalConfig_Malformed(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte("site_path: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() expected error for malformed YAML")
	}
}

func TestValidateTheme(t *testing.T) {
	for _, theme := range append([]string{""}, ValidThemes...) {
		if err := ValidateTheme(theme); err != nil {
			t.Errorf("ValidateTheme(%q) error = %v", theme, err)
		}
	}
	if err := ValidateTheme("neon"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("ValidateTheme(neon) error = %v, want ErrInvalidTheme", err)
	}
}

func TestLoadEnvAndApply(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvTileURL, "")
	os.Unsetenv(EnvTileURL)

	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("LoadEnv() without file error = %v", err)
	}

	envContent := EnvTileURL + "=https://tiles.example.org/{z}/{x}/{y}.png\n"
	if err := os.WriteFile(EnvPath(tmpDir), []byte(envContent), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.TileURL != "https://tiles.example.org/{z}/{x}/{y}.png" {
		t.Errorf("TileURL = %q, want value from .env", cfg.TileURL)
	}
}

func TestResolveTheme(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Setenv(EnvTheme, "light")
	if got := ResolveTheme(); got != "light" {
		t.Errorf("ResolveTheme() = %q, want light from env", got)
	}

	t.Setenv(EnvTheme, "")
	if got := ResolveTheme(); got != "auto" {
		t.Errorf("ResolveTheme() = %q, want auto", got)
	}
}
