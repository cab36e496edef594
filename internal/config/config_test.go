package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.HomeDir == "" || cfg.InstallDir == "" {
		t.Fatalf("empty directories in defaults: %+v", cfg)
	}
	if cfg.FeedURL == "" {
		t.Error("default feed URL must be set")
	}
	if cfg.AssetPattern != "nexcart-*.tar.lz4" {
		t.Errorf("AssetPattern = %q", cfg.AssetPattern)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEXCART_HOME", "/custom/home")
	t.Setenv("NEXCART_INSTALL_DIR", "/custom/install")
	t.Setenv("NEXCART_FEED_URL", "https://feed.example/releases")

	cfg := Load()
	if cfg.HomeDir != "/custom/home" {
		t.Errorf("HomeDir = %q", cfg.HomeDir)
	}
	if cfg.InstallDir != "/custom/install" {
		t.Errorf("InstallDir = %q", cfg.InstallDir)
	}
	if cfg.FeedURL != "https://feed.example/releases" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{HomeDir: "/home/x/.nexcart"}
	if got := cfg.StateFile(); got != filepath.Join("/home/x/.nexcart", "state.json") {
		t.Errorf("StateFile = %q", got)
	}
	if got := cfg.LogFile(); got != filepath.Join("/home/x/.nexcart", "installer.log") {
		t.Errorf("LogFile = %q", got)
	}
}
