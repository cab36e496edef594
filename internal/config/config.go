package config

import (
	"os"
	"path/filepath"
)

// Config holds user/system configuration for the installer.
type Config struct {
	HomeDir      string // installer home (state file, logs, release cache)
	InstallDir   string // where the storefront application is installed
	FeedURL      string // release feed endpoint (GitHub-style releases API)
	AssetPattern string // wildcard pattern used to pick the package asset
	SiteName     string // storefront site name (used in upgrade handoff)
	DBServer     string // database server (used in upgrade handoff)
	DBName       string // database name (used in upgrade handoff)
	EventsAddr   string // local progress event stream address (empty = disabled)
}

// Defaults returns installer defaults for the NexCart storefront.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		HomeDir:      filepath.Join(home, ".nexcart"),
		InstallDir:   filepath.Join(home, "nexcart"),
		FeedURL:      "https://api.github.com/repos/nexcart/nexcart/releases",
		AssetPattern: "nexcart-*.tar.lz4",
		SiteName:     "NexCart Store",
		DBServer:     "localhost",
		DBName:       "nexcart",
	}
}

// Load returns default config with environment overrides applied.
// Flags are merged on top by the CLI layer.
func Load() Config {
	cfg := Defaults()
	if v := os.Getenv("NEXCART_HOME"); v != "" {
		cfg.HomeDir = v
	}
	if v := os.Getenv("NEXCART_INSTALL_DIR"); v != "" {
		cfg.InstallDir = v
	}
	if v := os.Getenv("NEXCART_FEED_URL"); v != "" {
		cfg.FeedURL = v
	}
	return cfg
}

// StateFile returns the path of the persisted installation state document.
func (c Config) StateFile() string { return filepath.Join(c.HomeDir, "state.json") }

// LogFile returns the path of the installer diagnostic log.
func (c Config) LogFile() string { return filepath.Join(c.HomeDir, "installer.log") }
