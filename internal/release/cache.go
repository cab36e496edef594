package release

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

const cacheDuration = 10 * time.Minute

// CacheEntry stores the last release check result so background checks
// don't hammer the feed on every command.
type CacheEntry struct {
	CheckedAt       time.Time `json:"checked_at"`
	LatestVersion   string    `json:"latest_version"`
	UpdateAvailable bool      `json:"update_available"`
}

// CachePath returns the cache file path for a feed. The file name carries
// a hash of the feed URL so switching feeds never reads a stale entry.
func CachePath(homeDir, feedURL string) string {
	return filepath.Join(homeDir, fmt.Sprintf(".release-check-%016x", xxhash.Sum64String(feedURL)))
}

// LoadCache loads the cached release check result.
func LoadCache(homeDir, feedURL string) (*CacheEntry, error) {
	data, err := os.ReadFile(CachePath(homeDir, feedURL))
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveCache saves the release check result.
func SaveCache(homeDir, feedURL string, entry *CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(CachePath(homeDir, feedURL), data, 0o644)
}

// IsCacheValid returns true if the cache entry is fresh (< 10m old).
func IsCacheValid(entry *CacheEntry) bool {
	return time.Since(entry.CheckedAt) < cacheDuration
}
