package release

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	home := t.TempDir()
	feed := "https://api.github.com/repos/nexcart/nexcart/releases"

	if _, err := LoadCache(home, feed); err == nil {
		t.Fatal("expected error loading absent cache")
	}

	entry := &CacheEntry{CheckedAt: time.Now().UTC(), LatestVersion: "2.0.0", UpdateAvailable: true}
	if err := SaveCache(home, feed, entry); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	got, err := LoadCache(home, feed)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got.LatestVersion != "2.0.0" || !got.UpdateAvailable {
		t.Errorf("got %+v", got)
	}
	if !IsCacheValid(got) {
		t.Error("fresh entry must be valid")
	}
}

func TestCacheExpiry(t *testing.T) {
	entry := &CacheEntry{CheckedAt: time.Now().Add(-time.Hour)}
	if IsCacheValid(entry) {
		t.Error("hour-old entry must be stale")
	}
}

func TestCachePathPerFeed(t *testing.T) {
	a := CachePath("/home", "https://feed-a/releases")
	b := CachePath("/home", "https://feed-b/releases")
	if a == b {
		t.Error("different feeds must cache to different files")
	}
}
