package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nexcart/nexcart-installer/internal/release"
)

func TestBuildUpgradeCheck(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		rel           *release.Release
		wantAvailable bool
		wantWarnings  int
	}{
		{
			name:          "newer release available",
			current:       "1.0.8",
			rel:           &release.Release{TagName: "v1.0.9"},
			wantAvailable: true,
		},
		{
			name:          "already current",
			current:       "1.0.9",
			rel:           &release.Release{TagName: "v1.0.9"},
			wantAvailable: false,
		},
		{
			name:          "breaking changes carried as warnings",
			current:       "1.0.8",
			rel:           &release.Release{TagName: "v2.0.0", Body: "## Breaking Changes\n- theme API removed\n"},
			wantAvailable: true,
			wantWarnings:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildUpgradeCheck(tt.current, tt.rel)
			if got.UpdateAvailable != tt.wantAvailable {
				t.Errorf("UpdateAvailable = %v, want %v", got.UpdateAvailable, tt.wantAvailable)
			}
			if got.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q, want %q", got.CurrentVersion, tt.current)
			}
			if want := strings.TrimPrefix(tt.rel.TagName, "v"); got.LatestVersion != want {
				t.Errorf("LatestVersion = %q, want %q", got.LatestVersion, want)
			}
			if got.Message == "" {
				t.Error("Message must always be set")
			}
			if len(got.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d entries", got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestUpgradeCheckResultSerializes(t *testing.T) {
	check := buildUpgradeCheck("1.0.8", &release.Release{
		TagName: "v2.0.0",
		Body:    "BREAKING: session format changed\n",
	})
	data, err := json.Marshal(check)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"current_version":"1.0.8"`, `"latest_version":"2.0.0"`, `"update_available":true`, `"breaking_changes"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON %s missing %s", data, field)
		}
	}
}
