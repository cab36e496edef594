package ui

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1048576, "1.0MB"},
		{5 * 1024 * 1024 * 1024, "5.0GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := FormatSpeed(2048); got != "2.0KB/s" {
		t.Errorf("FormatSpeed(2048) = %q", got)
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "--"},
		{-time.Second, "--"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h0m"},
		{3*time.Hour + 25*time.Minute, "3h25m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.d); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
