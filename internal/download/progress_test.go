package download

import (
	"testing"
	"time"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		received int64
		total    int64
		want     int
	}{
		{"zero of zero", 0, 0, 0},
		{"unknown total", 500, 0, 0},
		{"negative total", 500, -1, 0},
		{"start", 0, 1000, 0},
		{"floor not round", 999, 1000, 99},
		{"complete", 1000, 1000, 100},
		{"over-read clamps", 1500, 1000, 100},
		{"one third", 1, 3, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress{Received: tt.received, Total: tt.total}
			if got := p.Percent(); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotSpeedAndETA(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Second)

	p := snapshot(2000, 6000, start, now)
	if p.Speed != 1000 {
		t.Errorf("Speed = %f, want 1000", p.Speed)
	}
	if p.ETA != 4*time.Second {
		t.Errorf("ETA = %v, want 4s", p.ETA)
	}
	if p.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", p.Elapsed)
	}
}

func TestSnapshotUnknownTotalHasNoETA(t *testing.T) {
	start := time.Now().Add(-time.Second)
	p := snapshot(1000, 0, start, time.Now())
	if p.ETA != 0 {
		t.Errorf("ETA = %v, want 0 for unknown total", p.ETA)
	}
}

func TestSnapshotCompletedHasNoETA(t *testing.T) {
	start := time.Now().Add(-time.Second)
	p := snapshot(1000, 1000, start, time.Now())
	if p.ETA != 0 {
		t.Errorf("ETA = %v, want 0 when transfer is done", p.ETA)
	}
}
