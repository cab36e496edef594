package preflight

import (
	"path/filepath"
	"testing"
)

func TestCheckDiskSmallAsset(t *testing.T) {
	if err := CheckDisk(t.TempDir(), 1024); err != nil {
		t.Errorf("CheckDisk for 1KiB asset: %v", err)
	}
}

func TestCheckDiskImpossibleAsset(t *testing.T) {
	// An exabyte-scale asset cannot fit anywhere this test runs.
	if err := CheckDisk(t.TempDir(), 1<<60); err == nil {
		t.Error("expected insufficient disk space error")
	}
}

func TestCheckDiskNonexistentPath(t *testing.T) {
	// The install dir does not exist yet; the check walks up to a parent
	// that does.
	path := filepath.Join(t.TempDir(), "not", "yet", "created")
	if err := CheckDisk(path, 1024); err != nil {
		t.Errorf("CheckDisk on uncreated dir: %v", err)
	}
}

func TestNearestExisting(t *testing.T) {
	dir := t.TempDir()
	got := nearestExisting(filepath.Join(dir, "a", "b", "c"))
	if got != dir {
		t.Errorf("nearestExisting = %q, want %q", got, dir)
	}
	if got := nearestExisting(dir); got != dir {
		t.Errorf("nearestExisting of existing dir = %q", got)
	}
}

func TestReport(t *testing.T) {
	checks := Report(t.TempDir(), 1024)
	if len(checks) != 3 {
		t.Fatalf("got %d checks, want 3", len(checks))
	}
	names := map[string]bool{}
	for _, c := range checks {
		names[c.Name] = true
		if c.Detail == "" {
			t.Errorf("check %q has empty detail", c.Name)
		}
	}
	for _, want := range []string{"disk space", "memory", "platform"} {
		if !names[want] {
			t.Errorf("missing check %q", want)
		}
	}
}
