package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestDownloadWritesFileAndReportsCompletion(t *testing.T) {
	payload := bytes.Repeat([]byte("nexcart!"), 125000) // 1,000,000 bytes
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "App-2.0.0.zip")
	var last Progress
	err := New().Download(context.Background(), srv.URL, dest, func(p Progress) { last = p })
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("destination has %d bytes, want %d", len(got), len(payload))
	}
	if last.Received != int64(len(payload)) || last.Total != int64(len(payload)) {
		t.Errorf("final snapshot = %d/%d", last.Received, last.Total)
	}
	if last.Percent() != 100 {
		t.Errorf("final Percent = %d, want 100", last.Percent())
	}
	if last.Speed <= 0 {
		t.Errorf("final Speed = %f, want > 0", last.Speed)
	}
}

func TestDownloadCancelledRemovesPartialFile(t *testing.T) {
	// The server drips the body so cancellation lands mid-transfer.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		fl := w.(http.Flusher)
		chunk := make([]byte, 10000)
		for i := 0; i < 100; i++ {
			if _, err := w.Write(chunk); err != nil {
				return
			}
			fl.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "App-2.0.0.zip")
	ctx, cancel := context.WithCancel(context.Background())

	err := New().Download(ctx, srv.URL, dest, func(p Progress) {
		if p.Percent() >= 40 {
			cancel()
		}
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("partial file left at destination after cancel: %v", statErr)
	}
}

func TestDownloadStalledConnectionTimesOut(t *testing.T) {
	// The server sends a prefix of the body, then holds the connection
	// open without sending another byte.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write(make([]byte, 10000))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	m := New()
	m.stall = 200 * time.Millisecond

	dest := filepath.Join(t.TempDir(), "asset.zip")
	start := time.Now()
	err := m.Download(context.Background(), srv.URL, dest, nil)
	if err == nil {
		t.Fatal("expected stall error from a silent connection")
	}
	if !strings.Contains(err.Error(), "stalled") {
		t.Errorf("err = %q, want a stall classification", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("stall took %v to detect", elapsed)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("partial file left at destination after stall")
	}
}

func TestDownloadServerErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.zip")
	err := New().Download(context.Background(), srv.URL, dest, nil)
	if err == nil {
		t.Fatal("expected error on 404")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination must not exist after failed download")
	}
}

func TestDownloadTruncatedBodyRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100000")
		w.Write(make([]byte, 5000))
		w.(http.Flusher).Flush()
		// Hijack and drop the connection to simulate a network failure.
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.zip")
	err := New().Download(context.Background(), srv.URL, dest, nil)
	if err == nil {
		t.Fatal("expected error on truncated body")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination must not exist after interrupted download")
	}
}
