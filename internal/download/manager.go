// Package download streams release assets to disk with live progress
// telemetry. A failed or cancelled transfer never leaves a partial file at
// the destination that a later step could mistake for a complete one.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

const (
	chunkSize = 32 * 1024
	// Progress callbacks run synchronously on the download flow, so they
	// are rate-limited to keep a UI sink from being flooded.
	progressInterval = 100 * time.Millisecond
	// stallTimeout bounds each chunk read. A connection that goes silent
	// mid-body is a failure, never an indefinite wait.
	stallTimeout = 30 * time.Second
)

// ProgressFunc receives transfer snapshots. It is always called once more
// with the final snapshot after the last byte, regardless of cadence.
type ProgressFunc func(Progress)

// HTTPDoer interface for HTTP requests (allows mocking in tests).
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Manager performs asset downloads. One transfer at a time per
// orchestration run; cancelled transfers restart from zero.
type Manager struct {
	http  HTTPDoer
	stall time.Duration
}

// New creates a Manager whose HTTP client bounds the response header wait
// but places no overall deadline on the body, since package downloads can
// run for a long time; per-chunk progress is bounded by the stall watchdog
// instead.
func New() *Manager {
	return &Manager{
		http: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		stall: stallTimeout,
	}
}

// NewWith creates a Manager with a custom HTTP client (for testing).
func NewWith(h HTTPDoer) *Manager {
	if h == nil {
		return New()
	}
	return &Manager{http: h, stall: stallTimeout}
}

// Download streams url to destPath in fixed-size chunks, invoking
// onProgress at a bounded cadence. Cancellation is cooperative: the
// context is checked at every chunk boundary, and on cancellation or any
// failure the partially-written destination file is removed before the
// error is reported. Each chunk read carries the stall timeout: a peer
// that stops sending mid-body fails the transfer.
func (m *Manager) Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The watchdog cancels the request when no bytes arrive within the
	// stall window; every successful read rearms it.
	var stalled atomic.Bool
	watchdog := time.AfterFunc(m.stall, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "nexcart-installer")

	resp, err := m.http.Do(req)
	if err != nil {
		if stalled.Load() {
			return fmt.Errorf("download stalled: no response within %s", m.stall)
		}
		return fmt.Errorf("failed to download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	watchdog.Reset(m.stall)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0 // unknown
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	cleanup := func() {
		_ = out.Close()
		_ = os.Remove(destPath)
	}

	var received int64
	start := time.Now()
	var lastTick time.Time
	buf := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			cleanup()
			if stalled.Load() {
				return fmt.Errorf("download stalled: no data received for %s", m.stall)
			}
			return fmt.Errorf("download cancelled: %w", err)
		}

		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			watchdog.Reset(m.stall)
			if _, werr := out.Write(buf[:n]); werr != nil {
				cleanup()
				return fmt.Errorf("failed to write download: %w", werr)
			}
			received += int64(n)

			if onProgress != nil {
				now := time.Now()
				if now.Sub(lastTick) >= progressInterval {
					lastTick = now
					onProgress(snapshot(received, total, start, now))
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			cleanup()
			if stalled.Load() {
				return fmt.Errorf("download stalled: no data received for %s", m.stall)
			}
			if ctx.Err() != nil {
				return fmt.Errorf("download cancelled: %w", ctx.Err())
			}
			return fmt.Errorf("download interrupted: %w", rerr)
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("failed to finalize download: %w", err)
	}

	if onProgress != nil {
		onProgress(snapshot(received, total, start, time.Now()))
	}
	return nil
}
