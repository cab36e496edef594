package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/nexcart/nexcart-installer/internal/download"
)

// ProgressBar renders download.Progress snapshots as a terminal bar with
// transfer statistics. Snapshot arrival is already rate-limited by the
// download manager; the bar adds its own TTY redraw limit on top.
type ProgressBar struct {
	out      io.Writer
	isTTY    bool
	lastDraw time.Time
	lastPct  int // for non-TTY threshold updates
	indent   string
	lastSnap download.Progress
}

// NewProgressBar creates a progress bar writing to out (default stdout).
func NewProgressBar(out io.Writer) *ProgressBar {
	if out == nil {
		out = os.Stdout
	}
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return &ProgressBar{out: out, isTTY: isTTY, lastPct: -1, indent: "  "}
}

// Update redraws the bar from the latest snapshot.
func (b *ProgressBar) Update(p download.Progress) {
	b.lastSnap = p
	if b.isTTY {
		now := time.Now()
		if now.Sub(b.lastDraw) < 100*time.Millisecond && p.Percent() < 100 {
			return
		}
		b.lastDraw = now
		b.renderTTY(p)
		return
	}

	if p.Total <= 0 {
		return // nothing meaningful to print without a total
	}
	// Non-TTY: print at 10% intervals
	threshold := p.Percent() / 10 * 10
	if threshold > b.lastPct {
		b.lastPct = threshold
		fmt.Fprintf(b.out, "%sDownloading... %d%%\n", b.indent, threshold)
	}
}

func (b *ProgressBar) renderTTY(p download.Progress) {
	if p.Total <= 0 {
		fmt.Fprintf(b.out, "\r%sDownloading... %s   %s\033[K",
			b.indent, FormatBytes(p.Received), FormatSpeed(p.Speed))
		return
	}

	width := 80
	if f, ok := b.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	barWidth := width - 56 - len(b.indent)
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 40 {
		barWidth = 40
	}

	pct := p.Percent()
	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	eta := FormatETA(p.ETA)
	if p.Received >= p.Total {
		eta = "0s"
	}
	// \033[K clears to end of line so a shrinking stats block never
	// leaves stale characters behind.
	fmt.Fprintf(b.out, "\r%s[%s] %3d%%   %s/%s   %s   ETA %s\033[K",
		b.indent, bar, pct,
		FormatBytes(p.Received), FormatBytes(p.Total),
		FormatSpeed(p.Speed), eta)
}

// Finish completes the bar and moves to the next line.
func (b *ProgressBar) Finish() {
	if b.isTTY {
		if b.lastSnap.Total > 0 {
			b.renderTTY(b.lastSnap)
		}
		fmt.Fprintln(b.out)
	} else if b.lastSnap.Total > 0 && b.lastPct < 100 {
		fmt.Fprintf(b.out, "%sDownloading... 100%%\n", b.indent)
	}
}
