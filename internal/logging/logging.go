// Package logging sets up the installer's diagnostic logger. User-facing
// output goes through internal/ui; this logger records diagnostics that
// should survive a crashed or unattended run.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Discard returns a logger that drops everything. Used as the default
// in components that accept an optional logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Open creates a logger writing to <homeDir>/installer.log, creating the
// directory if needed. With verbose set, entries are mirrored to stderr.
// Returns a close func for the underlying file. If the log file cannot be
// opened the logger degrades to stderr-only rather than failing the run.
func Open(homeDir string, verbose bool) (*log.Logger, func()) {
	var writers []io.Writer
	closer := func() {}

	if err := os.MkdirAll(homeDir, 0o755); err == nil {
		path := filepath.Join(homeDir, "installer.log")
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			writers = append(writers, f)
			closer = func() { _ = f.Close() }
		}
	}
	if verbose || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	logger := log.NewWithOptions(io.MultiWriter(writers...), log.Options{
		ReportTimestamp: true,
		Prefix:          "installer",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closer
}
