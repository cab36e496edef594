package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nexcart/nexcart-installer/internal/archive"
	"github.com/nexcart/nexcart-installer/internal/config"
	"github.com/nexcart/nexcart-installer/internal/download"
	"github.com/nexcart/nexcart-installer/internal/logging"
	"github.com/nexcart/nexcart-installer/internal/orchestrator"
	"github.com/nexcart/nexcart-installer/internal/preflight"
	"github.com/nexcart/nexcart-installer/internal/release"
	"github.com/nexcart/nexcart-installer/internal/statestore"
	"github.com/nexcart/nexcart-installer/internal/upgrade"
)

// execLauncher starts the upgrade process as a detached instance of this
// binary. The child owns its own lifecycle: the parent exits after handoff.
type execLauncher struct {
	log *log.Logger
}

func (l *execLauncher) Launch(args []string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot locate own executable: %w", err)
	}
	cmd := exec.Command(self, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	l.log.Info("upgrade process launched", "pid", cmd.Process.Pid)
	// Detach: the upgrade process re-runs the pipeline on its own.
	return cmd.Process.Release()
}

// packageApplier unpacks downloaded packages and creates pre-upgrade
// backups under the installer home.
type packageApplier struct {
	homeDir string
	log     *log.Logger
}

func (a *packageApplier) Backup(installDir string) (string, error) {
	if _, err := os.Stat(installDir); os.IsNotExist(err) {
		return "", nil // nothing to back up
	}
	backupDir := filepath.Join(a.homeDir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(backupDir, fmt.Sprintf("nexcart-%s.tar.lz4", time.Now().Format("20060102-150405")))
	if err := archive.Create(installDir, dest); err != nil {
		return "", err
	}
	a.log.Info("backup created", "path", dest)
	return dest, nil
}

func (a *packageApplier) Apply(packagePath, installDir string) error {
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return err
	}
	return archive.Extract(packagePath, installDir, func(current, total int64, name string) {
		a.log.Debug("extracted", "file", name, "current", current)
	})
}

// newQuietStore builds a state store without a logger, for read-only
// lookups in background paths.
func newQuietStore(cfg config.Config) *statestore.Store {
	return statestore.New(statestore.NewFileKV(cfg.StateFile()), nil)
}

// newDeps creates production dependencies for a pipeline run. The returned
// closer flushes the diagnostic log.
func newDeps(cfg config.Config) (orchestrator.Deps, func()) {
	logger, closeLog := logging.Open(cfg.HomeDir, flagVerbose)

	return orchestrator.Deps{
		Store:      statestore.New(statestore.NewFileKV(cfg.StateFile()), logger),
		Catalog:    release.New(cfg.FeedURL),
		Downloader: download.New(),
		Validator:  upgrade.Validator{},
		Launcher:   &execLauncher{log: logger},
		Applier:    &packageApplier{homeDir: cfg.HomeDir, log: logger},
		CheckDisk:  preflight.CheckDisk,
		Log:        logger,
	}, closeLog
}
