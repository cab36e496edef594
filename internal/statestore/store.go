// Package statestore persists the installed version, path, and date of the
// storefront application. It is consulted before every install/upgrade/
// uninstall decision, so every operation degrades instead of failing: a
// broken underlying store reads as "not installed" and the caller picks a
// safe fallback path.
package statestore

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/nexcart/nexcart-installer/internal/logging"
)

// Namespace is the key prefix for all installation state entries.
const Namespace = "software/nexcart"

const (
	keyVersion     = Namespace + "/version"
	keyInstallPath = Namespace + "/install_path"
	keyInstallDate = Namespace + "/install_date"
)

// InstallationInfo is the persisted record of an installation.
type InstallationInfo struct {
	Version     string    `json:"version" yaml:"version"`
	InstallPath string    `json:"install_path" yaml:"install_path"`
	InstallDate time.Time `json:"install_date" yaml:"install_date"`
}

// Store reads and writes installation state on top of a KV hierarchy.
// Methods never return errors; store failures are logged and converted
// to negative/absent results.
type Store struct {
	kv  KV
	log *log.Logger
}

// New creates a Store. logger may be nil.
func New(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{kv: kv, log: logger}
}

// IsInstalled reports whether a version key is present in the namespace.
// Absence of the namespace or the version key means "not installed".
func (s *Store) IsInstalled() bool {
	v, ok, err := s.kv.Get(keyVersion)
	if err != nil {
		s.log.Warn("state store unreadable, treating as not installed", "err", err)
		return false
	}
	return ok && v != ""
}

// GetInstallationInfo returns the persisted record, or absent when the
// store has no entry or cannot be read.
func (s *Store) GetInstallationInfo() (InstallationInfo, bool) {
	version, ok, err := s.kv.Get(keyVersion)
	if err != nil {
		s.log.Warn("state store unreadable", "err", err)
		return InstallationInfo{}, false
	}
	if !ok || version == "" {
		return InstallationInfo{}, false
	}

	info := InstallationInfo{Version: version}
	if path, ok, err := s.kv.Get(keyInstallPath); err == nil && ok {
		info.InstallPath = path
	} else if err != nil {
		s.log.Warn("install path unreadable", "err", err)
	}
	if raw, ok, err := s.kv.Get(keyInstallDate); err == nil && ok {
		if t, perr := time.Parse(time.RFC3339, raw); perr == nil {
			info.InstallDate = t
		} else {
			s.log.Warn("install date malformed, ignoring", "value", raw)
		}
	}
	return info, true
}

// SaveInstallationInfo records version and path with the current time.
// This is the commit point of an install/upgrade run.
func (s *Store) SaveInstallationInfo(version, installPath string) bool {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range []struct{ k, v string }{
		{keyVersion, version},
		{keyInstallPath, installPath},
		{keyInstallDate, now},
	} {
		if err := s.kv.Set(e.k, e.v); err != nil {
			s.log.Error("failed to persist installation state", "key", e.k, "err", err)
			return false
		}
	}
	s.log.Info("installation state committed", "version", version, "path", installPath)
	return true
}

// RemoveInstallationInfo deletes the whole namespace. Removing an
// already-absent record is a success.
func (s *Store) RemoveInstallationInfo() bool {
	if err := s.kv.DeleteTree(Namespace); err != nil {
		s.log.Error("failed to remove installation state", "err", err)
		return false
	}
	return true
}
