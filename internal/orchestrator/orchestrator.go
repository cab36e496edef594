// Package orchestrator sequences the install/upgrade pipeline: detect
// installation state, resolve a release, validate, download, then apply or
// hand off to the upgrade process. Detection happens-before validation,
// which happens-before the destructive download/commit steps; that
// ordering is the safety property of the whole pipeline.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nexcart/nexcart-installer/internal/download"
	"github.com/nexcart/nexcart-installer/internal/events"
	"github.com/nexcart/nexcart-installer/internal/exitcodes"
	"github.com/nexcart/nexcart-installer/internal/handoff"
	"github.com/nexcart/nexcart-installer/internal/logging"
	"github.com/nexcart/nexcart-installer/internal/release"
	"github.com/nexcart/nexcart-installer/internal/statestore"
	"github.com/nexcart/nexcart-installer/internal/upgrade"
)

// State names one step of a pipeline run.
type State string

const (
	StateDetecting     State = "detecting"
	StateFreshInstall  State = "fresh-install"
	StateUpgrading     State = "upgrading"
	StateReconfiguring State = "reconfiguring"
	StateValidating    State = "validating"
	StateDownloading   State = "downloading"
	StateApplying      State = "applying"
	StateHandingOff    State = "handing-off"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

// Catalog resolves releases from the remote feed.
type Catalog interface {
	FetchReleases(ctx context.Context) ([]release.Release, error)
	FetchReleaseByTag(ctx context.Context, tag string) (*release.Release, error)
}

// Downloader streams an asset to disk with progress snapshots.
type Downloader interface {
	Download(ctx context.Context, url, destPath string, onProgress download.ProgressFunc) error
}

// Validator gates the upgrade branch.
type Validator interface {
	Validate(currentVersion string, target *release.Release) upgrade.ValidationResult
}

// StateStore is the single source of truth for "is this installed".
// It is touched exactly twice per run: read at detection, write at commit.
type StateStore interface {
	GetInstallationInfo() (statestore.InstallationInfo, bool)
	SaveInstallationInfo(version, path string) bool
	RemoveInstallationInfo() bool
}

// Launcher starts the independently-running upgrade process.
type Launcher interface {
	Launch(args []string) error
}

// Applier backs up and unpacks the storefront package.
type Applier interface {
	Backup(installDir string) (string, error)
	Apply(packagePath, installDir string) error
}

// Deps holds injectable collaborators for a pipeline run.
type Deps struct {
	Store      StateStore
	Catalog    Catalog
	Downloader Downloader
	Validator  Validator
	Launcher   Launcher
	Applier    Applier
	CheckDisk  func(path string, assetSize int64) error // optional
	Log        *log.Logger                              // optional
	Events     *events.Hub                              // optional
}

// Options configures one run.
type Options struct {
	TargetVersion string // specific tag; empty = policy selection
	AssetName     string // exact asset name; takes precedence over pattern
	AssetPattern  string // wildcard pattern when AssetName is empty
	InstallDir    string
	Policy        release.SelectionPolicy
	Reconfigure   bool // settings-only change, no download
	SelfApply     bool // apply in-process instead of handing off (upgrade process mode)
	Force         bool // proceed past validation rejections (reinstall same version)

	// Branch expectations. The caller chooses the install vs upgrade flow
	// explicitly; detection verifies the expectation instead of guessing.
	RequireFresh     bool // fail unless no installation exists
	RequireInstalled bool // fail unless an installation exists

	// Handoff identity for the upgrade process.
	SiteName string
	DBServer string
	DBName   string

	OnProgress download.ProgressFunc
	OnState    func(state State, detail string)
}

// Result reports the terminal outcome of a run.
type Result struct {
	State           State    `json:"state" yaml:"state"`
	Version         string   `json:"version,omitempty" yaml:"version,omitempty"`
	Message         string   `json:"message,omitempty" yaml:"message,omitempty"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	BreakingChanges []string `json:"breaking_changes,omitempty" yaml:"breaking_changes,omitempty"`
	HandedOff       bool     `json:"handed_off,omitempty" yaml:"handed_off,omitempty"`
	BackupPath      string   `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
}

type run struct {
	deps Deps
	opts Options
	log  *log.Logger
}

func (r *run) setState(s State, detail string) {
	r.log.Info("state", "state", string(s), "detail", detail)
	if r.opts.OnState != nil {
		r.opts.OnState(s, detail)
	}
	if r.deps.Events != nil {
		r.deps.Events.Publish(events.Event{Type: "state", State: string(s), Message: detail})
	}
}

func (r *run) progress(p download.Progress) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(p)
	}
	if r.deps.Events != nil {
		r.deps.Events.Publish(events.Event{
			Type:     "progress",
			Received: p.Received,
			Total:    p.Total,
			Percent:  p.Percent(),
			Speed:    p.Speed,
		})
	}
}

func (r *run) fail(res *Result, err error) (*Result, error) {
	res.State = StateFailed
	res.Message = err.Error()
	r.setState(StateFailed, err.Error())
	return res, err
}

// Run executes the pipeline. The returned Result is non-nil even on
// failure; the error carries the exit-code classification.
func Run(ctx context.Context, deps Deps, opts Options) (*Result, error) {
	logger := deps.Log
	if logger == nil {
		logger = logging.Discard()
	}
	r := &run{deps: deps, opts: opts, log: logger}
	res := &Result{}

	// Detection: the one read of the state store.
	r.setState(StateDetecting, "")
	info, installed := deps.Store.GetInstallationInfo()

	if opts.Reconfigure {
		return r.reconfigure(res, info, installed)
	}

	if opts.RequireFresh && installed {
		return r.fail(res, exitcodes.PreconditionErrorf(
			"already installed (v%s at %s); run 'nexcart-installer upgrade' instead", info.Version, info.InstallPath))
	}
	if opts.RequireInstalled && !installed {
		return r.fail(res, exitcodes.PreconditionError(
			"no existing installation detected; run 'nexcart-installer install' instead"))
	}

	if installed {
		r.setState(StateUpgrading, "installed version "+info.Version)
	} else {
		r.setState(StateFreshInstall, "no existing installation detected")
	}

	// Resolve the target release. A fetch failure is transient: nothing
	// has been mutated and the run is safe to retry.
	rel, err := r.resolveRelease(ctx)
	if err != nil {
		return r.fail(res, err)
	}
	res.Version = rel.Version()

	// Validation gates every destructive step on the upgrade branch.
	if installed {
		r.setState(StateValidating, "target v"+rel.Version())
		v := deps.Validator.Validate(info.Version, rel)
		if !v.CanProceed && !opts.Force {
			return r.fail(res, exitcodes.ValidationErr(v.ErrorMessage))
		}
		if v.HasWarnings {
			res.Warnings = append(res.Warnings, v.WarningMessage)
			res.BreakingChanges = v.BreakingChanges
			r.log.Warn(v.WarningMessage)
		}
	}

	asset, err := r.resolveAsset(rel)
	if err != nil {
		return r.fail(res, err)
	}

	installDir := opts.InstallDir
	if installed && info.InstallPath != "" {
		installDir = info.InstallPath
	}

	if deps.CheckDisk != nil {
		if err := deps.CheckDisk(installDir, asset.Size); err != nil {
			return r.fail(res, exitcodes.WrapError(exitcodes.PreconditionFailed, "environment check failed", err))
		}
	}

	// Download to a staging dir. A failure here leaves the state store
	// untouched: the previous installation remains authoritative.
	r.setState(StateDownloading, asset.Name)
	stagingDir, err := os.MkdirTemp("", "nexcart-package-*")
	if err != nil {
		return r.fail(res, fmt.Errorf("create staging dir: %w", err))
	}
	defer os.RemoveAll(stagingDir)

	packagePath := filepath.Join(stagingDir, asset.Name)
	if err := deps.Downloader.Download(ctx, asset.BrowserDownloadURL, packagePath, r.progress); err != nil {
		return r.fail(res, exitcodes.WrapError(exitcodes.NetworkError, "download failed", err))
	}

	// Upgrade path hands the installation context to a second process,
	// which re-runs this pipeline in self-apply mode.
	if installed && !opts.SelfApply {
		r.setState(StateHandingOff, "")
		snap := handoff.ExistingInstallation{
			Version:     info.Version,
			SiteName:    opts.SiteName,
			InstallPath: installDir,
			DBServer:    opts.DBServer,
			DBName:      opts.DBName,
			Healthy:     true,
		}
		args := append([]string{"apply-upgrade"}, snap.Encode()...)
		if err := deps.Launcher.Launch(args); err != nil {
			return r.fail(res, fmt.Errorf("failed to launch upgrade process: %w", err))
		}
		res.State = StateHandingOff
		res.HandedOff = true
		res.Message = "upgrade handed off to a separate process"
		return res, nil
	}

	r.setState(StateApplying, installDir)
	if installed {
		backupPath, err := deps.Applier.Backup(installDir)
		if err != nil {
			return r.fail(res, fmt.Errorf("refusing to touch installation without a backup: %w", err))
		}
		res.BackupPath = backupPath
	}
	if err := deps.Applier.Apply(packagePath, installDir); err != nil {
		return r.fail(res, fmt.Errorf("failed to apply package: %w", err))
	}

	// Commit point: only this write changes the installed version.
	if !deps.Store.SaveInstallationInfo(rel.Version(), installDir) {
		return r.fail(res, fmt.Errorf("failed to record installation state"))
	}

	res.State = StateSucceeded
	res.Message = fmt.Sprintf("installed v%s at %s", rel.Version(), installDir)
	r.setState(StateSucceeded, res.Message)
	return res, nil
}

// reconfigure handles settings-only changes: no release lookup, no
// download, just a re-commit of the persisted record.
func (r *run) reconfigure(res *Result, info statestore.InstallationInfo, installed bool) (*Result, error) {
	if !installed {
		return r.fail(res, exitcodes.PreconditionError("nothing to reconfigure: no existing installation"))
	}
	r.setState(StateReconfiguring, "")
	dir := r.opts.InstallDir
	if dir == "" {
		dir = info.InstallPath
	}
	if !r.deps.Store.SaveInstallationInfo(info.Version, dir) {
		return r.fail(res, fmt.Errorf("failed to record installation state"))
	}
	res.State = StateSucceeded
	res.Version = info.Version
	res.Message = "installation settings updated"
	r.setState(StateSucceeded, res.Message)
	return res, nil
}

func (r *run) resolveRelease(ctx context.Context) (*release.Release, error) {
	if r.opts.TargetVersion != "" {
		rel, err := r.deps.Catalog.FetchReleaseByTag(ctx, r.opts.TargetVersion)
		if err != nil {
			return nil, exitcodes.WrapError(exitcodes.NetworkError, "release lookup failed", err)
		}
		return rel, nil
	}
	releases, err := r.deps.Catalog.FetchReleases(ctx)
	if err != nil {
		return nil, exitcodes.WrapError(exitcodes.NetworkError, "release feed query failed", err)
	}
	rel, ok := release.SelectRelease(releases, r.opts.Policy)
	if !ok {
		return nil, exitcodes.DataErr("no installable release in feed (drafts and prereleases are skipped)")
	}
	return rel, nil
}

func (r *run) resolveAsset(rel *release.Release) (*release.Asset, error) {
	if r.opts.AssetName != "" {
		if a, ok := release.FindAsset(rel, r.opts.AssetName); ok {
			return a, nil
		}
		return nil, exitcodes.DataErrf("asset not found: no asset named %q in release %s", r.opts.AssetName, rel.TagName)
	}
	if a, ok := release.FindAssetByPattern(rel, r.opts.AssetPattern); ok {
		return a, nil
	}
	return nil, exitcodes.DataErrf("asset not found: no asset matching %q in release %s", r.opts.AssetPattern, rel.TagName)
}
