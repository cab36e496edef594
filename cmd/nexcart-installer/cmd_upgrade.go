package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/exitcodes"
	"github.com/nexcart/nexcart-installer/internal/orchestrator"
	"github.com/nexcart/nexcart-installer/internal/release"
	"github.com/nexcart/nexcart-installer/internal/upgrade"
)

func init() {
	var (
		checkOnly  bool
		force      bool
		version    string
		pattern    string
		policy     string
		selfApply  bool
		useTUI     bool
		eventsAddr string
	)

	upgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade an existing NexCart installation",
		Long: `Check for and install a newer NexCart release.

The upgrade validates the target version against the installed one,
backs up the install directory, and by default hands the installation
context to a separate upgrade process.

Examples:
  nexcart-installer upgrade                # Upgrade to the selected release
  nexcart-installer upgrade --check        # Check only, don't install
  nexcart-installer upgrade --version v2.1.0
  nexcart-installer upgrade --self-apply   # Apply in this process`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			pol, err := release.ParsePolicy(policy)
			if err != nil {
				return err
			}
			if pattern == "" {
				pattern = cfg.AssetPattern
			}

			if checkOnly {
				return runUpgradeCheck(cfg.FeedURL, cfg.HomeDir, version, pol)
			}

			p := getPrinter()
			if !confirm(&ttyPrompter{}, "Upgrade now? [Y/n]: ") {
				p.Warn("Upgrade cancelled")
				return nil
			}

			opts := orchestrator.Options{
				TargetVersion:    version,
				AssetPattern:     pattern,
				InstallDir:       cfg.InstallDir,
				Policy:           pol,
				Force:            force,
				SelfApply:        selfApply,
				RequireInstalled: true,
				SiteName:         cfg.SiteName,
				DBServer:         cfg.DBServer,
				DBName:           cfg.DBName,
			}

			res, err := runPipeline(cfg, opts, useTUI, eventsAddr)
			if err != nil {
				return err
			}
			switch flagOutput {
			case "json":
				p.JSON(res)
			case "yaml":
				p.YAML(res)
			default:
				if res.HandedOff {
					p.Success("Upgrade handed off; the upgrade process will finish the installation")
				} else {
					p.Success(fmt.Sprintf("Upgraded to v%s", res.Version))
					if res.BackupPath != "" {
						p.Info("Previous installation backed up to " + res.BackupPath)
					}
				}
			}
			return nil
		},
	}

	upgradeCmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for a newer release, don't install")
	upgradeCmd.Flags().BoolVar(&force, "force", false, "Proceed past validation rejections (reinstall same version)")
	upgradeCmd.Flags().StringVar(&version, "version", "", "Upgrade to a specific release tag")
	upgradeCmd.Flags().StringVar(&pattern, "pattern", "", "Wildcard pattern for the package asset")
	upgradeCmd.Flags().StringVar(&policy, "policy", "", "Release selection policy: publish-date|semver")
	upgradeCmd.Flags().BoolVar(&selfApply, "self-apply", false, "Apply the upgrade in this process instead of handing off")
	upgradeCmd.Flags().BoolVar(&useTUI, "tui", false, "Show the interactive install monitor")
	upgradeCmd.Flags().StringVar(&eventsAddr, "events", "", "Serve progress events on a local address")

	rootCmd.AddCommand(upgradeCmd)
}

// upgradeCheckResult is the serializable outcome of 'upgrade --check'.
type upgradeCheckResult struct {
	CurrentVersion  string   `json:"current_version" yaml:"current_version"`
	LatestVersion   string   `json:"latest_version" yaml:"latest_version"`
	UpdateAvailable bool     `json:"update_available" yaml:"update_available"`
	Message         string   `json:"message,omitempty" yaml:"message,omitempty"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	BreakingChanges []string `json:"breaking_changes,omitempty" yaml:"breaking_changes,omitempty"`
}

// buildUpgradeCheck validates the target release against the installed
// version and folds the result into report form.
func buildUpgradeCheck(currentVersion string, rel *release.Release) upgradeCheckResult {
	res := upgrade.Validator{}.Validate(currentVersion, rel)
	out := upgradeCheckResult{
		CurrentVersion:  strings.TrimPrefix(currentVersion, "v"),
		LatestVersion:   rel.Version(),
		UpdateAvailable: res.CanProceed,
	}
	if res.CanProceed {
		out.Message = res.Message
	} else {
		out.Message = res.ErrorMessage
	}
	if res.HasWarnings {
		out.Warnings = append(out.Warnings, res.WarningMessage)
		out.BreakingChanges = res.BreakingChanges
	}
	return out
}

// runUpgradeCheck resolves the target release and reports the validation
// outcome without performing any side effects.
func runUpgradeCheck(feedURL, homeDir, version string, pol release.SelectionPolicy) error {
	cfg := loadCfg()
	p := getPrinter()

	store := newQuietStore(cfg)
	info, installed := store.GetInstallationInfo()
	if !installed {
		return exitcodes.PreconditionError("no existing installation detected; run 'nexcart-installer install' instead")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := release.New(feedURL)
	var rel *release.Release
	var err error
	if version != "" {
		rel, err = client.FetchReleaseByTag(ctx, version)
	} else {
		var releases []release.Release
		releases, err = client.FetchReleases(ctx)
		if err == nil {
			var ok bool
			rel, ok = release.SelectRelease(releases, pol)
			if !ok {
				return exitcodes.DataErr("no installable release in feed")
			}
		}
	}
	if err != nil {
		return exitcodes.WrapError(exitcodes.NetworkError, "release check failed", err)
	}

	_ = release.SaveCache(homeDir, feedURL, &release.CacheEntry{
		CheckedAt:       time.Now(),
		LatestVersion:   rel.Version(),
		UpdateAvailable: release.IsNewer(info.Version, rel.TagName),
	})

	check := buildUpgradeCheck(info.Version, rel)
	switch flagOutput {
	case "json":
		p.JSON(check)
		return nil
	case "yaml":
		p.YAML(check)
		return nil
	}

	if !check.UpdateAvailable {
		p.Info(check.Message)
		return nil
	}
	p.Info(fmt.Sprintf("Upgrade available: v%s → v%s", check.CurrentVersion, check.LatestVersion))
	for _, w := range check.Warnings {
		p.Warn(w)
	}
	for _, b := range check.BreakingChanges {
		p.Warn("breaking change: " + b)
	}
	if rel.Body != "" {
		fmt.Println()
		fmt.Println("Changelog:")
		lines := strings.Split(rel.Body, "\n")
		maxLines := 10
		if len(lines) < maxLines {
			maxLines = len(lines)
		}
		for _, line := range lines[:maxLines] {
			fmt.Printf("  %s\n", line)
		}
		if len(lines) > 10 && rel.HTMLURL != "" {
			fmt.Printf("  ... (see %s for full changelog)\n", rel.HTMLURL)
		}
	}
	p.Info("Run 'nexcart-installer upgrade' to install")
	return nil
}
