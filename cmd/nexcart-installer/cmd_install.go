package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/orchestrator"
	"github.com/nexcart/nexcart-installer/internal/release"
)

func init() {
	var (
		version    string
		assetName  string
		pattern    string
		installDir string
		policy     string
		useTUI     bool
		eventsAddr string
	)

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the NexCart storefront",
		Long: `Download and install the NexCart storefront application.

The installer resolves a release from the feed, downloads the package
asset, unpacks it, and records the installed version. On a machine with
an existing installation, use 'upgrade' instead.

Examples:
  nexcart-installer install                      # Latest release
  nexcart-installer install --version v2.0.0     # Specific release
  nexcart-installer install --asset App-2.0.0.zip
  nexcart-installer install --tui                # Interactive monitor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			if installDir != "" {
				cfg.InstallDir = installDir
			}
			pol, err := release.ParsePolicy(policy)
			if err != nil {
				return err
			}
			if pattern == "" {
				pattern = cfg.AssetPattern
			}

			opts := orchestrator.Options{
				TargetVersion: version,
				AssetName:     assetName,
				AssetPattern:  pattern,
				InstallDir:    cfg.InstallDir,
				Policy:        pol,
				RequireFresh:  true,
			}

			res, err := runPipeline(cfg, opts, useTUI, eventsAddr)
			if err != nil {
				return err
			}
			p := getPrinter()
			switch flagOutput {
			case "json":
				p.JSON(res)
			case "yaml":
				p.YAML(res)
			default:
				p.Success(fmt.Sprintf("NexCart v%s installed at %s", res.Version, cfg.InstallDir))
			}
			return nil
		},
	}

	installCmd.Flags().StringVar(&version, "version", "", "Install a specific release tag (e.g., v2.0.0)")
	installCmd.Flags().StringVar(&assetName, "asset", "", "Exact package asset name (case-insensitive)")
	installCmd.Flags().StringVar(&pattern, "pattern", "", "Wildcard pattern for the package asset (default from config)")
	installCmd.Flags().StringVar(&installDir, "dir", "", "Install directory (overrides config)")
	installCmd.Flags().StringVar(&policy, "policy", "", "Release selection policy: publish-date|semver")
	installCmd.Flags().BoolVar(&useTUI, "tui", false, "Show the interactive install monitor")
	installCmd.Flags().StringVar(&eventsAddr, "events", "", "Serve progress events on a local address (e.g., 127.0.0.1:8999)")

	rootCmd.AddCommand(installCmd)
}
