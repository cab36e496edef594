package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/exitcodes"
	"github.com/nexcart/nexcart-installer/internal/release"
	"github.com/nexcart/nexcart-installer/internal/ui"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// latestCheck stores the result of the background release check
var (
	latestCheck   *release.CacheEntry
	latestCheckMu sync.Mutex
)

// rootCmd wires the CLI surface using Cobra. Persistent flags are applied
// to a loaded config in loadCfg(). Subcommands implement the actual
// operations (install, upgrade, status, uninstall, doctor, logs).
var rootCmd = &cobra.Command{
	Use:           "nexcart-installer",
	Short:         "NexCart Installer",
	Long:          "Install, upgrade, and maintain a NexCart storefront: release discovery, download, validation, and upgrade handoff.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			os.Setenv("NO_COLOR", "1")
		}
		// Background release check (non-blocking); skipped for commands
		// that install or upgrade, where a notification is disruptive.
		if !skipReleaseCheck(cmd) {
			go checkLatestBackground()
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		latestCheckMu.Lock()
		result := latestCheck
		latestCheckMu.Unlock()
		if skipReleaseCheck(cmd) || result == nil || !result.UpdateAvailable {
			return
		}
		p := getPrinter()
		p.Info(fmt.Sprintf("A newer NexCart release (v%s) is available. Run 'nexcart-installer upgrade' to install it.", result.LatestVersion))
	},
}

var (
	flagHome           string
	flagFeed           string
	flagOutput         string
	flagVerbose        bool
	flagQuiet          bool
	flagNoColor        bool
	flagYes            bool
	flagNonInteractive bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "Installer home directory (overrides env)")
	rootCmd.PersistentFlags().StringVar(&flagFeed, "feed", "", "Release feed URL (overrides env)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: json|yaml|text")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode: minimal output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Assume yes for all prompts")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "Fail instead of prompting")

	// Replace root help to present grouped, example-rich output.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			fmt.Fprintln(os.Stdout, cmd.UsageString())
			return
		}
		c := ui.NewColorConfig()
		c.Enabled = c.Enabled && !flagNoColor
		w := os.Stdout
		const cmdWidth = 24

		fmt.Fprintln(w, c.Header(" NexCart Installer "))
		fmt.Fprintln(w, c.Muted("Install, upgrade, and maintain a NexCart storefront."))
		fmt.Fprintln(w, c.Separator(50))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("USAGE"))
		fmt.Fprintf(w, "  nexcart-installer <command> [flags]\n\n")

		fmt.Fprintln(w, c.SubHeader("Setup"))
		fmt.Fprintln(w, c.FormatCommandAligned("install", "Install the storefront application", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("upgrade", "Upgrade an existing installation", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("reconfigure", "Update installation settings", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("uninstall", "Remove the installation record", cmdWidth))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("Inspection"))
		fmt.Fprintln(w, c.FormatCommandAligned("status", "Show installation state", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("doctor", "Run environment checks", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("logs", "Show the installer log", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("version", "Show installer version", cmdWidth))
		fmt.Fprintln(w)
	})
}

// skipReleaseCheck reports whether the background release check should be
// suppressed for this command.
func skipReleaseCheck(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "install", "upgrade", "apply-upgrade", "reconfigure", "uninstall", "help", "version":
		return true
	}
	return false
}

// checkLatestBackground refreshes the release check cache if stale and
// records the result for the post-run notification.
func checkLatestBackground() {
	cfg := loadCfg()

	if entry, err := release.LoadCache(cfg.HomeDir, cfg.FeedURL); err == nil && release.IsCacheValid(entry) {
		latestCheckMu.Lock()
		latestCheck = entry
		latestCheckMu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := release.New(cfg.FeedURL)
	releases, err := client.FetchReleases(ctx)
	if err != nil {
		return // background check failures are silent
	}
	rel, ok := release.SelectRelease(releases, release.PolicyPublishDate)
	if !ok {
		return
	}

	store := newQuietStore(cfg)
	current := ""
	if info, installed := store.GetInstallationInfo(); installed {
		current = info.Version
	}
	entry := &release.CacheEntry{
		CheckedAt:       time.Now(),
		LatestVersion:   rel.Version(),
		UpdateAvailable: current != "" && release.IsNewer(current, rel.TagName),
	}
	_ = release.SaveCache(cfg.HomeDir, cfg.FeedURL, entry)

	latestCheckMu.Lock()
	latestCheck = entry
	latestCheckMu.Unlock()
}

// Execute runs the root command and maps errors to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		getPrinter().Error(err.Error())
		exitcodes.Exit(exitcodes.CodeForError(err))
	}
}
