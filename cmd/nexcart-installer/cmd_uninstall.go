package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/logging"
	"github.com/nexcart/nexcart-installer/internal/statestore"
)

func init() {
	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installation record",
		Long: `Remove the persisted installation state.

Application files and the database are left in place; only the record
that marks the software as installed is deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			logger, closeLog := logging.Open(cfg.HomeDir, flagVerbose)
			defer closeLog()
			store := statestore.New(statestore.NewFileKV(cfg.StateFile()), logger)

			p := getPrinter()
			info, ok := store.GetInstallationInfo()
			if !ok {
				p.Info("NexCart is not installed; nothing to do")
				return nil
			}

			prompt := fmt.Sprintf("Remove installation record for v%s at %s? [Y/n]: ", info.Version, info.InstallPath)
			if !confirm(&ttyPrompter{}, prompt) {
				p.Warn("Uninstall cancelled")
				return nil
			}

			if !store.RemoveInstallationInfo() {
				return fmt.Errorf("failed to remove installation state")
			}
			p.Success("Installation record removed")
			return nil
		},
	}

	rootCmd.AddCommand(uninstallCmd)
}
