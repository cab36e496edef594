package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/orchestrator"
)

func init() {
	var installDir string

	reconfigureCmd := &cobra.Command{
		Use:   "reconfigure",
		Short: "Update installation settings without reinstalling",
		Long: `Re-record installation settings for an existing installation.

No release is downloaded and no files change; only the persisted record
is rewritten. Use this after moving the install directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()

			opts := orchestrator.Options{
				Reconfigure: true,
				InstallDir:  installDir,
			}
			res, err := runPipeline(cfg, opts, false, "")
			if err != nil {
				return err
			}
			getPrinter().Success(fmt.Sprintf("Settings updated for v%s", res.Version))
			return nil
		},
	}
	reconfigureCmd.Flags().StringVar(&installDir, "dir", "", "New install directory to record")

	rootCmd.AddCommand(reconfigureCmd)
}
