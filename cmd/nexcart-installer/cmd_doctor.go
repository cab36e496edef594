package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/preflight"
)

func init() {
	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check whether this machine can host an installation",
		Long: `Run preflight checks against the install directory: free disk space,
available memory and basic platform information.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			p := getPrinter()

			checks := preflight.Report(cfg.InstallDir, 0)

			switch flagOutput {
			case "json":
				p.JSON(checks)
				return nil
			case "yaml":
				p.YAML(checks)
				return nil
			case "text", "":
				allOK := true
				for _, c := range checks {
					if c.OK {
						p.Success(fmt.Sprintf("%s: %s", c.Name, c.Detail))
					} else {
						allOK = false
						p.Error(fmt.Sprintf("%s: %s", c.Name, c.Detail))
					}
				}
				if !allOK {
					return fmt.Errorf("one or more preflight checks failed")
				}
				return nil
			default:
				return fmt.Errorf("invalid output format: %s (use text, json, or yaml)", flagOutput)
			}
		},
	}

	rootCmd.AddCommand(doctorCmd)
}
