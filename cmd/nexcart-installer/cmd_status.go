package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusResult is the serializable installation status.
type statusResult struct {
	Installed   bool   `json:"installed" yaml:"installed"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	InstallPath string `json:"install_path,omitempty" yaml:"install_path,omitempty"`
	InstallDate string `json:"install_date,omitempty" yaml:"install_date,omitempty"`
}

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show installation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			store := newQuietStore(cfg)

			var res statusResult
			if info, ok := store.GetInstallationInfo(); ok {
				res.Installed = true
				res.Version = info.Version
				res.InstallPath = info.InstallPath
				if !info.InstallDate.IsZero() {
					res.InstallDate = info.InstallDate.Format(time.RFC3339)
				}
			}

			p := getPrinter()
			switch flagOutput {
			case "json":
				p.JSON(res)
			case "yaml":
				p.YAML(res)
			case "text", "":
				if !res.Installed {
					p.Info("NexCart is not installed")
					return nil
				}
				if flagQuiet {
					fmt.Printf("installed=true version=%s path=%s\n", res.Version, res.InstallPath)
					return nil
				}
				p.Success(fmt.Sprintf("NexCart v%s", res.Version))
				p.Textf("  Install path: %s\n", res.InstallPath)
				if res.InstallDate != "" {
					p.Textf("  Installed on: %s\n", res.InstallDate)
				}
			default:
				return fmt.Errorf("invalid --output: %s (use json|yaml|text)", flagOutput)
			}
			return nil
		},
	}

	rootCmd.AddCommand(statusCmd)
}
