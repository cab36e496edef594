package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show installer version",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := getPrinter()

			v := struct {
				Version   string `json:"version" yaml:"version"`
				Commit    string `json:"commit" yaml:"commit"`
				BuildDate string `json:"build_date" yaml:"build_date"`
				GoVersion string `json:"go_version" yaml:"go_version"`
				Platform  string `json:"platform" yaml:"platform"`
			}{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			switch flagOutput {
			case "json":
				p.JSON(v)
				return nil
			case "yaml":
				p.YAML(v)
				return nil
			default:
				p.Textf("nexcart-installer %s\n", v.Version)
				p.Textf("  commit:     %s\n", v.Commit)
				p.Textf("  built:      %s\n", v.BuildDate)
				p.Textf("  go version: %s\n", v.GoVersion)
				p.Textf("  platform:   %s\n", v.Platform)
				return nil
			}
		},
	}

	rootCmd.AddCommand(versionCmd)
}
