package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/exitcodes"
	"github.com/nexcart/nexcart-installer/internal/handoff"
	"github.com/nexcart/nexcart-installer/internal/orchestrator"
)

func init() {
	// apply-upgrade is the receiving end of the upgrade handoff. It is
	// launched by the installer process with encoded installation context
	// and resumes the pipeline in self-apply mode. Flag parsing is left
	// entirely to the handoff codec: its quoting/short-flag/unknown-token
	// rules differ from cobra's.
	applyCmd := &cobra.Command{
		Use:                "apply-upgrade",
		Short:              "Apply an upgrade handed off by the installer",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := handoff.Decode(args)
			if err != nil {
				// Refusing to guess identity/location fields: report and
				// terminate without attempting any installation action.
				return exitcodes.WrapError(exitcodes.ProtocolError, "invalid upgrade handoff", err)
			}

			cfg := loadCfg()
			cfg.SiteName = inst.SiteName
			cfg.DBServer = inst.DBServer
			cfg.DBName = inst.DBName

			p := getPrinter()
			p.Info(fmt.Sprintf("Resuming upgrade of %q (v%s at %s)", inst.SiteName, inst.Version, inst.InstallPath))

			opts := orchestrator.Options{
				AssetPattern:     cfg.AssetPattern,
				InstallDir:       inst.InstallPath,
				SelfApply:        true,
				RequireInstalled: true,
				SiteName:         inst.SiteName,
				DBServer:         inst.DBServer,
				DBName:           inst.DBName,
			}

			res, err := runPipeline(cfg, opts, false, "")
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Upgraded %q to v%s", inst.SiteName, res.Version))
			return nil
		},
	}

	rootCmd.AddCommand(applyCmd)
}
