package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexcart/nexcart-installer/internal/ui"
)

func init() {
	var follow bool

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show installer logs",
		Long:  `Print the installer log file. Use --follow to stream new lines as they are written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ui.TailLog(ctx, cfg.LogFile(), os.Stdout, follow)
		},
	}
	logsCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines")

	rootCmd.AddCommand(logsCmd)
}
