package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexcart/nexcart-installer/internal/config"
	"github.com/nexcart/nexcart-installer/internal/download"
	"github.com/nexcart/nexcart-installer/internal/events"
	"github.com/nexcart/nexcart-installer/internal/orchestrator"
	"github.com/nexcart/nexcart-installer/internal/ui"
)

// runPipeline executes an orchestration run with either plain terminal
// output or the interactive monitor. Ctrl+C cancels the run cooperatively;
// the download manager removes any partial artifact before exiting.
func runPipeline(cfg config.Config, opts orchestrator.Options, useTUI bool, eventsAddr string) (*orchestrator.Result, error) {
	deps, closeLog := newDeps(cfg)
	defer closeLog()

	if eventsAddr != "" {
		hub := events.NewHub()
		ln, err := events.Serve(eventsAddr, hub)
		if err != nil {
			return nil, fmt.Errorf("cannot serve progress events on %s: %w", eventsAddr, err)
		}
		defer ln.Close()
		deps.Events = hub
		getPrinter().Info(fmt.Sprintf("Progress events at ws://%s/events", ln.Addr()))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if useTUI {
		return runWithMonitor(ctx, cancel, deps, opts)
	}
	return runPlain(ctx, deps, opts)
}

func runPlain(ctx context.Context, deps orchestrator.Deps, opts orchestrator.Options) (*orchestrator.Result, error) {
	p := getPrinter()
	bar := ui.NewProgressBar(os.Stdout)
	downloading := false

	opts.OnState = func(state orchestrator.State, detail string) {
		if downloading {
			bar.Finish()
			downloading = false
		}
		if flagQuiet {
			return
		}
		switch state {
		case orchestrator.StateDownloading:
			downloading = true
			p.Info("Downloading " + detail + "...")
		case orchestrator.StateValidating:
			p.Info("Validating upgrade (" + detail + ")...")
		case orchestrator.StateHandingOff:
			p.Info("Handing off to upgrade process...")
		case orchestrator.StateApplying:
			p.Info("Installing to " + detail + "...")
		}
	}
	opts.OnProgress = func(prog download.Progress) {
		if !flagQuiet {
			bar.Update(prog)
		}
	}

	res, err := orchestrator.Run(ctx, deps, opts)
	if downloading {
		bar.Finish()
	}
	if res != nil {
		for _, w := range res.Warnings {
			p.Warn(w)
		}
		for _, b := range res.BreakingChanges {
			p.Warn("breaking change: " + b)
		}
	}
	return res, err
}

func runWithMonitor(ctx context.Context, cancel context.CancelFunc, deps orchestrator.Deps, opts orchestrator.Options) (*orchestrator.Result, error) {
	mon := ui.NewMonitor(cancel)

	opts.OnState = func(state orchestrator.State, detail string) {
		mon.SetPhase(string(state), detail)
	}
	opts.OnProgress = mon.Progress

	var (
		res    *orchestrator.Result
		runErr error
	)
	go func() {
		res, runErr = orchestrator.Run(ctx, deps, opts)
		if res != nil {
			for _, w := range res.Warnings {
				mon.Warn(w)
			}
		}
		mon.Done(runErr)
	}()

	if err := mon.Run(); err != nil {
		return res, err
	}
	return res, runErr
}
