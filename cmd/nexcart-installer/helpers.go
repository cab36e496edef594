package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nexcart/nexcart-installer/internal/config"
	"github.com/nexcart/nexcart-installer/internal/ui"
)

// loadCfg merges env-derived config with persistent flag overrides.
func loadCfg() config.Config {
	cfg := config.Load()
	if flagHome != "" {
		cfg.HomeDir = flagHome
	}
	if flagFeed != "" {
		cfg.FeedURL = flagFeed
	}
	return cfg
}

func getPrinter() ui.Printer {
	return ui.NewPrinter(flagOutput)
}

// Prompter abstracts interactive terminal I/O for testability.
type Prompter interface {
	// ReadLine displays the prompt and reads a line of input.
	ReadLine(prompt string) (string, error)
	// IsInteractive returns whether the terminal supports interactive input.
	IsInteractive() bool
}

// ttyPrompter is the production implementation of Prompter.
// It uses /dev/tty when stdin is not a terminal (e.g., piped input).
type ttyPrompter struct{}

func (p *ttyPrompter) ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)

	var reader *bufio.Reader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		reader = bufio.NewReader(os.Stdin)
	} else {
		tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			return "", fmt.Errorf("no interactive terminal available: %w", err)
		}
		defer tty.Close()
		reader = bufio.NewReader(tty)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *ttyPrompter) IsInteractive() bool {
	if flagNonInteractive {
		return false
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err == nil {
		tty.Close()
		return true
	}
	return false
}

// confirm prompts for a yes/no answer, honoring --yes and --non-interactive.
func confirm(prompter Prompter, prompt string) bool {
	if flagYes {
		return true
	}
	if !prompter.IsInteractive() {
		return false
	}
	response, err := prompter.ReadLine(prompt)
	if err != nil {
		return false
	}
	response = strings.ToLower(response)
	return response == "" || response == "y" || response == "yes"
}
