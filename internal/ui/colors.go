package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal output
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// ColorConfig controls styling of text output. Colors are disabled for
// non-TTY output and when NO_COLOR is set.
type ColorConfig struct {
	Enabled      bool
	EmojiEnabled bool
}

func NewColorConfig() *ColorConfig {
	enabled := term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	return &ColorConfig{Enabled: enabled, EmojiEnabled: enabled}
}

func (c *ColorConfig) wrap(code, s string) string {
	if !c.Enabled {
		return s
	}
	return code + s + Reset
}

func (c *ColorConfig) Success(s string) string { return c.wrap(Green, s) }
func (c *ColorConfig) Warning(s string) string { return c.wrap(Yellow, s) }
func (c *ColorConfig) Error(s string) string   { return c.wrap(Red, s) }
func (c *ColorConfig) Info(s string) string    { return c.wrap(Cyan, s) }

func (c *ColorConfig) Header(s string) string    { return c.wrap(Bold+Magenta, s) }
func (c *ColorConfig) SubHeader(s string) string { return c.wrap(Bold, s) }
func (c *ColorConfig) Muted(s string) string     { return c.wrap(Dim, s) }

// Separator renders a horizontal divider of the given width.
func (c *ColorConfig) Separator(width int) string {
	return c.Muted(strings.Repeat("─", width))
}

// FormatCommandAligned renders "  cmd   description" with the command
// padded to a fixed column for grouped help output.
func (c *ColorConfig) FormatCommandAligned(cmd, desc string, width int) string {
	return fmt.Sprintf("  %s%s", c.wrap(Cyan, padRight(cmd, width)), desc)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
