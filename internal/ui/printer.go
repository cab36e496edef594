package ui

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Printer centralizes output formatting for commands.
// - Respects --output (text|json|yaml)
// - Uses ColorConfig for styling when printing text
// - Provides helpers for common message types
type Printer struct {
	format string
	Colors *ColorConfig
}

func NewPrinter(format string) Printer {
	return Printer{format: format, Colors: NewColorConfig()}
}

// Textf prints formatted text to stdout (always text path).
func (p Printer) Textf(format string, a ...any) { fmt.Printf(format, a...) }

// JSON pretty-prints a JSON value to stdout.
func (p Printer) JSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// YAML prints a YAML value to stdout.
func (p Printer) YAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Print(string(data))
}

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	if p.Colors.EmojiEnabled {
		fmt.Printf("%s %s\n", p.Colors.Success("✓"), msg)
	} else {
		fmt.Printf("%s %s\n", p.Colors.Success("[OK]"), msg)
	}
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	if p.Colors.EmojiEnabled {
		fmt.Println(p.Colors.Info("ℹ"), msg)
	} else {
		fmt.Println(p.Colors.Info("[INFO]"), msg)
	}
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	if p.Colors.EmojiEnabled {
		fmt.Println(p.Colors.Warning("⚠"), msg)
	} else {
		fmt.Println(p.Colors.Warning("[WARN]"), msg)
	}
}

// Error prints an error line to stderr.
func (p Printer) Error(msg string) {
	if p.Colors.EmojiEnabled {
		fmt.Fprintln(os.Stderr, p.Colors.Error("✗"), msg)
	} else {
		fmt.Fprintln(os.Stderr, p.Colors.Error("[ERROR]"), msg)
	}
}
