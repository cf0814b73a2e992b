// Package output formats command results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode selects when colors are used.
type ColorMode int

const (
	// ColorAuto follows NO_COLOR, TERM and the config file.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to use colors.
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return configColors
	}
}

// Printer writes user-facing messages. Results go to out, diagnostics to err.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter returns a Printer on stdout/stderr.
func NewPrinter(useColors bool) *Printer {
	return NewPrinterTo(os.Stdout, os.Stderr, useColors)
}

// NewPrinterTo returns a Printer on the given writers.
func NewPrinterTo(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out returns the result writer.
func (p *Printer) Out() io.Writer { return p.out }

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints a warning to the diagnostic writer.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error prints an error to the diagnostic writer.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Print prints a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	underline := strings.Repeat("─", len([]rune(title)))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(p.out, "%s\n", underline)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// Field prints an aligned "label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "  %-10s %s\n", label+":", value)
}

// StatusBadge renders a sign's active flag.
func (p *Printer) StatusBadge(active bool) string {
	label := "inactive"
	if active {
		label = "active"
	}
	if !p.useColors {
		return label
	}
	if active {
		return color.GreenString("● " + label)
	}
	return color.RedString("● " + label)
}

// Bold returns text in bold.
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}
