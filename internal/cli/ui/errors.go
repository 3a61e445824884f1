package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ ENTRY PACKAGE NOT FOUND: ./cmd/app
//	   Cannot load package './cmd/app'.
//
//	   Did you mean: ./cmd/api?
//
//	   → Check the entry path: mirror generate --entry ./...
//	   → Get help: mirror generate --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		b.WriteString(headerColor.Sprintf("%s %s\n", symbol, opts.Context))
	}
	if opts.Problem != "" {
		b.WriteString(bodyColor.Sprintf("   %s\n", opts.Problem))
	}
	if opts.Consequence != "" {
		b.WriteString(bodyColor.Sprintf("   %s\n", opts.Consequence))
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(bodyColor.Sprintf("   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", ")))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, help := range opts.HelpCommands {
			b.WriteString(bodyColor.Sprintf("   → %s\n", help))
		}
	}

	return b.String()
}

// PrintError writes a formatted error message to w
func PrintError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// Success prints a green success line
func Success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ "+format+"\n", args...)
}

// Info prints a neutral informational line
func Info(w io.Writer, format string, args ...any) {
	color.New(color.FgWhite).Fprintf(w, "  "+format+"\n", args...)
}

// Warn prints a yellow warning line
func Warn(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(w, "! "+format+"\n", args...)
}
