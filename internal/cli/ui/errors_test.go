package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatError_IncludesAllSections(t *testing.T) {
	got := FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "ENTRY PACKAGE NOT FOUND: ./cmd/app",
		Problem:      "Cannot load package './cmd/app'.",
		Suggestions:  []string{"./cmd/api"},
		HelpCommands: []string{"Get help: mirror generate --help"},
		NoColor:      true,
	})

	for _, want := range []string{
		"ENTRY PACKAGE NOT FOUND: ./cmd/app",
		"Cannot load package './cmd/app'.",
		"Did you mean: ./cmd/api?",
		"→ Get help: mirror generate --help",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatError() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatError_OmitsEmptySections(t *testing.T) {
	got := FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Context: "SKIPPED PACKAGE",
		NoColor: true,
	})

	if strings.Contains(got, "Did you mean") {
		t.Error("suggestions section rendered with no suggestions")
	}
	if strings.Contains(got, "→") {
		t.Error("help section rendered with no help commands")
	}
}

func TestPrintError_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, ErrorOptions{
		Level:   ErrorLevelInfo,
		Context: "NOTHING TO DO",
		NoColor: true,
	})

	if !strings.Contains(buf.String(), "NOTHING TO DO") {
		t.Errorf("PrintError() wrote %q", buf.String())
	}
}
